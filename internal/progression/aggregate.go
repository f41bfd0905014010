package progression

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
)

// WeaknessPolicy configures the weak-subject heatmap.
type WeaknessPolicy struct {
	Threshold float64 // subjects strictly below this accuracy are weak
	TopN      int     // maximum number of subjects returned
}

func DefaultWeaknessPolicy() WeaknessPolicy {
	return WeaknessPolicy{
		Threshold: 70,
		TopN:      3,
	}
}

// Summary is the dashboard rollup of an attempt history.
type Summary struct {
	Attempts        int
	MasteryAttempts int
	Accuracy        int // rounded percent, 0 for an empty history
	PerfectCount    int
	StudyTime       time.Duration
	WeakSubjects    []entities.SubjectWeakness
}

// Accuracy returns round(100 * Σscore / Σtotal). An empty history yields 0.
func Accuracy(attempts []entities.Attempt) int {
	score, total := 0, 0
	for _, a := range attempts {
		score += a.Score
		total += a.TotalQuestions
	}
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}

// PerfectCount counts attempts where every question was answered correctly.
func PerfectCount(attempts []entities.Attempt) int {
	n := 0
	for i := range attempts {
		if attempts[i].IsPerfect() {
			n++
		}
	}
	return n
}

// MasteryCount counts subject-wide mastery exams.
func MasteryCount(attempts []entities.Attempt) int {
	n := 0
	for _, a := range attempts {
		if a.IsMasteryMode {
			n++
		}
	}
	return n
}

// StudyTime sums the duration of all attempts.
func StudyTime(attempts []entities.Attempt) time.Duration {
	var seconds int
	for _, a := range attempts {
		seconds += a.DurationSeconds
	}
	return time.Duration(seconds) * time.Second
}

// WeakSubjects groups attempts by subject and returns the subjects whose
// accuracy falls below policy.Threshold, worst first, at most policy.TopN.
// Subjects missing from catalog get a generated title.
func WeakSubjects(attempts []entities.Attempt, catalog map[int64]entities.Subject, policy WeaknessPolicy) []entities.SubjectWeakness {
	type tally struct{ score, total int }

	bySubject := make(map[int64]*tally)
	for _, a := range attempts {
		t, ok := bySubject[a.SubjectID]
		if !ok {
			t = &tally{}
			bySubject[a.SubjectID] = t
		}
		t.score += a.Score
		t.total += a.TotalQuestions
	}

	weak := make([]entities.SubjectWeakness, 0, len(bySubject))
	for id, t := range bySubject {
		if t.total <= 0 {
			continue
		}

		acc := 100 * float64(t.score) / float64(t.total)
		if acc >= policy.Threshold {
			continue
		}

		w := entities.SubjectWeakness{
			SubjectID:       id,
			Title:           fmt.Sprintf("Subject #%d", id),
			AccuracyPercent: acc,
		}
		if s, ok := catalog[id]; ok {
			w.Title = s.Title
			w.Icon = s.Icon
		}
		weak = append(weak, w)
	}

	slices.SortFunc(weak, func(a, b entities.SubjectWeakness) int {
		if c := cmp.Compare(a.AccuracyPercent, b.AccuracyPercent); c != 0 {
			return c
		}
		return cmp.Compare(a.SubjectID, b.SubjectID)
	})

	if policy.TopN >= 0 && len(weak) > policy.TopN {
		weak = weak[:policy.TopN]
	}

	return weak
}

// Summarize computes every dashboard aggregate in one call.
func Summarize(attempts []entities.Attempt, catalog map[int64]entities.Subject, policy WeaknessPolicy) Summary {
	return Summary{
		Attempts:        len(attempts),
		MasteryAttempts: MasteryCount(attempts),
		Accuracy:        Accuracy(attempts),
		PerfectCount:    PerfectCount(attempts),
		StudyTime:       StudyTime(attempts),
		WeakSubjects:    WeakSubjects(attempts, catalog, policy),
	}
}
