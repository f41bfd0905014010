package service

import (
	"context"
	"errors"
	"sort"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
)

var errStoreDown = errors.New("store down")

type fakeCatalog struct {
	subjects []entities.Subject
	chapters map[int64][]entities.Chapter
}

func (f *fakeCatalog) List(_ context.Context) ([]entities.Subject, error) {
	return f.subjects, nil
}

func (f *fakeCatalog) GetByID(_ context.Context, id int64) (*entities.Subject, error) {
	for i := range f.subjects {
		if f.subjects[i].ID == id {
			s := f.subjects[i]
			return &s, nil
		}
	}
	return nil, errors.New("subject not found")
}

func (f *fakeCatalog) ListChapters(_ context.Context, subjectID int64) ([]entities.Chapter, error) {
	return f.chapters[subjectID], nil
}

type fakeQuestions struct {
	questions []entities.Question
	filters   []entities.QuestionFilter
}

func (f *fakeQuestions) FetchQuestions(_ context.Context, filter entities.QuestionFilter) ([]entities.Question, error) {
	f.filters = append(f.filters, filter)

	var out []entities.Question
	for _, q := range f.questions {
		if q.SubjectID != filter.SubjectID {
			continue
		}
		if !filter.IsMastery() && !containsID(filter.ChapterIDs, q.ChapterID) {
			continue
		}
		out = append(out, q)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// fakeStore records attempts and XP in memory. It mirrors the idempotent
// append of the postgres recorder.
type fakeStore struct {
	attempts []entities.Attempt
	xp       map[int64]int
	failures int // number of Record calls to fail before succeeding
	calls    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{xp: make(map[int64]int)}
}

func (f *fakeStore) Record(_ context.Context, a *entities.Attempt, xp int) (int, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return 0, errStoreDown
	}

	for _, existing := range f.attempts {
		if existing.ID == a.ID {
			return f.xp[a.UserID], nil
		}
	}

	f.attempts = append(f.attempts, *a)
	f.xp[a.UserID] += xp
	return f.xp[a.UserID], nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID int64) ([]entities.Attempt, error) {
	var out []entities.Attempt
	for _, a := range f.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) GetTotalXP(_ context.Context, userID int64) (int, error) {
	return f.xp[userID], nil
}

func (f *fakeStore) Top(_ context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	entries := make([]entities.LeaderboardEntry, 0, len(f.xp))
	for id, xp := range f.xp {
		entries = append(entries, entities.LeaderboardEntry{UserID: id, TotalXP: xp})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalXP != entries[j].TotalXP {
			return entries[i].TotalXP > entries[j].TotalXP
		}
		return entries[i].UserID < entries[j].UserID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries, nil
}
