package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/progression"
	"github.com/aliskhannn/uniportal/internal/service"
)

const progressBarLength = 20

var tierEmoji = map[string]string{
	"bronze":   "🥉",
	"silver":   "🥈",
	"gold":     "🥇",
	"platinum": "💠",
	"diamond":  "💎",
	"legend":   "👑",
}

func tierBadge(t entities.RankTier) string {
	if e, ok := tierEmoji[strings.ToLower(t.Name)]; ok {
		return e
	}
	return "🏅"
}

func formatRank(s progression.RankStatus) string {
	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf("%s %s", tierBadge(s.Current), s.Current.Name)))
	sb.WriteString(md(fmt.Sprintf(" · %d XP", s.TotalXP)))
	sb.WriteString("\n")
	sb.WriteString(md(buildProgressBar(s.Progress, progressBarLength)))
	sb.WriteString("\n")

	if s.IsMaxRank() {
		sb.WriteString(md("Top rank reached."))
	} else {
		sb.WriteString(md(fmt.Sprintf("%.1f%% · %d XP to %s", s.Progress, s.XPToNext, s.Next.Name)))
	}
	sb.WriteString("\n")

	return sb.String()
}

func formatDashboard(d *service.Dashboard) string {
	var sb strings.Builder
	s := d.Summary

	sb.WriteString(bold("📊 Your progress"))
	sb.WriteString("\n\n")
	sb.WriteString(formatRank(d.Rank))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("📝 Quizzes taken: %d (mastery: %d)", s.Attempts, s.MasteryAttempts)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("🎯 Accuracy: %d%%", s.Accuracy)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("🌟 Perfect scores: %d", s.PerfectCount)))
	sb.WriteString("\n")
	sb.WriteString(md("⏱ Study time: " + formatDuration(s.StudyTime)))
	sb.WriteString("\n")

	if len(s.WeakSubjects) > 0 {
		sb.WriteString("\n")
		sb.WriteString(formatWeak(s.WeakSubjects))
	}

	return sb.String()
}

func formatWeak(weak []entities.SubjectWeakness) string {
	var sb strings.Builder

	if len(weak) == 0 {
		sb.WriteString(md("💪 No weak subjects. Keep it up!"))
		return sb.String()
	}

	sb.WriteString(bold("🧭 Needs practice"))
	sb.WriteString("\n")
	for _, w := range weak {
		sb.WriteString(md(fmt.Sprintf("%s %s: %.0f%%", w.Icon, w.Title, w.AccuracyPercent)))
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatLeaderboard(entries []entities.LeaderboardEntry) string {
	var sb strings.Builder

	sb.WriteString(bold("🏆 Leaderboard"))
	sb.WriteString("\n\n")
	for _, e := range entries {
		sb.WriteString(md(fmt.Sprintf("%d. %s %s · %d XP", e.Position, tierBadge(e.Tier), e.DisplayName, e.TotalXP)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// buildProgressBar creates ASCII progress bar for a percentage.
func buildProgressBar(percent float64, length int) string {
	filled := int(percent / 100 * float64(length))
	filled = max(0, min(filled, length))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
	return fmt.Sprintf("[%s]", bar)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)

	if h == 0 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%d h %d min", h, m)
}
