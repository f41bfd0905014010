package progression

// ScoringRules holds the product-tunable XP parameters.
type ScoringRules struct {
	XPPerCorrect      int // XP for each correct answer in a chapter quiz
	MasteryMultiplier int // factor applied to XPPerCorrect in mastery exams
}

func DefaultScoringRules() ScoringRules {
	return ScoringRules{
		XPPerCorrect:      15,
		MasteryMultiplier: 2,
	}
}

// AwardXP returns the XP earned for score correct answers.
func (r ScoringRules) AwardXP(score int, mastery bool) int {
	if score <= 0 {
		return 0
	}

	perCorrect := r.XPPerCorrect
	if mastery {
		perCorrect *= r.MasteryMultiplier
	}
	return score * perCorrect
}
