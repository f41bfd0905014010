package entities

// Question is a single quiz question as served by the question source.
// A question may have several correct options; the student must select
// exactly that set.
type Question struct {
	ID             int64
	SubjectID      int64
	ChapterID      int64
	Text           string
	Options        []string // ordered answer options
	CorrectIndices []int    // indices into Options, may be empty for malformed content
}

// IsMultipleChoice reports whether the question has more than one correct option.
func (q Question) IsMultipleChoice() bool {
	return len(q.CorrectIndices) > 1
}

// QuestionFilter narrows the question pool an attempt is seeded from.
type QuestionFilter struct {
	SubjectID  int64
	ChapterIDs []int64 // empty means every chapter of the subject (mastery exam)
	Limit      int     // 0 means no limit
}

// IsMastery reports whether the filter spans the whole subject.
func (f QuestionFilter) IsMastery() bool {
	return len(f.ChapterIDs) == 0
}
