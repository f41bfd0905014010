package entities

// Subject is a course in the portal catalog.
type Subject struct {
	ID          int64
	Title       string
	Icon        string // emoji shown next to the title
	Description string
}

// Chapter is an ordered module inside a subject.
type Chapter struct {
	ID        int64
	SubjectID int64
	Title     string
	Position  int
}

// SubjectWeakness is a derived, never persisted, entry of the weak-subject
// heatmap.
type SubjectWeakness struct {
	SubjectID       int64
	Title           string
	Icon            string
	AccuracyPercent float64
}
