package models

// Lecture belongs to a course. OrderIndex is a positive integer, unique
// within the course; it defines both display order and the completion
// threshold ordering.
type Lecture struct {
	ID              string `json:"id"`
	CourseID        string `json:"courseId"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	VideoURL        string `json:"videoUrl"`
	DurationSeconds int    `json:"durationSeconds"`
	OrderIndex      int    `json:"orderIndex"`
}
