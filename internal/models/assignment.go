package models

import "time"

// Assignment belongs to a course. MaxMarks is a positive number.
type Assignment struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	MaxMarks    float64   `json:"maxMarks"`
}

// Submission statuses as stored by the directory. A missing submission is
// the PENDING-equivalent state; there is no stored PENDING value.
const (
	SubmissionStatusSubmitted = "SUBMITTED"
	SubmissionStatusGraded    = "GRADED"
)

// Submission is a student's link-based deliverable for one assignment.
// Grade is set only once the submission has been graded and satisfies
// 0 <= grade <= the assignment's MaxMarks.
type Submission struct {
	ID            string    `json:"id"`
	AssignmentID  string    `json:"assignmentId"`
	StudentEmail  string    `json:"studentEmail"`
	SubmissionURL string    `json:"submissionUrl"`
	Status        string    `json:"status"`
	Grade         *float64  `json:"grade,omitempty"`
	Feedback      string    `json:"feedback,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt"`
}
