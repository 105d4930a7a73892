// Package dto holds the display-ready shapes composed from the directory's
// raw collections.
package dto

import "github.com/quitecodedevelopers/elearn-go/internal/models"

// CourseView is a catalog course plus, for enrolled courses only, the
// user's completion percentage.
type CourseView struct {
	models.Course
	Progress *float64 `json:"progress,omitempty"`
}

// Dashboard section names used to key per-section load failures.
const (
	SectionCatalog    = "catalog"
	SectionEnrollment = "enrollment"
	SectionProgress   = "progress"
)

// DashboardView partitions the catalog for the student dashboard. A course
// appears in exactly one of Enrolled or Recommended. SectionErrors carries
// a "could not load" message per failed section instead of failing the
// whole page.
type DashboardView struct {
	Enrolled      []CourseView      `json:"enrolled"`
	Recommended   []CourseView      `json:"recommended"`
	SectionErrors map[string]string `json:"sectionErrors,omitempty"`
}

// AssignmentStatus is the derived, mutually exclusive classification of an
// assignment for the current user.
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "PENDING"
	AssignmentStatusSubmitted AssignmentStatus = "SUBMITTED"
	AssignmentStatusGraded    AssignmentStatus = "GRADED"
)

// AssignmentView is an assignment annotated with its course title, derived
// status and, when present, the user's submission (grade and feedback
// carried through unchanged).
type AssignmentView struct {
	models.Assignment
	CourseTitle string             `json:"courseTitle"`
	Status      AssignmentStatus   `json:"status"`
	Submission  *models.Submission `json:"submission,omitempty"`
}

// AssignmentGroup is one status bucket of the assignments overview,
// preserving the order in which assignments were composed.
type AssignmentGroup struct {
	Status      AssignmentStatus `json:"status"`
	Assignments []AssignmentView `json:"assignments"`
}

// LecturePage is everything the lecture view needs: the lecture itself, its
// course's full ordered lecture list, the user's 1-based position within it
// and the completion state derived from stored progress.
type LecturePage struct {
	Lecture         models.Lecture   `json:"lecture"`
	CourseLectures  []models.Lecture `json:"courseLectures"`
	Position        int              `json:"position"`
	ProgressPercent float64          `json:"progressPercent"`
	Completed       bool             `json:"completed"`
}
