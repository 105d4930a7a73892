package devserver

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/quitecodedevelopers/elearn-go/internal/models"
)

type account struct {
	user         models.User
	passwordHash []byte
}

// Store is the devserver's in-memory state. It stands in for the real
// course directory's database, so it stays a zero-setup fixture on purpose.
// Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	courseOrder         []string
	courses             map[string]models.Course
	lecturesByCourse    map[string][]models.Lecture
	lectureByID         map[string]models.Lecture
	assignmentsByCourse map[string][]models.Assignment
	assignmentByID      map[string]models.Assignment

	accounts    map[string]*account
	enrollments map[string]map[string]struct{}
	progress    map[string]map[string]float64
	submissions map[string][]models.Submission
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		courses:             map[string]models.Course{},
		lecturesByCourse:    map[string][]models.Lecture{},
		lectureByID:         map[string]models.Lecture{},
		assignmentsByCourse: map[string][]models.Assignment{},
		assignmentByID:      map[string]models.Assignment{},
		accounts:            map[string]*account{},
		enrollments:         map[string]map[string]struct{}{},
		progress:            map[string]map[string]float64{},
		submissions:         map[string][]models.Submission{},
	}
}

// AddCourse stores a course, assigning an id when absent, and returns it.
func (s *Store) AddCourse(course models.Course) models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	s.courses[course.ID] = course
	s.courseOrder = append(s.courseOrder, course.ID)
	return course
}

// AddLecture stores a lecture under its course and returns it.
func (s *Store) AddLecture(lecture models.Lecture) models.Lecture {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lecture.ID == "" {
		lecture.ID = uuid.NewString()
	}
	s.lectureByID[lecture.ID] = lecture
	s.lecturesByCourse[lecture.CourseID] = append(s.lecturesByCourse[lecture.CourseID], lecture)
	return lecture
}

// AddAssignment stores an assignment under its course and returns it.
func (s *Store) AddAssignment(assignment models.Assignment) models.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	s.assignmentByID[assignment.ID] = assignment
	s.assignmentsByCourse[assignment.CourseID] = append(s.assignmentsByCourse[assignment.CourseID], assignment)
	return assignment
}

// AddUser registers an account with a bcrypt-hashed password.
func (s *Store) AddUser(name, email, role, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{ID: uuid.NewString(), Name: name, Email: email, Role: role}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = &account{user: user, passwordHash: hash}
	return user, nil
}

// Authenticate checks credentials and returns the matching user.
func (s *Store) Authenticate(email, password string) (models.User, bool) {
	s.mu.RLock()
	acc, ok := s.accounts[email]
	s.mu.RUnlock()
	if !ok {
		return models.User{}, false
	}
	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		return models.User{}, false
	}
	return acc.user, true
}

// UserByEmail looks up a registered account.
func (s *Store) UserByEmail(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[email]
	if !ok {
		return models.User{}, false
	}
	return acc.user, true
}

// Courses lists the catalog in insertion order, optionally filtered.
func (s *Store) Courses(filter models.CourseFilter) []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Course, 0, len(s.courseOrder))
	for _, id := range s.courseOrder {
		course := s.courses[id]
		if filter.Title != "" && !strings.Contains(strings.ToLower(course.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(course.Category, filter.Category) {
			continue
		}
		out = append(out, course)
	}
	return out
}

// Course looks up one course.
func (s *Store) Course(id string) (models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[id]
	return course, ok
}

// Lectures lists a course's lectures.
func (s *Store) Lectures(courseID string) []models.Lecture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Lecture{}, s.lecturesByCourse[courseID]...)
}

// Lecture looks up one lecture.
func (s *Store) Lecture(id string) (models.Lecture, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lecture, ok := s.lectureByID[id]
	return lecture, ok
}

// Assignments lists a course's assignments.
func (s *Store) Assignments(courseID string) []models.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Assignment{}, s.assignmentsByCourse[courseID]...)
}

// Assignment looks up one assignment.
func (s *Store) Assignment(id string) (models.Assignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assignment, ok := s.assignmentByID[id]
	return assignment, ok
}

// Enroll adds a course to the user's enrollment set. Re-enrolling is a
// no-op.
func (s *Store) Enroll(email, courseID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[courseID]; !ok {
		return false
	}
	if s.enrollments[email] == nil {
		s.enrollments[email] = map[string]struct{}{}
	}
	s.enrollments[email][courseID] = struct{}{}
	return true
}

// IsEnrolled reports whether the user is enrolled in the course.
func (s *Store) IsEnrolled(email, courseID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.enrollments[email][courseID]
	return ok
}

// EnrolledIDs lists the user's enrolled course ids in catalog order.
func (s *Store) EnrolledIDs(email string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.enrollments[email]))
	for _, id := range s.courseOrder {
		if _, ok := s.enrollments[email][id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Progress returns the user's course-id to percent map.
func (s *Store) Progress(email string) models.ProgressMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := models.ProgressMap{}
	for courseID, percent := range s.progress[email] {
		out[courseID] = percent
	}
	return out
}

// SetProgress stores a completion percentage, keeping the high-water mark:
// a lower value than the stored one is silently accepted as a no-op, so a
// misbehaving client cannot un-complete lectures.
func (s *Store) SetProgress(email, courseID string, percent float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress[email] == nil {
		s.progress[email] = map[string]float64{}
	}
	if current := s.progress[email][courseID]; percent < current {
		return current
	}
	s.progress[email][courseID] = percent
	return percent
}

// SubmissionsFor lists the user's submissions.
func (s *Store) SubmissionsFor(email string) []models.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Submission{}, s.submissions[email]...)
}

// Submit records a deliverable for an assignment, replacing any earlier
// submission for the same assignment.
func (s *Store) Submit(email, assignmentID, submissionURL string) (models.Submission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	assignment, ok := s.assignmentByID[assignmentID]
	if !ok {
		return models.Submission{}, false
	}

	submission := models.Submission{
		ID:            uuid.NewString(),
		AssignmentID:  assignment.ID,
		StudentEmail:  email,
		SubmissionURL: submissionURL,
		Status:        models.SubmissionStatusSubmitted,
		SubmittedAt:   time.Now().UTC(),
	}

	kept := s.submissions[email][:0]
	for _, sub := range s.submissions[email] {
		if sub.AssignmentID != assignmentID {
			kept = append(kept, sub)
		}
	}
	s.submissions[email] = append(kept, submission)
	return submission, true
}

// Grade marks a submission graded with marks and feedback. Only seeding
// uses it; the fixture server exposes no grading route.
func (s *Store) Grade(email, assignmentID string, grade float64, feedback string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.submissions[email] {
		if sub.AssignmentID == assignmentID {
			g := grade
			s.submissions[email][i].Status = models.SubmissionStatusGraded
			s.submissions[email][i].Grade = &g
			s.submissions[email][i].Feedback = feedback
			return true
		}
	}
	return false
}
