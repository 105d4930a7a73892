package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/quitecodedevelopers/elearn-go/internal/dto"
	"github.com/quitecodedevelopers/elearn-go/internal/models"
	"github.com/quitecodedevelopers/elearn-go/internal/session"
	apperr "github.com/quitecodedevelopers/elearn-go/pkg/errors"
	"github.com/quitecodedevelopers/elearn-go/pkg/fanout"
)

type assignmentDirectory interface {
	Assignments(ctx context.Context, courseID string) ([]models.Assignment, error)
	Assignment(ctx context.Context, id string) (*models.Assignment, error)
	Course(ctx context.Context, id string) (*models.Course, error)
	MySubmissions(ctx context.Context) ([]models.Submission, error)
	SubmitAssignment(ctx context.Context, assignmentID, submissionURL string) (*models.Submission, error)
}

// SubmitRequest is the validated payload for an assignment submission.
type SubmitRequest struct {
	AssignmentID  string `json:"assignmentId" validate:"required"`
	SubmissionURL string `json:"submissionUrl" validate:"required,url"`
}

// AssignmentService cross-references enrolled courses, their assignments
// and the student's submissions into statused assignment views.
type AssignmentService struct {
	dir        assignmentDirectory
	enrollment enrollmentResolver
	session    session.Provider
	validator  *validator.Validate
	logger     *zap.Logger
	latest     fanout.Latest
}

// NewAssignmentService constructs AssignmentService.
func NewAssignmentService(dir assignmentDirectory, enrollment enrollmentResolver, sess session.Provider, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{dir: dir, enrollment: enrollment, session: sess, validator: validate, logger: logger}
}

// ComposeStatuses classifies every assignment under the enrolled courses.
// Pure function. Status is PENDING when no submission exists for the
// assignment, SUBMITTED when one exists but is not graded, GRADED when it
// is; the three are mutually exclusive and exhaustive. Output preserves the
// iteration order of courses and, within a course, of its assignments.
func ComposeStatuses(enrolledCourseIDs []string, assignmentsByCourse map[string][]models.Assignment, submissionsByAssignment map[string]models.Submission) []dto.AssignmentView {
	views := make([]dto.AssignmentView, 0)

	for _, courseID := range enrolledCourseIDs {
		for _, assignment := range assignmentsByCourse[courseID] {
			view := dto.AssignmentView{Assignment: assignment, Status: dto.AssignmentStatusPending}
			if sub, ok := submissionsByAssignment[assignment.ID]; ok {
				s := sub
				view.Submission = &s
				if sub.Status == models.SubmissionStatusGraded {
					view.Status = dto.AssignmentStatusGraded
				} else {
					view.Status = dto.AssignmentStatusSubmitted
				}
			}
			views = append(views, view)
		}
	}
	return views
}

// GroupByStatus buckets views by status in display order (PENDING,
// SUBMITTED, GRADED), preserving relative order within each bucket. Empty
// buckets are omitted.
func GroupByStatus(views []dto.AssignmentView) []dto.AssignmentGroup {
	order := []dto.AssignmentStatus{
		dto.AssignmentStatusPending,
		dto.AssignmentStatusSubmitted,
		dto.AssignmentStatusGraded,
	}

	buckets := make(map[dto.AssignmentStatus][]dto.AssignmentView, len(order))
	for _, view := range views {
		buckets[view.Status] = append(buckets[view.Status], view)
	}

	groups := make([]dto.AssignmentGroup, 0, len(order))
	for _, status := range order {
		if len(buckets[status]) == 0 {
			continue
		}
		groups = append(groups, dto.AssignmentGroup{Status: status, Assignments: buckets[status]})
	}
	return groups
}

type courseAssignments struct {
	title       string
	assignments []models.Assignment
}

// Overview assembles the full assignments view for the current user: one
// assignment fetch per enrolled course, fanned out and settled
// independently, so a single failing course degrades to an empty list
// instead of aborting the composition.
func (s *AssignmentService) Overview(ctx context.Context) ([]dto.AssignmentView, error) {
	set, err := s.enrollment.ResolveEnrollment(ctx)
	if err != nil {
		return nil, apperr.FromError(err)
	}
	if set.Len() == 0 {
		return []dto.AssignmentView{}, nil
	}

	submissions, err := s.dir.MySubmissions(ctx)
	if err != nil {
		return nil, apperr.FromError(err)
	}
	// The client delivers submissions ordered by submission time, so when
	// the store holds more than one per assignment the most recent wins.
	submissionsByAssignment := make(map[string]models.Submission, len(submissions))
	for _, sub := range submissions {
		submissionsByAssignment[sub.AssignmentID] = sub
	}

	courseIDs := set.IDs()
	results := fanout.Map(ctx, courseIDs, func(ctx context.Context, courseID string) (courseAssignments, error) {
		ca := courseAssignments{title: courseID}
		if course, err := s.dir.Course(ctx, courseID); err == nil {
			ca.title = course.Title
		}
		assignments, err := s.dir.Assignments(ctx, courseID)
		if err != nil {
			return ca, err
		}
		ca.assignments = assignments
		return ca, nil
	})

	assignmentsByCourse := make(map[string][]models.Assignment, len(results))
	titles := make(map[string]string, len(results))
	for _, res := range results {
		titles[res.Key] = res.Value.title
		if res.Err != nil {
			s.logger.Warn("assignment fetch failed for course",
				zap.String("course_id", res.Key), zap.Error(res.Err))
			assignmentsByCourse[res.Key] = nil
			continue
		}
		assignmentsByCourse[res.Key] = res.Value.assignments
	}

	views := ComposeStatuses(courseIDs, assignmentsByCourse, submissionsByAssignment)
	for i := range views {
		views[i].CourseTitle = titles[views[i].CourseID]
	}
	return views, nil
}

// LoadOverview runs Overview under the latest-wins guard; see
// CourseViewService.LoadDashboard.
func (s *AssignmentService) LoadOverview(ctx context.Context, apply func([]dto.AssignmentView, error)) bool {
	ticket := s.latest.Begin()
	views, err := s.Overview(ctx)
	return s.latest.Commit(ticket, func() { apply(views, err) })
}

// Submit validates and submits a deliverable URL for an assignment.
func (s *AssignmentService) Submit(ctx context.Context, req SubmitRequest) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrValidation.Code, apperr.ErrValidation.Status, "invalid submission payload")
	}
	if _, ok := s.session.Token(); !ok {
		return nil, apperr.Clone(apperr.ErrUnauthorized, "log in to submit")
	}

	submission, err := s.dir.SubmitAssignment(ctx, req.AssignmentID, req.SubmissionURL)
	if err != nil {
		return nil, apperr.FromError(err)
	}
	s.logger.Info("assignment submitted", zap.String("assignment_id", req.AssignmentID))
	return submission, nil
}

// Detail fetches a single assignment together with the user's submission
// for it, statused like the overview entries.
func (s *AssignmentService) Detail(ctx context.Context, assignmentID string) (*dto.AssignmentView, error) {
	assignment, err := s.dir.Assignment(ctx, assignmentID)
	if err != nil {
		return nil, apperr.FromError(err)
	}

	submissions, err := s.dir.MySubmissions(ctx)
	if err != nil {
		return nil, apperr.FromError(err)
	}
	byAssignment := make(map[string]models.Submission, len(submissions))
	for _, sub := range submissions {
		byAssignment[sub.AssignmentID] = sub
	}

	views := ComposeStatuses([]string{assignment.CourseID},
		map[string][]models.Assignment{assignment.CourseID: {*assignment}}, byAssignment)
	return &views[0], nil
}
