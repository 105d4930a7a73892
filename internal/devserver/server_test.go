package devserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quitecodedevelopers/elearn-go/internal/directory"
	"github.com/quitecodedevelopers/elearn-go/internal/dto"
	"github.com/quitecodedevelopers/elearn-go/internal/models"
	"github.com/quitecodedevelopers/elearn-go/internal/service"
	"github.com/quitecodedevelopers/elearn-go/internal/session"
	"github.com/quitecodedevelopers/elearn-go/pkg/config"
	apperr "github.com/quitecodedevelopers/elearn-go/pkg/errors"
)

type stack struct {
	srv         *httptest.Server
	sess        *session.Memory
	client      *directory.Client
	enrollment  *service.EnrollmentService
	progress    *service.ProgressService
	courseViews *service.CourseViewService
	lectures    *service.LectureService
	assignments *service.AssignmentService
}

func newStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := NewStore()
	require.NoError(t, Seed(store))

	server := New(config.DevServerConfig{JWTSecret: "test-secret", JWTExpiration: time.Hour}, store, zap.NewNop())
	srv := httptest.NewServer(server.Router())
	t.Cleanup(srv.Close)

	sess := session.NewMemory()
	client := directory.New(directory.Config{BaseURL: srv.URL, Session: sess})

	enrollment := service.NewEnrollmentService(client, sess, zap.NewNop())
	progress := service.NewProgressService(client, sess, zap.NewNop())

	return &stack{
		srv:         srv,
		sess:        sess,
		client:      client,
		enrollment:  enrollment,
		progress:    progress,
		courseViews: service.NewCourseViewService(client, enrollment, progress, zap.NewNop()),
		lectures:    service.NewLectureService(client, enrollment, progress, zap.NewNop()),
		assignments: service.NewAssignmentService(client, enrollment, sess, nil, zap.NewNop()),
	}
}

func (s *stack) login(t *testing.T) {
	t.Helper()
	token, err := s.client.Login(context.Background(), SeedStudentEmail, SeedStudentPassword)
	require.NoError(t, err)
	s.sess.Set(token)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newStack(t)

	_, err := s.client.Login(context.Background(), SeedStudentEmail, "wrong")
	require.Error(t, err)
	assert.Equal(t, 401, apperr.FromError(err).Status)
}

func TestAnonymousDashboardIsAllRecommended(t *testing.T) {
	s := newStack(t)

	view := s.courseViews.Dashboard(context.Background())

	assert.Empty(t, view.Enrolled)
	assert.Len(t, view.Recommended, 3)
	assert.Empty(t, view.SectionErrors)
}

func TestStudentDashboardPartitionsCatalog(t *testing.T) {
	s := newStack(t)
	s.login(t)

	view := s.courseViews.Dashboard(context.Background())

	require.Len(t, view.Enrolled, 1)
	assert.Equal(t, "Go From Scratch", view.Enrolled[0].Title)
	require.NotNil(t, view.Enrolled[0].Progress)
	assert.Equal(t, 25.0, *view.Enrolled[0].Progress)
	assert.Len(t, view.Recommended, 2)
}

func TestLectureGateAndCompletionRoundTrip(t *testing.T) {
	s := newStack(t)
	s.login(t)

	view := s.courseViews.Dashboard(context.Background())
	require.Len(t, view.Enrolled, 1)
	courseID := view.Enrolled[0].ID

	lectures, err := s.lectures.CourseLectures(context.Background(), courseID)
	require.NoError(t, err)
	require.Len(t, lectures, 4)
	assert.Equal(t, 1, lectures[0].OrderIndex)

	// Seeded progress is 25%: lecture 1 completed, lecture 2 not.
	page1, err := s.lectures.LecturePage(context.Background(), lectures[0].ID)
	require.NoError(t, err)
	assert.True(t, page1.Completed)

	page2, err := s.lectures.LecturePage(context.Background(), lectures[1].ID)
	require.NoError(t, err)
	assert.False(t, page2.Completed)
	assert.Equal(t, 2, page2.Position)

	// Finishing lecture 2 moves progress to 50%.
	require.NoError(t, s.lectures.FinishLecture(context.Background(), page2))
	assert.True(t, page2.Completed)
	assert.Equal(t, 50.0, page2.ProgressPercent)

	progress, err := s.progress.ResolveProgress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50.0, progress.Percent(courseID))

	// Finishing lecture 1 again must not regress the stored value.
	page1, err = s.lectures.LecturePage(context.Background(), lectures[0].ID)
	require.NoError(t, err)
	require.NoError(t, s.lectures.FinishLecture(context.Background(), page1))

	progress, err = s.progress.ResolveProgress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50.0, progress.Percent(courseID))
}

func TestLecturesRefusedWithoutEnrollment(t *testing.T) {
	s := newStack(t)
	s.login(t)

	view := s.courseViews.Dashboard(context.Background())
	require.NotEmpty(t, view.Recommended)

	_, err := s.lectures.CourseLectures(context.Background(), view.Recommended[0].ID)
	assert.ErrorIs(t, err, apperr.ErrNotEnrolled)

	// The fixture server refuses too, should a caller bypass the service.
	_, err = s.client.Lectures(context.Background(), view.Recommended[0].ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.FromError(err).Status)
}

func TestAssignmentOverviewAndSubmission(t *testing.T) {
	s := newStack(t)
	s.login(t)

	views, err := s.assignments.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2, "both Go course assignments, none from unenrolled courses")

	groups := service.GroupByStatus(views)
	byStatus := map[dto.AssignmentStatus]dto.AssignmentGroup{}
	for _, g := range groups {
		byStatus[g.Status] = g
	}

	require.Len(t, byStatus[dto.AssignmentStatusGraded].Assignments, 1)
	graded := byStatus[dto.AssignmentStatusGraded].Assignments[0]
	require.NotNil(t, graded.Submission)
	require.NotNil(t, graded.Submission.Grade)
	assert.Equal(t, 92.0, *graded.Submission.Grade)
	assert.Equal(t, "Clean tests, nice table cases.", graded.Submission.Feedback)
	assert.Equal(t, "Go From Scratch", graded.CourseTitle)

	require.Len(t, byStatus[dto.AssignmentStatusPending].Assignments, 1)
	pending := byStatus[dto.AssignmentStatusPending].Assignments[0]

	_, err = s.assignments.Submit(context.Background(), service.SubmitRequest{
		AssignmentID:  pending.ID,
		SubmissionURL: "https://github.com/jane/wordcount",
	})
	require.NoError(t, err)

	views, err = s.assignments.Overview(context.Background())
	require.NoError(t, err)
	for _, v := range views {
		assert.NotEqual(t, dto.AssignmentStatusPending, v.Status)
	}
}

func TestEnrollExpandsDashboardAndAssignments(t *testing.T) {
	s := newStack(t)
	s.login(t)

	courses, err := s.courseViews.Search(context.Background(), "", "systems")
	require.NoError(t, err)
	require.Len(t, courses, 1)

	require.NoError(t, s.enrollment.Enroll(context.Background(), courses[0].ID))

	view := s.courseViews.Dashboard(context.Background())
	assert.Len(t, view.Enrolled, 2)
	assert.Len(t, view.Recommended, 1)

	views, err := s.assignments.Overview(context.Background())
	require.NoError(t, err)
	assert.Len(t, views, 3, "the new course's assignment joins the overview")
}

func TestCatalogSearchFilters(t *testing.T) {
	s := newStack(t)

	byTitle, err := s.client.Courses(context.Background(), models.CourseFilter{Title: "writing"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Technical Writing", byTitle[0].Title)

	byCategory, err := s.client.Courses(context.Background(), models.CourseFilter{Category: "PROGRAMMING"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Go From Scratch", byCategory[0].Title)
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	s := newStack(t)

	_, err := s.client.Me(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	// Garbage token reaches the wire and is rejected by the server.
	s.sess.Set("not-a-jwt")
	_, err = s.client.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, 401, apperr.FromError(err).Status)
}

func TestProgressUpdateValidation(t *testing.T) {
	s := newStack(t)
	s.login(t)

	view := s.courseViews.Dashboard(context.Background())
	require.NotEmpty(t, view.Enrolled)

	err := s.client.UpdateProgress(context.Background(), view.Enrolled[0].ID, 150)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.FromError(err).Status)
}
