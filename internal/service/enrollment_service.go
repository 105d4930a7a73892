// Package service holds the resolvers and composers that turn the
// directory's independent collections into consistent derived views.
// Resolvers absorb load failures locally: callers always get a usable zero
// value plus a recoverable error, never a panic or a nil map.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/quitecodedevelopers/elearn-go/internal/models"
	"github.com/quitecodedevelopers/elearn-go/internal/session"
	apperr "github.com/quitecodedevelopers/elearn-go/pkg/errors"
)

type enrollmentDirectory interface {
	EnrolledCourseIDs(ctx context.Context) ([]string, error)
	Enroll(ctx context.Context, courseID string) error
}

// EnrollmentService resolves the current user's enrollment set and performs
// the enroll write path.
type EnrollmentService struct {
	dir     enrollmentDirectory
	session session.Provider
	logger  *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(dir enrollmentDirectory, sess session.Provider, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{dir: dir, session: sess, logger: logger}
}

// ResolveEnrollment returns the set of course identifiers the user is
// enrolled in. Unauthenticated sessions get an empty set with no error;
// load failures get an empty set plus a recoverable error so the calling
// view can render a "could not load" state.
func (s *EnrollmentService) ResolveEnrollment(ctx context.Context) (models.EnrollmentSet, error) {
	if _, ok := s.session.Token(); !ok {
		return models.EnrollmentSet{}, nil
	}

	ids, err := s.dir.EnrolledCourseIDs(ctx)
	if err != nil {
		s.logger.Warn("enrollment resolve failed", zap.Error(err))
		return models.EnrollmentSet{}, apperr.FromError(err)
	}
	return models.NewEnrollmentSet(ids), nil
}

// Enroll enrolls the current user in a course.
func (s *EnrollmentService) Enroll(ctx context.Context, courseID string) error {
	if courseID == "" {
		return apperr.Clone(apperr.ErrValidation, "courseId is required")
	}
	if _, ok := s.session.Token(); !ok {
		return apperr.Clone(apperr.ErrUnauthorized, "log in to enroll")
	}
	if err := s.dir.Enroll(ctx, courseID); err != nil {
		return apperr.FromError(err)
	}
	s.logger.Info("enrolled", zap.String("course_id", courseID))
	return nil
}
