package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/quitecodedevelopers/elearn-go/internal/models"
	"github.com/quitecodedevelopers/elearn-go/internal/session"
	apperr "github.com/quitecodedevelopers/elearn-go/pkg/errors"
)

type progressDirectory interface {
	Progress(ctx context.Context) (models.ProgressMap, error)
	UpdateProgress(ctx context.Context, courseID string, percent float64) error
}

// ProgressService resolves per-course completion percentages and owns the
// monotonic write path.
type ProgressService struct {
	dir     progressDirectory
	session session.Provider
	logger  *zap.Logger
}

// NewProgressService constructs ProgressService.
func NewProgressService(dir progressDirectory, sess session.Provider, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{dir: dir, session: sess, logger: logger}
}

// ResolveProgress returns the course-id to percent mapping for the current
// user. Same failure shape as ResolveEnrollment: empty map without error
// when unauthenticated, empty map plus recoverable error on load failure.
// Absent keys mean 0%.
func (s *ProgressService) ResolveProgress(ctx context.Context) (models.ProgressMap, error) {
	if _, ok := s.session.Token(); !ok {
		return models.ProgressMap{}, nil
	}

	progress, err := s.dir.Progress(ctx)
	if err != nil {
		s.logger.Warn("progress resolve failed", zap.Error(err))
		return models.ProgressMap{}, apperr.FromError(err)
	}
	if progress == nil {
		progress = models.ProgressMap{}
	}
	return progress, nil
}

// MarkComplete records that the lecture has been finished. The new percent
// is position/total*100 over the course's lectures ordered by order index.
// The write is monotonic: when the computed percent does not exceed
// currentPercent the remote call is suppressed entirely, which also keeps
// repeated finishes of the same lecture idempotent. Returns the effective
// percent after the call.
func (s *ProgressService) MarkComplete(ctx context.Context, courseID, lectureID string, lectures []models.Lecture, currentPercent float64) (float64, error) {
	if _, ok := s.session.Token(); !ok {
		return currentPercent, apperr.Clone(apperr.ErrUnauthorized, "log in to track progress")
	}
	if len(lectures) == 0 {
		return currentPercent, apperr.Clone(apperr.ErrNotFound, "course has no lectures")
	}

	ordered := SortLectures(lectures)
	position := 0
	for i, lec := range ordered {
		if lec.ID == lectureID {
			position = i + 1
			break
		}
	}
	if position == 0 {
		return currentPercent, apperr.Clone(apperr.ErrNotFound, "lecture does not belong to this course")
	}

	computed := float64(position) / float64(len(ordered)) * 100

	// Progress never moves backwards; the stored value is the high-water mark.
	if computed <= currentPercent {
		return currentPercent, nil
	}

	if err := s.dir.UpdateProgress(ctx, courseID, computed); err != nil {
		return currentPercent, apperr.FromError(err)
	}
	s.logger.Info("progress updated",
		zap.String("course_id", courseID),
		zap.String("lecture_id", lectureID),
		zap.Float64("percent", computed))
	return computed, nil
}

// SortLectures returns a copy of lectures ordered by order index ascending.
func SortLectures(lectures []models.Lecture) []models.Lecture {
	ordered := make([]models.Lecture, len(lectures))
	copy(ordered, lectures)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})
	return ordered
}
