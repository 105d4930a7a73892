package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/quitecodedevelopers/elearn-go/internal/dto"
	"github.com/quitecodedevelopers/elearn-go/internal/models"
	apperr "github.com/quitecodedevelopers/elearn-go/pkg/errors"
)

type lectureDirectory interface {
	Lecture(ctx context.Context, id string) (*models.Lecture, error)
	Lectures(ctx context.Context, courseID string) ([]models.Lecture, error)
}

type progressTracker interface {
	ResolveProgress(ctx context.Context) (models.ProgressMap, error)
	MarkComplete(ctx context.Context, courseID, lectureID string, lectures []models.Lecture, currentPercent float64) (float64, error)
}

// LectureService gates lecture content on enrollment and derives per-lecture
// completion from stored course progress.
type LectureService struct {
	dir        lectureDirectory
	enrollment enrollmentResolver
	progress   progressTracker
	logger     *zap.Logger
}

// NewLectureService constructs LectureService.
func NewLectureService(dir lectureDirectory, enrollment enrollmentResolver, progress progressTracker, logger *zap.Logger) *LectureService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LectureService{dir: dir, enrollment: enrollment, progress: progress, logger: logger}
}

// CanViewLectures reports whether the course's lecture content may be
// revealed: enrollment required.
func CanViewLectures(courseID string, set models.EnrollmentSet) bool {
	return set.Contains(courseID)
}

// IsLectureCompleted derives completion from the course's stored progress.
// The lecture's 1-based position among the course lectures (ordered by
// order index) over the total count gives the required threshold; the
// lecture is completed iff progress meets it. An empty lecture list is
// never completed.
func IsLectureCompleted(lecture models.Lecture, orderedCourseLectures []models.Lecture, courseProgressPercent float64) bool {
	total := len(orderedCourseLectures)
	if total == 0 {
		return false
	}
	for i, lec := range orderedCourseLectures {
		if lec.ID == lecture.ID {
			threshold := float64(i+1) / float64(total) * 100
			return courseProgressPercent >= threshold
		}
	}
	return false
}

// CourseLectures returns a course's lectures ordered by order index. When
// the user is not enrolled it refuses without touching the directory: the
// view shows an "enroll to view" placeholder instead of issuing a request
// the server would reject.
func (s *LectureService) CourseLectures(ctx context.Context, courseID string) ([]models.Lecture, error) {
	set, err := s.enrollment.ResolveEnrollment(ctx)
	if err != nil {
		return nil, apperr.FromError(err)
	}
	if !CanViewLectures(courseID, set) {
		return nil, apperr.Clone(apperr.ErrNotEnrolled, "enroll to view lectures")
	}

	lectures, err := s.dir.Lectures(ctx, courseID)
	if err != nil {
		return nil, apperr.FromError(err)
	}
	return SortLectures(lectures), nil
}

// LecturePage assembles everything the lecture view renders: the lecture,
// its course's ordered lecture list, the user's position within it and the
// derived completion flag. The page is gated on enrollment the same way
// CourseLectures is; the course's lecture list is never fetched for a
// course the user is not enrolled in. Lecture detail, enrollment and
// progress load concurrently.
func (s *LectureService) LecturePage(ctx context.Context, lectureID string) (*dto.LecturePage, error) {
	var (
		wg          sync.WaitGroup
		lecture     *models.Lecture
		lectureErr  error
		set         models.EnrollmentSet
		enrollErr   error
		progressMap models.ProgressMap
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		lecture, lectureErr = s.dir.Lecture(ctx, lectureID)
	}()
	go func() {
		defer wg.Done()
		set, enrollErr = s.enrollment.ResolveEnrollment(ctx)
	}()
	go func() {
		defer wg.Done()
		// Progress load failures degrade to 0%: the page still renders.
		progressMap, _ = s.progress.ResolveProgress(ctx)
	}()
	wg.Wait()

	if lectureErr != nil {
		return nil, apperr.FromError(lectureErr)
	}
	if enrollErr != nil {
		return nil, apperr.FromError(enrollErr)
	}
	if !CanViewLectures(lecture.CourseID, set) {
		return nil, apperr.Clone(apperr.ErrNotEnrolled, "enroll to view lectures")
	}

	lectures, err := s.dir.Lectures(ctx, lecture.CourseID)
	if err != nil {
		return nil, apperr.FromError(err)
	}
	ordered := SortLectures(lectures)

	position := 0
	for i, lec := range ordered {
		if lec.ID == lecture.ID {
			position = i + 1
			break
		}
	}

	percent := progressMap.Percent(lecture.CourseID)
	page := &dto.LecturePage{
		Lecture:         *lecture,
		CourseLectures:  ordered,
		Position:        position,
		ProgressPercent: percent,
		Completed:       IsLectureCompleted(*lecture, ordered, percent),
	}
	return page, nil
}

// FinishLecture records that the page's lecture was watched to the end.
// Already-completed lectures are a no-op so the remote update is not
// re-issued; the directory tolerates a repeat regardless. The page's
// progress and completion state are updated in place.
func (s *LectureService) FinishLecture(ctx context.Context, page *dto.LecturePage) error {
	if page == nil {
		return apperr.Clone(apperr.ErrValidation, "no lecture page")
	}
	if page.Completed {
		return nil
	}

	percent, err := s.progress.MarkComplete(ctx, page.Lecture.CourseID, page.Lecture.ID, page.CourseLectures, page.ProgressPercent)
	if err != nil {
		return apperr.FromError(err)
	}

	page.ProgressPercent = percent
	page.Completed = IsLectureCompleted(page.Lecture, page.CourseLectures, percent)
	return nil
}
