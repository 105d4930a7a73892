package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/quitecodedevelopers/elearn-go/internal/dto"
	"github.com/quitecodedevelopers/elearn-go/internal/models"
	apperr "github.com/quitecodedevelopers/elearn-go/pkg/errors"
	"github.com/quitecodedevelopers/elearn-go/pkg/fanout"
)

type catalogDirectory interface {
	Courses(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
}

type enrollmentResolver interface {
	ResolveEnrollment(ctx context.Context) (models.EnrollmentSet, error)
}

type progressResolver interface {
	ResolveProgress(ctx context.Context) (models.ProgressMap, error)
}

// CourseViewService composes the student dashboard from the catalog, the
// enrollment set and the progress map.
type CourseViewService struct {
	catalog    catalogDirectory
	enrollment enrollmentResolver
	progress   progressResolver
	logger     *zap.Logger
	latest     fanout.Latest
}

// NewCourseViewService constructs CourseViewService.
func NewCourseViewService(catalog catalogDirectory, enrollment enrollmentResolver, progress progressResolver, logger *zap.Logger) *CourseViewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseViewService{catalog: catalog, enrollment: enrollment, progress: progress, logger: logger}
}

// ComposeViews partitions the catalog into enrolled and recommended views.
// Pure function: a course lands in enrolled iff its id is in the set,
// otherwise in recommended, preserving catalog order in both partitions.
// Progress is attached to enrolled entries only.
func ComposeViews(allCourses []models.Course, set models.EnrollmentSet, progress models.ProgressMap) (enrolled, recommended []dto.CourseView) {
	enrolled = make([]dto.CourseView, 0, set.Len())
	recommended = make([]dto.CourseView, 0, len(allCourses))

	for _, course := range allCourses {
		if set.Contains(course.ID) {
			percent := progress.Percent(course.ID)
			enrolled = append(enrolled, dto.CourseView{Course: course, Progress: &percent})
		} else {
			recommended = append(recommended, dto.CourseView{Course: course})
		}
	}
	return enrolled, recommended
}

// Dashboard loads the catalog, enrollment set and progress map concurrently
// and composes the partitioned view. Each section settles on its own; a
// failed section contributes its zero value and a "could not load" entry in
// SectionErrors rather than failing the page.
func (s *CourseViewService) Dashboard(ctx context.Context) *dto.DashboardView {
	var (
		wg       sync.WaitGroup
		courses  []models.Course
		set      models.EnrollmentSet
		progress models.ProgressMap

		catalogErr    error
		enrollmentErr error
		progressErr   error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		courses, catalogErr = s.catalog.Courses(ctx, models.CourseFilter{})
	}()
	go func() {
		defer wg.Done()
		set, enrollmentErr = s.enrollment.ResolveEnrollment(ctx)
	}()
	go func() {
		defer wg.Done()
		progress, progressErr = s.progress.ResolveProgress(ctx)
	}()
	wg.Wait()

	view := &dto.DashboardView{}
	if catalogErr != nil {
		s.logger.Warn("dashboard catalog load failed", zap.Error(catalogErr))
		s.sectionError(view, dto.SectionCatalog, catalogErr)
	}
	if enrollmentErr != nil {
		s.sectionError(view, dto.SectionEnrollment, enrollmentErr)
	}
	if progressErr != nil {
		s.sectionError(view, dto.SectionProgress, progressErr)
	}

	if set == nil {
		set = models.EnrollmentSet{}
	}
	if progress == nil {
		progress = models.ProgressMap{}
	}
	view.Enrolled, view.Recommended = ComposeViews(courses, set, progress)
	return view
}

// LoadDashboard composes the dashboard and hands it to apply under the
// latest-wins guard: when the caller triggers overlapping loads, only the
// most recently started one reaches displayed state. Returns whether this
// load's result was applied.
func (s *CourseViewService) LoadDashboard(ctx context.Context, apply func(*dto.DashboardView)) bool {
	ticket := s.latest.Begin()
	view := s.Dashboard(ctx)
	return s.latest.Commit(ticket, func() { apply(view) })
}

// Search lists the catalog filtered by title or category.
func (s *CourseViewService) Search(ctx context.Context, title, category string) ([]models.Course, error) {
	courses, err := s.catalog.Courses(ctx, models.CourseFilter{Title: title, Category: category})
	if err != nil {
		return nil, apperr.FromError(err)
	}
	return courses, nil
}

func (s *CourseViewService) sectionError(view *dto.DashboardView, section string, err error) {
	if view.SectionErrors == nil {
		view.SectionErrors = map[string]string{}
	}
	view.SectionErrors[section] = apperr.FromError(err).Message
}
