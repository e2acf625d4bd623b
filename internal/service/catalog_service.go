package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/cache"
	"learnhub_backend/pkg/logger"
	"learnhub_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Cache keys for the catalog listings. The subject key has no expiry and is
// only dropped through InvalidateSubjects; the course-list keys age out on
// the configured TTL. Management writes do not invalidate anything: the
// catalog tolerates a bounded staleness window by design.
const (
	cacheKeyAllSubjects = "all_subjects"
	cacheKeyAllCourses  = "all_courses"
)

func subjectCoursesKey(subjectID uint) string {
	return fmt.Sprintf("subject_%d_courses", subjectID)
}

type SubjectView struct {
	ID             uint     `json:"id"`
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	TotalCourses   int64    `json:"total_courses"`
	PopularCourses []string `json:"popular_courses"`
}

type ModuleView struct {
	Order       int    `json:"order"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CourseView struct {
	ID       uint         `json:"id"`
	Subject  uint         `json:"subject"`
	Title    string       `json:"title"`
	Slug     string       `json:"slug"`
	Overview string       `json:"overview"`
	Created  time.Time    `json:"created"`
	Owner    uint         `json:"owner"`
	Modules  []ModuleView `json:"modules"`
}

// ContentView projects one envelope. Item is the rendered markup, the plain
// title when rendering failed, or null for a dangling reference.
type ContentView struct {
	Order int     `json:"order"`
	Item  *string `json:"item"`
}

type ModuleWithContentsView struct {
	ModuleView
	Contents []ContentView `json:"contents"`
}

type CourseWithContentsView struct {
	ID       uint                     `json:"id"`
	Subject  uint                     `json:"subject"`
	Title    string                   `json:"title"`
	Slug     string                   `json:"slug"`
	Overview string                   `json:"overview"`
	Created  time.Time                `json:"created"`
	Owner    uint                     `json:"owner"`
	Modules  []ModuleWithContentsView `json:"modules"`
}

type CatalogService struct {
	SubjectRepo *repository.SubjectRepository
	CourseRepo  *repository.CourseRepository
	ContentRepo *repository.ContentRepository
	Cache       *cache.Cache
	Cfg         *config.Config
}

func NewCatalogService(subjectRepo *repository.SubjectRepository, courseRepo *repository.CourseRepository, contentRepo *repository.ContentRepository, c *cache.Cache, cfg *config.Config) *CatalogService {
	return &CatalogService{
		SubjectRepo: subjectRepo,
		CourseRepo:  courseRepo,
		ContentRepo: contentRepo,
		Cache:       c,
		Cfg:         cfg,
	}
}

// ListSubjects returns all subjects with course totals and their top-3
// courses by enrolled students, through the no-expiry cache key.
func (s *CatalogService) ListSubjects(ctx context.Context) ([]SubjectView, error) {
	var views []SubjectView
	err := s.Cache.GetOrCompute(ctx, cacheKeyAllSubjects, 0, &views, func() (interface{}, error) {
		return s.computeSubjects()
	})
	return views, err
}

func (s *CatalogService) computeSubjects() ([]SubjectView, error) {
	rows, err := s.SubjectRepo.FindAllWithTotals()
	if err != nil {
		return nil, err
	}

	views := make([]SubjectView, 0, len(rows))
	for _, row := range rows {
		popular, err := s.SubjectRepo.FindPopularCourses(row.ID, 3)
		if err != nil {
			return nil, err
		}
		titles := make([]string, 0, len(popular))
		for _, p := range popular {
			titles = append(titles, fmt.Sprintf("%s (%d)", p.Title, p.TotalStudents))
		}
		views = append(views, SubjectView{
			ID:             row.ID,
			Title:          row.Title,
			Slug:           row.Slug,
			TotalCourses:   row.TotalCourses,
			PopularCourses: titles,
		})
	}
	return views, nil
}

// InvalidateSubjects drops the all-subjects key. Administrative use only.
func (s *CatalogService) InvalidateSubjects(ctx context.Context) error {
	return s.Cache.Invalidate(ctx, cacheKeyAllSubjects)
}

// ListCourses returns every course as a shallow view through the TTL-bounded
// all-courses key.
func (s *CatalogService) ListCourses(ctx context.Context) ([]CourseView, error) {
	var views []CourseView
	err := s.Cache.GetOrCompute(ctx, cacheKeyAllCourses, s.Cfg.Cache.ListTTL(), &views, func() (interface{}, error) {
		courses, err := s.CourseRepo.FindAll(0, 1000)
		if err != nil {
			return nil, err
		}
		return CourseViews(courses), nil
	})
	return views, err
}

// ListCoursesBySubject returns the shallow course views of one subject,
// cached per subject identity.
func (s *CatalogService) ListCoursesBySubject(ctx context.Context, subjectSlug string) ([]CourseView, error) {
	subject, err := s.SubjectRepo.FindBySlug(subjectSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	var views []CourseView
	err = s.Cache.GetOrCompute(ctx, subjectCoursesKey(subject.ID), s.Cfg.Cache.ListTTL(), &views, func() (interface{}, error) {
		courses, err := s.CourseRepo.FindBySubject(subject.ID)
		if err != nil {
			return nil, err
		}
		return CourseViews(courses), nil
	})
	return views, err
}

// ListCoursesPage is the uncached paginated query backing the REST listing.
func (s *CatalogService) ListCoursesPage(page, pageSize int) ([]CourseView, int64, error) {
	count, err := s.CourseRepo.Count()
	if err != nil {
		return nil, 0, err
	}
	courses, err := s.CourseRepo.FindAll((page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return CourseViews(courses), count, nil
}

func (s *CatalogService) GetCourse(id uint) (*CourseView, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	view := courseView(course)
	return &view, nil
}

func (s *CatalogService) GetCourseBySlug(slug string) (*CourseView, error) {
	course, err := s.CourseRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	view := courseView(course)
	return &view, nil
}

// GetCourseWithContents assembles the deep view: modules in order, contents
// in (order, id) order, each item resolved and rendered. Callers are
// expected to have passed the enrollment gate already.
func (s *CatalogService) GetCourseWithContents(id uint) (*CourseWithContentsView, error) {
	course, err := s.CourseRepo.FindWithContents(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	modules := make([]ModuleWithContentsView, 0, len(course.Modules))
	for _, m := range course.Modules {
		mv := ModuleWithContentsView{
			ModuleView: ModuleView{Order: m.Order, Title: m.Title, Description: m.Description},
			Contents:   make([]ContentView, 0, len(m.Contents)),
		}
		for i := range m.Contents {
			c := &m.Contents[i]
			mv.Contents = append(mv.Contents, ContentView{
				Order: c.Order,
				Item:  s.renderContent(c),
			})
		}
		modules = append(modules, mv)
	}

	return &CourseWithContentsView{
		ID:       course.ID,
		Subject:  course.SubjectID,
		Title:    course.Title,
		Slug:     course.Slug,
		Overview: course.Overview,
		Created:  course.CreatedAt,
		Owner:    course.OwnerID,
		Modules:  modules,
	}, nil
}

// renderContent resolves and renders one envelope's item. A dangling
// reference yields nil; a failing render is logged and degraded to the plain
// item title so third-party-authored content can never break a response.
func (s *CatalogService) renderContent(content *model.Content) *string {
	item, err := s.ContentRepo.ResolveItem(content)
	if err != nil {
		logger.Log.Warn("content item could not be resolved",
			zap.Uint("content_id", content.ID),
			zap.String("item_type", string(content.ItemType)),
			zap.Uint("item_id", content.ItemID),
			zap.Error(err))
		return nil
	}
	rendered := RenderItem(item)
	return &rendered
}

// RenderItem invokes the item's render capability with the title fallback
// policy. Panics from malformed embedded markup are contained here as well.
func RenderItem(item model.Item) (out string) {
	defer func() {
		if r := recover(); r != nil {
			monitoring.RenderFaultCounter.Inc()
			logger.Log.Warn("content item render panicked",
				zap.Uint("item_id", item.ItemID()),
				zap.Any("panic", r))
			out = item.ItemTitle()
		}
	}()

	rendered, err := item.RenderHTML()
	if err != nil {
		monitoring.RenderFaultCounter.Inc()
		logger.Log.Warn("content item render failed",
			zap.Uint("item_id", item.ItemID()),
			zap.Error(err))
		return item.ItemTitle()
	}
	return rendered
}

func CourseViews(courses []model.Course) []CourseView {
	views := make([]CourseView, 0, len(courses))
	for i := range courses {
		views = append(views, courseView(&courses[i]))
	}
	return views
}

func courseView(course *model.Course) CourseView {
	modules := make([]ModuleView, 0, len(course.Modules))
	for _, m := range course.Modules {
		modules = append(modules, ModuleView{Order: m.Order, Title: m.Title, Description: m.Description})
	}
	return CourseView{
		ID:       course.ID,
		Subject:  course.SubjectID,
		Title:    course.Title,
		Slug:     course.Slug,
		Overview: course.Overview,
		Created:  course.CreatedAt,
		Owner:    course.OwnerID,
		Modules:  modules,
	}
}
