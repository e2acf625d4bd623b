package service

import (
	"errors"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

// CourseService is the owner-scoped management surface for courses and their
// modules. Every lookup filters by the requesting identity, so entities the
// caller does not own are reported as not found.
type CourseService struct {
	CourseRepo  *repository.CourseRepository
	ModuleRepo  *repository.ModuleRepository
	SubjectRepo *repository.SubjectRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, moduleRepo *repository.ModuleRepository, subjectRepo *repository.SubjectRepository) *CourseService {
	return &CourseService{
		CourseRepo:  courseRepo,
		ModuleRepo:  moduleRepo,
		SubjectRepo: subjectRepo,
	}
}

type CourseInput struct {
	SubjectID uint
	Title     string
	Slug      string
	Overview  string
}

type ModuleInput struct {
	Title       string
	Description string
}

func (s *CourseService) ListOwnedCourses(ownerID uint) ([]CourseView, error) {
	courses, err := s.CourseRepo.FindOwned(ownerID)
	if err != nil {
		return nil, err
	}
	return CourseViews(courses), nil
}

func (s *CourseService) CreateCourse(ownerID uint, input CourseInput) (*model.Course, error) {
	slug, err := s.resolveSlug(input, 0)
	if err != nil {
		return nil, err
	}

	if _, err := s.SubjectRepo.FindByID(input.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewFieldError("subject", "subject does not exist")
		}
		return nil, err
	}

	course := &model.Course{
		OwnerID:   ownerID,
		SubjectID: input.SubjectID,
		Title:     input.Title,
		Slug:      slug,
		Overview:  input.Overview,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrSlugTaken
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(ownerID, courseID uint, input CourseInput) (*model.Course, error) {
	course, err := s.CourseRepo.FindOwnedByID(courseID, ownerID)
	if err != nil {
		return nil, asNotFound(err)
	}

	slug, err := s.resolveSlug(input, courseID)
	if err != nil {
		return nil, err
	}

	if input.SubjectID != 0 && input.SubjectID != course.SubjectID {
		if _, err := s.SubjectRepo.FindByID(input.SubjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.NewFieldError("subject", "subject does not exist")
			}
			return nil, err
		}
		course.SubjectID = input.SubjectID
	}

	course.Title = input.Title
	course.Slug = slug
	course.Overview = input.Overview
	if err := s.CourseRepo.Save(course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrSlugTaken
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(ownerID, courseID uint) error {
	course, err := s.CourseRepo.FindOwnedByID(courseID, ownerID)
	if err != nil {
		return asNotFound(err)
	}
	return s.CourseRepo.Delete(course)
}

// resolveSlug derives a slug from the title when none is supplied, validates
// it, and checks uniqueness up front for a field-level error. The unique
// index still backs this against concurrent writers.
func (s *CourseService) resolveSlug(input CourseInput, excludeID uint) (string, error) {
	slug := input.Slug
	if slug == "" {
		slug = util.Slugify(input.Title)
	}
	if !util.IsValidSlug(slug) {
		return "", util.NewFieldError("slug", "slug must contain only lowercase letters, digits and hyphens")
	}

	taken, err := s.CourseRepo.SlugExists(slug, excludeID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", util.ErrSlugTaken
	}
	return slug, nil
}

// CreateModule appends a module to an owned course with
// order = count of existing modules.
func (s *CourseService) CreateModule(ownerID, courseID uint, input ModuleInput) (*model.Module, error) {
	course, err := s.CourseRepo.FindOwnedByID(courseID, ownerID)
	if err != nil {
		return nil, asNotFound(err)
	}

	count, err := s.ModuleRepo.CountByCourse(course.ID)
	if err != nil {
		return nil, err
	}

	module := &model.Module{
		CourseID:    course.ID,
		Title:       input.Title,
		Description: input.Description,
		Order:       int(count),
	}
	if err := s.ModuleRepo.Create(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CourseService) UpdateModule(ownerID, moduleID uint, input ModuleInput) (*model.Module, error) {
	module, err := s.ModuleRepo.FindOwnedByID(moduleID, ownerID)
	if err != nil {
		return nil, asNotFound(err)
	}

	module.Title = input.Title
	module.Description = input.Description
	if err := s.ModuleRepo.Save(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *CourseService) DeleteModule(ownerID, moduleID uint) error {
	module, err := s.ModuleRepo.FindOwnedByID(moduleID, ownerID)
	if err != nil {
		return asNotFound(err)
	}
	return s.ModuleRepo.Delete(module)
}

// ReorderModules assigns a full new ordering for an owned course's modules.
// The order values must be a permutation of 0..n-1 covering every module.
func (s *CourseService) ReorderModules(ownerID, courseID uint, orders map[uint]int) error {
	course, err := s.CourseRepo.FindOwnedByID(courseID, ownerID)
	if err != nil {
		return asNotFound(err)
	}

	modules, err := s.ModuleRepo.FindByCourse(course.ID)
	if err != nil {
		return err
	}
	if len(orders) != len(modules) {
		return util.NewFieldError("order", "ordering must cover every module of the course")
	}

	seen := make(map[int]bool, len(orders))
	for _, m := range modules {
		ord, ok := orders[m.ID]
		if !ok {
			return util.NewFieldError("order", "ordering must cover every module of the course")
		}
		if ord < 0 || ord >= len(modules) || seen[ord] {
			return util.NewFieldError("order", "order values must form a dense 0-based sequence")
		}
		seen[ord] = true
	}

	return s.ModuleRepo.Reorder(course.ID, orders)
}

func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotFound
	}
	return err
}
