package service

import (
	"errors"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// EnrollmentService manages the Course-Student relation and gates access to
// restricted deep views. The only state transition per (course, user) pair
// is NotEnrolled -> Enrolled; there is no unenroll.
type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
	}
}

// Enroll is idempotent: the first call for a pair reports newEnrollment=true,
// every later one false, and a storage-level conflict from a concurrent
// duplicate is folded into the already-enrolled outcome rather than an error.
func (s *EnrollmentService) Enroll(courseID, userID uint) (newEnrollment bool, err error) {
	if userID == 0 {
		return false, util.ErrUnauthorized
	}

	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.ErrNotFound
		}
		return false, err
	}

	created, err := s.EnrollmentRepo.GetOrCreate(courseID, userID)
	if err != nil {
		return false, err
	}

	if created {
		monitoring.EnrollmentCounter.WithLabelValues("new").Inc()
	} else {
		monitoring.EnrollmentCounter.WithLabelValues("repeat").Inc()
	}
	return created, nil
}

// CheckAccess is the gate in front of deep course views: the caller must be
// enrolled or own the course. Denials are explicit errors, never a silently
// empty result.
func (s *EnrollmentService) CheckAccess(courseID, userID uint) error {
	if userID == 0 {
		return util.ErrUnauthorized
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		return err
	}
	if course.OwnerID == userID {
		return nil
	}

	enrolled, err := s.EnrollmentRepo.Exists(courseID, userID)
	if err != nil {
		return err
	}
	if !enrolled {
		return util.ErrNotEnrolled
	}
	return nil
}

func (s *EnrollmentService) IsEnrolled(courseID, userID uint) (bool, error) {
	return s.EnrollmentRepo.Exists(courseID, userID)
}

// ListEnrolledCourses backs the student "my courses" surface.
func (s *EnrollmentService) ListEnrolledCourses(userID uint) ([]model.Course, error) {
	return s.EnrollmentRepo.FindCoursesByUser(userID)
}
