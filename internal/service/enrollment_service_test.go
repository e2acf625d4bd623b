package service

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnrollmentFixture(t *testing.T) (*EnrollmentService, *testRepos, *model.Course, *model.User) {
	t.Helper()
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewEnrollmentService(repos.enrollment, repos.course)

	owner := createUser(t, db, model.Teacher)
	student := createUser(t, db, model.Student)
	subject := createSubject(t, db, "Programming", "programming")
	course := createCourse(t, db, owner.ID, subject.ID, "Go Basics", "go-basics")

	return svc, repos, course, student
}

func TestEnrollFirstTimeReportsNew(t *testing.T) {
	svc, _, course, student := newEnrollmentFixture(t)

	created, err := svc.Enroll(course.ID, student.ID)
	require.NoError(t, err)
	assert.True(t, created)

	enrolled, err := svc.IsEnrolled(course.ID, student.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)
}

func TestEnrollIsIdempotent(t *testing.T) {
	svc, repos, course, student := newEnrollmentFixture(t)

	created, err := svc.Enroll(course.ID, student.ID)
	require.NoError(t, err)
	assert.True(t, created)

	for i := 0; i < 3; i++ {
		created, err = svc.Enroll(course.ID, student.ID)
		require.NoError(t, err)
		assert.False(t, created, "repeat enroll must not report a new enrollment")
	}

	count, err := repos.enrollment.CountByCourse(course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEnrollConcurrentDuplicatesCollapse(t *testing.T) {
	svc, repos, course, student := newEnrollmentFixture(t)

	const workers = 16
	var createdCount int64
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := svc.Enroll(course.ID, student.ID)
			if err != nil {
				errs <- err
				return
			}
			if created {
				atomic.AddInt64(&createdCount, 1)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent enroll failed: %v", err)
	}

	assert.Equal(t, int64(1), createdCount, "exactly one caller observes the new enrollment")

	count, err := repos.enrollment.CountByCourse(course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEnrollRejectsAnonymous(t *testing.T) {
	svc, _, course, _ := newEnrollmentFixture(t)

	_, err := svc.Enroll(course.ID, 0)
	assert.True(t, errors.Is(err, util.ErrUnauthorized))
}

func TestEnrollMissingCourse(t *testing.T) {
	svc, _, _, student := newEnrollmentFixture(t)

	_, err := svc.Enroll(9999, student.ID)
	assert.True(t, errors.Is(err, util.ErrNotFound))
}

func TestCheckAccess(t *testing.T) {
	svc, _, course, student := newEnrollmentFixture(t)

	err := svc.CheckAccess(course.ID, student.ID)
	assert.True(t, errors.Is(err, util.ErrNotEnrolled), "unenrolled student is denied")

	_, err = svc.Enroll(course.ID, student.ID)
	require.NoError(t, err)
	assert.NoError(t, svc.CheckAccess(course.ID, student.ID))

	assert.NoError(t, svc.CheckAccess(course.ID, course.OwnerID), "owner passes without enrollment")
	assert.True(t, errors.Is(svc.CheckAccess(course.ID, 0), util.ErrUnauthorized))
	assert.True(t, errors.Is(svc.CheckAccess(9999, student.ID), util.ErrNotFound))
}

func TestListEnrolledCourses(t *testing.T) {
	svc, _, course, student := newEnrollmentFixture(t)

	courses, err := svc.ListEnrolledCourses(student.ID)
	require.NoError(t, err)
	assert.Empty(t, courses)

	_, err = svc.Enroll(course.ID, student.ID)
	require.NoError(t, err)

	courses, err = svc.ListEnrolledCourses(student.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, course.ID, courses[0].ID)
}
