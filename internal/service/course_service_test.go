package service

import (
	"errors"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCourseFixture(t *testing.T) (*CourseService, *testRepos, *gorm.DB, *model.User, *model.Subject) {
	t.Helper()
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewCourseService(repos.course, repos.module, repos.subject)

	owner := createUser(t, db, model.Teacher)
	subject := createSubject(t, db, "Programming", "programming")
	return svc, repos, db, owner, subject
}

func TestCreateCourseDerivesSlug(t *testing.T) {
	svc, _, _, owner, subject := newCourseFixture(t)

	course, err := svc.CreateCourse(owner.ID, CourseInput{
		SubjectID: subject.ID,
		Title:     "Go for Web Developers",
	})
	require.NoError(t, err)
	assert.Equal(t, "go-for-web-developers", course.Slug)
	assert.Equal(t, owner.ID, course.OwnerID)
}

func TestCreateCourseRejectsTakenSlug(t *testing.T) {
	svc, _, _, owner, subject := newCourseFixture(t)

	_, err := svc.CreateCourse(owner.ID, CourseInput{SubjectID: subject.ID, Title: "Go Basics"})
	require.NoError(t, err)

	_, err = svc.CreateCourse(owner.ID, CourseInput{SubjectID: subject.ID, Title: "Other", Slug: "go-basics"})
	assert.True(t, errors.Is(err, util.ErrSlugTaken))
}

func TestCreateCourseRejectsUnknownSubject(t *testing.T) {
	svc, _, _, owner, _ := newCourseFixture(t)

	_, err := svc.CreateCourse(owner.ID, CourseInput{SubjectID: 9999, Title: "Orphan"})
	var fieldErr *util.FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "subject", fieldErr.Field)
}

func TestCreateCourseRejectsInvalidSlug(t *testing.T) {
	svc, _, _, owner, subject := newCourseFixture(t)

	_, err := svc.CreateCourse(owner.ID, CourseInput{SubjectID: subject.ID, Title: "Go", Slug: "Not A Slug!"})
	var fieldErr *util.FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "slug", fieldErr.Field)
}

func TestUpdateCourseScopedToOwner(t *testing.T) {
	svc, _, db, owner, subject := newCourseFixture(t)
	course := createCourse(t, db, owner.ID, subject.ID, "Go Basics", "go-basics")
	stranger := createUser(t, db, model.Teacher)

	_, err := svc.UpdateCourse(stranger.ID, course.ID, CourseInput{
		SubjectID: subject.ID,
		Title:     "Hijacked",
	})
	assert.True(t, errors.Is(err, util.ErrNotFound), "foreign course reads as missing, not forbidden")

	updated, err := svc.UpdateCourse(owner.ID, course.ID, CourseInput{
		SubjectID: subject.ID,
		Title:     "Go Basics, 2nd Edition",
		Slug:      "go-basics",
		Overview:  "updated",
	})
	require.NoError(t, err)
	assert.Equal(t, "Go Basics, 2nd Edition", updated.Title)
}

func TestDeleteCourseCascades(t *testing.T) {
	svc, repos, db, owner, subject := newCourseFixture(t)
	course := createCourse(t, db, owner.ID, subject.ID, "Go Basics", "go-basics")
	module := createModule(t, db, course.ID, 0, "Week 1")
	createTextContent(t, db, repos, module.ID, owner.ID, "Intro", "hello")
	student := createUser(t, db, model.Student)
	_, err := repos.enrollment.GetOrCreate(course.ID, student.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCourse(owner.ID, course.ID))

	var counts = map[string]interface{}{
		"courses":     &model.Course{},
		"modules":     &model.Module{},
		"contents":    &model.Content{},
		"item_texts":  &model.Text{},
		"enrollments": &model.Enrollment{},
	}
	for table, m := range counts {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "table %s must be empty after cascade", table)
	}

	// The slug is reusable after a hard delete.
	_, err = svc.CreateCourse(owner.ID, CourseInput{SubjectID: subject.ID, Title: "Go Basics"})
	require.NoError(t, err)
}

func TestCreateModuleAppendsInOrder(t *testing.T) {
	svc, _, db, owner, subject := newCourseFixture(t)
	course := createCourse(t, db, owner.ID, subject.ID, "Go Basics", "go-basics")

	for i, title := range []string{"Week 1", "Week 2", "Week 3"} {
		module, err := svc.CreateModule(owner.ID, course.ID, ModuleInput{Title: title})
		require.NoError(t, err)
		assert.Equal(t, i, module.Order)
	}
}

func TestCreateModuleScopedToOwner(t *testing.T) {
	svc, _, db, owner, subject := newCourseFixture(t)
	course := createCourse(t, db, owner.ID, subject.ID, "Go Basics", "go-basics")
	stranger := createUser(t, db, model.Teacher)

	_, err := svc.CreateModule(stranger.ID, course.ID, ModuleInput{Title: "Intrusion"})
	assert.True(t, errors.Is(err, util.ErrNotFound))
}

func TestDeleteModuleCompactsOrder(t *testing.T) {
	svc, repos, db, owner, subject := newCourseFixture(t)
	course := createCourse(t, db, owner.ID, subject.ID, "Go Basics", "go-basics")

	var modules []*model.Module
	for _, title := range []string{"Week 1", "Week 2", "Week 3"} {
		m, err := svc.CreateModule(owner.ID, course.ID, ModuleInput{Title: title})
		require.NoError(t, err)
		modules = append(modules, m)
	}

	require.NoError(t, svc.DeleteModule(owner.ID, modules[1].ID))

	remaining, err := repos.module.FindByCourse(course.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, 0, remaining[0].Order)
	assert.Equal(t, 1, remaining[1].Order)
	assert.Equal(t, "Week 3", remaining[1].Title)

	// A fresh append lands after the compacted sequence.
	m, err := svc.CreateModule(owner.ID, course.ID, ModuleInput{Title: "Week 4"})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Order)
}

func TestReorderModules(t *testing.T) {
	svc, repos, db, owner, subject := newCourseFixture(t)
	course := createCourse(t, db, owner.ID, subject.ID, "Go Basics", "go-basics")

	var ids []uint
	for _, title := range []string{"A", "B", "C"} {
		m, err := svc.CreateModule(owner.ID, course.ID, ModuleInput{Title: title})
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	// Reverse the sequence.
	err := svc.ReorderModules(owner.ID, course.ID, map[uint]int{
		ids[0]: 2,
		ids[1]: 1,
		ids[2]: 0,
	})
	require.NoError(t, err)

	modules, err := repos.module.FindByCourse(course.ID)
	require.NoError(t, err)
	require.Len(t, modules, 3)
	assert.Equal(t, "C", modules[0].Title)
	assert.Equal(t, "B", modules[1].Title)
	assert.Equal(t, "A", modules[2].Title)
}

func TestReorderModulesValidation(t *testing.T) {
	svc, _, db, owner, subject := newCourseFixture(t)
	course := createCourse(t, db, owner.ID, subject.ID, "Go Basics", "go-basics")

	var ids []uint
	for _, title := range []string{"A", "B"} {
		m, err := svc.CreateModule(owner.ID, course.ID, ModuleInput{Title: title})
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	var fieldErr *util.FieldError

	err := svc.ReorderModules(owner.ID, course.ID, map[uint]int{ids[0]: 0})
	assert.True(t, errors.As(err, &fieldErr), "incomplete cover is rejected")

	err = svc.ReorderModules(owner.ID, course.ID, map[uint]int{ids[0]: 0, ids[1]: 0})
	assert.True(t, errors.As(err, &fieldErr), "duplicate positions are rejected")

	err = svc.ReorderModules(owner.ID, course.ID, map[uint]int{ids[0]: 0, ids[1]: 5})
	assert.True(t, errors.As(err, &fieldErr), "out-of-range position is rejected")
}

func TestListOwnedCourses(t *testing.T) {
	svc, _, db, owner, subject := newCourseFixture(t)
	other := createUser(t, db, model.Teacher)
	createCourse(t, db, owner.ID, subject.ID, "Mine", "mine")
	createCourse(t, db, other.ID, subject.ID, "Theirs", "theirs")

	views, err := svc.ListOwnedCourses(owner.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Mine", views[0].Title)
}
