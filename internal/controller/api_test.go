package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/middleware"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/cache"
	"learnhub_backend/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	auth   *service.AuthService
}

// newTestAPI builds the HTTP surface on an in-memory database, wired the same
// way the application assembles it.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Subject{}, &model.Course{}, &model.Module{},
		&model.Content{}, &model.Text{}, &model.File{}, &model.Image{},
		&model.Video{}, &model.Enrollment{},
	))

	mr := miniredis.RunT(t)
	catalogCache := cache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		JWT:     config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Cache:   config.CacheConfig{ListTTLSeconds: 600},
		Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()},
	}

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	contentRepo := repository.NewContentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg)
	storageSvc := service.NewStorageService(cfg)
	catalogSvc := service.NewCatalogService(subjectRepo, courseRepo, contentRepo, catalogCache, cfg)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo)
	courseSvc := service.NewCourseService(courseRepo, moduleRepo, subjectRepo)
	contentSvc := service.NewContentService(contentRepo, moduleRepo, storageSvc)

	authCtrl := NewAuthController(authSvc)
	subjectCtrl := NewSubjectController(catalogSvc)
	courseCtrl := NewCourseController(catalogSvc, enrollmentSvc)
	studentCtrl := NewStudentController(catalogSvc, enrollmentSvc)
	manageCourseCtrl := NewManageCourseController(courseSvc)
	manageContentCtrl := NewManageContentController(contentSvc)

	router := gin.New()
	public := router.Group("/api")
	{
		public.GET("/", courseCtrl.APIRoot)
		public.POST("/register", authCtrl.Register)
		public.POST("/login", authCtrl.Login)
		public.GET("/subjects", subjectCtrl.ListSubjects)
		public.GET("/subjects/:id", subjectCtrl.GetSubject)
		public.GET("/courses", courseCtrl.ListCourses)
		public.GET("/courses/:id", courseCtrl.GetCourse)
		public.GET("/catalog/subjects/:slug/courses", courseCtrl.ListCoursesBySubject)
		public.GET("/catalog/courses/:slug", courseCtrl.GetCourseBySlug)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, authSvc))
	{
		authGroup.GET("/profile", authCtrl.GetProfile)
		authGroup.POST("/courses/:id/enroll", courseCtrl.Enroll)
		authGroup.GET("/courses/:id/contents", courseCtrl.GetCourseContents)
		authGroup.GET("/students/courses", studentCtrl.ListMyCourses)
		authGroup.GET("/students/courses/:id", studentCtrl.GetMyCourse)

		manage := authGroup.Group("/manage")
		manage.Use(middleware.RoleMiddleware(model.Teacher))
		{
			manage.GET("/courses", manageCourseCtrl.ListOwnedCourses)
			manage.POST("/courses", manageCourseCtrl.CreateCourse)
			manage.PUT("/courses/:id", manageCourseCtrl.UpdateCourse)
			manage.DELETE("/courses/:id", manageCourseCtrl.DeleteCourse)
			manage.POST("/courses/:id/modules", manageCourseCtrl.CreateModule)
			manage.PUT("/courses/:id/modules/order", manageCourseCtrl.ReorderModules)
			manage.PUT("/modules/:id", manageCourseCtrl.UpdateModule)
			manage.DELETE("/modules/:id", manageCourseCtrl.DeleteModule)
			manage.GET("/modules/:id/contents", manageContentCtrl.ListModuleContents)
			manage.POST("/modules/:id/contents/:type", manageContentCtrl.CreateContent)
			manage.PUT("/contents/:id", manageContentCtrl.UpdateContent)
			manage.DELETE("/contents/:id", manageContentCtrl.DeleteContent)
		}
	}

	return &testAPI{router: router, db: db, cfg: cfg, auth: authSvc}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) registerAndLogin(t *testing.T, email, role string) string {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/register", "", gin.H{
		"name":     "Test " + role,
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func (a *testAPI) seedCourse(t *testing.T, ownerToken string) uint {
	t.Helper()

	subject := &model.Subject{Title: "Programming", Slug: fmt.Sprintf("programming-%d", time.Now().UnixNano())}
	require.NoError(t, a.db.Create(subject).Error)

	w := a.do(t, http.MethodPost, "/api/manage/courses", ownerToken, gin.H{
		"subject":  subject.ID,
		"title":    "Go Basics",
		"overview": "an introduction",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotZero(t, resp.Data.ID)
	return resp.Data.ID
}

func TestAPIRootListsResources(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var root map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &root))
	assert.Equal(t, "/api/subjects", root["subjects"])
	assert.Equal(t, "/api/courses", root["courses"])
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	api := newTestAPI(t)
	api.registerAndLogin(t, "ann@example.com", "student")

	w := api.do(t, http.MethodPost, "/api/register", "", gin.H{
		"name":     "Imposter",
		"email":    "ann@example.com",
		"password": "password123",
		"role":     "student",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEnrollFlow(t *testing.T) {
	api := newTestAPI(t)
	teacher := api.registerAndLogin(t, "teacher@example.com", "teacher")
	student := api.registerAndLogin(t, "student@example.com", "student")
	courseID := api.seedCourse(t, teacher)

	enrollPath := fmt.Sprintf("/api/courses/%d/enroll", courseID)

	// Anonymous callers are turned away.
	w := api.do(t, http.MethodPost, enrollPath, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// First enroll reports a new enrollment.
	w = api.do(t, http.MethodPost, enrollPath, student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first EnrollResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.True(t, first.Enrolled)
	assert.True(t, first.NewEnrollment)

	// Repeats succeed but are not new.
	w = api.do(t, http.MethodPost, enrollPath, student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var second EnrollResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.True(t, second.Enrolled)
	assert.False(t, second.NewEnrollment)

	// Enrolling in a missing course is a 404.
	w = api.do(t, http.MethodPost, "/api/courses/99999/enroll", student, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnrollWithBasicAuth(t *testing.T) {
	api := newTestAPI(t)
	teacher := api.registerAndLogin(t, "teacher@example.com", "teacher")
	api.registerAndLogin(t, "student@example.com", "student")
	courseID := api.seedCourse(t, teacher)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), nil)
	req.SetBasicAuth("student@example.com", "password123")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp EnrollResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.NewEnrollment)
}

func TestCourseContentsRequireEnrollment(t *testing.T) {
	api := newTestAPI(t)
	teacher := api.registerAndLogin(t, "teacher@example.com", "teacher")
	student := api.registerAndLogin(t, "student@example.com", "student")
	courseID := api.seedCourse(t, teacher)

	contentsPath := fmt.Sprintf("/api/courses/%d/contents", courseID)

	w := api.do(t, http.MethodGet, contentsPath, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodGet, contentsPath, student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), student, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, contentsPath, student, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The owner sees the deep view without enrolling.
	w = api.do(t, http.MethodGet, contentsPath, teacher, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestManageRequiresTeacherRole(t *testing.T) {
	api := newTestAPI(t)
	student := api.registerAndLogin(t, "student@example.com", "student")

	w := api.do(t, http.MethodGet, "/api/manage/courses", student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodGet, "/api/manage/courses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestManageCourseLifecycle(t *testing.T) {
	api := newTestAPI(t)
	teacher := api.registerAndLogin(t, "teacher@example.com", "teacher")
	rival := api.registerAndLogin(t, "rival@example.com", "teacher")
	courseID := api.seedCourse(t, teacher)

	// Modules append in order through the API.
	for i, title := range []string{"Week 1", "Week 2"} {
		w := api.do(t, http.MethodPost, fmt.Sprintf("/api/manage/courses/%d/modules", courseID), teacher, gin.H{
			"title": title,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var resp struct {
			Data struct {
				Order int `json:"order"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, i, resp.Data.Order)
	}

	// A different teacher cannot touch the course.
	w := api.do(t, http.MethodDelete, fmt.Sprintf("/api/manage/courses/%d", courseID), rival, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodDelete, fmt.Sprintf("/api/manage/courses/%d", courseID), teacher, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, fmt.Sprintf("/api/courses/%d", courseID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubjectListingPaginates(t *testing.T) {
	api := newTestAPI(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, api.db.Create(&model.Subject{
			Title: fmt.Sprintf("Subject %d", i),
			Slug:  fmt.Sprintf("subject-%d", i),
		}).Error)
	}

	w := api.do(t, http.MethodGet, "/api/subjects?page=1&pageSize=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Count    int64             `json:"count"`
		Next     *string           `json:"next"`
		Previous *string           `json:"previous"`
		Results  []json.RawMessage `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(3), page.Count)
	assert.Len(t, page.Results, 2)
	require.NotNil(t, page.Next)
	assert.Nil(t, page.Previous)

	w = api.do(t, http.MethodGet, *page.Next, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Results, 1)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
}

func TestMyCoursesListsEnrollments(t *testing.T) {
	api := newTestAPI(t)
	teacher := api.registerAndLogin(t, "teacher@example.com", "teacher")
	student := api.registerAndLogin(t, "student@example.com", "student")
	courseID := api.seedCourse(t, teacher)

	w := api.do(t, http.MethodGet, "/api/students/courses", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []service.CourseView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)

	w = api.do(t, http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), student, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/students/courses", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, courseID, resp.Data[0].ID)
}
