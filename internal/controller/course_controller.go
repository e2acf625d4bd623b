package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CatalogService    *service.CatalogService
	EnrollmentService *service.EnrollmentService
}

func NewCourseController(catalogService *service.CatalogService, enrollmentService *service.EnrollmentService) *CourseController {
	return &CourseController{
		CatalogService:    catalogService,
		EnrollmentService: enrollmentService,
	}
}

// APIRoot godoc
// @Summary API root
// @Description Lists the navigable top-level resources
// @Tags catalog
// @Produce  json
// @Success 200 {object} map[string]string "Success"
// @Router /api/ [get]
func (c *CourseController) APIRoot(ctx *gin.Context) {
	ctx.JSON(200, gin.H{
		"subjects": "/api/subjects",
		"courses":  "/api/courses",
	})
}

// ListCourses godoc
// @Summary List courses
// @Description Paginated shallow course views with module metadata
// @Tags catalog
// @Produce  json
// @Param   page query int false "Page number"
// @Param   pageSize query int false "Page size"
// @Success 200 {object} util.PageResponse{results=[]service.CourseView} "Success"
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, pageSize := util.ParsePage(ctx.Query("page"), ctx.Query("pageSize"))

	courses, count, err := c.CatalogService.ListCoursesPage(page, pageSize)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Paginated(ctx, count, page, pageSize, courses)
}

// GetCourse godoc
// @Summary Course detail (shallow)
// @Tags catalog
// @Produce  json
// @Param   id path int true "Course ID"
// @Success 200 {object} util.Response{data=service.CourseView} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	course, err := c.CatalogService.GetCourse(id)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// GetCourseContents godoc
// @Summary Course detail with rendered contents (deep)
// @Description Restricted view; requires authentication and enrollment
// @Tags catalog
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Success 200 {object} util.Response{data=service.CourseWithContentsView} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/courses/{id}/contents [get]
func (c *CourseController) GetCourseContents(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.EnrollmentService.CheckAccess(id, claims.UserID); err != nil {
		util.ServiceError(ctx, err)
		return
	}

	course, err := c.CatalogService.GetCourseWithContents(id)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// EnrollResponse mirrors the enroll action payload.
// swagger:model EnrollResponse
type EnrollResponse struct {
	Enrolled      bool `json:"enrolled"`
	NewEnrollment bool `json:"new_enrollment"`
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Idempotent; repeat calls report new_enrollment=false
// @Tags catalog
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Success 200 {object} controller.EnrollResponse "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	created, err := c.EnrollmentService.Enroll(id, claims.UserID)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	ctx.JSON(200, EnrollResponse{Enrolled: true, NewEnrollment: created})
}

// ListCoursesBySubject godoc
// @Summary Courses of a subject (slug-keyed browse surface)
// @Tags catalog
// @Produce  json
// @Param   slug path string true "Subject slug"
// @Success 200 {object} util.Response{data=[]service.CourseView} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/catalog/subjects/{slug}/courses [get]
func (c *CourseController) ListCoursesBySubject(ctx *gin.Context) {
	courses, err := c.CatalogService.ListCoursesBySubject(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// GetCourseBySlug godoc
// @Summary Course detail by slug (browse surface)
// @Tags catalog
// @Produce  json
// @Param   slug path string true "Course slug"
// @Success 200 {object} util.Response{data=service.CourseView} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/catalog/courses/{slug} [get]
func (c *CourseController) GetCourseBySlug(ctx *gin.Context) {
	course, err := c.CatalogService.GetCourseBySlug(ctx.Param("slug"))
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, course)
}
