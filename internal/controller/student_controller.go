package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	CatalogService    *service.CatalogService
	EnrollmentService *service.EnrollmentService
}

func NewStudentController(catalogService *service.CatalogService, enrollmentService *service.EnrollmentService) *StudentController {
	return &StudentController{
		CatalogService:    catalogService,
		EnrollmentService: enrollmentService,
	}
}

// ListMyCourses godoc
// @Summary Courses the current student is enrolled in
// @Tags students
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.CourseView} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/students/courses [get]
func (c *StudentController) ListMyCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.EnrollmentService.ListEnrolledCourses(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, service.CourseViews(courses))
}

// GetMyCourse godoc
// @Summary Deep view of an enrolled course
// @Tags students
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Success 200 {object} util.Response{data=service.CourseWithContentsView} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/students/courses/{id} [get]
func (c *StudentController) GetMyCourse(ctx *gin.Context) {
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
