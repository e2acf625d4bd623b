package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ManageCourseController 课程管理接口: every handler operates on the
// authenticated owner's courses only.
type ManageCourseController struct {
	CourseService *service.CourseService
}

func NewManageCourseController(courseService *service.CourseService) *ManageCourseController {
	return &ManageCourseController{CourseService: courseService}
}

type CourseRequest struct {
	SubjectID uint   `json:"subject" binding:"required"`
	Title     string `json:"title" binding:"required,max=200"`
	Slug      string `json:"slug" binding:"max=200"`
	Overview  string `json:"overview"`
}

type ModuleRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
}

// ModuleOrderRequest maps module IDs onto their new positions.
type ModuleOrderRequest struct {
	Orders map[uint]int `json:"orders" binding:"required"`
}

// ListOwnedCourses godoc
// @Summary List the courses owned by the current user
// @Tags manage
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.CourseView} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/manage/courses [get]
func (c *ManageCourseController) ListOwnedCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.CourseService.ListOwnedCourses(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// CreateCourse godoc
// @Summary Create a course
// @Description Slug is derived from the title when omitted
// @Tags manage
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   request body controller.CourseRequest true "Course payload"
// @Success 201 {object} util.Response{data=model.Course} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/manage/courses [post]
func (c *ManageCourseController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(claims.UserID, service.CourseInput{
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Slug:      req.Slug,
		Overview:  req.Overview,
	})
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary Update an owned course
// @Tags manage
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Param   request body controller.CourseRequest true "Course payload"
// @Success 200 {object} util.Response{data=model.Course} "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/manage/courses/{id} [put]
func (c *ManageCourseController) UpdateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(claims.UserID, id, service.CourseInput{
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Slug:      req.Slug,
		Overview:  req.Overview,
	})
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary Delete an owned course with its modules, contents and enrollments
// @Tags manage
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Success 200 {object} util.Response "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/manage/courses/{id} [delete]
func (c *ManageCourseController) DeleteCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.DeleteCourse(claims.UserID, id); err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// CreateModule godoc
// @Summary Append a module to an owned course
// @Tags manage
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Param   request body controller.ModuleRequest true "Module payload"
// @Success 201 {object} util.Response{data=model.Module} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/manage/courses/{id}/modules [post]
func (c *ManageCourseController) CreateModule(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	var req ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.CreateModule(claims.UserID, id, service.ModuleInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Created(ctx, module)
}

// ReorderModules godoc
// @Summary Reassign the ordering of an owned course's modules
// @Description The order values must form a dense 0-based permutation
// @Tags manage
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Course ID"
// @Param   request body controller.ModuleOrderRequest true "Module ID to order mapping"
// @Success 200 {object} util.Response "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/manage/courses/{id}/modules/order [put]
func (c *ManageCourseController) ReorderModules(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	var req ModuleOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CourseService.ReorderModules(claims.UserID, id, req.Orders); err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// UpdateModule godoc
// @Summary Update a module of an owned course
// @Tags manage
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Module ID"
// @Param   request body controller.ModuleRequest true "Module payload"
// @Success 200 {object} util.Response{data=model.Module} "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/manage/modules/{id} [put]
func (c *ManageCourseController) UpdateModule(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	var req ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.UpdateModule(claims.UserID, id, service.ModuleInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, module)
}

// DeleteModule godoc
// @Summary Delete a module of an owned course with its contents
// @Tags manage
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Module ID"
// @Success 200 {object} util.Response "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/manage/modules/{id} [delete]
func (c *ManageCourseController) DeleteModule(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.DeleteModule(claims.UserID, id); err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
