package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	CatalogService *service.CatalogService
}

func NewSubjectController(catalogService *service.CatalogService) *SubjectController {
	return &SubjectController{CatalogService: catalogService}
}

// ListSubjects godoc
// @Summary List subjects
// @Description Paginated subjects with course totals and top-3 popular courses
// @Tags catalog
// @Produce  json
// @Param   page query int false "Page number"
// @Param   pageSize query int false "Page size"
// @Success 200 {object} util.PageResponse{results=[]service.SubjectView} "Success"
// @Router /api/subjects [get]
func (c *SubjectController) ListSubjects(ctx *gin.Context) {
	page, pageSize := util.ParsePage(ctx.Query("page"), ctx.Query("pageSize"))

	subjects, err := c.CatalogService.ListSubjects(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	count := int64(len(subjects))
	start := (page - 1) * pageSize
	if start > len(subjects) {
		start = len(subjects)
	}
	end := start + pageSize
	if end > len(subjects) {
		end = len(subjects)
	}

	util.Paginated(ctx, count, page, pageSize, subjects[start:end])
}

// GetSubject godoc
// @Summary Subject detail
// @Tags catalog
// @Produce  json
// @Param   id path int true "Subject ID"
// @Success 200 {object} util.Response{data=service.SubjectView} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/subjects/{id} [get]
func (c *SubjectController) GetSubject(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	subjects, err := c.CatalogService.ListSubjects(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	for _, s := range subjects {
		if s.ID == id {
			util.Success(ctx, s)
			return
		}
	}
	util.NotFound(ctx)
}
