package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ManageContentController 内容管理接口: creation is keyed on the content
// type tag in the path, payloads arrive as multipart form data so file and
// image uploads share the surface with text and video.
type ManageContentController struct {
	ContentService *service.ContentService
}

func NewManageContentController(contentService *service.ContentService) *ManageContentController {
	return &ManageContentController{ContentService: contentService}
}

// ListModuleContents godoc
// @Summary List the contents of an owned module in order
// @Tags manage
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Module ID"
// @Success 200 {object} util.Response{data=[]service.ContentInfo} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/manage/modules/{id}/contents [get]
func (c *ManageContentController) ListModuleContents(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	contents, err := c.ContentService.ListModuleContents(claims.UserID, id)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, contents)
}

// CreateContent godoc
// @Summary Append a content item to an owned module
// @Description The path type selects the variant: text, file, image or video
// @Tags manage
// @Accept  mpfd
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Module ID"
// @Param   type path string true "Content type" Enums(text, file, image, video)
// @Param   title formData string true "Item title"
// @Param   body formData string false "Text body"
// @Param   url formData string false "Video URL"
// @Param   file formData file false "File or image upload"
// @Success 201 {object} util.Response{data=model.Content} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/manage/modules/{id}/contents/{type} [post]
func (c *ManageContentController) CreateContent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	input := contentInput(ctx)
	content, err := c.ContentService.CreateContent(ctx.Request.Context(), claims.UserID, id, ctx.Param("type"), input)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Created(ctx, content)
}

// UpdateContent godoc
// @Summary Update the item behind an owned content envelope
// @Tags manage
// @Accept  mpfd
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Content ID"
// @Param   title formData string true "Item title"
// @Param   body formData string false "Text body"
// @Param   url formData string false "Video URL"
// @Param   file formData file false "Replacement upload"
// @Success 200 {object} util.Response "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/manage/contents/{id} [put]
func (c *ManageContentController) UpdateContent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	input := contentInput(ctx)
	if err := c.ContentService.UpdateContent(ctx.Request.Context(), claims.UserID, id, input); err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// DeleteContent godoc
// @Summary Delete an owned content envelope and its item
// @Tags manage
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Content ID"
// @Success 200 {object} util.Response "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/manage/contents/{id} [delete]
func (c *ManageContentController) DeleteContent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.ContentService.DeleteContent(claims.UserID, id); err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

func contentInput(ctx *gin.Context) service.ContentItemInput {
	input := service.ContentItemInput{
		Title: ctx.PostForm("title"),
		Body:  ctx.PostForm("body"),
		URL:   ctx.PostForm("url"),
	}
	if file, err := ctx.FormFile("file"); err == nil {
		input.File = file
	}
	return input
}
