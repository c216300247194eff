package controller

import (
	"edutrack_backend/internal/model"
	"edutrack_backend/internal/service"
	"edutrack_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

func mapContentError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrModuleNotFound), errors.Is(err, util.ErrLessonNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrFormationNotFound):
		util.NotFound(ctx)
	default:
		util.BadRequest(ctx, err.Error())
	}
}

type moduleRequest struct {
	Title string `json:"title" binding:"required"`
}

// @Summary Create module
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "formation id"
// @Param body body moduleRequest true "module"
// @Success 201 {object} util.Response
// @Router /formations/{id}/modules [post]
func (c *ContentController) CreateModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req moduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.ContentService.CreateModule(user.UserID, util.MustParseUint(ctx.Param("id")), req.Title)
	if err != nil {
		mapFormationError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// @Summary List modules with lessons
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "formation id"
// @Success 200 {object} util.Response
// @Router /formations/{id}/modules [get]
func (c *ContentController) ListModules(ctx *gin.Context) {
	modules, err := c.ContentService.Modules(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

type reorderRequest struct {
	OrderedIDs []uint `json:"orderedIds" binding:"required"`
}

// @Summary Reorder modules
// @Description Rewrites module positions atomically after a drag
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "formation id"
// @Param body body reorderRequest true "ordered ids"
// @Success 200 {object} util.Response
// @Router /formations/{id}/modules/reorder [put]
func (c *ContentController) ReorderModules(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req reorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ContentService.ReorderModules(user.UserID, util.MustParseUint(ctx.Param("id")), req.OrderedIDs); err != nil {
		mapFormationError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "modules reordered"})
}

// @Summary Rename module
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "module id"
// @Param body body moduleRequest true "module"
// @Success 200 {object} util.Response
// @Router /modules/{moduleId} [put]
func (c *ContentController) RenameModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req moduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.ContentService.RenameModule(user.UserID, util.MustParseUint(ctx.Param("moduleId")), req.Title)
	if err != nil {
		mapContentError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// @Summary Delete module
// @Description Deletes the module with its lessons and compacts the order of survivors
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "module id"
// @Success 200 {object} util.Response
// @Router /modules/{moduleId} [delete]
func (c *ContentController) DeleteModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ContentService.DeleteModule(user.UserID, util.MustParseUint(ctx.Param("moduleId"))); err != nil {
		mapContentError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "module deleted"})
}

// @Summary Create lesson
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "module id"
// @Param body body service.LessonInput true "lesson"
// @Success 201 {object} util.Response
// @Router /modules/{moduleId}/lessons [post]
func (c *ContentController) CreateLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.LessonInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.ContentService.CreateLesson(user.UserID, util.MustParseUint(ctx.Param("moduleId")), input)
	if err != nil {
		mapContentError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// @Summary Upload lesson media
// @Description Stores a video or PDF; video duration is probed when absent
// @Tags content
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param lessonId path int true "lesson id"
// @Param file formData file true "media"
// @Success 200 {object} util.Response
// @Router /lessons/{lessonId}/media [post]
func (c *ContentController) UploadLessonMedia(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	lesson, err := c.ContentService.UploadLessonMedia(ctx.Request.Context(), user.UserID, util.MustParseUint(ctx.Param("lessonId")), file)
	if err != nil {
		mapContentError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary Reorder lessons
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "module id"
// @Param body body reorderRequest true "ordered ids"
// @Success 200 {object} util.Response
// @Router /modules/{moduleId}/lessons/reorder [put]
func (c *ContentController) ReorderLessons(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req reorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ContentService.ReorderLessons(user.UserID, util.MustParseUint(ctx.Param("moduleId")), req.OrderedIDs); err != nil {
		mapContentError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "lessons reordered"})
}

// @Summary Delete lesson
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param lessonId path int true "lesson id"
// @Success 200 {object} util.Response
// @Router /lessons/{lessonId} [delete]
func (c *ContentController) DeleteLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ContentService.DeleteLesson(user.UserID, util.MustParseUint(ctx.Param("lessonId"))); err != nil {
		mapContentError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "lesson deleted"})
}

type questionRequest struct {
	Question     string   `json:"question" binding:"required"`
	Options      []string `json:"options" binding:"required"`
	CorrectIndex int      `json:"correctIndex"`
	Points       int      `json:"points"`
	Order        int      `json:"order"`
}

// @Summary Create quiz question
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "module id"
// @Param body body questionRequest true "question"
// @Success 201 {object} util.Response
// @Router /modules/{moduleId}/quiz [post]
func (c *ContentController) CreateQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req questionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question := &model.QuizQuestion{
		ModuleID:     util.MustParseUint(ctx.Param("moduleId")),
		Question:     req.Question,
		Options:      model.StringSlice(req.Options),
		CorrectIndex: req.CorrectIndex,
		Points:       req.Points,
		Order:        req.Order,
	}
	if err := c.ContentService.CreateQuestion(user.UserID, question); err != nil {
		mapContentError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": question.ID})
}

// @Summary Delete quiz question
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param questionId path int true "question id"
// @Success 200 {object} util.Response
// @Router /quiz/questions/{questionId} [delete]
func (c *ContentController) DeleteQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ContentService.DeleteQuestion(user.UserID, util.MustParseUint(ctx.Param("questionId"))); err != nil {
		mapContentError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "question deleted"})
}
