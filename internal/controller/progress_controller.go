package controller

import (
	"edutrack_backend/internal/service"
	"edutrack_backend/internal/util"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary Complete lesson
// @Description Records the completion; repeating it is a no-op
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param lessonId path int true "lesson id"
// @Success 200 {object} util.Response
// @Router /lessons/{lessonId}/complete [post]
func (c *ProgressController) CompleteLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ProgressService.CompleteLesson(user.UserID, util.MustParseUint(ctx.Param("lessonId"))); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "lesson completed"})
}

// @Summary Formation progress
// @Description Per-module and overall completion ratios for the learner
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "formation id"
// @Success 200 {object} util.Response
// @Router /formations/{id}/progress [get]
func (c *ProgressController) FormationProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.GetFormationProgress(user.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary Live progress stream
// @Description Server-sent events emitting a payload per completion until the client disconnects
// @Tags progress
// @Produce text/event-stream
// @Security ApiKeyAuth
// @Param id path int true "formation id"
// @Success 200 {string} string "event stream"
// @Router /formations/{id}/progress/live [get]
func (c *ProgressController) LiveProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	events, cancel, err := c.ProgressService.Subscribe(ctx.Request.Context(), user.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer cancel()

	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")

	ctx.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			ctx.SSEvent("progress", event)
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}
