package controller

import (
	"edutrack_backend/internal/service"
	"edutrack_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// @Summary Module quiz
// @Description Questions without the correct answers
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "module id"
// @Success 200 {object} util.Response
// @Router /modules/{moduleId}/quiz [get]
func (c *QuizController) Questions(ctx *gin.Context) {
	questions, err := c.QuizService.Questions(util.MustParseUint(ctx.Param("moduleId")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

type submitQuizRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

// @Summary Submit quiz
// @Description Scores the attempt; a pass also completes the module's quiz slot
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "module id"
// @Param body body submitQuizRequest true "answers"
// @Success 200 {object} util.Response
// @Router /modules/{moduleId}/quiz/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req submitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.Submit(user.UserID, util.MustParseUint(ctx.Param("moduleId")), req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrQuizEmpty), errors.Is(err, util.ErrAnswerCountMismatch):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// @Summary Quiz history
// @Description The learner's attempts for a module, newest first
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "module id"
// @Success 200 {object} util.Response
// @Router /modules/{moduleId}/quiz/history [get]
func (c *QuizController) History(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	results, err := c.QuizService.History(user.UserID, util.MustParseUint(ctx.Param("moduleId")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
