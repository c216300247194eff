package controller

import (
	"edutrack_backend/internal/model"
	"edutrack_backend/internal/service"
	"edutrack_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type FormationController struct {
	FormationService *service.FormationService
}

func NewFormationController(formationService *service.FormationService) *FormationController {
	return &FormationController{FormationService: formationService}
}

func mapFormationError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrFormationNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrAlreadyEnrolled), errors.Is(err, util.ErrFormationFull):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary Create formation
// @Tags formations
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.FormationInput true "formation"
// @Success 201 {object} util.Response
// @Router /formations [post]
func (c *FormationController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.FormationInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	formation, err := c.FormationService.Create(user.UserID, input)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, formation)
}

// @Summary Formation detail
// @Tags formations
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "formation id"
// @Success 200 {object} util.Response
// @Router /formations/{id} [get]
func (c *FormationController) Get(ctx *gin.Context) {
	formation, err := c.FormationService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		mapFormationError(ctx, err)
		return
	}
	util.Success(ctx, formation)
}

// @Summary List active formations
// @Tags formations
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} util.Response
// @Router /formations [get]
func (c *FormationController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	formations, total, err := c.FormationService.ListActive(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{
		List:  formations,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary My formations
// @Description Formations the learner is enrolled in
// @Tags formations
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /formations/enrolled [get]
func (c *FormationController) ListEnrolled(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	formations, err := c.FormationService.ListEnrolled(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, formations)
}

// @Summary Trainer formations
// @Tags formations
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /trainer/formations [get]
func (c *FormationController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	formations, err := c.FormationService.ListByTrainer(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, formations)
}

// @Summary Update formation
// @Tags formations
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "formation id"
// @Param body body service.FormationInput true "formation"
// @Success 200 {object} util.Response
// @Router /formations/{id} [put]
func (c *FormationController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.FormationInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	formation, err := c.FormationService.Update(user.UserID, util.MustParseUint(ctx.Param("id")), input)
	if err != nil {
		mapFormationError(ctx, err)
		return
	}
	util.Success(ctx, formation)
}

type statusRequest struct {
	Status model.FormationStatus `json:"status" binding:"required"`
}

// @Summary Change formation status
// @Tags formations
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "formation id"
// @Param body body statusRequest true "status"
// @Success 200 {object} util.Response
// @Router /formations/{id}/status [patch]
func (c *FormationController) SetStatus(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req statusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.FormationService.SetStatus(user.UserID, util.MustParseUint(ctx.Param("id")), req.Status); err != nil {
		mapFormationError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "status updated"})
}

// @Summary Join formation
// @Tags formations
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "formation id"
// @Success 200 {object} util.Response
// @Router /formations/{id}/join [post]
func (c *FormationController) Join(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.FormationService.Join(util.MustParseUint(ctx.Param("id")), user.UserID); err != nil {
		mapFormationError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "enrolled"})
}

// @Summary Formation participants
// @Tags formations
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "formation id"
// @Success 200 {object} util.Response
// @Router /formations/{id}/participants [get]
func (c *FormationController) Participants(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	users, err := c.FormationService.Participants(user.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		mapFormationError(ctx, err)
		return
	}
	util.Success(ctx, users)
}
