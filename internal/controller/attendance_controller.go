package controller

import (
	"edutrack_backend/internal/service"
	"edutrack_backend/internal/util"
	"edutrack_backend/pkg/monitoring"
	"errors"

	"github.com/gin-gonic/gin"
)

type AttendanceController struct {
	AttendanceService *service.AttendanceService
	FormationService  *service.FormationService
}

func NewAttendanceController(attendanceService *service.AttendanceService, formationService *service.FormationService) *AttendanceController {
	return &AttendanceController{
		AttendanceService: attendanceService,
		FormationService:  formationService,
	}
}

// @Summary Issue attendance code
// @Description Opens a time-boxed attendance session and notifies enrolled learners
// @Tags attendance
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "formation id"
// @Success 201 {object} util.Response
// @Router /formations/{id}/attendance/sessions [post]
func (c *AttendanceController) IssueSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	formationID := util.MustParseUint(ctx.Param("id"))
	if err := c.FormationService.AssertOwner(user.UserID, formationID); err != nil {
		mapFormationError(ctx, err)
		return
	}

	session, err := c.AttendanceService.IssueSession(formationID)
	if err != nil {
		mapFormationError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

type validateCodeRequest struct {
	Code string `json:"code" binding:"required,len=4"`
}

// @Summary Validate attendance code
// @Description Marks the learner present; duplicate codes within a session are rejected
// @Tags attendance
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "formation id"
// @Param body body validateCodeRequest true "code"
// @Success 200 {object} util.Response
// @Router /formations/{id}/attendance/validate [post]
func (c *AttendanceController) ValidateCode(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req validateCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mark, err := c.AttendanceService.ValidateCode(util.MustParseUint(ctx.Param("id")), user.UserID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidCode):
			monitoring.AttendanceValidations.WithLabelValues("invalid").Inc()
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrExpiredCode):
			monitoring.AttendanceValidations.WithLabelValues("expired").Inc()
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrAlreadyMarked):
			monitoring.AttendanceValidations.WithLabelValues("duplicate").Inc()
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.AttendanceValidations.WithLabelValues("ok").Inc()
	util.Success(ctx, mark)
}

// @Summary Current attendance session
// @Tags attendance
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "formation id"
// @Success 200 {object} util.Response
// @Router /formations/{id}/attendance/sessions/current [get]
func (c *AttendanceController) CurrentSession(ctx *gin.Context) {
	session, err := c.AttendanceService.CurrentSession(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if session == nil {
		util.Success(ctx, gin.H{"active": false})
		return
	}
	util.Success(ctx, gin.H{"active": true, "session": session})
}

// @Summary Session marks
// @Description Lists who was marked present in a session
// @Tags attendance
// @Produce json
// @Security ApiKeyAuth
// @Param sessionId path int true "session id"
// @Success 200 {object} util.Response
// @Router /attendance/sessions/{sessionId}/marks [get]
func (c *AttendanceController) SessionMarks(ctx *gin.Context) {
	marks, err := c.AttendanceService.SessionMarks(util.MustParseUint(ctx.Param("sessionId")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, marks)
}
