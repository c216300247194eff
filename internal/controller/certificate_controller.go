package controller

import (
	"edutrack_backend/internal/service"
	"edutrack_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// @Summary Certificate status
// @Description Resolves obtained, eligible or locked across the learner's formations
// @Tags certificates
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /certificates/status [get]
func (c *CertificateController) Status(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.CertificateService.Status(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// @Summary Issue certificate
// @Description Renders and stores the certificate for an eligible formation
// @Tags certificates
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "formation id"
// @Success 201 {object} util.Response
// @Router /formations/{id}/certificate [post]
func (c *CertificateController) Issue(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	cert, err := c.CertificateService.Issue(ctx.Request.Context(), user.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCertificateExists):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrNotEligible):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrFormationNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, cert)
}

// @Summary My certificates
// @Tags certificates
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /certificates [get]
func (c *CertificateController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	certs, err := c.CertificateService.List(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}
