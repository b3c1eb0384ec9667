package controller

import (
	"skillstreak_backend/internal/service"
	"skillstreak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	ProfileService *service.ProfileService
}

func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// @Summary 获取个人资料
// @Tags 个人资料
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	claims, userID, ok := resolveUser(ctx, "")
	if !ok {
		return
	}

	profile, err := c.ProfileService.Get(ctx.Request.Context(), userID, claims.Email, claims.DisplayName())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// @Summary 更新个人资料
// @Tags 个人资料
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ProfileInput true "资料"
// @Success 200 {object} model.Profile
// @Failure 400 {object} util.ErrorResponse
// @Router /profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	var req service.ProfileInput
	if !bindJSON(ctx, &req) {
		return
	}
	claims, userID, ok := resolveUser(ctx, "")
	if !ok {
		return
	}

	profile, err := c.ProfileService.Update(ctx.Request.Context(), userID, claims.Email, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}
