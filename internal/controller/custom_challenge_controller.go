package controller

import (
	"skillstreak_backend/internal/service"
	"skillstreak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CustomChallengeController struct {
	CustomChallengeService *service.CustomChallengeService
}

func NewCustomChallengeController(customChallengeService *service.CustomChallengeService) *CustomChallengeController {
	return &CustomChallengeController{CustomChallengeService: customChallengeService}
}

type CreateCustomChallengeRequest struct {
	UserID string `json:"userId"`
	service.CustomChallengeInput
}

// @Summary 自定义挑战列表
// @Tags 自定义挑战
// @Produce json
// @Security BearerAuth
// @Param userId path string true "用户ID"
// @Success 200 {object} map[string]interface{}
// @Router /custom-challenges/{userId} [get]
func (c *CustomChallengeController) ListCustomChallenges(ctx *gin.Context) {
	_, userID, ok := resolveUser(ctx, ctx.Param("userId"))
	if !ok {
		return
	}

	challenges, err := c.CustomChallengeService.List(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"challenges": challenges})
}

// @Summary 创建自定义挑战
// @Tags 自定义挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCustomChallengeRequest true "挑战内容"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} util.ErrorResponse
// @Router /custom-challenges [post]
func (c *CustomChallengeController) CreateCustomChallenge(ctx *gin.Context) {
	var req CreateCustomChallengeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	_, userID, ok := resolveUser(ctx, req.UserID)
	if !ok {
		return
	}

	challenge, err := c.CustomChallengeService.Create(ctx.Request.Context(), userID, req.CustomChallengeInput)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"challenge": challenge})
}

// @Summary 更新自定义挑战
// @Description 部分更新，未提供的字段保持不变
// @Tags 自定义挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "挑战ID"
// @Param request body service.CustomChallengeUpdate true "更新内容"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} util.ErrorResponse
// @Router /custom-challenges/{id} [put]
func (c *CustomChallengeController) UpdateCustomChallenge(ctx *gin.Context) {
	var req service.CustomChallengeUpdate
	if !bindJSON(ctx, &req) {
		return
	}
	_, userID, ok := resolveUser(ctx, "")
	if !ok {
		return
	}

	challenge, err := c.CustomChallengeService.Update(ctx.Request.Context(), userID, ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"challenge": challenge})
}

// @Summary 删除自定义挑战
// @Tags 自定义挑战
// @Produce json
// @Security BearerAuth
// @Param id path string true "挑战ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} util.ErrorResponse
// @Router /custom-challenges/{id} [delete]
func (c *CustomChallengeController) DeleteCustomChallenge(ctx *gin.Context) {
	_, userID, ok := resolveUser(ctx, "")
	if !ok {
		return
	}

	if err := c.CustomChallengeService.Delete(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"success": true})
}

// @Summary 完成自定义挑战
// @Description 完成次数加一，停用的挑战不可完成
// @Tags 自定义挑战
// @Produce json
// @Security BearerAuth
// @Param id path string true "挑战ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /custom-challenges/{id}/complete [post]
func (c *CustomChallengeController) CompleteCustomChallenge(ctx *gin.Context) {
	_, userID, ok := resolveUser(ctx, "")
	if !ok {
		return
	}

	challenge, err := c.CustomChallengeService.Complete(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"challenge": challenge})
}
