package controller

import (
	"skillstreak_backend/internal/service"
	"skillstreak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService *service.ChallengeService
}

func NewChallengeController(challengeService *service.ChallengeService) *ChallengeController {
	return &ChallengeController{ChallengeService: challengeService}
}

type SkipChallengeRequest struct {
	UserID string `json:"userId"`
}

type CompleteChallengeRequest struct {
	UserID      string `json:"userId"`
	ChallengeID string `json:"challengeId"`
	// Points 仅作参考，积分以当天挑战快照为准
	Points int `json:"points"`
}

// @Summary 获取今日挑战
// @Description 返回今天的挑战，首次请求时按最弱技能选择并保存
// @Tags 每日挑战
// @Produce json
// @Security BearerAuth
// @Param userId path string true "用户ID"
// @Success 200 {object} service.TodayChallenge
// @Failure 401 {object} util.ErrorResponse
// @Failure 500 {object} util.ErrorResponse
// @Router /daily-challenge/{userId} [get]
func (c *ChallengeController) GetDailyChallenge(ctx *gin.Context) {
	_, userID, ok := resolveUser(ctx, ctx.Param("userId"))
	if !ok {
		return
	}

	view, err := c.ChallengeService.Today(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 跳过今日挑战
// @Description 每天最多跳过两次，换一个不同的挑战
// @Tags 每日挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SkipChallengeRequest true "用户"
// @Success 200 {object} service.SkipResult
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Failure 409 {object} util.ErrorResponse
// @Router /skip-challenge [post]
func (c *ChallengeController) SkipChallenge(ctx *gin.Context) {
	var req SkipChallengeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	_, userID, ok := resolveUser(ctx, req.UserID)
	if !ok {
		return
	}

	result, err := c.ChallengeService.Skip(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 完成今日挑战
// @Description 标记完成并返回最新的连续天数、积分和等级
// @Tags 每日挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CompleteChallengeRequest true "完成信息"
// @Success 200 {object} service.CompletionResult
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /complete-challenge [post]
func (c *ChallengeController) CompleteChallenge(ctx *gin.Context) {
	var req CompleteChallengeRequest
	if !bindJSON(ctx, &req) {
		return
	}
	_, userID, ok := resolveUser(ctx, req.UserID)
	if !ok {
		return
	}

	result, err := c.ChallengeService.Complete(ctx.Request.Context(), userID, req.ChallengeID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
