package controller

import (
	"skillstreak_backend/internal/service"
	"skillstreak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 获取进度统计
// @Description 由完成记录计算连续天数、周/月统计和等级；数据库不可用时返回带 stale 标记的快照
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Param userId path string true "用户ID"
// @Success 200 {object} model.ProgressSummary
// @Failure 500 {object} util.ErrorResponse
// @Router /progress/{userId} [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	_, userID, ok := resolveUser(ctx, ctx.Param("userId"))
	if !ok {
		return
	}

	summary, err := c.ProgressService.Summary(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}
