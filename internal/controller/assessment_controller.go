package controller

import (
	"skillstreak_backend/internal/service"
	"skillstreak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	AssessmentService *service.AssessmentService
}

func NewAssessmentController(assessmentService *service.AssessmentService) *AssessmentController {
	return &AssessmentController{AssessmentService: assessmentService}
}

type SaveAssessmentRequest struct {
	UserID string `json:"userId"`
	// Results 客户端计算的结果，仅为兼容旧客户端，服务端会重新计分
	Results any         `json:"results" swaggertype:"object"`
	Answers map[int]int `json:"answers"`
}

// @Summary 获取自评问卷
// @Description 返回 12 道李克特量表题目及其所属技能
// @Tags 技能自评
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /assessment/questions [get]
func (c *AssessmentController) GetQuestions(ctx *gin.Context) {
	util.Success(ctx, gin.H{"questions": c.AssessmentService.Questions()})
}

// @Summary 获取当前自评
// @Description 返回用户最新一次技能自评，没有时 assessment 为 null
// @Tags 技能自评
// @Produce json
// @Security BearerAuth
// @Param userId path string true "用户ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse
// @Router /assessment/{userId} [get]
func (c *AssessmentController) GetAssessment(ctx *gin.Context) {
	_, userID, ok := resolveUser(ctx, ctx.Param("userId"))
	if !ok {
		return
	}

	assessment, err := c.AssessmentService.GetCurrent(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"assessment": assessment})
}

// @Summary 保存技能自评
// @Description 按答案计分并保存为当前自评，所有题目必须作答
// @Tags 技能自评
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SaveAssessmentRequest true "自评答案"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} util.ErrorResponse
// @Router /save-assessment [post]
func (c *AssessmentController) SaveAssessment(ctx *gin.Context) {
	var req SaveAssessmentRequest
	if !bindJSON(ctx, &req) {
		return
	}
	_, userID, ok := resolveUser(ctx, req.UserID)
	if !ok {
		return
	}

	assessment, err := c.AssessmentService.Save(ctx.Request.Context(), userID, req.Answers)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"success":    true,
		"assessment": assessment,
	})
}
