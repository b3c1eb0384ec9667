package util

import (
	"errors"
	"net/http"
	"skillstreak_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse 统一错误结构
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "forbidden", "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "validation_error", message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "not_found", "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal_error", "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

type errorMapping struct {
	target error
	status int
	code   string
}

// 顺序有意义：更具体的错误在前
var errorMappings = []errorMapping{
	{ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{ErrForbidden, http.StatusForbidden, "forbidden"},
	{ErrIncompleteAssessment, http.StatusBadRequest, "incomplete_assessment"},
	{ErrValidation, http.StatusBadRequest, "validation_error"},
	{ErrBudgetExhausted, http.StatusBadRequest, "budget_exhausted"},
	{ErrChallengeCompleted, http.StatusBadRequest, "challenge_completed"},
	{ErrNotFound, http.StatusNotFound, "not_found"},
	{ErrConflict, http.StatusConflict, "conflict"},
	{ErrNoChallenge, http.StatusInternalServerError, "no_challenge"},
	{ErrUpstreamStorage, http.StatusInternalServerError, "storage_error"},
}

// HandleError 将业务错误映射为 HTTP 响应，5xx 只返回通用信息
func HandleError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.status >= http.StatusInternalServerError {
			logger.Log.Error("request failed",
				zap.String("path", c.FullPath()),
				zap.String("code", m.code),
				zap.Error(err),
			)
			message := "Internal server error"
			if m.target == ErrNoChallenge {
				message = "No challenges available"
			}
			Error(c, m.status, m.code, message)
			return
		}
		Error(c, m.status, m.code, err.Error())
		return
	}
	LogInternalError(c, err)
}
