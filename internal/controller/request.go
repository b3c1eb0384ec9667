package controller

import (
	"errors"
	"io"

	"skillstreak_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// bindJSON 解析失败时直接写 400
func bindJSON(ctx *gin.Context, obj any) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			util.BadRequest(ctx, "request body is required")
		} else {
			util.BadRequest(ctx, "invalid JSON body: "+err.Error())
		}
		return false
	}
	return true
}

// resolveUser 请求中的 userId 为空时使用令牌中的用户
func resolveUser(ctx *gin.Context, userID string) (*util.Claims, string, bool) {
	claims, ok := util.RequireSelf(ctx, userID)
	if !ok {
		return nil, "", false
	}
	return claims, claims.UserID(), true
}
