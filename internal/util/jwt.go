package util

import (
	"errors"
	"skillstreak_backend/internal/config"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims 托管认证服务签发的访问令牌，sub 为用户 ID
type Claims struct {
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	return c.Subject
}

// DisplayName 优先使用 user_metadata.name，其次邮箱
func (c *Claims) DisplayName() string {
	if name, ok := c.UserMetadata["name"].(string); ok && name != "" {
		return name
	}
	return c.Email
}

// GenerateJWT 仅用于本地联调和测试，线上令牌由认证服务签发
func GenerateJWT(userID, email string, auth config.AuthConfig, expiration time.Duration) (string, error) {
	claims := &Claims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    auth.Issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}
	if auth.Audience != "" {
		claims.Audience = jwt.ClaimStrings{auth.Audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(auth.JWTSecret))
}

func ParseJWT(tokenString string, auth config.AuthConfig) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if auth.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(auth.Issuer))
	}
	if auth.Audience != "" {
		opts = append(opts, jwt.WithAudience(auth.Audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(auth.JWTSecret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func GetUserFromContext(c *gin.Context) *Claims {
	user, exists := c.Get("user")
	if !exists {
		return nil
	}
	claims, ok := user.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// RequireSelf 校验路径或请求体中的 userId 与令牌一致，绝不以他人身份处理请求
func RequireSelf(c *gin.Context, userID string) (*Claims, bool) {
	claims := GetUserFromContext(c)
	if claims == nil {
		Unauthorized(c)
		return nil, false
	}
	if userID != "" && userID != claims.UserID() {
		Forbidden(c)
		return nil, false
	}
	return claims, true
}
