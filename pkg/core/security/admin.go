package security

import (
	"strings"
	"time"

	errorc "wopanel/pkg/core/err"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type AdminAuth struct {
	jwtClient *JwtClient
}

type AdminClaims struct {
	jwt.RegisteredClaims
	ID      int64    `json:"id"`
	Account string   `json:"account,omitempty"`
	Roles   []string `json:"roles,omitempty"`
	IsSuper bool     `json:"is_super,omitempty"`
}

func NewAdminAuth(secret []byte, expireTime time.Duration) *AdminAuth {
	return &AdminAuth{
		jwtClient: NewJwtClient(secret, expireTime),
	}
}

// CreateAdminToken 创建管理员token
func (a *AdminAuth) CreateAdminToken(claims *AdminClaims) (string, int64, error) {
	return a.jwtClient.CreateToken(claims)
}

// RequireAdminAuth 管理员权限校验中间件
func (a *AdminAuth) RequireAdminAuth(requiredRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			return errorc.New("authorization header is required", nil).NoAuth()
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		claims, err := a.jwtClient.ParseToken(token)
		if err != nil {
			return errorc.New("invalid token", err).NoAuth()
		}

		// 保存管理员信息到上下文
		a.jwtClient.SaveToContext(c, claims)

		// 超级管理员跳过权限校验，直接放行
		if IsAdminSuper(c) {
			return c.Next()
		}

		if len(requiredRoles) == 0 {
			return c.Next()
		}

		granted := make(map[string]struct{}, len(claims.Roles))
		for _, role := range claims.Roles {
			granted[role] = struct{}{}
		}
		for _, role := range requiredRoles {
			if _, ok := granted[role]; !ok {
				return errorc.New("permission denied", nil).Forbidden()
			}
		}
		return c.Next()
	}
}

// GetAdminID 获取管理员ID
func GetAdminID(c *fiber.Ctx) (int64, error) {
	if c == nil {
		return 0, errorc.New("fiber context is nil", nil).WithCode(errorc.ErrorCodeInternal)
	}
	id, ok := c.Locals("user_id").(int64)
	if !ok || id == 0 {
		return 0, errorc.New("admin id not found or invalid", nil).NoAuth()
	}
	return id, nil
}

// GetAdminAccount 获取管理员账号
func GetAdminAccount(c *fiber.Ctx) (string, error) {
	if c == nil {
		return "", errorc.New("fiber context is nil", nil).WithCode(errorc.ErrorCodeInternal)
	}
	account, ok := c.Locals("account").(string)
	if !ok || account == "" {
		return "", errorc.New("admin account not found or empty", nil).NoAuth()
	}
	return account, nil
}

// IsAdminSuper 判断是否为超级管理员
func IsAdminSuper(c *fiber.Ctx) bool {
	if c == nil {
		return false
	}
	isSuper, ok := c.Locals("is_super").(bool)
	if !ok {
		return false
	}
	return isSuper
}
