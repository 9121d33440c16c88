package shared

import (
	"github.com/padmaaja-rasooi/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidMsg, typeInvalidMsg string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidMsg, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidMsg, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidMsg, nil)
		return 0, false
	}
}

// CurrentUserID 读取已登录用户 ID。
func CurrentUserID(c *gin.Context) (uint, bool) {
	return GetContextUintWithKeys(c, "user_id", "invalid user id", "invalid user id type")
}

// CurrentAdminID 读取已登录管理员 ID。
func CurrentAdminID(c *gin.Context) (uint, bool) {
	return GetContextUintWithKeys(c, "admin_id", "invalid admin id", "invalid admin id type")
}
