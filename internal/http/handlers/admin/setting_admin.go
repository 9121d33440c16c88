package admin

import (
	"github.com/padmaaja-rasooi/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UpdateSettingRequest 配置更新请求
type UpdateSettingRequest struct {
	Key   string                 `json:"key" binding:"required"`
	Value map[string]interface{} `json:"value" binding:"required"`
}

// ListSettings 系统配置列表
func (h *Handler) ListSettings(c *gin.Context) {
	if key := c.Query("key"); key != "" {
		value, err := h.SettingService.GetByKey(key)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.Success(c, gin.H{"key": key, "value": value})
		return
	}
	settings, err := h.SettingService.ListAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, settings)
}

// UpdateSetting 更新系统配置并失效对应缓存
func (h *Handler) UpdateSetting(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	value, err := h.SettingService.Update(req.Key, req.Value)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"key": req.Key, "value": value})
}
