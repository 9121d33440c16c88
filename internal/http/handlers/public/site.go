package public

import (
	"github.com/padmaaja-rasooi/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetSiteConfig 站点公开配置
func (h *Handler) GetSiteConfig(c *gin.Context) {
	defaults := map[string]interface{}{
		"site_name": "Padmaaja Rasooi",
		"currency":  "INR",
	}
	data, err := h.SettingService.GetSiteConfig(defaults)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, data)
}
