package shared

import (
	"errors"

	"github.com/padmaaja-rasooi/internal/http/response"
	"github.com/padmaaja-rasooi/internal/logger"
	"github.com/padmaaja-rasooi/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// serviceErrorCodes 业务错误与响应码的映射。
var serviceErrorCodes = []struct {
	err  error
	code int
}{
	{service.ErrNotFound, response.CodeNotFound},
	{service.ErrInvalidCredentials, response.CodeUnauthorized},
	{service.ErrUserDisabled, response.CodeForbidden},
	{service.ErrEmailTaken, response.CodeBadRequest},
	{service.ErrWeakPassword, response.CodeBadRequest},
	{service.ErrReferralCodeInvalid, response.CodeBadRequest},
	{service.ErrRoleInvalid, response.CodeBadRequest},
	{service.ErrProductInactive, response.CodeBadRequest},
	{service.ErrProductInvalid, response.CodeBadRequest},
	{service.ErrCategoryNotEmpty, response.CodeBadRequest},
	{service.ErrProductOutOfStock, response.CodeBadRequest},
	{service.ErrOrderEmpty, response.CodeBadRequest},
	{service.ErrOrderStatusInvalid, response.CodeBadRequest},
	{service.ErrOrderNotCancellable, response.CodeBadRequest},
	{service.ErrPaymentStatusInvalid, response.CodeBadRequest},
	{service.ErrPaymentVerifyFailed, response.CodeBadRequest},
	{service.ErrPaymentOrderMismatch, response.CodeBadRequest},
	{service.ErrCommissionStatusInvalid, response.CodeBadRequest},
	{service.ErrCommissionTierInvalid, response.CodeBadRequest},
	{service.ErrPayoutAmountInvalid, response.CodeBadRequest},
	{service.ErrPayoutBelowMinimum, response.CodeBadRequest},
	{service.ErrPayoutStatusInvalid, response.CodeBadRequest},
	{service.ErrInsufficientBalance, response.CodeBadRequest},
	{service.ErrWalletAccountMissing, response.CodeBadRequest},
	{service.ErrEmailServiceDisabled, response.CodeBadRequest},
	{service.ErrEmailServiceNotConfigured, response.CodeBadRequest},
	{service.ErrInvalidEmail, response.CodeBadRequest},
}

// RespondServiceError 按业务错误类型返回响应，未识别错误按内部错误处理。
func RespondServiceError(c *gin.Context, err error) {
	for _, mapping := range serviceErrorCodes {
		if errors.Is(err, mapping.err) {
			RespondError(c, mapping.code, mapping.err.Error(), nil)
			return
		}
	}
	RespondError(c, response.CodeInternal, "internal server error", err)
}
