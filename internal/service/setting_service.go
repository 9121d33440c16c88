package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/padmaaja-rasooi/internal/cache"
	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"
	"github.com/shopspring/decimal"
)

const settingCacheTTL = 10 * time.Minute

// SettingService 系统配置业务服务
// 读取经过 Redis 缓存，Update 后显式失效对应键，不依赖 TTL 过期兜底。
type SettingService struct {
	repo repository.SettingRepository
}

// NewSettingService 创建配置服务
func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// GetByKey 获取配置值（缓存优先）
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	ctx := context.Background()
	cacheKey := settingCacheKey(key)

	var cached models.JSON
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	setting, err := s.repo.GetByKey(key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	_ = cache.SetJSON(ctx, cacheKey, setting.Value, settingCacheTTL)
	return setting.Value, nil
}

// Update 写入配置并失效缓存
func (s *SettingService) Update(key string, value map[string]interface{}) (models.JSON, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrNotFound
	}
	setting := &models.Setting{
		Key:   key,
		Value: models.JSON(value),
	}
	if err := s.repo.Upsert(setting); err != nil {
		return nil, err
	}
	s.Invalidate(key)
	return setting.Value, nil
}

// Invalidate 显式失效某配置键的缓存
func (s *SettingService) Invalidate(key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	_ = cache.Del(context.Background(), settingCacheKey(key))
}

// ListAll 获取全部配置（管理端）
func (s *SettingService) ListAll() ([]models.Setting, error) {
	return s.repo.ListAll()
}

// GetSiteConfig 获取站点配置（合并默认值）
func (s *SettingService) GetSiteConfig(defaults map[string]interface{}) (map[string]interface{}, error) {
	data := make(map[string]interface{})
	for k, v := range defaults {
		data[k] = v
	}
	value, err := s.GetByKey(constants.SettingKeySiteConfig)
	if err != nil {
		return nil, err
	}
	for k, v := range value {
		data[k] = v
	}
	return data, nil
}

// GetCommissionEnabled 分销开关（缺省开启）
func (s *SettingService) GetCommissionEnabled() (bool, error) {
	if s == nil {
		return true, nil
	}
	value, err := s.GetByKey(constants.SettingKeyReferralConfig)
	if err != nil {
		return true, err
	}
	if value == nil {
		return true, nil
	}
	raw, ok := value[constants.SettingFieldCommissionEnabled]
	if !ok {
		return true, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true"), nil
	case float64:
		return v != 0, nil
	default:
		return true, nil
	}
}

// GetMinPayoutAmount 获取最低提现金额（缺省值由调用方给定）
func (s *SettingService) GetMinPayoutAmount(defaultValue decimal.Decimal) (decimal.Decimal, error) {
	if s == nil {
		return defaultValue, nil
	}
	value, err := s.GetByKey(constants.SettingKeyReferralConfig)
	if err != nil {
		return defaultValue, err
	}
	if value == nil {
		return defaultValue, nil
	}
	raw, ok := value[constants.SettingFieldMinPayoutAmount]
	if !ok {
		return defaultValue, nil
	}
	amount, err := parseSettingDecimal(raw)
	if err != nil {
		return defaultValue, nil
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return defaultValue, nil
	}
	return amount.Round(2), nil
}

// GetOrderPaymentExpireMinutes 获取订单支付超时分钟配置
func (s *SettingService) GetOrderPaymentExpireMinutes(defaultValue int) (int, error) {
	if s == nil {
		return defaultValue, nil
	}
	value, err := s.GetByKey(constants.SettingKeyOrderConfig)
	if err != nil {
		return defaultValue, err
	}
	if value == nil {
		return defaultValue, nil
	}
	raw, ok := value[constants.SettingFieldPaymentExpireMinutes]
	if !ok {
		return defaultValue, nil
	}
	minutes, err := parseSettingInt(raw)
	if err != nil {
		return defaultValue, err
	}
	if minutes <= 0 {
		return defaultValue, nil
	}
	return minutes, nil
}

func settingCacheKey(key string) string {
	return "setting:" + key
}

func parseSettingInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), nil
		}
		if f, err := v.Float64(); err == nil {
			return int(f), nil
		}
		return 0, fmt.Errorf("invalid json number")
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("empty string")
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, err
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unsupported setting value type %T", value)
	}
}

func parseSettingDecimal(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return decimal.Zero, fmt.Errorf("empty string")
		}
		return decimal.NewFromString(trimmed)
	default:
		return decimal.Zero, fmt.Errorf("unsupported setting value type %T", value)
	}
}
