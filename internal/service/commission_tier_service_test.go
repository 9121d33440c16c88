package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCommissionTierServiceTest(t *testing.T) (*CommissionTierService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:commission_tier_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.CommissionTier{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	return NewCommissionTierService(repository.NewCommissionTierRepository(db)), db
}

func TestEnsureDefaultsSeedsTiers(t *testing.T) {
	svc, db := setupCommissionTierServiceTest(t)

	tiers, err := svc.ListAll()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tiers) != 5 {
		t.Fatalf("expected 5 default tiers, got %d", len(tiers))
	}
	if tiers[0].Level != 1 || !tiers[0].RatePercent.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected level 1 at 10%%, got level=%d rate=%s", tiers[0].Level, tiers[0].RatePercent.Decimal.String())
	}

	// 再次调用不重复写入
	if _, err := svc.ListAll(); err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	var count int64
	if err := db.Model(&models.CommissionTier{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 rows, got %d", count)
	}
}

func TestEnsureDefaultsSkipsNonEmptyTable(t *testing.T) {
	svc, db := setupCommissionTierServiceTest(t)
	tier := models.CommissionTier{
		Level:       1,
		RatePercent: models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
		IsActive:    true,
	}
	if err := db.Create(&tier).Error; err != nil {
		t.Fatalf("create tier failed: %v", err)
	}

	tiers, err := svc.ListAll()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tiers) != 1 {
		t.Fatalf("expected existing config untouched, got %d tiers", len(tiers))
	}
}

func TestActiveRateMapExcludesDisabled(t *testing.T) {
	svc, _ := setupCommissionTierServiceTest(t)

	if _, err := svc.ListAll(); err != nil {
		t.Fatalf("seed defaults failed: %v", err)
	}
	if _, err := svc.Upsert(CommissionTierInput{Level: 2, RatePercent: decimal.NewFromInt(5), IsActive: false}); err != nil {
		t.Fatalf("disable level 2 failed: %v", err)
	}

	rates, err := svc.ActiveRateMap()
	if err != nil {
		t.Fatalf("rate map failed: %v", err)
	}
	if _, ok := rates[2]; ok {
		t.Fatalf("disabled level must be absent from rate map")
	}
	if !rates[1].Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected level 1 rate 10, got %s", rates[1].String())
	}
}

func TestUpsertCreatesDisabledTier(t *testing.T) {
	svc, db := setupCommissionTierServiceTest(t)

	// 新建即停用的层级，落库后必须保持停用
	created, err := svc.Upsert(CommissionTierInput{Level: 8, RatePercent: decimal.NewFromInt(2), IsActive: false})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.IsActive {
		t.Fatalf("expected tier disabled after create")
	}

	var reloaded models.CommissionTier
	if err := db.First(&reloaded, created.ID).Error; err != nil {
		t.Fatalf("reload tier failed: %v", err)
	}
	if reloaded.IsActive {
		t.Fatalf("expected is_active false persisted, row is active")
	}

	rates, err := svc.ActiveRateMap()
	if err != nil {
		t.Fatalf("rate map failed: %v", err)
	}
	if _, ok := rates[8]; ok {
		t.Fatalf("disabled tier must not enter rate map")
	}
}

func TestUpsertValidation(t *testing.T) {
	svc, _ := setupCommissionTierServiceTest(t)

	cases := []CommissionTierInput{
		{Level: 0, RatePercent: decimal.NewFromInt(5)},
		{Level: -1, RatePercent: decimal.NewFromInt(5)},
		{Level: 101, RatePercent: decimal.NewFromInt(5)},
		{Level: 1, RatePercent: decimal.NewFromInt(-1)},
		{Level: 1, RatePercent: decimal.NewFromInt(120)},
	}
	for _, input := range cases {
		if _, err := svc.Upsert(input); err != ErrCommissionTierInvalid {
			t.Fatalf("expected ErrCommissionTierInvalid for %+v, got %v", input, err)
		}
	}
}

func TestUpsertCreateThenUpdate(t *testing.T) {
	svc, db := setupCommissionTierServiceTest(t)

	created, err := svc.Upsert(CommissionTierInput{Level: 6, RatePercent: decimal.NewFromFloat(0.5), IsActive: true, Remark: "第六层试行"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected id assigned")
	}

	updated, err := svc.Upsert(CommissionTierInput{Level: 6, RatePercent: decimal.NewFromInt(1), IsActive: true})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected same row updated, got %d and %d", created.ID, updated.ID)
	}
	if !updated.RatePercent.Decimal.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected rate 1, got %s", updated.RatePercent.Decimal.String())
	}

	var count int64
	if err := db.Model(&models.CommissionTier{}).Where("level = ?", 6).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single row for level 6, got %d", count)
	}
}

func TestUpdateByIDKeepsLevel(t *testing.T) {
	svc, _ := setupCommissionTierServiceTest(t)

	created, err := svc.Upsert(CommissionTierInput{Level: 3, RatePercent: decimal.NewFromInt(3), IsActive: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.UpdateByID(created.ID, CommissionTierInput{Level: 99, RatePercent: decimal.NewFromInt(4), IsActive: false})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Level != 3 {
		t.Fatalf("level must be immutable, got %d", updated.Level)
	}
	if updated.IsActive {
		t.Fatalf("expected tier disabled")
	}

	if _, err := svc.UpdateByID(9999, CommissionTierInput{RatePercent: decimal.NewFromInt(1)}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTier(t *testing.T) {
	svc, db := setupCommissionTierServiceTest(t)

	created, err := svc.Upsert(CommissionTierInput{Level: 7, RatePercent: decimal.NewFromInt(1), IsActive: true})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	var count int64
	if err := db.Model(&models.CommissionTier{}).Where("id = ?", created.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected row gone, got %d", count)
	}
	if err := svc.Delete(created.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
