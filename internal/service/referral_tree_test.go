package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupReferralTreeTest(t *testing.T) (*ReferralTreeService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:referral_tree_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewReferralTreeService(repository.NewUserRepository(db)), db
}

func createTreeUser(t *testing.T, db *gorm.DB, id uint, referrerID *uint) {
	t.Helper()
	user := models.User{
		ID:           id,
		Email:        fmt.Sprintf("tree_user_%d@example.com", id),
		PasswordHash: "hash",
		Role:         "member",
		ReferralCode: fmt.Sprintf("TREE%04d", id),
		ReferrerID:   referrerID,
		IsActive:     true,
		JoinedAt:     time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
}

func TestWalkUpRespectsMaxLevels(t *testing.T) {
	svc, db := setupReferralTreeTest(t)
	// 1 <- 2 <- 3 <- 4 <- 5
	createTreeUser(t, db, 1, nil)
	for id := uint(2); id <= 5; id++ {
		parent := id - 1
		createTreeUser(t, db, id, &parent)
	}

	ancestors, err := svc.WalkUp(5, 2)
	if err != nil {
		t.Fatalf("walk up failed: %v", err)
	}
	if len(ancestors) != 2 {
		t.Fatalf("expected 2 ancestors, got %d", len(ancestors))
	}
	if ancestors[0].User.ID != 4 || ancestors[0].Level != 1 {
		t.Fatalf("unexpected first ancestor: %+v", ancestors[0])
	}
	if ancestors[1].User.ID != 3 || ancestors[1].Level != 2 {
		t.Fatalf("unexpected second ancestor: %+v", ancestors[1])
	}
}

func TestWalkUpStopsAtRoot(t *testing.T) {
	svc, db := setupReferralTreeTest(t)
	root := uint(1)
	createTreeUser(t, db, 1, nil)
	createTreeUser(t, db, 2, &root)

	ancestors, err := svc.WalkUp(2, 10)
	if err != nil {
		t.Fatalf("walk up failed: %v", err)
	}
	if len(ancestors) != 1 {
		t.Fatalf("expected 1 ancestor, got %d", len(ancestors))
	}
}

func TestWalkUpTerminatesOnCycle(t *testing.T) {
	svc, db := setupReferralTreeTest(t)
	// 脏数据：1 与 2 互为推荐人
	two := uint(2)
	one := uint(1)
	createTreeUser(t, db, 1, &two)
	createTreeUser(t, db, 2, &one)

	ancestors, err := svc.WalkUp(1, 50)
	if err != nil {
		t.Fatalf("walk up failed: %v", err)
	}
	if len(ancestors) != 1 {
		t.Fatalf("expected cycle to terminate after 1 ancestor, got %d", len(ancestors))
	}
	if ancestors[0].User.ID != 2 {
		t.Fatalf("unexpected ancestor: %+v", ancestors[0])
	}
}

func TestWalkUpUnknownUser(t *testing.T) {
	svc, _ := setupReferralTreeTest(t)
	ancestors, err := svc.WalkUp(999, 5)
	if err != nil {
		t.Fatalf("walk up failed: %v", err)
	}
	if len(ancestors) != 0 {
		t.Fatalf("expected no ancestors for unknown user, got %d", len(ancestors))
	}
}

func TestWalkDownLevels(t *testing.T) {
	svc, db := setupReferralTreeTest(t)
	root := uint(1)
	createTreeUser(t, db, 1, nil)
	createTreeUser(t, db, 2, &root)
	createTreeUser(t, db, 3, &root)
	two := uint(2)
	createTreeUser(t, db, 4, &two)

	levels, err := svc.WalkDown(1, 10)
	if err != nil {
		t.Fatalf("walk down failed: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	if len(levels[0]) != 2 {
		t.Fatalf("expected 2 direct referrals, got %d", len(levels[0]))
	}
	if len(levels[1]) != 1 || levels[1][0].ID != 4 {
		t.Fatalf("unexpected second level: %+v", levels[1])
	}
}

func TestWalkDownDepthLimit(t *testing.T) {
	svc, db := setupReferralTreeTest(t)
	createTreeUser(t, db, 1, nil)
	for id := uint(2); id <= 4; id++ {
		parent := id - 1
		createTreeUser(t, db, id, &parent)
	}

	levels, err := svc.WalkDown(1, 2)
	if err != nil {
		t.Fatalf("walk down failed: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("expected depth capped at 2, got %d", len(levels))
	}
}
