package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupGenealogyServiceTest(t *testing.T, genealogyDepth, teamDepth int) (*GenealogyService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:genealogy_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.WalletAccount{},
		&models.WalletTransaction{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	userRepo := repository.NewUserRepository(db)
	svc := NewGenealogyService(
		userRepo,
		repository.NewOrderRepository(db),
		repository.NewWalletRepository(db),
		NewReferralTreeService(userRepo),
		genealogyDepth,
		teamDepth,
	)
	return svc, db
}

func createTeamUser(t *testing.T, db *gorm.DB, id uint, referrerID *uint) {
	t.Helper()
	user := models.User{
		ID:           id,
		Name:         fmt.Sprintf("Member %d", id),
		Email:        fmt.Sprintf("team_user_%d@example.com", id),
		PasswordHash: "hash",
		Role:         constants.RoleMember,
		ReferralCode: fmt.Sprintf("TEAM%04d", id),
		ReferrerID:   referrerID,
		IsActive:     true,
		JoinedAt:     time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
}

func createTeamOrder(t *testing.T, db *gorm.DB, userID uint, total int64, status string) {
	t.Helper()
	order := models.Order{
		OrderNo:     fmt.Sprintf("PRTEAM%d%d", userID, time.Now().UnixNano()),
		UserID:      userID,
		Status:      status,
		Subtotal:    models.NewMoneyFromDecimal(decimal.NewFromInt(total)),
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(total)),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
}

// 树形：1 → (2, 3)，2 → (4)，4 → (5)
func seedTeamTree(t *testing.T, db *gorm.DB) {
	t.Helper()
	uid1, uid2, uid4 := uint(1), uint(2), uint(4)
	createTeamUser(t, db, 1, nil)
	createTeamUser(t, db, 2, &uid1)
	createTeamUser(t, db, 3, &uid1)
	createTeamUser(t, db, 4, &uid2)
	createTeamUser(t, db, 5, &uid4)
}

func TestBuildTreeStructure(t *testing.T) {
	svc, db := setupGenealogyServiceTest(t, 5, 50)
	seedTeamTree(t, db)

	root, err := svc.BuildTree(1)
	if err != nil {
		t.Fatalf("build tree failed: %v", err)
	}
	if root.UserID != 1 || root.Level != 0 {
		t.Fatalf("unexpected root: %+v", root)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 direct children, got %d", len(root.Children))
	}

	var node2 *GenealogyNode
	for _, child := range root.Children {
		if child.UserID == 2 {
			node2 = child
		}
	}
	if node2 == nil {
		t.Fatalf("expected user 2 under root")
	}
	if len(node2.Children) != 1 || node2.Children[0].UserID != 4 {
		t.Fatalf("expected user 4 under user 2, got %+v", node2.Children)
	}
	if node2.Children[0].Level != 2 {
		t.Fatalf("expected level 2 for user 4, got %d", node2.Children[0].Level)
	}
}

func TestBuildTreeNodeStats(t *testing.T) {
	svc, db := setupGenealogyServiceTest(t, 5, 50)
	seedTeamTree(t, db)

	account := models.WalletAccount{
		UserID:        2,
		Balance:       models.NewMoneyFromDecimal(decimal.NewFromInt(120)),
		TotalEarnings: models.NewMoneyFromDecimal(decimal.NewFromInt(350)),
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("create wallet account failed: %v", err)
	}

	root, err := svc.BuildTree(1)
	if err != nil {
		t.Fatalf("build tree failed: %v", err)
	}
	// 根节点：两个直推，无钱包记录则收益为零
	if root.DirectReferralCount != 2 {
		t.Fatalf("expected 2 direct referrals at root, got %d", root.DirectReferralCount)
	}
	if !root.TotalEarnings.Decimal.IsZero() {
		t.Fatalf("expected zero earnings without wallet, got %s", root.TotalEarnings.Decimal.String())
	}

	var node2 *GenealogyNode
	for _, child := range root.Children {
		if child.UserID == 2 {
			node2 = child
		}
	}
	if node2 == nil {
		t.Fatalf("expected user 2 under root")
	}
	if !node2.TotalEarnings.Decimal.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("expected earnings 350 for user 2, got %s", node2.TotalEarnings.Decimal.String())
	}
	if node2.DirectReferralCount != 1 {
		t.Fatalf("expected 1 direct referral for user 2, got %d", node2.DirectReferralCount)
	}
}

func TestBuildTreeDepthBound(t *testing.T) {
	svc, db := setupGenealogyServiceTest(t, 2, 50)
	seedTeamTree(t, db)

	root, err := svc.BuildTree(1)
	if err != nil {
		t.Fatalf("build tree failed: %v", err)
	}
	// 深度 2：用户 5（第 3 层）不应出现
	var node4 *GenealogyNode
	for _, child := range root.Children {
		if child.UserID == 2 && len(child.Children) == 1 {
			node4 = child.Children[0]
		}
	}
	if node4 == nil {
		t.Fatalf("expected user 4 present at depth 2")
	}
	if len(node4.Children) != 0 {
		t.Fatalf("expected user 4 leaf at depth bound, got %d children", len(node4.Children))
	}
}

func TestBuildTreeUnknownRoot(t *testing.T) {
	svc, _ := setupGenealogyServiceTest(t, 5, 50)
	if _, err := svc.BuildTree(42); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOverviewCountsAndVolume(t *testing.T) {
	svc, db := setupGenealogyServiceTest(t, 5, 50)
	seedTeamTree(t, db)

	// 仅已支付及之后状态计入团队业绩
	createTeamOrder(t, db, 2, 1000, constants.OrderStatusPaid)
	createTeamOrder(t, db, 4, 500, constants.OrderStatusDelivered)
	createTeamOrder(t, db, 3, 800, constants.OrderStatusPending)
	createTeamOrder(t, db, 5, 300, constants.OrderStatusCancelled)
	// 自己的单不算团队业绩
	createTeamOrder(t, db, 1, 900, constants.OrderStatusPaid)

	overview, err := svc.Overview(1)
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.DirectCount != 2 {
		t.Fatalf("expected 2 direct, got %d", overview.DirectCount)
	}
	if overview.TeamSize != 4 {
		t.Fatalf("expected team size 4, got %d", overview.TeamSize)
	}
	if overview.NetworkDepth != 3 {
		t.Fatalf("expected depth 3, got %d", overview.NetworkDepth)
	}
	if !overview.TeamVolume.Decimal.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected team volume 1500, got %s", overview.TeamVolume.Decimal.String())
	}
}

func TestTeamMembersLevelFilter(t *testing.T) {
	svc, db := setupGenealogyServiceTest(t, 5, 50)
	seedTeamTree(t, db)

	levels, err := svc.TeamMembers(1, 0)
	if err != nil {
		t.Fatalf("all levels failed: %v", err)
	}
	if len(levels) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(levels))
	}

	levelTwo, err := svc.TeamMembers(1, 2)
	if err != nil {
		t.Fatalf("level filter failed: %v", err)
	}
	if len(levelTwo) != 1 || len(levelTwo[0]) != 1 || levelTwo[0][0].ID != 4 {
		t.Fatalf("expected only user 4 at level 2, got %+v", levelTwo)
	}

	tooDeep, err := svc.TeamMembers(1, 9)
	if err != nil {
		t.Fatalf("deep level failed: %v", err)
	}
	if len(tooDeep) != 0 {
		t.Fatalf("expected empty result past network depth, got %+v", tooDeep)
	}
}
