package service

import (
	"time"

	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"
)

const (
	defaultGenealogyDepth = 5
	defaultTeamDepth      = 50
)

// GenealogyNode 族谱树节点
type GenealogyNode struct {
	UserID              uint             `json:"user_id"`
	Name                string           `json:"name"`
	Email               string           `json:"email"`
	Role                string           `json:"role"`
	ReferralCode        string           `json:"referral_code"`
	IsActive            bool             `json:"is_active"`
	JoinedAt            time.Time        `json:"joined_at"`
	Level               int              `json:"level"`
	TotalEarnings       models.Money     `json:"total_earnings"`
	DirectReferralCount int64            `json:"direct_referral_count"`
	Children            []*GenealogyNode `json:"children"`
}

// TeamOverview 团队概览统计
type TeamOverview struct {
	DirectCount  int64        `json:"direct_count"`
	TeamSize     int64        `json:"team_size"`
	TeamVolume   models.Money `json:"team_volume"`
	NetworkDepth int          `json:"network_depth"`
}

// GenealogyService 推荐族谱与团队统计服务
// 所有聚合都走逐层批量查询，深度有上限，不做整表递归。
type GenealogyService struct {
	userRepo    repository.UserRepository
	orderRepo   repository.OrderRepository
	walletRepo  repository.WalletRepository
	treeService *ReferralTreeService

	genealogyDepth int
	teamDepth      int
}

// NewGenealogyService 创建族谱服务，depth 参数小于等于 0 时取默认值
func NewGenealogyService(
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	walletRepo repository.WalletRepository,
	treeService *ReferralTreeService,
	genealogyDepth int,
	teamDepth int,
) *GenealogyService {
	if genealogyDepth <= 0 {
		genealogyDepth = defaultGenealogyDepth
	}
	if teamDepth <= 0 {
		teamDepth = defaultTeamDepth
	}
	return &GenealogyService{
		userRepo:       userRepo,
		orderRepo:      orderRepo,
		walletRepo:     walletRepo,
		treeService:    treeService,
		genealogyDepth: genealogyDepth,
		teamDepth:      teamDepth,
	}
}

// BuildTree 构建某用户的推荐族谱树（展示用，深度受 genealogyDepth 限制）
func (s *GenealogyService) BuildTree(rootID uint) (*GenealogyNode, error) {
	root, err := s.userRepo.GetByID(rootID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrNotFound
	}

	rootNode := buildGenealogyNode(*root, 0)
	nodeByID := map[uint]*GenealogyNode{root.ID: rootNode}

	levels, err := s.treeService.WalkDown(rootID, s.genealogyDepth)
	if err != nil {
		return nil, err
	}
	for i, levelUsers := range levels {
		level := i + 1
		for _, user := range levelUsers {
			node := buildGenealogyNode(user, level)
			nodeByID[user.ID] = node
			if user.ReferrerID != nil {
				if parent, ok := nodeByID[*user.ReferrerID]; ok {
					parent.Children = append(parent.Children, node)
				}
			}
		}
	}

	if err := s.fillNodeStats(nodeByID); err != nil {
		return nil, err
	}
	return rootNode, nil
}

// fillNodeStats 批量补齐节点的钱包累计收益与直推人数，两条 IN 查询搞定全树
func (s *GenealogyService) fillNodeStats(nodeByID map[uint]*GenealogyNode) error {
	ids := make([]uint, 0, len(nodeByID))
	for id := range nodeByID {
		ids = append(ids, id)
	}

	accounts, err := s.walletRepo.GetAccountsByUserIDs(ids)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		if node, ok := nodeByID[account.UserID]; ok {
			node.TotalEarnings = account.TotalEarnings
		}
	}

	counts, err := s.userRepo.CountByReferrerIDs(ids)
	if err != nil {
		return err
	}
	for id, count := range counts {
		if node, ok := nodeByID[id]; ok {
			node.DirectReferralCount = count
		}
	}
	return nil
}

// Overview 团队概览：直推数、团队规模、团队业绩、网络深度
func (s *GenealogyService) Overview(userID uint) (*TeamOverview, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	directCount, err := s.userRepo.CountByReferrerID(userID)
	if err != nil {
		return nil, err
	}

	levels, err := s.treeService.WalkDown(userID, s.teamDepth)
	if err != nil {
		return nil, err
	}
	var teamSize int64
	memberIDs := make([]uint, 0)
	for _, levelUsers := range levels {
		teamSize += int64(len(levelUsers))
		for _, member := range levelUsers {
			memberIDs = append(memberIDs, member.ID)
		}
	}

	volume, err := s.orderRepo.SumAmountByUsers(memberIDs, constants.TeamVolumeOrderStatuses)
	if err != nil {
		return nil, err
	}

	return &TeamOverview{
		DirectCount:  directCount,
		TeamSize:     teamSize,
		TeamVolume:   models.NewMoneyFromDecimal(volume),
		NetworkDepth: len(levels),
	}, nil
}

// TeamMembers 分页列出某层级的团队成员，level 为 0 时返回全部层级
func (s *GenealogyService) TeamMembers(userID uint, level int) ([][]models.User, error) {
	maxDepth := s.teamDepth
	if level > 0 {
		maxDepth = level
	}
	levels, err := s.treeService.WalkDown(userID, maxDepth)
	if err != nil {
		return nil, err
	}
	if level > 0 {
		if level > len(levels) {
			return [][]models.User{}, nil
		}
		return [][]models.User{levels[level-1]}, nil
	}
	return levels, nil
}

func buildGenealogyNode(user models.User, level int) *GenealogyNode {
	return &GenealogyNode{
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		ReferralCode: user.ReferralCode,
		IsActive:     user.IsActive,
		JoinedAt:     user.JoinedAt,
		Level:        level,
		Children:     make([]*GenealogyNode, 0),
	}
}
