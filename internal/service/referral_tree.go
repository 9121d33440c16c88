package service

import (
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"
)

// referralDepthHardLimit 推荐链遍历的绝对上限，防御脏数据成环
const referralDepthHardLimit = 100

// ReferralAncestor 推荐链上的一个上级及其相对层级（1 为直接推荐人）
type ReferralAncestor struct {
	User  models.User
	Level int
}

// ReferralTreeService 推荐关系树遍历服务
// 推荐关系以 users.referrer_id 父指针存储，所有遍历都是迭代实现并带层级上限，
// 已访问集合保证即使数据出现环也能终止。
type ReferralTreeService struct {
	userRepo repository.UserRepository
}

// NewReferralTreeService 创建推荐树遍历服务
func NewReferralTreeService(userRepo repository.UserRepository) *ReferralTreeService {
	return &ReferralTreeService{userRepo: userRepo}
}

// WalkUp 沿推荐链向上收集至多 maxLevels 个上级，按层级升序返回
func (s *ReferralTreeService) WalkUp(userID uint, maxLevels int) ([]ReferralAncestor, error) {
	return s.WalkUpWith(s.userRepo, userID, maxLevels)
}

// WalkUpWith 使用指定仓储（通常为事务绑定仓储）沿推荐链向上遍历
func (s *ReferralTreeService) WalkUpWith(repo repository.UserRepository, userID uint, maxLevels int) ([]ReferralAncestor, error) {
	if userID == 0 || repo == nil {
		return []ReferralAncestor{}, nil
	}
	if maxLevels <= 0 || maxLevels > referralDepthHardLimit {
		maxLevels = referralDepthHardLimit
	}

	start, err := repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if start == nil {
		return []ReferralAncestor{}, nil
	}

	ancestors := make([]ReferralAncestor, 0, maxLevels)
	seen := map[uint]struct{}{userID: {}}
	current := start
	for level := 1; level <= maxLevels; level++ {
		if current.ReferrerID == nil || *current.ReferrerID == 0 {
			break
		}
		parentID := *current.ReferrerID
		if _, ok := seen[parentID]; ok {
			break
		}
		parent, err := repo.GetByID(parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		seen[parentID] = struct{}{}
		ancestors = append(ancestors, ReferralAncestor{User: *parent, Level: level})
		current = parent
	}
	return ancestors, nil
}

// WalkDown 从根用户向下逐层展开至多 maxDepth 层，返回各层用户（下标 0 为第 1 层直推）
func (s *ReferralTreeService) WalkDown(rootID uint, maxDepth int) ([][]models.User, error) {
	return s.WalkDownWith(s.userRepo, rootID, maxDepth)
}

// WalkDownWith 使用指定仓储逐层向下遍历
func (s *ReferralTreeService) WalkDownWith(repo repository.UserRepository, rootID uint, maxDepth int) ([][]models.User, error) {
	if rootID == 0 || repo == nil {
		return [][]models.User{}, nil
	}
	if maxDepth <= 0 || maxDepth > referralDepthHardLimit {
		maxDepth = referralDepthHardLimit
	}

	levels := make([][]models.User, 0)
	seen := map[uint]struct{}{rootID: {}}
	frontier := []uint{rootID}
	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		children, err := repo.ListByReferrerIDs(frontier)
		if err != nil {
			return nil, err
		}
		levelUsers := make([]models.User, 0, len(children))
		nextFrontier := make([]uint, 0, len(children))
		for _, child := range children {
			if _, ok := seen[child.ID]; ok {
				continue
			}
			seen[child.ID] = struct{}{}
			levelUsers = append(levelUsers, child)
			nextFrontier = append(nextFrontier, child.ID)
		}
		if len(levelUsers) == 0 {
			break
		}
		levels = append(levels, levelUsers)
		frontier = nextFrontier
	}
	return levels, nil
}
