package public

import (
	"strconv"

	handlershared "github.com/padmaaja-rasooi/internal/http/handlers/shared"
	"github.com/padmaaja-rasooi/internal/http/response"
	"github.com/padmaaja-rasooi/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetGenealogy 推荐族谱树
func (h *Handler) GetGenealogy(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	tree, err := h.GenealogyService.BuildTree(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, tree)
}

// GetTeam 团队概览与成员分层列表
// level 参数非 0 时只返回该层成员
func (h *Handler) GetTeam(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	overview, err := h.GenealogyService.Overview(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	level, _ := strconv.Atoi(c.Query("level"))
	levels, err := h.GenealogyService.TeamMembers(userID, level)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	levelCounts := make([]int, 0, len(levels))
	for _, members := range levels {
		levelCounts = append(levelCounts, len(members))
	}
	response.Success(c, gin.H{
		"overview":     overview,
		"levels":       levels,
		"level_counts": levelCounts,
	})
}

// ListCommissions 会员佣金记录
func (h *Handler) ListCommissions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	level, _ := strconv.Atoi(c.Query("level"))
	commissions, total, err := h.CommissionService.List(repository.CommissionListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   c.Query("status"),
		Level:    level,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, commissions, handlershared.BuildPagination(page, pageSize, total))
}

// GetCommissionStats 会员佣金汇总
func (h *Handler) GetCommissionStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	summary, err := h.CommissionService.SummaryForUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, summary)
}
