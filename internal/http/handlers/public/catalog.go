package public

import (
	"strconv"

	handlershared "github.com/padmaaja-rasooi/internal/http/handlers/shared"
	"github.com/padmaaja-rasooi/internal/http/response"
	"github.com/padmaaja-rasooi/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListProducts 前台商品列表（仅上架）
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)

	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   uint(categoryID),
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
	}
	products, total, err := h.ProductService.ListPublic(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, products, handlershared.BuildPagination(page, pageSize, total))
}

// GetProduct 前台商品详情（slug 定位）
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.ProductService.GetPublicBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// ListCategories 前台分类列表（仅启用）
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListPublic()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, categories)
}
