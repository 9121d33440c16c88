package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/padmaaja-rasooi/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:product_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createRepoProduct(t *testing.T, repo *GormProductRepository, slug string, stock int, active bool, categoryID *uint) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:       "Rice " + slug,
		Slug:       slug,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		Stock:      stock,
		IsActive:   active,
		CategoryID: categoryID,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestDecrementStockAtomic(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createRepoProduct(t, repo, "basmati-1kg", 5, true, nil)

	ok, err := repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected decrement to succeed")
	}

	ok, err = repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("second decrement failed: %v", err)
	}
	if ok {
		t.Fatalf("expected decrement rejected when stock short")
	}

	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Stock != 2 {
		t.Fatalf("stock want 2 got %d", got.Stock)
	}

	ok, err = repo.DecrementStock(product.ID, 0)
	if err != nil || ok {
		t.Fatalf("zero quantity must be a no-op, ok=%v err=%v", ok, err)
	}
}

func TestIncrementStock(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createRepoProduct(t, repo, "sona-masoori-5kg", 1, true, nil)

	if err := repo.IncrementStock(product.ID, 4); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.Stock != 5 {
		t.Fatalf("stock want 5 got %d", got.Stock)
	}
}

func TestProductListFilters(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)

	category := models.Category{Name: "Basmati", Slug: "basmati-rice", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	createRepoProduct(t, repo, "classic-basmati", 10, true, &category.ID)
	createRepoProduct(t, repo, "brown-rice", 10, true, nil)
	createRepoProduct(t, repo, "retired-rice", 0, false, &category.ID)

	products, total, err := repo.List(ProductListFilter{OnlyActive: true, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if total != 2 || len(products) != 2 {
		t.Fatalf("active want 2 got total=%d len=%d", total, len(products))
	}

	products, total, err = repo.List(ProductListFilter{CategorySlug: "basmati-rice", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list by category failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("category want 2 got %d", total)
	}

	products, total, err = repo.List(ProductListFilter{Search: "brown", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || products[0].Slug != "brown-rice" {
		t.Fatalf("search want brown-rice got total=%d", total)
	}
}

func TestGetBySlug(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	created := createRepoProduct(t, repo, "idli-rice-5kg", 3, true, nil)

	got, err := repo.GetBySlug("idli-rice-5kg")
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("expected product found, got %+v", got)
	}

	missing, err := repo.GetBySlug("no-such-slug")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for unknown slug, got %+v err=%v", missing, err)
	}
}
