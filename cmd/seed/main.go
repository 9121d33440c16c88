package main

import (
	"fmt"

	"github.com/padmaaja-rasooi/internal/config"
	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/logger"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/repository"
	"github.com/padmaaja-rasooi/internal/service"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{
			Name:        "Basmati Rice",
			Slug:        "basmati-rice",
			Description: "Premium long-grain aromatic basmati from the foothills of the Himalayas.",
			SortOrder:   300,
			IsActive:    true,
		},
		{
			Name:        "Regional Rice",
			Slug:        "regional-rice",
			Description: "Everyday staples: Sona Masoori, Kolam and other regional favourites.",
			SortOrder:   200,
			IsActive:    true,
		},
		{
			Name:        "Organic Range",
			Slug:        "organic-range",
			Description: "Certified organic grains grown without chemical fertilisers.",
			SortOrder:   100,
			IsActive:    true,
		},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			// 不存在则创建
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"basmati-rice", "regional-rice", "organic-range"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}
	basmatiID := categoryIDs["basmati-rice"]
	regionalID := categoryIDs["regional-rice"]
	organicID := categoryIDs["organic-range"]

	// 添加商品
	products := []models.Product{
		{
			Name:        "Padmaaja Classic Basmati 1kg",
			Slug:        "classic-basmati-1kg",
			Description: "Aged 12 months for extra-long grains and a rich aroma. Ideal for biryani and pulao.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(185)),
			WeightGrams: 1000,
			Stock:       500,
			CategoryID:  ptrUint(basmatiID),
			ImageURL:    "https://images.unsplash.com/photo-1586201375761-83865001e31c?w=800",
			SortOrder:   300,
			IsActive:    true,
		},
		{
			Name:        "Padmaaja Classic Basmati 5kg",
			Slug:        "classic-basmati-5kg",
			Description: "Family pack of our aged classic basmati at a better per-kilo price.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(860)),
			WeightGrams: 5000,
			Stock:       240,
			CategoryID:  ptrUint(basmatiID),
			ImageURL:    "https://images.unsplash.com/photo-1536304993881-ff6e9eefa2a6?w=800",
			SortOrder:   290,
			IsActive:    true,
		},
		{
			Name:        "Sona Masoori 5kg",
			Slug:        "sona-masoori-5kg",
			Description: "Lightweight, low-starch medium grain. The everyday rice of South Indian kitchens.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(420)),
			WeightGrams: 5000,
			Stock:       360,
			CategoryID:  ptrUint(regionalID),
			ImageURL:    "https://images.unsplash.com/photo-1516684732162-798a0062be99?w=800",
			SortOrder:   260,
			IsActive:    true,
		},
		{
			Name:        "Kolam Rice 10kg",
			Slug:        "kolam-rice-10kg",
			Description: "Soft-cooking short grain popular across Maharashtra and Gujarat.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(680)),
			WeightGrams: 10000,
			Stock:       180,
			CategoryID:  ptrUint(regionalID),
			ImageURL:    "https://images.unsplash.com/photo-1592997572594-34be01bc36c7?w=800",
			SortOrder:   240,
			IsActive:    true,
		},
		{
			Name:        "Organic Brown Rice 1kg",
			Slug:        "organic-brown-rice-1kg",
			Description: "Unpolished wholegrain rice, certified organic. High in fibre.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(145)),
			WeightGrams: 1000,
			Stock:       420,
			CategoryID:  ptrUint(organicID),
			ImageURL:    "https://images.unsplash.com/photo-1598965402089-897ce52e8355?w=800",
			SortOrder:   220,
			IsActive:    true,
		},
		{
			Name:        "Organic Idli Rice 5kg",
			Slug:        "organic-idli-rice-5kg",
			Description: "Parboiled short grain milled for soft idlis and crisp dosas.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(510)),
			WeightGrams: 5000,
			Stock:       150,
			CategoryID:  ptrUint(organicID),
			ImageURL:    "https://images.unsplash.com/photo-1589301760014-d929f3979dbc?w=800",
			SortOrder:   200,
			IsActive:    true,
		},
		{
			Name:        "Thick Poha 500g",
			Slug:        "thick-poha-500g",
			Description: "Flattened rice flakes for kanda poha and chivda. Out-of-stock demo item.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromInt(55)),
			WeightGrams: 500,
			Stock:       0,
			CategoryID:  ptrUint(regionalID),
			ImageURL:    "https://images.unsplash.com/photo-1606491956689-2ea866880c84?w=800",
			SortOrder:   120,
			IsActive:    true,
		},
	}

	for _, prod := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", prod.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Slug)
			}
		} else {
			existing.Name = prod.Name
			existing.Description = prod.Description
			existing.Price = prod.Price
			existing.WeightGrams = prod.WeightGrams
			existing.CategoryID = prod.CategoryID
			existing.ImageURL = prod.ImageURL
			existing.SortOrder = prod.SortOrder
			existing.IsActive = prod.IsActive
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.Slug)
			}
		}
	}

	// 初始化佣金层级（不存在时写入默认两级比例）
	tierService := service.NewCommissionTierService(repository.NewCommissionTierRepository(models.DB))
	if err := tierService.EnsureDefaults(); err != nil {
		stdLog.Printf("Failed to ensure commission tiers: %v", err)
	} else {
		stdLog.Println("Commission tiers ready")
	}

	// 初始化默认管理员
	authService := service.NewAuthService(cfg, repository.NewAdminRepository(models.DB))
	if err := authService.EnsureDefaultAdmin("admin", "admin123"); err != nil {
		stdLog.Printf("Failed to ensure default admin: %v", err)
	} else {
		stdLog.Println("Default admin ready (admin / admin123)")
	}

	// 构造演示推荐链：anita -> bhavna -> chitra
	userAuthService := service.NewUserAuthService(
		cfg,
		repository.NewUserRepository(models.DB),
		repository.NewWalletRepository(models.DB),
		nil,
	)

	demoUsers := []struct {
		Email    string
		Name     string
		Phone    string
		Role     string
		Referrer string // 推荐人邮箱，空表示根节点
	}{
		{Email: "anita@demo.padmaaja.in", Name: "Anita Deshmukh", Phone: "+91-9820011001", Role: constants.RoleWholesaler},
		{Email: "bhavna@demo.padmaaja.in", Name: "Bhavna Kulkarni", Phone: "+91-9820011002", Role: constants.RoleMember, Referrer: "anita@demo.padmaaja.in"},
		{Email: "chitra@demo.padmaaja.in", Name: "Chitra Nair", Phone: "+91-9820011003", Role: constants.RoleCustomer, Referrer: "bhavna@demo.padmaaja.in"},
	}

	for _, du := range demoUsers {
		var existing models.User
		if err := models.DB.Where("email = ?", du.Email).First(&existing).Error; err == nil {
			stdLog.Printf("Demo user already exists: %s", du.Email)
			continue
		}

		referralCode := ""
		if du.Referrer != "" {
			var referrer models.User
			if err := models.DB.Where("email = ?", du.Referrer).First(&referrer).Error; err != nil {
				stdLog.Printf("Skip demo user %s: referrer %s not found", du.Email, du.Referrer)
				continue
			}
			referralCode = referrer.ReferralCode
		}

		user, err := userAuthService.Register(service.RegisterInput{
			Email:        du.Email,
			Password:     "padmaaja-demo1",
			Name:         du.Name,
			Phone:        du.Phone,
			ReferralCode: referralCode,
		})
		if err != nil {
			stdLog.Printf("Failed to create demo user %s: %v", du.Email, err)
			continue
		}

		// 注册默认角色为 customer，按演示数据升级角色
		if du.Role != constants.RoleCustomer {
			if err := models.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("role", du.Role).Error; err != nil {
				stdLog.Printf("Failed to set role for %s: %v", du.Email, err)
			}
		}
		stdLog.Printf("Created demo user: %s (referral code %s)", du.Email, user.ReferralCode)
	}

	// 更新网站配置
	configData := map[string]interface{}{
		"site_name": "Padmaaja Rasooi",
		"tagline":   "From our fields to your kitchen",
		"currency":  "INR",
		"contact": map[string]string{
			"email":    "care@padmaaja.in",
			"whatsapp": "https://wa.me/919820000000",
		},
	}

	var setting models.Setting
	if err := models.DB.Where("key = ?", constants.SettingKeySiteConfig).First(&setting).Error; err != nil {
		// 不存在则创建
		setting = models.Setting{
			Key:   constants.SettingKeySiteConfig,
			Value: models.JSON(configData),
		}
		if err := models.DB.Create(&setting).Error; err != nil {
			stdLog.Printf("Failed to create setting: %v", err)
		} else {
			stdLog.Println("Created site config")
		}
	} else {
		// 更新
		setting.Value = models.JSON(configData)
		if err := models.DB.Save(&setting).Error; err != nil {
			stdLog.Printf("Failed to update setting: %v", err)
		} else {
			stdLog.Println("Updated site config")
		}
	}

	fmt.Println("\n✅ Seed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 3 Categories")
	fmt.Println("- 7 Products (1 out-of-stock demo)")
	fmt.Println("- Commission tiers (level 1/2 defaults)")
	fmt.Println("- Default admin (admin / admin123)")
	fmt.Println("- Demo referral chain: anita -> bhavna -> chitra")
	fmt.Println("- Site configuration")
}

func ptrUint(v uint) *uint {
	if v == 0 {
		return nil
	}
	return &v
}
