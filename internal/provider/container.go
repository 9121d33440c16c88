package provider

import (
	"github.com/padmaaja-rasooi/internal/authz"
	"github.com/padmaaja-rasooi/internal/cache"
	"github.com/padmaaja-rasooi/internal/config"
	"github.com/padmaaja-rasooi/internal/logger"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/payment/razorpay"
	"github.com/padmaaja-rasooi/internal/queue"
	"github.com/padmaaja-rasooi/internal/repository"
	"github.com/padmaaja-rasooi/internal/service"
	"github.com/shopspring/decimal"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo          repository.AdminRepository
	UserRepo           repository.UserRepository
	CategoryRepo       repository.CategoryRepository
	ProductRepo        repository.ProductRepository
	OrderRepo          repository.OrderRepository
	PaymentRepo        repository.PaymentRepository
	CommissionRepo     repository.CommissionRepository
	CommissionTierRepo repository.CommissionTierRepository
	WalletRepo         repository.WalletRepository
	PayoutRepo         repository.PayoutRepository
	SettingRepo        repository.SettingRepository

	// Services
	AuthzService          *authz.Service
	AuthService           *service.AuthService
	UserAuthService       *service.UserAuthService
	UserAdminService      *service.UserAdminService
	EmailService          *service.EmailService
	SettingService        *service.SettingService
	CategoryService       *service.CategoryService
	ProductService        *service.ProductService
	OrderService          *service.OrderService
	PaymentService        *service.PaymentService
	CommissionService     *service.CommissionService
	CommissionTierService *service.CommissionTierService
	ReferralTreeService   *service.ReferralTreeService
	GenealogyService      *service.GenealogyService
	WalletService         *service.WalletService
	PayoutService         *service.PayoutService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.CommissionRepo = repository.NewCommissionRepository(db)
	c.CommissionTierRepo = repository.NewCommissionTierRepository(db)
	c.WalletRepo = repository.NewWalletRepository(db)
	c.PayoutRepo = repository.NewPayoutRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.WalletRepo, c.QueueClient)
	c.UserAdminService = service.NewUserAdminService(c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.ReferralTreeService = service.NewReferralTreeService(c.UserRepo)
	c.CommissionTierService = service.NewCommissionTierService(c.CommissionTierRepo)
	c.CommissionService = service.NewCommissionService(
		c.CommissionRepo,
		c.UserRepo,
		c.OrderRepo,
		c.WalletRepo,
		c.CommissionTierService,
		c.ReferralTreeService,
		c.SettingService,
		c.Config.Referral.MaxLevels,
	)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.ProductRepo,
		c.UserRepo,
		c.SettingService,
		c.CommissionService,
		c.QueueClient,
		c.Config.Order.PaymentExpireMinutes,
	)
	gateway := razorpay.New(c.Config.Razorpay.KeyID, c.Config.Razorpay.KeySecret)
	c.PaymentService = service.NewPaymentService(
		c.PaymentRepo,
		c.OrderRepo,
		c.OrderService,
		c.CommissionService,
		gateway,
	)
	c.GenealogyService = service.NewGenealogyService(
		c.UserRepo,
		c.OrderRepo,
		c.WalletRepo,
		c.ReferralTreeService,
		c.Config.Referral.GenealogyMaxDepth,
		c.Config.Referral.TeamMaxDepth,
	)
	c.WalletService = service.NewWalletService(c.WalletRepo, c.UserRepo)
	c.PayoutService = service.NewPayoutService(
		c.PayoutRepo,
		c.WalletRepo,
		c.UserRepo,
		c.SettingService,
		c.QueueClient,
		decimal.NewFromFloat(c.Config.Referral.MinPayoutAmount),
	)
}
