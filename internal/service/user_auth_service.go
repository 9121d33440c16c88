package service

import (
	"errors"
	"strings"
	"time"

	"github.com/padmaaja-rasooi/internal/config"
	"github.com/padmaaja-rasooi/internal/constants"
	"github.com/padmaaja-rasooi/internal/logger"
	"github.com/padmaaja-rasooi/internal/models"
	"github.com/padmaaja-rasooi/internal/queue"
	"github.com/padmaaja-rasooi/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService 会员认证服务
// 注册时绑定推荐关系：推荐码有效则写入 referrer_id，推荐关系一经建立不可变更。
type UserAuthService struct {
	cfg         *config.Config
	userRepo    repository.UserRepository
	walletRepo  repository.WalletRepository
	queueClient *queue.Client
}

// NewUserAuthService 创建会员认证服务
func NewUserAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	walletRepo repository.WalletRepository,
	queueClient *queue.Client,
) *UserAuthService {
	return &UserAuthService{
		cfg:         cfg,
		userRepo:    userRepo,
		walletRepo:  walletRepo,
		queueClient: queueClient,
	}
}

// RegisterInput 注册参数
type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	Phone        string
	ReferralCode string
}

// UserJWTClaims 会员 JWT 声明
type UserJWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Register 注册会员
func (s *UserAuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidCredentials
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	var referrerID *uint
	code := strings.TrimSpace(input.ReferralCode)
	if code != "" {
		referrer, err := s.userRepo.GetByReferralCode(code)
		if err != nil {
			return nil, err
		}
		if referrer == nil {
			return nil, ErrReferralCodeInvalid
		}
		if !referrer.IsActive {
			return nil, ErrReferralCodeInvalid
		}
		id := referrer.ID
		referrerID = &id
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user *models.User
	const maxRetry = 8
	for i := 0; i < maxRetry; i++ {
		referralCode, genErr := generateReferralCode()
		if genErr != nil {
			return nil, genErr
		}
		candidate := &models.User{
			Email:        email,
			PasswordHash: string(hash),
			Name:         strings.TrimSpace(input.Name),
			Phone:        strings.TrimSpace(input.Phone),
			Role:         constants.RoleCustomer,
			ReferralCode: referralCode,
			ReferrerID:   referrerID,
			IsActive:     true,
			JoinedAt:     time.Now(),
		}
		if err := s.userRepo.Create(candidate); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, err
		}
		user = candidate
		break
	}
	if user == nil {
		return nil, ErrReferralCodeInvalid
	}

	if err := s.walletRepo.CreateAccount(&models.WalletAccount{UserID: user.ID}); err != nil {
		logger.Warnw("create wallet account on register failed", "user_id", user.ID, "error", err)
	}
	if err := s.queueClient.EnqueueWelcomeEmail(queue.WelcomeEmailPayload{UserID: user.ID}); err != nil {
		logger.Warnw("enqueue welcome email failed", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// Login 会员登录
func (s *UserAuthService) Login(email, password string) (*models.User, string, time.Time, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// GenerateJWT 生成会员 JWT
func (s *UserAuthService) GenerateJWT(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.UserJWT.ExpireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析会员 JWT
func (s *UserAuthService) ParseJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &UserJWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// ChangePassword 修改会员密码
func (s *UserAuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.userRepo.Update(user)
}

// UpdateProfile 更新会员资料（姓名、手机号）
func (s *UserAuthService) UpdateProfile(userID uint, name, phone string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		user.Name = trimmed
	}
	if trimmed := strings.TrimSpace(phone); trimmed != "" {
		user.Phone = trimmed
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile 获取会员资料
func (s *UserAuthService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}
