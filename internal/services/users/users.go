package users

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"meditrack-system/internal/database/models"
	"meditrack-system/internal/services/errs"
	"meditrack-system/internal/utils"
)

type Service struct {
	db        *gorm.DB
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewService(db *gorm.DB, jwtSecret []byte, tokenTTL time.Duration) *Service {
	return &Service{db: db, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Email == "" {
		return nil, errs.InvalidInput("username and email are required")
	}
	if len(in.Password) < 8 {
		return nil, errs.InvalidInput("password must be at least 8 characters")
	}
	role := in.Role
	if role == "" {
		role = "staff"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		Role:     role,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, errs.FromStore(err, "user", in.Username)
	}
	return &user, nil
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, errs.InvalidInput("username and password are required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, errs.FromStore(err, "user", username)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errs.InvalidInput("invalid credentials")
	}

	token, exp, err := utils.GenerateToken(s.jwtSecret, user.ID, user.Username, user.Role, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	_ = s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error

	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}
