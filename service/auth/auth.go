package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/rayymaxx/CinePal/config"
	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/pkg/tools"
	"github.com/rayymaxx/CinePal/repository/factory"
)

const (
	TokenTypeBearer = "bearer"

	defaultTokenExpireMinutes = 1440
)

var (
	serviceOnce sync.Once
	instance    *Service
)

type Service struct {
	repositoryFactory factory.Factory
	secretKey         []byte
	expireMinutes     int
}

func NewService(repositoryFactory factory.Factory) *Service {
	serviceOnce.Do(func() {
		cfg := config.GetInstance()
		secretKey := cfg.GetString(config.AuthSecretKey)
		if secretKey == "" {
			panic("auth secret key is not configured")
		}

		instance = &Service{
			repositoryFactory: repositoryFactory,
			secretKey:         []byte(secretKey),
			expireMinutes:     cfg.GetIntOrDefault(config.AuthTokenExpireMinutes, defaultTokenExpireMinutes),
		}
	})

	return instance
}

// Register 注册新用户，用户名唯一，密码经 bcrypt 散列后落库
func (s *Service) Register(ctx context.Context, req *model.UserRegistrationRequest) (*entity.User, *model.Error) {
	if req.Password != req.PasswordConfirmation {
		return nil, model.NewError(model.ErrorPasswordMismatch, fmt.Errorf("password confirmation does not match"))
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	userRepo, err := s.repositoryFactory.NewUserRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorNewRepo, err)
	}

	existing, err := userRepo.GetByUserName(req.UserName)
	if err != nil {
		return nil, model.NewError(model.ErrorDB, err)
	}
	if existing != nil {
		return nil, model.NewError(model.ErrorUserExist, fmt.Errorf("username %s already taken", req.UserName))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, model.NewError(model.ErrorParams, err)
	}

	user := &entity.User{
		UserName:       req.UserName,
		UserEmail:      req.UserEmail,
		HashedPassword: string(hashed),
		CreatedAt:      time.Now(),
		IsActive:       true,
	}

	if err = userRepo.Insert(user); err != nil {
		return nil, model.NewError(model.ErrorDB, err)
	}

	log.Infof("Registered user %s (id=%d)", user.UserName, user.ID)
	return user, nil
}

// Login 校验用户名密码，签发访问令牌
func (s *Service) Login(ctx context.Context, req *model.UserLoginRequest) (*model.Token, *model.Error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	userRepo, err := s.repositoryFactory.NewUserRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorNewRepo, err)
	}

	user, err := userRepo.GetByUserName(req.UserName)
	if err != nil {
		return nil, model.NewError(model.ErrorDB, err)
	}
	if user == nil {
		return nil, model.NewError(model.ErrorUserNameOrPassword, fmt.Errorf("user %s not found", req.UserName))
	}
	if !user.IsActive {
		return nil, model.NewError(model.ErrorUserForbidden, fmt.Errorf("user %s is disabled", req.UserName))
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, model.NewError(model.ErrorUserNameOrPassword, err)
	}

	token, mErr := s.MakeToken(user.ID)
	if mErr != nil {
		return nil, mErr
	}

	return token, nil
}

// MakeToken 签发 HS256 访问令牌，sub 为用户 id
func (s *Service) MakeToken(userID int64) (*model.Token, *model.Error) {
	expiresIn := time.Duration(s.expireMinutes) * time.Minute
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return nil, model.NewError(model.ErrorMakeToken, err)
	}

	return &model.Token{
		AccessToken: signed,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int(expiresIn.Seconds()),
	}, nil
}

// ParseToken 校验令牌并返回用户 id
func (s *Service) ParseToken(tokenString string) (int64, *model.Error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return 0, model.NewError(model.ErrorInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return 0, model.NewError(model.ErrorInvalidToken, fmt.Errorf("invalid token claims"))
	}

	var userID int64
	if _, err = fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return 0, model.NewError(model.ErrorInvalidToken, fmt.Errorf("invalid subject %q", claims.Subject))
	}

	return userID, nil
}

// GetUser 按 id 加载用户
func (s *Service) GetUser(ctx context.Context, userID int64) (*entity.User, *model.Error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	userRepo, err := s.repositoryFactory.NewUserRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorNewRepo, err)
	}

	user, err := userRepo.GetByID(userID)
	if err != nil {
		return nil, model.NewError(model.ErrorDB, err)
	}
	if user == nil {
		return nil, model.NewError(model.ErrorUserNotExist, fmt.Errorf("user %d not found", userID))
	}

	return user, nil
}
