package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"testcase-generator/config"
	"testcase-generator/dto"
	"testcase-generator/models"
	"testcase-generator/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type IAuthService interface {
	Signup(ctx context.Context, input dto.SignupInput) (*models.User, error)
	Login(ctx context.Context, email string, password string) (string, error)
	GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error)
	Logout(ctx context.Context, tokenString string) error
	DeleteUser(ctx context.Context, userID uint) error
}

type AuthService struct {
	repository      repositories.IAuthRepository
	tokenRepository repositories.ITokenRepository
	cfg             config.Auth
}

func NewAuthService(repository repositories.IAuthRepository, tokenRepository repositories.ITokenRepository, cfg config.Auth) IAuthService {
	return &AuthService{
		repository:      repository,
		tokenRepository: tokenRepository,
		cfg:             cfg,
	}
}

func (s *AuthService) Signup(ctx context.Context, input dto.SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	// 一意制約より先に確認し、どちらが重複したかを返す
	if _, err := s.repository.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.repository.FindUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:          email,
		Username:       username,
		HashedPassword: string(hashedPassword),
	}
	if err := s.repository.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateUserError(ctx, email, username)
		}
		return nil, err
	}
	return &user, nil
}

// duplicateUserError は同時登録で一意制約に負けたとき、どちらの値が取られたかを調べ直す
func (s *AuthService) duplicateUserError(ctx context.Context, email string, username string) error {
	if _, err := s.repository.FindUserByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	}
	if _, err := s.repository.FindUserByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (string, error) {
	foundUser, err := s.repository.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(foundUser.HashedPassword), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.createToken(foundUser)
}

func (s *AuthService) createToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.Email,
		"uid": user.ID,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.AccessTTL).Unix(),
	})

	tokenString, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

func (s *AuthService) parseToken(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func (s *AuthService) GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	// ログアウト済みトークンは拒否する
	isBlacklisted, err := s.tokenRepository.IsTokenBlacklisted(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if isBlacklisted {
		return nil, fmt.Errorf("%w: token is blacklisted", ErrInvalidToken)
	}

	email, err := claims.GetSubject()
	if err != nil || email == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	user, err := s.repository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrInvalidToken)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fmt.Errorf("%w: missing expiration", ErrInvalidToken)
	}

	return s.tokenRepository.AddBlacklistedToken(ctx, tokenString, exp.Unix())
}

func (s *AuthService) DeleteUser(ctx context.Context, userID uint) error {
	if err := s.repository.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
