package auth

import (
	"errors"
	"log"

	"prequity/internal/crypto"
	"prequity/internal/models"
	"prequity/internal/repositories"
	"prequity/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(email, password, name, phone string) (*models.User, error)
	Login(email, password string) (*models.User, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(userID uint) error
}

type service struct {
	userRepo   repositories.UserRepository
	walletRepo repositories.WalletRepository
	cipher     *crypto.FieldCipher
	jwtSecret  string
}

func NewService(userRepo repositories.UserRepository, walletRepo repositories.WalletRepository, cipher *crypto.FieldCipher, jwtSecret string) Service {
	return &service{
		userRepo:   userRepo,
		walletRepo: walletRepo,
		cipher:     cipher,
		jwtSecret:  jwtSecret,
	}
}

func (s *service) Register(email, password, name, phone string) (*models.User, error) {
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	fields := map[string]string{"phone": phone}
	if err := s.cipher.EncryptFields(fields); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: string(hashedPassword),
		Name:     name,
		Phone:    fields["phone"],
		Role:     models.RoleUser,
		Status:   "active",
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	wallet := &models.Wallet{UserID: user.ID}
	if err := s.walletRepo.Create(wallet); err != nil {
		log.Printf("failed to create wallet for user %d: %v", user.ID, err)
	}

	return user, nil
}

func (s *service) Login(email, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		log.Printf("login failed: no user for %s", email)
		return nil, "", "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("login failed: wrong password for user %d", user.ID)
		return nil, "", "", errors.New("invalid credentials")
	}

	if !user.IsActive() {
		return nil, "", "", errors.New("account is not active")
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	}, s.jwtSecret)
	if err != nil {
		log.Println("error generating tokens:", err)
		return nil, "", "", errors.New("error generating tokens")
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	claims, err := utils.ParseToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", "", errors.New("user not found")
	}

	if user.TokenVersion != claims.TokenVersion {
		return "", "", errors.New("token version mismatch")
	}

	return utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	}, s.jwtSecret)
}

func (s *service) Logout(userID uint) error {
	return s.userRepo.IncrementTokenVersion(userID)
}
