package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"matchmarket/internal/auth"
	"matchmarket/internal/models"
	"matchmarket/internal/repository"

	"gorm.io/gorm"
)

// AuthService handles wallet-based login
type AuthService struct {
	repo *repository.Repository
}

func NewAuthService(repo *repository.Repository) *AuthService {
	return &AuthService{repo: repo}
}

// WalletLogin finds or creates the user for a wallet address and issues a
// JWT for the API
func (s *AuthService) WalletLogin(
	ctx context.Context,
	walletAddress, email, displayName string,
) (*models.User, string, error) {
	if walletAddress == "" {
		return nil, "", stateViolation("wallet address is required")
	}

	user, err := s.repo.GetUserByWallet(ctx, walletAddress)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &models.User{
			WalletAddress: walletAddress,
			Email:         email,
			DisplayName:   displayName,
		}
		if err := s.repo.CreateUser(ctx, user); err != nil {
			return nil, "", fmt.Errorf("failed to create user: %w", err)
		}
		log.Printf("[AuthService] Created user %d for wallet %s", user.ID, walletAddress)
	} else if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.WalletAddress)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// GetUser retrieves a user by ID
func (s *AuthService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
