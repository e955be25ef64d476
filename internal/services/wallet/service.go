// Package wallet manages trading balances. Deposits are funded by card
// through Stripe; balances are credited atomically at the storage
// layer.
package wallet

import (
	"errors"
	"fmt"
	"log"

	"prequity/internal/models"
	"prequity/internal/repositories"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
)

var (
	ErrInvalidAmount  = errors.New("deposit amount must be positive")
	ErrWalletNotFound = errors.New("wallet not found or inactive")
)

type Service interface {
	GetWallet(userID uint) (*models.Wallet, error)
	// Deposit charges the card token via Stripe and credits the wallet.
	Deposit(userID uint, amountINR float64, cardToken string) (*models.Wallet, error)
}

type service struct {
	repo      repositories.WalletRepository
	stripeKey string
}

func NewService(repo repositories.WalletRepository, stripeKey string) Service {
	return &service{repo: repo, stripeKey: stripeKey}
}

func (s *service) GetWallet(userID uint) (*models.Wallet, error) {
	wallet, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, ErrWalletNotFound
	}
	return wallet, nil
}

func (s *service) Deposit(userID uint, amountINR float64, cardToken string) (*models.Wallet, error) {
	if amountINR <= 0 {
		return nil, ErrInvalidAmount
	}

	stripe.Key = s.stripeKey
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(int64(amountINR * 100)), // paise
		Currency:    stripe.String(string(stripe.CurrencyINR)),
		Description: stripe.String(fmt.Sprintf("wallet deposit for user %d", userID)),
	}
	if err := params.SetSource(cardToken); err != nil {
		return nil, fmt.Errorf("invalid card token: %w", err)
	}

	ch, err := charge.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe charge failed: %w", err)
	}
	log.Printf("stripe charge %s succeeded for user %d", ch.ID, userID)

	if err := s.repo.Credit(userID, amountINR); err != nil {
		// The charge went through but the credit did not; this needs
		// manual reconciliation, so log loudly with the charge id.
		log.Printf("CRITICAL: charge %s succeeded but wallet credit failed for user %d: %v", ch.ID, userID, err)
		return nil, ErrWalletNotFound
	}

	return s.repo.GetByUserID(userID)
}
