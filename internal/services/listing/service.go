// Package listing serves the unlisted share catalogue and records buy
// orders. Orders require a verified KYC record; there is no matching
// engine, orders stay pending for manual settlement.
package listing

import (
	"context"
	"errors"

	apperrors "prequity/internal/errors"
	"prequity/internal/models"
	"prequity/internal/repositories"
	"prequity/internal/services/kyc"

	"gorm.io/gorm"
)

var ErrInvalidOrder = errors.New("order must request at least one lot")

type Service interface {
	ListShares(ctx context.Context) ([]models.Share, error)
	PlaceOrder(ctx context.Context, userID uint, shareID uint, lots int) (*models.Order, error)
	// GetOrder returns one order by id. Ownership is checked by the
	// caller against the returned order's UserID.
	GetOrder(ctx context.Context, orderID uint) (*models.Order, error)
	ListOrders(ctx context.Context, userID uint) ([]models.Order, error)
}

type service struct {
	shares repositories.ShareRepository
	kyc    kyc.Service
}

func NewService(shares repositories.ShareRepository, kycService kyc.Service) Service {
	return &service{shares: shares, kyc: kycService}
}

func (s *service) ListShares(ctx context.Context) ([]models.Share, error) {
	return s.shares.ListActive()
}

func (s *service) PlaceOrder(ctx context.Context, userID uint, shareID uint, lots int) (*models.Order, error) {
	if lots <= 0 {
		return nil, ErrInvalidOrder
	}

	canTrade, err := s.kyc.CanTrade(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !canTrade {
		return nil, apperrors.ErrKYCRequired
	}

	share, err := s.shares.GetByID(shareID)
	if err == gorm.ErrRecordNotFound {
		return nil, errors.New("share not found")
	}
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:  userID,
		ShareID: share.ID,
		Lots:    lots,
		Price:   share.PricePerShare,
		Status:  models.OrderStatusPending,
	}
	if err := s.shares.CreateOrder(order); err != nil {
		return nil, err
	}
	order.Share = *share
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.shares.GetOrderByID(orderID)
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.shares.ListOrdersByUser(userID)
}
