package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "prequity/internal/errors"
	"prequity/internal/models"
	"prequity/internal/repositories"
	"prequity/internal/services/listing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) ListShares(ctx context.Context) ([]models.Share, error) {
	args := m.Called(ctx)
	if shares := args.Get(0); shares != nil {
		return shares.([]models.Share), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) PlaceOrder(ctx context.Context, userID uint, shareID uint, lots int) (*models.Order, error) {
	args := m.Called(ctx, userID, shareID, lots)
	if order := args.Get(0); order != nil {
		return order.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if order := args.Get(0); order != nil {
		return order.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	if orders := args.Get(0); orders != nil {
		return orders.([]models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func newShareApp(svc listing.Service, claims *models.UserClaims) *fiber.App {
	handler := NewShareHandler(svc)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if claims != nil {
			c.Locals("claims", claims)
		}
		return c.Next()
	})
	app.Get("/api/orders/:id", handler.GetOrder)
	return app
}

func fetchOrder(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	return resp.StatusCode, decodeBody(t, resp)
}

func sampleOrder(ownerID uint) *models.Order {
	return &models.Order{
		Model:  gorm.Model{ID: 11},
		UserID: ownerID,
		Lots:   2,
		Price:  462.50,
		Status: models.OrderStatusPending,
		Share:  models.Share{CompanyName: "Meridian Payments"},
	}
}

func TestGetOrderOwnership(t *testing.T) {
	t.Run("owner sees own order", func(t *testing.T) {
		svc := new(MockListingService)
		svc.On("GetOrder", mock.Anything, uint(11)).Return(sampleOrder(1), nil)
		app := newShareApp(svc, &models.UserClaims{UserID: 1, Role: models.RoleUser})

		status, body := fetchOrder(t, app, "/api/orders/11")
		assert.Equal(t, http.StatusOK, status)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "Meridian Payments", data["company"])
	})

	t.Run("admin sees any order", func(t *testing.T) {
		svc := new(MockListingService)
		svc.On("GetOrder", mock.Anything, uint(11)).Return(sampleOrder(1), nil)
		app := newShareApp(svc, &models.UserClaims{UserID: 9, Role: models.RoleAdmin})

		status, _ := fetchOrder(t, app, "/api/orders/11")
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		svc := new(MockListingService)
		svc.On("GetOrder", mock.Anything, uint(11)).Return(sampleOrder(1), nil)
		app := newShareApp(svc, &models.UserClaims{UserID: 2, Role: models.RoleUser})

		status, body := fetchOrder(t, app, "/api/orders/11")
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "ACCESS_DENIED", body["type"])
	})

	t.Run("unknown order", func(t *testing.T) {
		svc := new(MockListingService)
		svc.On("GetOrder", mock.Anything, uint(404)).Return(nil, apperrors.ErrOrderNotFound)
		app := newShareApp(svc, &models.UserClaims{UserID: 1, Role: models.RoleUser})

		status, body := fetchOrder(t, app, "/api/orders/404")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "ORDER_NOT_FOUND", body["type"])
	})

	t.Run("storage failure is an ownership check error", func(t *testing.T) {
		svc := new(MockListingService)
		svc.On("GetOrder", mock.Anything, uint(11)).Return(nil, repositories.ErrDatabaseOperation)
		app := newShareApp(svc, &models.UserClaims{UserID: 1, Role: models.RoleUser})

		status, body := fetchOrder(t, app, "/api/orders/11")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "OWNERSHIP_CHECK_ERROR", body["type"])
	})
}
