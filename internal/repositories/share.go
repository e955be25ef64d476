package repositories

import (
	"prequity/internal/models"

	"gorm.io/gorm"
)

// ShareRepository serves the unlisted share catalogue and buy orders.
type ShareRepository interface {
	ListActive() ([]models.Share, error)
	GetByID(id uint) (*models.Share, error)
	CreateOrder(order *models.Order) error
	GetOrderByID(id uint) (*models.Order, error)
	ListOrdersByUser(userID uint) ([]models.Order, error)
	Seed(shares []models.Share) error
}

type shareRepository struct {
	db *gorm.DB
}

func NewShareRepository(db *gorm.DB) ShareRepository {
	return &shareRepository{db: db}
}

func (r *shareRepository) ListActive() ([]models.Share, error) {
	var shares []models.Share
	err := r.db.Where("active = ?", true).Order("company_name ASC").Find(&shares).Error
	return shares, err
}

func (r *shareRepository) GetByID(id uint) (*models.Share, error) {
	var share models.Share
	if err := r.db.First(&share, id).Error; err != nil {
		return nil, err
	}
	return &share, nil
}

func (r *shareRepository) CreateOrder(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *shareRepository) GetOrderByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Share").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *shareRepository) ListOrdersByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Share").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// Seed inserts catalogue entries that are not present yet, keyed by
// symbol. Used by the admin seed command.
func (r *shareRepository) Seed(shares []models.Share) error {
	for i := range shares {
		var existing models.Share
		err := r.db.Where("symbol = ?", shares[i].Symbol).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&shares[i]).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
