package inventory

import (
	"context"
	"errors"

	"inventory-manager/feature/inventory/models"

	"gorm.io/gorm"
)

// GormMasterData reads ward, medical and lot master data from the database.
// It never writes; master data is maintained by the upstream hospital system.
type GormMasterData struct {
	db *gorm.DB
}

// NewGormMasterData creates a read-only master data provider on db.
func NewGormMasterData(db *gorm.DB) *GormMasterData {
	return &GormMasterData{db: db}
}

func (m *GormMasterData) Ward(ctx context.Context, code string) (*models.Ward, error) {
	var ward models.Ward
	err := m.db.WithContext(ctx).First(&ward, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageFailure("find ward", err)
	}
	return &ward, nil
}

func (m *GormMasterData) Medical(ctx context.Context, id int) (*models.Medical, error) {
	var medical models.Medical
	err := m.db.WithContext(ctx).First(&medical, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageFailure("find medical", err)
	}
	return &medical, nil
}

func (m *GormMasterData) Lot(ctx context.Context, code string) (*models.Lot, error) {
	var lot models.Lot
	err := m.db.WithContext(ctx).First(&lot, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageFailure("find lot", err)
	}
	return &lot, nil
}
