package inventory

import (
	"context"
	"errors"

	"inventory-manager/feature/inventory/models"

	"gorm.io/gorm"
)

// GormInventoryStore is the GORM-backed InventoryStore.
type GormInventoryStore struct {
	db *gorm.DB
}

// NewGormInventoryStore creates a store bound to db (or a transaction of it).
func NewGormInventoryStore(db *gorm.DB) *GormInventoryStore {
	return &GormInventoryStore{db: db}
}

func (s *GormInventoryStore) Insert(ctx context.Context, inv *models.Inventory) (*models.Inventory, error) {
	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The unique index on reference is the authoritative guard;
			// the engine's pre-check is only a fast path.
			return nil, duplicateReference(inv.Reference)
		}
		return nil, storageFailure("insert inventory", err)
	}
	return inv, nil
}

func (s *GormInventoryStore) FindByID(ctx context.Context, id int) (*models.Inventory, error) {
	var inv models.Inventory
	err := s.db.WithContext(ctx).First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageFailure("find inventory", err)
	}
	return &inv, nil
}

func (s *GormInventoryStore) FindAll(ctx context.Context) ([]models.Inventory, error) {
	var out []models.Inventory
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, storageFailure("list inventories", err)
	}
	return out, nil
}

func (s *GormInventoryStore) FindByStatus(ctx context.Context, status models.Status) ([]models.Inventory, error) {
	var out []models.Inventory
	if err := s.db.WithContext(ctx).Where("status = ?", status).Order("id").Find(&out).Error; err != nil {
		return nil, storageFailure("list inventories by status", err)
	}
	return out, nil
}

func (s *GormInventoryStore) FindByStatusAndWard(ctx context.Context, status models.Status, ward string) ([]models.Inventory, error) {
	var out []models.Inventory
	err := s.db.WithContext(ctx).
		Where("status = ? AND ward_code = ?", status, ward).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, storageFailure("list inventories by status and ward", err)
	}
	return out, nil
}

func (s *GormInventoryStore) Update(ctx context.Context, inv *models.Inventory) (*models.Inventory, error) {
	if err := s.db.WithContext(ctx).Save(inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateReference(inv.Reference)
		}
		return nil, storageFailure("update inventory", err)
	}
	return inv, nil
}

func (s *GormInventoryStore) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&models.Inventory{}, "id = ?", id)
	if res.Error != nil {
		return storageFailure("delete inventory", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("inventory", id)
	}
	return nil
}

func (s *GormInventoryStore) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Where("reference = ?", reference).
		Count(&count).Error
	if err != nil {
		return false, storageFailure("check reference", err)
	}
	return count > 0, nil
}

// GormInventoryRowStore is the GORM-backed InventoryRowStore.
type GormInventoryRowStore struct {
	db *gorm.DB
}

// NewGormInventoryRowStore creates a row store bound to db (or a transaction of it).
func NewGormInventoryRowStore(db *gorm.DB) *GormInventoryRowStore {
	return &GormInventoryRowStore{db: db}
}

func (s *GormInventoryRowStore) Insert(ctx context.Context, row *models.InventoryRow) (*models.InventoryRow, error) {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateRow(row.InventoryID, row.MedicalID, row.Lot)
		}
		return nil, storageFailure("insert row", err)
	}
	return row, nil
}

func (s *GormInventoryRowStore) FindByID(ctx context.Context, id int) (*models.InventoryRow, error) {
	var row models.InventoryRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageFailure("find row", err)
	}
	return &row, nil
}

func (s *GormInventoryRowStore) FindByInventoryID(ctx context.Context, inventoryID int) ([]models.InventoryRow, error) {
	var out []models.InventoryRow
	err := s.db.WithContext(ctx).
		Where("inventory_id = ?", inventoryID).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, storageFailure("list rows", err)
	}
	return out, nil
}

func (s *GormInventoryRowStore) Update(ctx context.Context, row *models.InventoryRow) (*models.InventoryRow, error) {
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateRow(row.InventoryID, row.MedicalID, row.Lot)
		}
		return nil, storageFailure("update row", err)
	}
	return row, nil
}

func (s *GormInventoryRowStore) DeleteByInventoryID(ctx context.Context, inventoryID int) error {
	err := s.db.WithContext(ctx).
		Where("inventory_id = ?", inventoryID).
		Delete(&models.InventoryRow{}).Error
	if err != nil {
		return storageFailure("delete rows", err)
	}
	return nil
}

// GormTxRunner runs engine transactions on a GORM connection.
type GormTxRunner struct {
	db *gorm.DB
}

// NewGormTxRunner creates a TxRunner on db.
func NewGormTxRunner(db *gorm.DB) *GormTxRunner {
	return &GormTxRunner{db: db}
}

// RunInTx opens one database transaction and hands fn stores scoped to it.
func (r *GormTxRunner) RunInTx(ctx context.Context, fn func(inventories InventoryStore, rows InventoryRowStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormInventoryStore(tx), NewGormInventoryRowStore(tx))
	})
}
