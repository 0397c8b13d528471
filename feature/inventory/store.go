package inventory

import (
	"context"

	"inventory-manager/feature/inventory/models"
)

// InventoryStore persists Inventory headers. Find methods return (nil, nil)
// when the entity is absent; the engine turns that into a NotFound failure.
type InventoryStore interface {
	Insert(ctx context.Context, inv *models.Inventory) (*models.Inventory, error)
	FindByID(ctx context.Context, id int) (*models.Inventory, error)
	FindAll(ctx context.Context) ([]models.Inventory, error)
	FindByStatus(ctx context.Context, status models.Status) ([]models.Inventory, error)
	FindByStatusAndWard(ctx context.Context, status models.Status, ward string) ([]models.Inventory, error)
	Update(ctx context.Context, inv *models.Inventory) (*models.Inventory, error)
	Delete(ctx context.Context, id int) error
	ExistsByReference(ctx context.Context, reference string) (bool, error)
}

// InventoryRowStore persists InventoryRow entities. Rows are owned by their
// inventory and are only ever deleted through DeleteByInventoryID.
type InventoryRowStore interface {
	Insert(ctx context.Context, row *models.InventoryRow) (*models.InventoryRow, error)
	FindByID(ctx context.Context, id int) (*models.InventoryRow, error)
	FindByInventoryID(ctx context.Context, inventoryID int) ([]models.InventoryRow, error)
	Update(ctx context.Context, row *models.InventoryRow) (*models.InventoryRow, error)
	DeleteByInventoryID(ctx context.Context, inventoryID int) error
}

// MasterDataProvider resolves read-only master data. All lookups return
// (nil, nil) on a miss. Master data management itself lives outside this
// service; the engine only needs existence and identity.
type MasterDataProvider interface {
	Ward(ctx context.Context, code string) (*models.Ward, error)
	Medical(ctx context.Context, id int) (*models.Medical, error)
	Lot(ctx context.Context, code string) (*models.Lot, error)
}

// TxRunner executes fn inside a single store transaction. The stores passed
// to fn are scoped to that transaction, so a cascade delete of rows plus
// header commits or rolls back as one unit.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(inventories InventoryStore, rows InventoryRowStore) error) error
}
