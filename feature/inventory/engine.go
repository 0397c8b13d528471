package inventory

import (
	"context"

	"inventory-manager/feature/inventory/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine orchestrates the inventory reconciliation workflow: creating
// stock-count sessions, attaching and updating counted rows, moving headers
// through the status state machine, and deleting sessions with their rows.
//
// All validation happens before any write is issued. Uniqueness is
// pre-checked for a fast rejection, but the store's unique constraints stay
// the authoritative guard under concurrent access. The engine holds no
// state of its own between calls.
type Engine struct {
	tx          TxRunner
	inventories InventoryStore
	rows        InventoryRowStore
	master      MasterDataProvider
	archiver    *Archiver
	logger      *zap.Logger
}

// NewEngine wires the engine to its stores and master data provider.
// archiver may be nil, which disables snapshot archiving.
func NewEngine(tx TxRunner, inventories InventoryStore, rows InventoryRowStore, master MasterDataProvider, archiver *Archiver, logger *zap.Logger) *Engine {
	return &Engine{
		tx:          tx,
		inventories: inventories,
		rows:        rows,
		master:      master,
		archiver:    archiver,
		logger:      logger,
	}
}

// Create registers a new inventory in draft status and returns it with its
// assigned identifier. The reference must be unused and the ward must exist.
func (e *Engine) Create(ctx context.Context, inv *models.Inventory) (*models.Inventory, error) {
	ward, err := e.master.Ward(ctx, inv.WardCode)
	if err != nil {
		return nil, err
	}
	if ward == nil {
		return nil, unknownWard(inv.WardCode)
	}

	taken, err := e.inventories.ExistsByReference(ctx, inv.Reference)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, duplicateReference(inv.Reference)
	}

	inv.ID = 0
	inv.Status = models.StatusDraft
	created, err := e.inventories.Insert(ctx, inv)
	if err != nil {
		return nil, err
	}
	e.logger.Info("inventory created",
		zap.Int("id", created.ID),
		zap.String("reference", created.Reference),
		zap.String("ward", created.WardCode),
	)
	return created, nil
}

// Get returns the inventory with the given id.
func (e *Engine) Get(ctx context.Context, id int) (*models.Inventory, error) {
	inv, err := e.inventories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, notFound("inventory", id)
	}
	return inv, nil
}

// List returns all inventories in creation order.
func (e *Engine) List(ctx context.Context) ([]models.Inventory, error) {
	return e.inventories.FindAll(ctx)
}

// ListByStatus returns the inventories whose status equals status.
func (e *Engine) ListByStatus(ctx context.Context, status models.Status) ([]models.Inventory, error) {
	return e.inventories.FindByStatus(ctx, status)
}

// ListByStatusAndWard returns the inventories matching both filters.
func (e *Engine) ListByStatusAndWard(ctx context.Context, status models.Status, ward string) ([]models.Inventory, error) {
	return e.inventories.FindByStatusAndWard(ctx, status, ward)
}

// Update replaces the mutable header fields of an existing inventory.
// A status change must follow the transition table; a changed reference
// must still be unique; a changed ward must exist.
func (e *Engine) Update(ctx context.Context, inv *models.Inventory) (*models.Inventory, error) {
	current, err := e.inventories.FindByID(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, notFound("inventory", inv.ID)
	}

	if inv.Status != current.Status {
		if err := e.checkTransition(ctx, current, inv.Status); err != nil {
			return nil, err
		}
	}
	if inv.WardCode != current.WardCode {
		ward, err := e.master.Ward(ctx, inv.WardCode)
		if err != nil {
			return nil, err
		}
		if ward == nil {
			return nil, unknownWard(inv.WardCode)
		}
	}
	if inv.Reference != current.Reference {
		taken, err := e.inventories.ExistsByReference(ctx, inv.Reference)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, duplicateReference(inv.Reference)
		}
	}

	inv.CreatedAt = current.CreatedAt
	updated, err := e.inventories.Update(ctx, inv)
	if err != nil {
		return nil, err
	}
	if updated.Status != current.Status {
		e.logger.Info("inventory status changed",
			zap.Int("id", updated.ID),
			zap.String("from", string(current.Status)),
			zap.String("to", string(updated.Status)),
		)
		e.archiveSnapshot(ctx, updated)
	}
	return updated, nil
}

// Validate confirms the counts of a draft inventory and freezes its rows.
func (e *Engine) Validate(ctx context.Context, id int) (*models.Inventory, error) {
	return e.transition(ctx, id, models.StatusValidated)
}

// Cancel voids a non-terminal inventory. Rows need not be fully counted.
func (e *Engine) Cancel(ctx context.Context, id int) (*models.Inventory, error) {
	return e.transition(ctx, id, models.StatusCanceled)
}

func (e *Engine) transition(ctx context.Context, id int, next models.Status) (*models.Inventory, error) {
	current, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.checkTransition(ctx, current, next); err != nil {
		return nil, err
	}
	current.Status = next
	updated, err := e.inventories.Update(ctx, current)
	if err != nil {
		return nil, err
	}
	e.logger.Info("inventory status changed",
		zap.Int("id", updated.ID),
		zap.String("to", string(next)),
	)
	e.archiveSnapshot(ctx, updated)
	return updated, nil
}

// checkTransition validates the edge current.Status -> next, including the
// counting guard on the draft -> validated edge.
func (e *Engine) checkTransition(ctx context.Context, current *models.Inventory, next models.Status) error {
	if !models.CanTransition(current.Status, next) {
		return invalidTransition(current.ID, current.Status, next)
	}
	if next == models.StatusValidated {
		rows, err := e.rows.FindByInventoryID(ctx, current.ID)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if row.RealQty.IsNegative() {
				e.logger.Debug("validation rejected, uncounted row",
					zap.Int("inventory_id", current.ID),
					zap.Int("row_id", row.ID),
				)
				return negativeQuantity(row.RealQty)
			}
		}
	}
	return nil
}

// Delete removes the inventory and all its rows in one transaction.
// Deleting an unknown inventory is a NotFound failure, not a no-op.
func (e *Engine) Delete(ctx context.Context, id int) error {
	inv, err := e.Get(ctx, id)
	if err != nil {
		return err
	}
	err = e.tx.RunInTx(ctx, func(inventories InventoryStore, rows InventoryRowStore) error {
		if err := rows.DeleteByInventoryID(ctx, id); err != nil {
			return err
		}
		return inventories.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	e.logger.Info("inventory deleted",
		zap.Int("id", id),
		zap.String("reference", inv.Reference),
	)
	if e.archiver != nil {
		if err := e.archiver.Remove(ctx, inv.Reference); err != nil {
			e.logger.Warn("archive removal failed", zap.String("reference", inv.Reference), zap.Error(err))
		}
	}
	return nil
}

// ReferenceExists reports whether a non-deleted inventory holds reference.
func (e *Engine) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	return e.inventories.ExistsByReference(ctx, reference)
}

// AddRow attaches a counted line to a draft inventory. The theoretical
// quantity is the stock snapshot at call time and will not change again.
func (e *Engine) AddRow(ctx context.Context, inventoryID, medicalID int, lot models.LotRef, theoreticalQty, realQty decimal.Decimal) (*models.InventoryRow, error) {
	parent, err := e.Get(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if parent.Status.Frozen() {
		return nil, invalidState(parent.ID, parent.Status)
	}
	if realQty.IsNegative() {
		return nil, negativeQuantity(realQty)
	}

	medical, err := e.master.Medical(ctx, medicalID)
	if err != nil {
		return nil, err
	}
	if medical == nil {
		return nil, unknownMedical(medicalID)
	}
	if code, tracked := lot.Code(); tracked {
		found, err := e.master.Lot(ctx, code)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, unknownLot(code)
		}
	}

	existing, err := e.rows.FindByInventoryID(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	for _, row := range existing {
		if row.MedicalID == medicalID && row.Lot.Equal(lot) {
			return nil, duplicateRow(inventoryID, medicalID, lot)
		}
	}

	row := &models.InventoryRow{
		InventoryID:    inventoryID,
		MedicalID:      medicalID,
		Lot:            lot,
		TheoreticalQty: theoreticalQty,
		RealQty:        realQty,
	}
	return e.rows.Insert(ctx, row)
}

// UpdateRow replaces the counted quantity of an existing row. The count can
// still be corrected on a validated inventory; only cancellation ends it.
// The theoretical quantity is immutable; an attempt to change it is rejected.
func (e *Engine) UpdateRow(ctx context.Context, row *models.InventoryRow) (*models.InventoryRow, error) {
	stored, err := e.rows.FindByID(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, notFound("inventory row", row.ID)
	}
	parent, err := e.Get(ctx, stored.InventoryID)
	if err != nil {
		return nil, err
	}
	if parent.Status.Terminal() {
		return nil, invalidState(parent.ID, parent.Status)
	}
	if !row.TheoreticalQty.Equal(stored.TheoreticalQty) {
		return nil, immutableField(row.ID, "theoretical quantity")
	}
	if row.RealQty.IsNegative() {
		return nil, negativeQuantity(row.RealQty)
	}

	stored.RealQty = row.RealQty
	return e.rows.Update(ctx, stored)
}

// Row returns a single counted line by id.
func (e *Engine) Row(ctx context.Context, id int) (*models.InventoryRow, error) {
	row, err := e.rows.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound("inventory row", id)
	}
	return row, nil
}

// Rows returns all counted lines of the inventory in insertion order.
func (e *Engine) Rows(ctx context.Context, inventoryID int) ([]models.InventoryRow, error) {
	if _, err := e.Get(ctx, inventoryID); err != nil {
		return nil, err
	}
	return e.rows.FindByInventoryID(ctx, inventoryID)
}

// RowDiscrepancy returns real minus theoretical quantity for a row.
func (e *Engine) RowDiscrepancy(row *models.InventoryRow) decimal.Decimal {
	return row.Discrepancy()
}

// archiveSnapshot writes a best-effort snapshot once an inventory leaves
// the counting phase. The database stays the source of truth, so archive
// failures are logged and swallowed.
func (e *Engine) archiveSnapshot(ctx context.Context, inv *models.Inventory) {
	if e.archiver == nil || !inv.Status.Frozen() {
		return
	}
	rows, err := e.rows.FindByInventoryID(ctx, inv.ID)
	if err != nil {
		e.logger.Warn("archive snapshot skipped", zap.Int("id", inv.ID), zap.Error(err))
		return
	}
	if err := e.archiver.Put(ctx, inv, rows); err != nil {
		e.logger.Warn("archive snapshot failed", zap.Int("id", inv.ID), zap.Error(err))
	}
}
