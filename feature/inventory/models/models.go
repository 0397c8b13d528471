package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory is a stock-count session header. It is scoped to a ward,
// identified by a globally unique reference, and moves through the
// status lifecycle defined in status.go.
type Inventory struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Reference string    `gorm:"column:reference;size:50;uniqueIndex:ux_inventories_reference" json:"reference"`
	WardCode  string    `gorm:"column:ward_code;size:10" json:"ward"`
	Status    Status    `gorm:"column:status;size:16" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name used by GORM.
func (Inventory) TableName() string {
	return "inventories"
}

// InventoryRow is one counted line within an Inventory. The theoretical
// quantity is a snapshot taken at row creation and never changes; the real
// quantity is the physical count and stays mutable while the parent is in
// its counting phase.
type InventoryRow struct {
	ID             int             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	InventoryID    int             `gorm:"column:inventory_id;uniqueIndex:ux_rows_medical_lot" json:"inventory_id"`
	MedicalID      int             `gorm:"column:medical_id;uniqueIndex:ux_rows_medical_lot" json:"medical_id"`
	Lot            LotRef          `gorm:"column:lot_code;type:varchar(50);not null;default:'';uniqueIndex:ux_rows_medical_lot" json:"lot"`
	TheoreticalQty decimal.Decimal `gorm:"column:theoretical_qty;type:decimal(15,4)" json:"theoretical_qty"`
	RealQty        decimal.Decimal `gorm:"column:real_qty;type:decimal(15,4)" json:"real_qty"`
	CreatedAt      time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name used by GORM.
func (InventoryRow) TableName() string {
	return "inventory_rows"
}

// Discrepancy is the counted quantity minus the theoretical one.
// Zero means the line is fully reconciled. It is always derived, never stored.
func (r InventoryRow) Discrepancy() decimal.Decimal {
	return r.RealQty.Sub(r.TheoreticalQty)
}

// Ward is an organizational unit owning stock. Read-only master data here.
type Ward struct {
	Code string `gorm:"column:code;primaryKey;size:10" json:"code"`
	Name string `gorm:"column:name;size:50" json:"name"`
}

// TableName overrides the table name used by GORM.
func (Ward) TableName() string {
	return "wards"
}

// Medical is a catalog item that can be counted. Read-only master data here.
type Medical struct {
	ID          int    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code        string `gorm:"column:code;size:20" json:"code"`
	Description string `gorm:"column:description;size:100" json:"description"`
}

// TableName overrides the table name used by GORM.
func (Medical) TableName() string {
	return "medicals"
}

// Lot is a tracked batch of a medical item. Read-only master data here.
type Lot struct {
	Code      string    `gorm:"column:code;primaryKey;size:50" json:"code"`
	MedicalID int       `gorm:"column:medical_id" json:"medical_id"`
	DueDate   time.Time `gorm:"column:due_date" json:"due_date"`
}

// TableName overrides the table name used by GORM.
func (Lot) TableName() string {
	return "lots"
}
