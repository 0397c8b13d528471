package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inventory-manager/core/storage"
	"inventory-manager/feature/inventory/models"

	"github.com/minio/minio-go/v7"
	"github.com/shopspring/decimal"
)

// Archiver writes immutable JSON snapshots of finished inventories to
// object storage. One object per inventory, keyed by its reference, so the
// snapshot of a validated or canceled count survives even after the rows
// are purged from the database.
type Archiver struct {
	client storage.Client
	bucket string
	prefix string
}

// NewArchiver creates an archiver writing under bucket/prefix.
func NewArchiver(client storage.Client, bucket, prefix string) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: prefix}
}

type snapshotRow struct {
	MedicalID      int             `json:"medical_id"`
	Lot            models.LotRef   `json:"lot"`
	TheoreticalQty decimal.Decimal `json:"theoretical_qty"`
	RealQty        decimal.Decimal `json:"real_qty"`
	Discrepancy    decimal.Decimal `json:"discrepancy"`
}

type snapshot struct {
	Reference  string        `json:"reference"`
	WardCode   string        `json:"ward"`
	Status     models.Status `json:"status"`
	ArchivedAt time.Time     `json:"archived_at"`
	Rows       []snapshotRow `json:"rows"`
}

// EnsureBucket creates the archive bucket if it does not exist yet.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create archive bucket: %w", err)
	}
	return nil
}

// Put uploads the snapshot of inv and its rows, overwriting any previous one.
func (a *Archiver) Put(ctx context.Context, inv *models.Inventory, rows []models.InventoryRow) error {
	snap := snapshot{
		Reference:  inv.Reference,
		WardCode:   inv.WardCode,
		Status:     inv.Status,
		ArchivedAt: time.Now().UTC(),
		Rows:       make([]snapshotRow, 0, len(rows)),
	}
	for _, row := range rows {
		snap.Rows = append(snap.Rows, snapshotRow{
			MedicalID:      row.MedicalID,
			Lot:            row.Lot,
			TheoreticalQty: row.TheoreticalQty,
			RealQty:        row.RealQty,
			Discrepancy:    row.Discrepancy(),
		})
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = a.client.PutObject(ctx, a.bucket, a.objectName(inv.Reference),
		bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}
	return nil
}

// Remove deletes the snapshot for reference, if any.
func (a *Archiver) Remove(ctx context.Context, reference string) error {
	err := a.client.RemoveObject(ctx, a.bucket, a.objectName(reference), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove snapshot: %w", err)
	}
	return nil
}

func (a *Archiver) objectName(reference string) string {
	return fmt.Sprintf("%s/%s.json", a.prefix, reference)
}
