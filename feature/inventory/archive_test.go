package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"inventory-manager/core/storage/mocks"
	"inventory-manager/feature/inventory/models"

	"github.com/minio/minio-go/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestArchiverEnsureBucket(t *testing.T) {
	t.Run("AlreadyExists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "inventory-archive").Return(true, nil)

		archiver := NewArchiver(client, "inventory-archive", "snapshots")
		assert.NoError(t, archiver.EnsureBucket(context.Background()))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CreatesWhenMissing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "inventory-archive").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "inventory-archive", mock.Anything).Return(nil)

		archiver := NewArchiver(client, "inventory-archive", "snapshots")
		assert.NoError(t, archiver.EnsureBucket(context.Background()))
		client.AssertExpectations(t)
	})
}

func TestArchiverPut(t *testing.T) {
	var body []byte
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "inventory-archive", "snapshots/INV-1.json",
		mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			reader := args.Get(3).(io.Reader)
			body, _ = io.ReadAll(reader)
		}).
		Return(minio.UploadInfo{}, nil)

	archiver := NewArchiver(client, "inventory-archive", "snapshots")
	inv := &models.Inventory{
		ID:        1,
		Reference: "INV-1",
		WardCode:  "P",
		Status:    models.StatusValidated,
	}
	rows := []models.InventoryRow{
		{
			MedicalID:      1,
			Lot:            models.SomeLot("LOT-1"),
			TheoreticalQty: decimal.NewFromInt(50),
			RealQty:        decimal.NewFromInt(100),
		},
	}

	require.NoError(t, archiver.Put(context.Background(), inv, rows))
	client.AssertExpectations(t)

	var snap map[string]any
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, "INV-1", snap["reference"])
	assert.Equal(t, "validated", snap["status"])

	snapRows := snap["rows"].([]any)
	require.Len(t, snapRows, 1)
	first := snapRows[0].(map[string]any)
	assert.Equal(t, "LOT-1", first["lot"])
	assert.Equal(t, "50", first["discrepancy"])
}

func TestArchiverRemove(t *testing.T) {
	client := new(mocks.Client)
	client.On("RemoveObject", mock.Anything, "inventory-archive", "snapshots/INV-1.json", mock.Anything).
		Return(nil)

	archiver := NewArchiver(client, "inventory-archive", "snapshots")
	assert.NoError(t, archiver.Remove(context.Background(), "INV-1"))
	client.AssertExpectations(t)
}

func TestArchiverPutEncodesEmptyRows(t *testing.T) {
	var body []byte
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "inventory-archive", "snapshots/INV-2.json",
		mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			body, _ = io.ReadAll(args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{}, nil)

	archiver := NewArchiver(client, "inventory-archive", "snapshots")
	inv := &models.Inventory{ID: 2, Reference: "INV-2", WardCode: "P", Status: models.StatusCanceled}

	require.NoError(t, archiver.Put(context.Background(), inv, nil))
	assert.True(t, bytes.Contains(body, []byte(`"rows":[]`)))
}
