package inventory

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	engine  *Engine
	handler *Handler
}

// NewFeature wires the inventory feature on top of a database connection.
// archiver may be nil when object storage is not configured.
func NewFeature(db *gorm.DB, archiver *Archiver, logg *zap.Logger) *Feature {
	engine := NewEngine(
		NewGormTxRunner(db),
		NewGormInventoryStore(db),
		NewGormInventoryRowStore(db),
		NewGormMasterData(db),
		archiver,
		logg,
	)
	return &Feature{engine: engine, handler: NewHandler(engine, logg)}
}

// Engine exposes the reconciliation engine for CLI use.
func (f *Feature) Engine() *Engine {
	return f.engine
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "inventory"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
