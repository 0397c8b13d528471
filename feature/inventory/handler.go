package inventory

import (
	"context"
	"errors"

	"inventory-manager/core/logger"
	"inventory-manager/feature/inventory/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Handler exposes the reconciliation engine over HTTP.
type Handler struct {
	engine *Engine
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(engine *Engine, log *zap.Logger) *Handler {
	return &Handler{engine: engine, logger: log}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/inventories")
	group.Post("/", h.HandleCreate)
	group.Get("/", h.HandleList)
	group.Get("/references/:reference", h.HandleReferenceExists)
	group.Get("/:id", h.HandleGet)
	group.Put("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDelete)
	group.Post("/:id/validate", h.HandleValidate)
	group.Post("/:id/cancel", h.HandleCancel)
	group.Get("/:id/rows", h.HandleListRows)
	group.Post("/:id/rows", h.HandleAddRow)
	group.Put("/:id/rows/:rowId", h.HandleUpdateRow)
}

type createInventoryRequest struct {
	Reference string `json:"reference"`
	Ward      string `json:"ward"`
}

type updateInventoryRequest struct {
	Reference string `json:"reference"`
	Ward      string `json:"ward"`
	Status    string `json:"status"`
}

type addRowRequest struct {
	MedicalID      int             `json:"medical_id"`
	Lot            *string         `json:"lot"`
	TheoreticalQty decimal.Decimal `json:"theoretical_qty"`
	RealQty        decimal.Decimal `json:"real_qty"`
}

type updateRowRequest struct {
	TheoreticalQty *decimal.Decimal `json:"theoretical_qty"`
	RealQty        decimal.Decimal  `json:"real_qty"`
}

type rowResponse struct {
	models.InventoryRow
	Discrepancy decimal.Decimal `json:"discrepancy"`
}

func toRowResponse(row models.InventoryRow) rowResponse {
	return rowResponse{InventoryRow: row, Discrepancy: row.Discrepancy()}
}

// HandleCreate creates a new draft inventory.
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req createInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	inv := &models.Inventory{Reference: req.Reference, WardCode: req.Ward}
	created, err := h.engine.Create(c.Context(), inv)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleList lists inventories, optionally filtered by status and/or ward.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	status := models.Status(c.Query("status"))
	ward := c.Query("ward")

	var (
		out []models.Inventory
		err error
	)
	switch {
	case status != "" && ward != "":
		out, err = h.engine.ListByStatusAndWard(c.Context(), status, ward)
	case status != "":
		out, err = h.engine.ListByStatus(c.Context(), status)
	default:
		out, err = h.engine.List(c.Context())
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// HandleGet returns one inventory by id.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	inv, err := h.engine.Get(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(inv)
}

// HandleUpdate replaces the mutable header fields of an inventory.
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	var req updateInventoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	inv := &models.Inventory{
		ID:        id,
		Reference: req.Reference,
		WardCode:  req.Ward,
		Status:    models.Status(req.Status),
	}
	updated, err := h.engine.Update(c.Context(), inv)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(updated)
}

// HandleDelete removes an inventory and all its rows.
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	if err := h.engine.Delete(c.Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleValidate confirms the counts of a draft inventory.
func (h *Handler) HandleValidate(c *fiber.Ctx) error {
	return h.handleTransition(c, h.engine.Validate)
}

// HandleCancel voids a non-terminal inventory.
func (h *Handler) HandleCancel(c *fiber.Ctx) error {
	return h.handleTransition(c, h.engine.Cancel)
}

func (h *Handler) handleTransition(c *fiber.Ctx, op func(ctx context.Context, id int) (*models.Inventory, error)) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	updated, err := op(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(updated)
}

// HandleReferenceExists reports whether a reference is already taken.
func (h *Handler) HandleReferenceExists(c *fiber.Ctx) error {
	reference := c.Params("reference")
	exists, err := h.engine.ReferenceExists(c.Context(), reference)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"reference": reference, "exists": exists})
}

// HandleListRows returns all counted lines of an inventory.
func (h *Handler) HandleListRows(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	rows, err := h.engine.Rows(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]rowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRowResponse(row))
	}
	return c.JSON(out)
}

// HandleAddRow attaches a counted line to a draft inventory.
func (h *Handler) HandleAddRow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	var req addRowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	lot := models.NoLot()
	if req.Lot != nil {
		lot = models.SomeLot(*req.Lot)
	}
	row, err := h.engine.AddRow(c.Context(), id, req.MedicalID, lot, req.TheoreticalQty, req.RealQty)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRowResponse(*row))
}

// HandleUpdateRow replaces the counted quantity of a row.
func (h *Handler) HandleUpdateRow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	rowID, err := c.ParamsInt("rowId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid row id"})
	}
	var req updateRowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	stored, err := h.engine.Row(c.Context(), rowID)
	if err != nil {
		return h.fail(c, err)
	}
	if stored.InventoryID != id {
		return h.fail(c, notFound("inventory row", rowID))
	}
	row := &models.InventoryRow{
		ID:             rowID,
		TheoreticalQty: stored.TheoreticalQty,
		RealQty:        req.RealQty,
	}
	if req.TheoreticalQty != nil {
		row.TheoreticalQty = *req.TheoreticalQty
	}
	updated, err := h.engine.UpdateRow(c.Context(), row)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(toRowResponse(*updated))
}

// fail maps a domain failure to an HTTP response.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.logger, c)

	var failure *Failure
	status := fiber.StatusInternalServerError
	if errors.As(err, &failure) {
		switch failure.Kind {
		case KindNotFound:
			status = fiber.StatusNotFound
		case KindDuplicateReference, KindDuplicateRow, KindInvalidState, KindInvalidStateTransition:
			status = fiber.StatusConflict
		case KindNegativeQuantity, KindImmutableField, KindUnknownWard, KindUnknownMedical, KindUnknownLot:
			status = fiber.StatusUnprocessableEntity
		}
	}
	if status == fiber.StatusInternalServerError {
		l.Error("inventory operation failed", zap.Error(err))
	} else {
		l.Debug("inventory operation rejected", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
