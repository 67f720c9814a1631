package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/botica-api/internal/application/dto"
	"github.com/tu-usuario/botica-api/internal/application/stock"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP del libro de stock (protegido).
type StockHandler struct {
	uc *stock.LedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.LedgerUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// AddStock registra una entrada manual de stock (recepción fuera de compra).
func (h *StockHandler) AddStock(c *fiber.Ctx) error {
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.AddStock(c.Context(), GetCompanyID(c), stock.MovementInput{
		PharmacyID: in.PharmacyID,
		MedicineID: in.MedicineID,
		Quantity:   in.Quantity,
		Reason:     entity.ReasonAdjustment,
		Actor:      GetUserID(c),
		Ref:        entity.ManualRef(),
		UnitCost:   in.UnitCost,
		UnitPrice:  in.UnitPrice,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockMovementResponse(mov))
}

// AdjustStock registra un ajuste manual con cantidad con signo
// (positiva entra, negativa sale; motivos ADJUSTMENT, EXPIRED, DAMAGED).
func (h *StockHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.AdjustStock(c.Context(), GetCompanyID(c), stock.MovementInput{
		PharmacyID: in.PharmacyID,
		MedicineID: in.MedicineID,
		Reason:     in.Reason,
		Actor:      GetUserID(c),
	}, in.Quantity)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toStockMovementResponse(mov))
}

// ListAccounts lista las existencias actuales de una farmacia.
func (h *StockHandler) ListAccounts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListAccounts(GetCompanyID(c), c.Query("pharmacy_id"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.StockAccountResponse, 0, len(list))
	for _, a := range list {
		items = append(items, dto.StockAccountResponse{
			PharmacyID:   a.PharmacyID,
			MedicineID:   a.MedicineID,
			Quantity:     a.Quantity,
			UnitPrice:    a.UnitPrice,
			UnitCost:     a.UnitCost,
			MinimumLevel: a.MinimumLevel,
			UnitsSold:    a.UnitsSold,
			UpdatedAt:    a.UpdatedAt,
		})
	}
	return c.JSON(fiber.Map{"items": items, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// ListMovements lista el libro de stock de una farmacia en un rango de fechas.
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to inválido (RFC3339)"})
	}
	list, err := h.uc.ListMovements(GetCompanyID(c), c.Query("pharmacy_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toStockMovementResponse(m))
	}
	return c.JSON(fiber.Map{"items": items, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// QuantityAsOf reconstruye la cantidad histórica de un medicamento en una
// farmacia a un instante dado (query `at` en RFC3339; vacío = ahora).
func (h *StockHandler) QuantityAsOf(c *fiber.Ctx) error {
	at := time.Now()
	if v := c.Query("at"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "at inválido (RFC3339)"})
		}
		at = parsed
	}
	pharmacyID := c.Query("pharmacy_id")
	medicineID := c.Query("medicine_id")
	qty, err := h.uc.QuantityAsOf(c.Context(), GetCompanyID(c), pharmacyID, medicineID, at)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.QuantityAsOfResponse{
		PharmacyID: pharmacyID,
		MedicineID: medicineID,
		AsOf:       at,
		Quantity:   qty,
	})
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toStockMovementResponse(m *entity.StockMovement) *dto.StockMovementResponse {
	return &dto.StockMovementResponse{
		ID:             m.ID,
		PharmacyID:     m.PharmacyID,
		MedicineID:     m.MedicineID,
		Direction:      m.Direction,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		Actor:          m.Actor,
		RefKind:        string(m.Ref.Kind),
		RefID:          m.Ref.ID,
		CreatedAt:      m.CreatedAt,
	}
}
