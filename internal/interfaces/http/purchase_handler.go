package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/botica-api/internal/application/dto"
	"github.com/tu-usuario/botica-api/internal/application/purchases"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
)

// PurchaseHandler maneja las peticiones HTTP de compras a proveedor (protegido).
type PurchaseHandler struct {
	uc *purchases.UseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchases.UseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create registra una compra en borrador.
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	purchase, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseResponse(purchase))
}

// Finalize aplica la compra: entradas de stock por renglón, cargo al proveedor
// y reconciliación del saldo, todo en una transacción.
func (h *PurchaseHandler) Finalize(c *fiber.Ctx) error {
	purchase, err := h.uc.Finalize(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPurchaseResponse(purchase))
}

// UpdateLines edita los renglones: revierte los efectos viejos y aplica los nuevos.
func (h *PurchaseHandler) UpdateLines(c *fiber.Ctx) error {
	var in dto.UpdatePurchaseLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	purchase, err := h.uc.UpdateLines(c.Context(), GetCompanyID(c), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPurchaseResponse(purchase))
}

// Delete anula la compra revirtiendo sus efectos en stock y cuenta corriente.
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c)); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID obtiene una compra con sus renglones.
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	purchase, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPurchaseResponse(purchase))
}

// List lista compras de una farmacia (?pharmacy_id=).
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListByPharmacy(GetCompanyID(c), c.Query("pharmacy_id"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPurchaseResponse(p))
	}
	return c.JSON(fiber.Map{"items": items, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	lines := make([]dto.LineItemResponse, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, dto.LineItemResponse{
			ID:         l.ID,
			MedicineID: l.MedicineID,
			Quantity:   l.Quantity,
			UnitCost:   l.UnitCost,
			Subtotal:   l.Subtotal,
		})
	}
	return &dto.PurchaseResponse{
		ID:         p.ID,
		PharmacyID: p.PharmacyID,
		SupplierID: p.SupplierID,
		Status:     p.Status,
		Total:      p.Total,
		Lines:      lines,
		CreatedAt:  p.CreatedAt,
	}
}
