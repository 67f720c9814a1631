package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/botica-api/internal/application/dto"
	"github.com/tu-usuario/botica-api/internal/application/sales"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
)

// SaleHandler maneja las peticiones HTTP de ventas (protegido).
type SaleHandler struct {
	uc *sales.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create registra una venta en borrador.
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// Finalize descuenta stock de todos los renglones de forma atómica y cierra la venta.
func (h *SaleHandler) Finalize(c *fiber.Ctx) error {
	sale, err := h.uc.Finalize(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// GetByID obtiene una venta con sus renglones.
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// List lista ventas de una farmacia (?pharmacy_id=).
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListByPharmacy(GetCompanyID(c), c.Query("pharmacy_id"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return c.JSON(fiber.Map{"items": items, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	lines := make([]dto.LineItemResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.LineItemResponse{
			ID:         l.ID,
			MedicineID: l.MedicineID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			Subtotal:   l.Subtotal,
		})
	}
	return &dto.SaleResponse{
		ID:         s.ID,
		PharmacyID: s.PharmacyID,
		CustomerID: s.CustomerID,
		Status:     s.Status,
		Total:      s.Total,
		Lines:      lines,
		CreatedAt:  s.CreatedAt,
	}
}
