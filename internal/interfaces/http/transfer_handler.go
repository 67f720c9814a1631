package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/botica-api/internal/application/dto"
	"github.com/tu-usuario/botica-api/internal/application/transfers"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
)

// TransferHandler maneja las peticiones HTTP de traslados entre farmacias (protegido).
type TransferHandler struct {
	uc *transfers.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfers.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create registra un traslado en estado PENDING.
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	transfer, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(transfer))
}

// Approve aprueba un traslado pendiente.
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	transfer, err := h.uc.Approve(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// Reject rechaza un traslado pendiente con motivo.
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	transfer, err := h.uc.Reject(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// Process ejecuta un traslado aprobado: mueve el stock origen→destino atómico.
func (h *TransferHandler) Process(c *fiber.Ctx) error {
	transfer, err := h.uc.Process(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// Reverse deshace un traslado completado (falla si el destino ya vendió las unidades).
func (h *TransferHandler) Reverse(c *fiber.Ctx) error {
	transfer, err := h.uc.Reverse(c.Context(), GetCompanyID(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// GetByID obtiene un traslado con sus renglones.
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	transfer, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}

// List lista traslados de la empresa.
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.ListByCompany(GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTransferResponse(t))
	}
	return c.JSON(fiber.Map{"items": items, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

func toTransferResponse(t *entity.Transfer) *dto.TransferResponse {
	lines := make([]dto.LineItemResponse, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, dto.LineItemResponse{
			ID:         l.ID,
			MedicineID: l.MedicineID,
			Quantity:   l.Quantity,
			UnitCost:   l.UnitCost,
			Subtotal:   l.Subtotal,
		})
	}
	return &dto.TransferResponse{
		ID:               t.ID,
		SourcePharmacyID: t.SourcePharmacyID,
		DestPharmacyID:   t.DestPharmacyID,
		Status:           t.Status,
		Completed:        t.Completed,
		RejectReason:     t.RejectReason,
		Total:            t.Total,
		Lines:            lines,
		CreatedAt:        t.CreatedAt,
		CompletedAt:      t.CompletedAt,
	}
}
