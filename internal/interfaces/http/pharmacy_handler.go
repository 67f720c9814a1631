package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/botica-api/internal/application/catalog"
	"github.com/tu-usuario/botica-api/internal/application/dto"
)

// PharmacyHandler maneja las peticiones HTTP de farmacias/sedes (protegido).
type PharmacyHandler struct {
	uc *catalog.PharmacyUseCase
}

// NewPharmacyHandler construye el handler.
func NewPharmacyHandler(uc *catalog.PharmacyUseCase) *PharmacyHandler {
	return &PharmacyHandler{uc: uc}
}

// Create da de alta una farmacia en la empresa del usuario.
func (h *PharmacyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePharmacyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	pharmacy, err := h.uc.Create(GetCompanyID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pharmacy)
}

// GetByID obtiene una farmacia de la empresa.
func (h *PharmacyHandler) GetByID(c *fiber.Ctx) error {
	pharmacy, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(pharmacy)
}

// Update actualiza los campos descriptivos de una farmacia.
func (h *PharmacyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePharmacyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	pharmacy, err := h.uc.Update(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(pharmacy)
}

// List lista las farmacias de la empresa.
func (h *PharmacyHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.List(GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// Delete elimina una farmacia de la empresa.
func (h *PharmacyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetCompanyID(c), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
