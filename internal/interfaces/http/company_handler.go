package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/botica-api/internal/application/catalog"
	"github.com/tu-usuario/botica-api/internal/application/dto"
)

// CompanyHandler maneja las peticiones HTTP de empresas.
type CompanyHandler struct {
	uc *catalog.CompanyUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *catalog.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create da de alta una empresa (tenant).
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	company, err := h.uc.Create(in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(company)
}

// GetByID obtiene una empresa por ID.
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	company, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(company)
}
