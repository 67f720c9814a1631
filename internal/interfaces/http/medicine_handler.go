package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/botica-api/internal/application/catalog"
	"github.com/tu-usuario/botica-api/internal/application/dto"
)

// MedicineHandler maneja las peticiones HTTP del catálogo de medicamentos (protegido).
type MedicineHandler struct {
	uc *catalog.MedicineUseCase
}

// NewMedicineHandler construye el handler.
func NewMedicineHandler(uc *catalog.MedicineUseCase) *MedicineHandler {
	return &MedicineHandler{uc: uc}
}

// Create da de alta un medicamento en el catálogo de la empresa.
func (h *MedicineHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMedicineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	medicine, err := h.uc.Create(GetCompanyID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(medicine)
}

// GetByID obtiene un medicamento de la empresa.
func (h *MedicineHandler) GetByID(c *fiber.Ctx) error {
	medicine, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(medicine)
}

// Update actualiza los campos editables de un medicamento.
func (h *MedicineHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMedicineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	medicine, err := h.uc.Update(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(medicine)
}

// List lista los medicamentos del catálogo de la empresa.
func (h *MedicineHandler) List(c *fiber.Ctx) error {
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
