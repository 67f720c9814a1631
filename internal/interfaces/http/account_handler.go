package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/botica-api/internal/application/accounts"
	"github.com/tu-usuario/botica-api/internal/application/dto"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
)

// AccountHandler maneja las peticiones HTTP de cuentas corrientes (protegido).
type AccountHandler struct {
	uc *accounts.UseCase
}

// NewAccountHandler construye el handler.
func NewAccountHandler(uc *accounts.UseCase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

// Create da de alta una cuenta corriente (proveedor o cliente).
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	acct, err := h.uc.CreateAccount(GetCompanyID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAccountResponse(acct))
}

// GetByID obtiene una cuenta de la empresa con su saldo proyectado.
func (h *AccountHandler) GetByID(c *fiber.Ctx) error {
	acct, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toAccountResponse(acct))
}

// List lista cuentas de la empresa, filtrables por tipo (?kind=supplier|customer).
func (h *AccountHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.List(GetCompanyID(c), c.Query("kind"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.AccountResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAccountResponse(a))
	}
	return c.JSON(fiber.Map{"items": items, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// ListMovements devuelve el libro completo de la cuenta en orden de replay.
func (h *AccountHandler) ListMovements(c *fiber.Ctx) error {
	movs, err := h.uc.ListMovements(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.AccountMovementResponse, 0, len(movs))
	for _, m := range movs {
		items = append(items, dto.AccountMovementResponse{
			ID:             m.ID,
			AccountID:      m.AccountID,
			Kind:           m.Kind,
			Amount:         m.Amount,
			Reference:      m.Reference,
			RunningBalance: m.RunningBalance,
			CreatedAt:      m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"items": items})
}

// RecordPurchase registra un cargo manual (compra a crédito) sobre la cuenta.
func (h *AccountHandler) RecordPurchase(c *fiber.Ctx) error {
	return h.record(c, entity.AccountMovementPurchase)
}

// RecordPayment registra un abono sobre la cuenta.
func (h *AccountHandler) RecordPayment(c *fiber.Ctx) error {
	return h.record(c, entity.AccountMovementPayment)
}

// RecordReset fija el saldo de la cuenta en un valor absoluto.
func (h *AccountHandler) RecordReset(c *fiber.Ctx) error {
	return h.record(c, entity.AccountMovementReset)
}

func (h *AccountHandler) record(c *fiber.Ctx, kind string) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	companyID := GetCompanyID(c)
	accountID := c.Params("id")
	actor := GetUserID(c)
	var mov *entity.AccountMovement
	var err error
	switch kind {
	case entity.AccountMovementPurchase:
		mov, err = h.uc.RecordPurchase(c.Context(), companyID, accountID, in.Amount, in.Reference, actor)
	case entity.AccountMovementPayment:
		mov, err = h.uc.RecordPayment(c.Context(), companyID, accountID, in.Amount, in.Reference, actor)
	default:
		mov, err = h.uc.RecordReset(c.Context(), companyID, accountID, in.Amount, in.Reference, actor)
	}
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AccountMovementResponse{
		ID:             mov.ID,
		AccountID:      mov.AccountID,
		Kind:           mov.Kind,
		Amount:         mov.Amount,
		Reference:      mov.Reference,
		RunningBalance: mov.RunningBalance,
		CreatedAt:      mov.CreatedAt,
	})
}

// Reconcile reconstruye el saldo de la cuenta desde su libro y lo persiste.
func (h *AccountHandler) Reconcile(c *fiber.Ctx) error {
	accountID := c.Params("id")
	balance, err := h.uc.Reconcile(c.Context(), GetCompanyID(c), accountID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ReconcileResponse{AccountID: accountID, Balance: balance})
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:             a.ID,
		Kind:           a.Kind,
		Name:           a.Name,
		TaxID:          a.TaxID,
		CreditLimit:    a.CreditLimit,
		CurrentBalance: a.CurrentBalance,
		CreatedAt:      a.CreatedAt,
	}
}
