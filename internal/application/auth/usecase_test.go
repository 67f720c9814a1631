package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/botica-api/internal/application/auth"
	"github.com/tu-usuario/botica-api/internal/application/dto"
	"github.com/tu-usuario/botica-api/internal/domain"
	"github.com/tu-usuario/botica-api/internal/domain/entity"
	"github.com/tu-usuario/botica-api/internal/infrastructure/memory"
	pkgjwt "github.com/tu-usuario/botica-api/pkg/jwt"
)

const authTestSecret = "auth-test-secret"

func newAuthFixture(t *testing.T) (*auth.UseCase, *memory.Store, string) {
	t.Helper()
	store := memory.NewStore()
	companyID := uuid.New().String()
	now := time.Now()
	require.NoError(t, store.Companies().Create(&entity.Company{
		ID: companyID, Name: "Botica Central SAC", NIT: "20123456789",
		Status: "active", CreatedAt: now, UpdatedAt: now,
	}))
	uc := auth.NewUseCase(store.Users(), store.Companies(), auth.JWTConfig{
		Secret:     authTestSecret,
		ExpMinutes: 60,
		Issuer:     "botica-api-test",
	})
	return uc, store, companyID
}

func TestRegisterUser_RolPorDefectoYHash(t *testing.T) {
	uc, store, companyID := newAuthFixture(t)

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: companyID,
		Email:     "ana@botica.pe",
		Password:  "secreto-123",
		Name:      "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, resp.Role, "sin rol explícito se asigna vendedor")
	assert.Equal(t, "active", resp.Status)

	user, err := store.Users().FindByEmail("ana@botica.pe")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEqual(t, "secreto-123", user.PasswordHash, "el password nunca se guarda en claro")
}

func TestRegisterUser_EmailDuplicadoEnEmpresa(t *testing.T) {
	uc, _, companyID := newAuthFixture(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: companyID, Email: "ana@botica.pe", Password: "secreto-123",
	})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{
		CompanyID: companyID, Email: "ana@botica.pe", Password: "otro-secreto",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_EmpresaInexistente(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: uuid.New().String(), Email: "x@botica.pe", Password: "secreto-123",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterUser_RolInvalido(t *testing.T) {
	uc, _, companyID := newAuthFixture(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: companyID, Email: "x@botica.pe", Password: "secreto-123", Role: "gerente",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_TokenConClaims(t *testing.T) {
	uc, _, companyID := newAuthFixture(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: companyID, Email: "ana@botica.pe", Password: "secreto-123", Role: entity.RoleFarmaceuta,
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "ana@botica.pe", Password: "secreto-123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	userID, gotCompany, role, err := pkgjwt.Parse(authTestSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, companyID, gotCompany)
	assert.Equal(t, entity.RoleFarmaceuta, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _, companyID := newAuthFixture(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: companyID, Email: "ana@botica.pe", Password: "secreto-123",
	})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@botica.pe", Password: "equivocado"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@botica.pe", Password: "secreto-123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, store, companyID := newAuthFixture(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto-123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, store.Users().Create(&entity.User{
		ID: uuid.New().String(), CompanyID: companyID, Email: "ana@botica.pe",
		PasswordHash: string(hash), Name: "Ana", Role: entity.RoleVendedor,
		Status: "inactive", CreatedAt: now, UpdatedAt: now,
	}))

	_, err = uc.Login(dto.LoginRequest{Email: "ana@botica.pe", Password: "secreto-123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
