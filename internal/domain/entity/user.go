package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleFarmaceuta = "farmaceuta"
	RoleVendedor   = "vendedor"
)

// User representa un empleado del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, farmaceuta, vendedor
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
