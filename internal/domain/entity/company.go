package entity

import "time"

// Company representa la organización/tenant del sistema (cadena de farmacias).
type Company struct {
	ID        string
	Name      string
	NIT       string // NIT o identificación tributaria
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
