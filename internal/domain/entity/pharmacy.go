package entity

import "time"

// Pharmacy representa una farmacia o sede donde se maneja stock (multi-sede).
type Pharmacy struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
