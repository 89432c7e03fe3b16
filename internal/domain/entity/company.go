package entity

import "time"

// Company representa una organización/tenant del sistema.
type Company struct {
	ID              int64     `json:"-"`
	UUID            string    `json:"uuid"`
	BusinessName    string    `json:"businessName"`
	BusinessAddress string    `json:"businessAddress"`
	TaxID           string    `json:"taxId"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	LogoURL         string    `json:"logoUrl"`
	IsDeleted       bool      `json:"isDeleted"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
