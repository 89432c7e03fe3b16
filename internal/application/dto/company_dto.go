package dto

// UpdateCompanyRequest actualización parcial del perfil de la empresa.
type UpdateCompanyRequest struct {
	BusinessName    *string `json:"businessName" validate:"omitempty,min=2,max=160"`
	BusinessAddress *string `json:"businessAddress" validate:"omitempty,max=255"`
	TaxID           *string `json:"taxId" validate:"omitempty,max=40"`
	Phone           *string `json:"phone" validate:"omitempty,max=40"`
	Email           *string `json:"email" validate:"omitempty,email"`
	LogoURL         *string `json:"logoUrl" validate:"omitempty,url"`
}
