package dto

import (
	"strings"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// UpdateProfileRequest actualización parcial del perfil propio. Los campos de empresa
// requieren MANAGE_COMPANY.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=160"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=40"`
	Address  *string `json:"address" validate:"omitempty,max=255"`
	Position *string `json:"position" validate:"omitempty,max=80"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`

	BusinessName    *string `json:"businessName" validate:"omitempty,min=2,max=160"`
	BusinessAddress *string `json:"businessAddress" validate:"omitempty,max=255"`
	TaxID           *string `json:"taxId" validate:"omitempty,max=40"`
	CompanyPhone    *string `json:"companyPhone" validate:"omitempty,max=40"`
	CompanyEmail    *string `json:"companyEmail" validate:"omitempty,email"`
}

// TouchesCompany indica si el payload modifica datos de la empresa.
func (r UpdateProfileRequest) TouchesCompany() bool {
	return r.BusinessName != nil || r.BusinessAddress != nil || r.TaxID != nil ||
		r.CompanyPhone != nil || r.CompanyEmail != nil
}

// ProfileResponse vista plana del empleado y su empresa.
type ProfileResponse struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Position string `json:"position"`
	Role     string `json:"role"`
	UserName string `json:"userName"`

	BusinessName    string `json:"businessName"`
	CompanyName     string `json:"companyName"`
	BusinessAddress string `json:"businessAddress"`
	TaxID           string `json:"taxId"`
	CompanyPhone    string `json:"companyPhone"`
	CompanyEmail    string `json:"companyEmail"`
	ProfileImage    string `json:"profileImage"`
	ImageURL        string `json:"imageUrl"`
}

// NewProfileResponse arma el perfil; userName es la parte local del email.
func NewProfileResponse(e *entity.Employee, c *entity.Company) ProfileResponse {
	userName, _, _ := strings.Cut(e.Email, "@")
	return ProfileResponse{
		Name:            e.Name,
		Email:           e.Email,
		Phone:           e.Phone,
		Address:         e.Address,
		Position:        e.Position,
		Role:            e.Role,
		UserName:        userName,
		BusinessName:    c.BusinessName,
		CompanyName:     c.BusinessName,
		BusinessAddress: c.BusinessAddress,
		TaxID:           c.TaxID,
		CompanyPhone:    c.Phone,
		CompanyEmail:    c.Email,
		ProfileImage:    c.LogoURL,
		ImageURL:        c.LogoURL,
	}
}
