package dto

// ReplacePermissionsRequest nuevo conjunto de permisos del rol (puede ser vacío).
type ReplacePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

// RolePermissionsResponse permisos efectivos de un rol.
type RolePermissionsResponse struct {
	Role        string   `json:"role"`
	Configured  bool     `json:"configured"`
	Permissions []string `json:"permissions"`
}
