// Package rbac contiene el catálogo estático de permisos y la asignación por defecto
// de permisos a los roles predefinidos. Es la única fuente de verdad de las claves de permiso.
package rbac

import (
	"fmt"
	"sort"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// Permission clave de permiso (p. ej. "MANAGE_PRODUCTS").
type Permission string

const (
	ViewDashboard    Permission = "VIEW_DASHBOARD"
	POSAccess        Permission = "POS_ACCESS"
	ViewTransactions Permission = "VIEW_TRANSACTIONS"
	ViewProducts     Permission = "VIEW_PRODUCTS"
	ManageProducts   Permission = "MANAGE_PRODUCTS"
	ViewCustomers    Permission = "VIEW_CUSTOMERS"
	ManageCustomers  Permission = "MANAGE_CUSTOMERS"
	ViewSuppliers    Permission = "VIEW_SUPPLIERS"
	ManageSuppliers  Permission = "MANAGE_SUPPLIERS"
	ViewEmployees    Permission = "VIEW_EMPLOYEES"
	ManageEmployees  Permission = "MANAGE_EMPLOYEES"
	ViewInvoices     Permission = "VIEW_INVOICES"
	ManageInvoices   Permission = "MANAGE_INVOICES"
	ViewReports      Permission = "VIEW_REPORTS"
	ManageSettings   Permission = "MANAGE_SETTINGS"
	ManageCompany    Permission = "MANAGE_COMPANY"
)

// Definition clave + etiqueta legible. Solo informativo: no interviene en la autorización.
type Definition struct {
	Key   Permission `json:"key"`
	Label string     `json:"label"`
}

var catalog = []Definition{
	{ViewDashboard, "Ver panel principal"},
	{POSAccess, "Acceso al punto de venta"},
	{ViewTransactions, "Ver transacciones"},
	{ViewProducts, "Ver productos y catálogo"},
	{ManageProducts, "Gestionar productos y catálogo"},
	{ViewCustomers, "Ver clientes"},
	{ManageCustomers, "Gestionar clientes"},
	{ViewSuppliers, "Ver proveedores"},
	{ManageSuppliers, "Gestionar proveedores"},
	{ViewEmployees, "Ver empleados y roles"},
	{ManageEmployees, "Gestionar empleados"},
	{ViewInvoices, "Ver facturas"},
	{ManageInvoices, "Crear y editar facturas"},
	{ViewReports, "Ver reportes"},
	{ManageSettings, "Gestionar configuración y permisos"},
	{ManageCompany, "Gestionar datos de la empresa"},
}

var defaults = map[string][]Permission{
	entity.RoleAdmin: allKeys(),
	entity.RoleManager: {
		ViewDashboard, POSAccess, ViewTransactions,
		ViewProducts, ManageProducts,
		ViewCustomers, ManageCustomers,
		ViewSuppliers, ManageSuppliers,
		ViewEmployees,
		ViewInvoices, ManageInvoices,
		ViewReports,
	},
	entity.RoleEmployee: {
		ViewDashboard, POSAccess,
		ViewProducts, ViewCustomers, ViewSuppliers,
		ViewInvoices, ManageInvoices,
	},
	entity.RoleCashier: {
		ViewDashboard, POSAccess, ViewTransactions,
		ViewProducts, ViewCustomers,
		ViewInvoices, ManageInvoices,
	},
}

// defaultRoles en orden de presentación.
var defaultRoles = []string{entity.RoleAdmin, entity.RoleManager, entity.RoleEmployee, entity.RoleCashier}

func allKeys() []Permission {
	keys := make([]Permission, len(catalog))
	for i, d := range catalog {
		keys[i] = d.Key
	}
	return keys
}

// Catalog devuelve una copia del catálogo de permisos.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// DefaultRoles devuelve los roles predefinidos.
func DefaultRoles() []string {
	out := make([]string, len(defaultRoles))
	copy(out, defaultRoles)
	return out
}

// IsDefaultRole indica si role es uno de los roles predefinidos.
func IsDefaultRole(role string) bool {
	_, ok := defaults[role]
	return ok
}

// DefaultPermissions devuelve el conjunto por defecto de role. Rol desconocido → conjunto vacío.
func DefaultPermissions(role string) Set {
	return NewSet(defaults[role]...)
}

// IsKnown indica si p pertenece al catálogo.
func IsKnown(p Permission) bool {
	for _, d := range catalog {
		if d.Key == p {
			return true
		}
	}
	return false
}

// Parse convierte claves crudas en un Set, rechazando las que no están en el catálogo.
func Parse(keys []string) (Set, error) {
	s := make(Set, len(keys))
	for _, k := range keys {
		p := Permission(k)
		if !IsKnown(p) {
			return nil, fmt.Errorf("permiso desconocido %q", k)
		}
		s[p] = struct{}{}
	}
	return s, nil
}

// Set conjunto de permisos.
type Set map[Permission]struct{}

// NewSet construye un Set a partir de claves.
func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// Has indica si p pertenece al conjunto.
func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Sorted devuelve las claves ordenadas alfabéticamente.
func (s Set) Sorted() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings devuelve las claves ordenadas como strings (para JSON y SQL).
func (s Set) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, p := range sorted {
		out[i] = string(p)
	}
	return out
}

// Equal compara dos conjuntos.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for p := range s {
		if !other.Has(p) {
			return false
		}
	}
	return true
}
