package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain/rbac"
)

func TestDefaultPermissions_PorRol(t *testing.T) {
	cases := []struct {
		role     string
		includes []rbac.Permission
		excludes []rbac.Permission
	}{
		{
			role:     "admin",
			includes: []rbac.Permission{rbac.ManageEmployees, rbac.ManageSettings, rbac.ManageCompany},
		},
		{
			role:     "manager",
			includes: []rbac.Permission{rbac.ViewProducts, rbac.ManageProducts, rbac.ViewEmployees},
			excludes: []rbac.Permission{rbac.ManageEmployees, rbac.ManageSettings, rbac.ManageCompany},
		},
		{
			role:     "employee",
			includes: []rbac.Permission{rbac.POSAccess, rbac.ManageInvoices},
			excludes: []rbac.Permission{rbac.ManageProducts, rbac.ViewEmployees},
		},
		{
			role:     "cashier",
			includes: []rbac.Permission{rbac.POSAccess, rbac.ViewTransactions},
			excludes: []rbac.Permission{rbac.ManageCustomers, rbac.ViewSuppliers},
		},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			set := rbac.DefaultPermissions(tc.role)
			for _, p := range tc.includes {
				assert.True(t, set.Has(p), "%s debe incluir %s", tc.role, p)
			}
			for _, p := range tc.excludes {
				assert.False(t, set.Has(p), "%s no debe incluir %s", tc.role, p)
			}
		})
	}
}

func TestDefaultPermissions_AdminTieneTodoElCatalogo(t *testing.T) {
	set := rbac.DefaultPermissions("admin")
	assert.Len(t, set, len(rbac.Catalog()))
}

func TestDefaultPermissions_RolDesconocidoVacio(t *testing.T) {
	assert.Empty(t, rbac.DefaultPermissions("supervisor"))
	assert.Empty(t, rbac.DefaultPermissions(""))
}

func TestDefaultPermissions_DevuelveCopia(t *testing.T) {
	set := rbac.DefaultPermissions("cashier")
	delete(set, rbac.POSAccess)
	assert.True(t, rbac.DefaultPermissions("cashier").Has(rbac.POSAccess),
		"mutar el resultado no debe alterar el registro")
}

func TestParse(t *testing.T) {
	set, err := rbac.Parse([]string{"VIEW_PRODUCTS", "VIEW_PRODUCTS", "POS_ACCESS"})
	require.NoError(t, err)
	assert.Equal(t, []string{"POS_ACCESS", "VIEW_PRODUCTS"}, set.Strings())

	_, err = rbac.Parse([]string{"VIEW_PRODUCTS", "DROP_DATABASE"})
	assert.Error(t, err)

	empty, err := rbac.Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCatalog_ClavesUnicasYConEtiqueta(t *testing.T) {
	seen := map[rbac.Permission]bool{}
	for _, d := range rbac.Catalog() {
		assert.False(t, seen[d.Key], "clave repetida %s", d.Key)
		assert.NotEmpty(t, d.Label)
		seen[d.Key] = true
	}
}
