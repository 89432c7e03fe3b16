package repository

// Registry agrupa los repositorios atados a una misma conexión o transacción.
type Registry interface {
	Companies() CompanyRepository
	Employees() EmployeeRepository
	RolePermissions() RolePermissionRepository
	Categories() CategoryRepository
	Units() UnitRepository
	Brands() BrandRepository
	Products() ProductRepository
	Customers() CustomerRepository
	Suppliers() SupplierRepository
	Invoices() InvoiceRepository
}
