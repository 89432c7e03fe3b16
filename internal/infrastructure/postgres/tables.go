package postgres

import (
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

var categoriesTable = defineTable(table[entity.Category, *entity.Category]{
	name:    "categories",
	columns: []string{"name", "subcategory", "is_active"},
	values:  func(c *entity.Category) []any { return []any{c.Name, c.Subcategory, c.IsActive} },
	dest:    func(c *entity.Category) []any { return []any{&c.Name, &c.Subcategory, &c.IsActive} },
})

var unitsTable = defineTable(table[entity.Unit, *entity.Unit]{
	name:    "units",
	columns: []string{"name", "symbol", "is_active"},
	values:  func(u *entity.Unit) []any { return []any{u.Name, u.Symbol, u.IsActive} },
	dest:    func(u *entity.Unit) []any { return []any{&u.Name, &u.Symbol, &u.IsActive} },
})

var brandsTable = defineTable(table[entity.Brand, *entity.Brand]{
	name:    "brands",
	columns: []string{"name", "is_active"},
	values:  func(b *entity.Brand) []any { return []any{b.Name, b.IsActive} },
	dest:    func(b *entity.Brand) []any { return []any{&b.Name, &b.IsActive} },
})

var suppliersTable = defineTable(table[entity.Supplier, *entity.Supplier]{
	name:    "suppliers",
	columns: []string{"name", "phone", "email", "address"},
	values:  func(s *entity.Supplier) []any { return []any{s.Name, s.Phone, s.Email, s.Address} },
	dest:    func(s *entity.Supplier) []any { return []any{&s.Name, &s.Phone, &s.Email, &s.Address} },
})

var customersTable = defineTable(table[entity.Customer, *entity.Customer]{
	name:    "customers",
	columns: []string{"name", "phone", "email", "address", "credit_limit", "current_balance", "is_walk_in"},
	values: func(c *entity.Customer) []any {
		return []any{c.Name, c.Phone, c.Email, c.Address, c.CreditLimit, c.CurrentBalance, c.IsWalkIn}
	},
	dest: func(c *entity.Customer) []any {
		return []any{&c.Name, &c.Phone, &c.Email, &c.Address, &c.CreditLimit, &c.CurrentBalance, &c.IsWalkIn}
	},
})

var productsTable = defineTable(table[entity.Product, *entity.Product]{
	name: "products",
	columns: []string{
		"name", "sku", "category_id", "unit_id", "brand_id", "type", "pack_size", "price", "cost",
		"stock_quantity", "is_active", "gst_type", "gst_rate", "image_url", "description",
		"discount", "is_percent_discount",
	},
	joins: "LEFT JOIN categories c ON c.id = t.category_id " +
		"LEFT JOIN units u ON u.id = t.unit_id " +
		"LEFT JOIN brands b ON b.id = t.brand_id",
	refCols: []string{"c.uuid::text", "u.uuid::text", "b.uuid::text"},
	values: func(p *entity.Product) []any {
		return []any{
			p.Name, p.SKU, p.CategoryID, p.UnitID, p.BrandID, p.Type, p.PackSize, p.Price, p.Cost,
			p.StockQuantity, p.IsActive, p.GSTType, p.GSTRate, p.ImageURL, p.Description,
			p.Discount, p.IsPercentDiscount,
		}
	},
	dest: func(p *entity.Product) []any {
		return []any{
			&p.Name, &p.SKU, &p.CategoryID, &p.UnitID, &p.BrandID, &p.Type, &p.PackSize, &p.Price, &p.Cost,
			&p.StockQuantity, &p.IsActive, &p.GSTType, &p.GSTRate, &p.ImageURL, &p.Description,
			&p.Discount, &p.IsPercentDiscount,
			&p.CategoryUUID, &p.UnitUUID, &p.BrandUUID,
		}
	},
})

var employeesTable = defineTable(table[entity.Employee, *entity.Employee]{
	name:    "employees",
	columns: []string{"name", "email", "password_hash", "phone", "address", "position", "salary", "role", "is_owner"},
	values: func(e *entity.Employee) []any {
		return []any{e.Name, e.Email, e.PasswordHash, e.Phone, e.Address, e.Position, e.Salary, e.Role, e.IsOwner}
	},
	dest: func(e *entity.Employee) []any {
		return []any{&e.Name, &e.Email, &e.PasswordHash, &e.Phone, &e.Address, &e.Position, &e.Salary, &e.Role, &e.IsOwner}
	},
	// El UUID también es único global (sujeto del token): su violación queda como ErrDuplicate.
	uniqueErrs: map[string]error{"employees_email_key": domain.ErrEmailAlreadyExists},
})

var invoicesTable = defineTable(table[entity.Invoice, *entity.Invoice]{
	name:    "invoices",
	columns: []string{"invoice_number", "customer_id", "date", "subtotal", "tax", "discount", "total", "notes"},
	joins:   "LEFT JOIN customers cu ON cu.id = t.customer_id",
	refCols: []string{"cu.uuid::text"},
	values: func(i *entity.Invoice) []any {
		return []any{i.InvoiceNumber, i.CustomerID, i.Date, i.Subtotal, i.Tax, i.Discount, i.Total, i.Notes}
	},
	dest: func(i *entity.Invoice) []any {
		return []any{&i.InvoiceNumber, &i.CustomerID, &i.Date, &i.Subtotal, &i.Tax, &i.Discount, &i.Total, &i.Notes, &i.CustomerUUID}
	},
})
