package entity

// Category agrupa productos; Subcategory es texto libre.
type Category struct {
	SyncMeta
	Name        string `json:"name"`
	Subcategory string `json:"subcategory"`
	IsActive    bool   `json:"isActive"`
}

// Unit unidad de medida (kg, und, caja).
type Unit struct {
	SyncMeta
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	IsActive bool   `json:"isActive"`
}

// Brand marca comercial de un producto.
type Brand struct {
	SyncMeta
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}
