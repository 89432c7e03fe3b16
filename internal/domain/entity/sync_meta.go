package entity

import "time"

// SyncMeta agrupa los campos comunes de toda entidad sincronizable por tenant.
// ID y CompanyID son claves internas: nunca se serializan hacia los clientes.
type SyncMeta struct {
	ID        int64     `json:"-"`
	UUID      string    `json:"uuid"`
	CompanyID int64     `json:"-"`
	IsDeleted bool      `json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Meta expone los metadatos; lo promueven todas las entidades que embeben SyncMeta.
func (m *SyncMeta) Meta() *SyncMeta { return m }

// Stamp inicializa los metadatos de un registro nuevo.
func (m *SyncMeta) Stamp(companyID int64, uuid string, now time.Time) {
	now = now.UTC().Truncate(time.Microsecond)
	m.UUID = uuid
	m.CompanyID = companyID
	m.CreatedAt = now
	m.UpdatedAt = now
}

// Touch avanza UpdatedAt garantizando que sea estrictamente creciente por fila
// (precisión de microsegundos, la misma de timestamptz).
func (m *SyncMeta) Touch(now time.Time) {
	now = now.UTC().Truncate(time.Microsecond)
	if !now.After(m.UpdatedAt) {
		now = m.UpdatedAt.Add(time.Microsecond)
	}
	m.UpdatedAt = now
}

// Syncable lo implementa cualquier puntero a entidad que embeba SyncMeta.
type Syncable interface {
	Meta() *SyncMeta
}
