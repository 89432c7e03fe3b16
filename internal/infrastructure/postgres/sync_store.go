package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

type record[E any] interface {
	*E
	entity.Syncable
}

// metaColumns columnas de SyncMeta, comunes a todas las tablas sincronizables.
const metaColumns = "t.id, t.uuid::text, t.company_id, t.is_deleted, t.created_at, t.updated_at"

// table describe una tabla sincronizable: sus columnas propias y, si las hay, los joins
// que exponen por UUID las referencias a otras tablas.
type table[E any, P record[E]] struct {
	name       string
	columns    []string
	joins      string
	refCols    []string
	values     func(e *E) []any // valores de columns, en orden
	dest       func(e *E) []any // destinos de Scan de columns + refCols
	uniqueErrs map[string]error // error de dominio por constraint único; el resto es ErrDuplicate

	selectSQL, insertSQL, updateSQL string
}

func defineTable[E any, P record[E]](t table[E, P]) *table[E, P] {
	sel := make([]string, 0, len(t.columns)+len(t.refCols))
	for _, c := range t.columns {
		sel = append(sel, "t."+c)
	}
	sel = append(sel, t.refCols...)
	t.selectSQL = fmt.Sprintf("SELECT %s, %s FROM %s t %s", metaColumns, strings.Join(sel, ", "), t.name, t.joins)

	n := len(t.columns)
	ph := make([]string, 0, n+5)
	for i := 1; i <= n+5; i++ {
		ph = append(ph, fmt.Sprintf("$%d", i))
	}
	t.insertSQL = fmt.Sprintf(
		"INSERT INTO %s (uuid, company_id, is_deleted, created_at, updated_at, %s) VALUES (%s) ON CONFLICT (company_id, uuid) DO NOTHING RETURNING id",
		t.name, strings.Join(t.columns, ", "), strings.Join(ph, ", "))

	set := make([]string, 0, n+2)
	set = append(set, "is_deleted = $3", "updated_at = $4")
	for i, c := range t.columns {
		set = append(set, fmt.Sprintf("%s = $%d", c, i+5))
	}
	t.updateSQL = fmt.Sprintf("UPDATE %s SET %s WHERE company_id = $1 AND uuid = $2", t.name, strings.Join(set, ", "))

	return &t
}

func (t *table[E, P]) uniqueError(err error) error {
	if e, ok := t.uniqueErrs[constraintName(err)]; ok {
		return e
	}
	return domain.ErrDuplicate
}

// syncStore implementa repository.SyncStore[E] sobre una tabla (usable con pool o tx).
type syncStore[E any, P record[E]] struct {
	q Querier
	t *table[E, P]
}

func (s syncStore[E, P]) scan(row pgx.Row) (*E, error) {
	e := new(E)
	m := P(e).Meta()
	dest := append([]any{&m.ID, &m.UUID, &m.CompanyID, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt}, s.t.dest(e)...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return e, nil
}

func (s syncStore[E, P]) findOne(ctx context.Context, companyID int64, id, suffix string) (*E, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := s.t.selectSQL + " WHERE t.company_id = $1 AND t.uuid = $2" + suffix
	e, err := s.scan(s.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", s.t.name, err)
	}
	return e, nil
}

func (s syncStore[E, P]) FindByUUID(ctx context.Context, companyID int64, id string) (*E, error) {
	return s.findOne(ctx, companyID, id, "")
}

// LockByUUID bloquea la fila hasta el fin de la transacción. Solo tiene sentido con un Querier tx.
func (s syncStore[E, P]) LockByUUID(ctx context.Context, companyID int64, id string) (*E, error) {
	return s.findOne(ctx, companyID, id, " FOR UPDATE OF t")
}

func (s syncStore[E, P]) InsertIfAbsent(ctx context.Context, e *E) (bool, error) {
	m := P(e).Meta()
	args := append([]any{m.UUID, m.CompanyID, m.IsDeleted, m.CreatedAt, m.UpdatedAt}, s.t.values(e)...)
	err := s.q.QueryRow(ctx, s.t.insertSQL, args...).Scan(&m.ID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	case isUniqueViolation(err):
		return false, s.t.uniqueError(err)
	default:
		return false, fmt.Errorf("insert %s: %w", s.t.name, err)
	}
}

func (s syncStore[E, P]) Update(ctx context.Context, e *E) error {
	m := P(e).Meta()
	args := append([]any{m.CompanyID, m.UUID, m.IsDeleted, m.UpdatedAt}, s.t.values(e)...)
	if _, err := s.q.Exec(ctx, s.t.updateSQL, args...); err != nil {
		if isUniqueViolation(err) {
			return s.t.uniqueError(err)
		}
		return fmt.Errorf("update %s: %w", s.t.name, err)
	}
	return nil
}

func (s syncStore[E, P]) List(ctx context.Context, companyID int64, f repository.ListFilter) ([]*E, error) {
	var b strings.Builder
	b.WriteString(s.t.selectSQL)
	b.WriteString(" WHERE t.company_id = $1")
	args := []any{companyID}
	if !f.IncludeDeleted {
		b.WriteString(" AND NOT t.is_deleted")
	}
	if f.Since != nil {
		args = append(args, *f.Since)
		b.WriteString(" AND t.updated_at > $2")
	}
	b.WriteString(" ORDER BY t.updated_at, t.id")

	rows, err := s.q.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.t.name, err)
	}
	defer rows.Close()
	var out []*E
	for rows.Next() {
		e, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.t.name, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s syncStore[E, P]) ResolveIDs(ctx context.Context, companyID int64, uuids []string) (map[string]int64, error) {
	return resolveIDs(ctx, s.q, s.t.name, companyID, uuids)
}

// resolveIDs traduce UUIDs a IDs internos dentro de la empresa. Los UUIDs mal formados
// simplemente no aparecen en el resultado.
func resolveIDs(ctx context.Context, q Querier, tableName string, companyID int64, uuids []string) (map[string]int64, error) {
	out := make(map[string]int64, len(uuids))
	valid := make([]string, 0, len(uuids))
	for _, u := range uuids {
		if _, err := uuid.Parse(u); err == nil {
			valid = append(valid, u)
		}
	}
	if len(valid) == 0 {
		return out, nil
	}
	query := fmt.Sprintf("SELECT uuid::text, id FROM %s WHERE company_id = $1 AND uuid = ANY($2::uuid[])", tableName)
	rows, err := q.Query(ctx, query, companyID, valid)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", tableName, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			u  string
			id int64
		)
		if err := rows.Scan(&u, &id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", tableName, err)
		}
		out[u] = id
	}
	return out, rows.Err()
}
