package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/unicode/norm"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// nullable convierte "" en NULL para columnas UUID opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// builder arma WHERE y argumentos posicionales para listados con filtros opcionales.
type builder struct {
	conds []string
	args  []any
}

// arg agrega un argumento y devuelve su placeholder ($n).
func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *builder) where(cond string) {
	b.conds = append(b.conds, cond)
}

// search condición ILIKE sobre varias columnas con el mismo término.
func (b *builder) search(term string, columns ...string) {
	p := b.arg("%" + escapeLike(norm.NFC.String(strings.TrimSpace(term))) + "%")
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE " + p
	}
	b.where("(" + strings.Join(parts, " OR ") + ")")
}

func (b *builder) clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// page LIMIT/OFFSET; limit 0 devuelve todas las filas.
func (b *builder) page(limit, offset int) string {
	s := ""
	if limit > 0 {
		s += " LIMIT " + b.arg(limit)
	}
	if offset > 0 {
		s += " OFFSET " + b.arg(offset)
	}
	return s
}

// orderBy traduce el campo de la API a columna por lista blanca; created_at desempata.
// alias es el prefijo de tabla ("s.") cuando la consulta tiene JOIN.
func orderBy(alias, sortBy string, desc bool, columns map[string]string, fallback string) string {
	col, ok := columns[sortBy]
	if !ok {
		col = fallback
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s%s %s, %screated_at %s", alias, col, dir, alias, dir)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
