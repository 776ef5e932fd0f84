package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestBuilder_PlaceholdersYWhere(t *testing.T) {
	b := &builder{}
	b.where("business_id = " + b.arg("biz-1"))
	b.search("가나_상회", "name", "code")

	assert.Equal(t, " WHERE business_id = $1 AND (name ILIKE $2 OR code ILIKE $2)", b.clause())
	assert.Equal(t, []any{"biz-1", `%가나\_상회%`}, b.args)
}

func TestBuilder_PageSinLimiteDevuelveTodo(t *testing.T) {
	b := &builder{}
	assert.Empty(t, b.page(0, 0))
	assert.Equal(t, " LIMIT $1 OFFSET $2", b.page(20, 40))
	assert.Equal(t, []any{20, 40}, b.args)
}

func TestOrderBy_ListaBlanca(t *testing.T) {
	cols := map[string]string{"name": "name"}
	assert.Equal(t, " ORDER BY name DESC, created_at DESC", orderBy("", "name", true, cols, "created_at"))
	assert.Equal(t, " ORDER BY s.sale_date ASC, s.created_at ASC", orderBy("s.", "name; DROP TABLE x", false, map[string]string{}, "sale_date"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", deref(nullable("x")))
	assert.Empty(t, deref(nil))
}
