package postgres

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// column devuelve la definición de una columna dentro del CREATE TABLE de la tabla.
func column(t *testing.T, table, col string) string {
	t.Helper()
	block := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS ` + table + ` \((.*?)\n\);`).FindStringSubmatch(schema)
	require.Len(t, block, 2, table)
	def := regexp.MustCompile(`(?m)^\s+` + col + `\s+(.*?),?$`).FindStringSubmatch(block[1])
	require.Len(t, def, 2, table+"."+col)
	return def[1]
}

func TestSchema_UsuarioReferenciadoConClaveForanea(t *testing.T) {
	cases := []struct {
		table, col, want string
		nullable         bool
	}{
		{"activity_logs", "user_id", "REFERENCES users (id) ON DELETE SET NULL", true},
		{"notes", "user_id", "REFERENCES users (id) ON DELETE CASCADE", false},
		{"notifications", "user_id", "REFERENCES users (id) ON DELETE CASCADE", false},
		{"businesses", "user_id", "REFERENCES users (id) ON DELETE CASCADE", false},
	}
	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			def := column(t, tc.table, tc.col)
			assert.Contains(t, def, tc.want)
			assert.Equal(t, !tc.nullable, regexp.MustCompile(`NOT NULL`).MatchString(def))
		})
	}
}

func TestSchema_ClavesForaneasParaBasesExistentes(t *testing.T) {
	for _, name := range []string{"activity_logs_user_id_fkey", "notes_user_id_fkey"} {
		assert.Regexp(t, `conname = '`+name+`'`, schema)
		assert.Regexp(t, `ADD CONSTRAINT `+name+`\s+FOREIGN KEY \(user_id\) REFERENCES users \(id\)`, schema)
	}
}
