package excel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/infrastructure/excel"
)

func TestSheet_EscribirYLeer(t *testing.T) {
	s := excel.NewSheet()
	data, err := s.Write("거래처", []string{"거래처코드", "거래처명*"}, [][]string{{"C0001", "가나상회"}, {"", "다라유통"}})
	require.NoError(t, err)

	rows, err := s.Read(data)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"거래처코드", "거래처명*"}, rows[0])
	assert.Equal(t, []string{"C0001", "가나상회"}, rows[1])
	assert.Equal(t, "다라유통", rows[2][1])
}

func TestSheet_ArchivoInvalido(t *testing.T) {
	_, err := excel.NewSheet().Read([]byte("no es un xlsx"))
	assert.Error(t, err)
}
