package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/bizledger-api/pkg/pagination"
)

func TestNew_Normaliza(t *testing.T) {
	assert.Equal(t, pagination.Params{Page: 1, Limit: pagination.DefaultLimit}, pagination.New(0, 0))
	assert.Equal(t, pagination.Params{Page: 3, Limit: pagination.MaxLimit}, pagination.New(3, 1000))
}

func TestOffset_Pagina2_SaltaPrimeros10(t *testing.T) {
	p := pagination.New(2, 10)
	assert.Equal(t, 10, p.Offset())
}

func TestMeta_TotalPagesEsTecho(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
	}
	for _, c := range cases {
		m := pagination.New(1, c.limit).Meta(c.total)
		assert.Equal(t, c.want, m.TotalPages, "total=%d limit=%d", c.total, c.limit)
		assert.Equal(t, c.total, m.Total)
	}
}
