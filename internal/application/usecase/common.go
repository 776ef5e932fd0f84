package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/pkg/pagination"
)

// KST zona horaria de negocio; las fechas (DATE) se manejan como medianoche UTC.
var KST = time.FixedZone("KST", 9*60*60)

// Today fecha de negocio actual en KST como medianoche UTC.
func Today(now time.Time) time.Time {
	k := now.In(KST)
	return time.Date(k.Year(), k.Month(), k.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthStart primer día del mes de d.
func MonthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseDate interpreta YYYY-MM-DD; field se usa en el error de validación.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)")
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.Format(dto.DateLayout)
}

// buildListFilter traduce la query HTTP al filtro del repositorio.
// sortable es la lista blanca de campos de orden; defaultSort se usa si SortBy no está permitido.
func buildListFilter(q dto.ListQuery, sortable []string, defaultSort string) (repository.ListFilter, pagination.Params, error) {
	p := pagination.New(q.Page, q.Limit)
	f := repository.ListFilter{
		Search:     strings.TrimSpace(q.Search),
		Type:       q.Type,
		CustomerID: q.CustomerID,
		SortBy:     defaultSort,
		SortDesc:   true,
		Limit:      p.Limit,
		Offset:     p.Offset(),
	}
	if q.SortBy != "" {
		allowed := false
		for _, s := range sortable {
			if s == q.SortBy {
				allowed = true
				break
			}
		}
		if !allowed {
			return f, p, domain.NewValidationError("sortBy", fmt.Sprintf("정렬 기준은 %s 중 하나여야 합니다", strings.Join(sortable, ", ")))
		}
		f.SortBy = q.SortBy
	}
	if q.SortOrder != "" {
		f.SortDesc = strings.EqualFold(q.SortOrder, "desc")
	}
	if q.From != "" {
		from, err := ParseDate("from", q.From)
		if err != nil {
			return f, p, err
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := ParseDate("to", q.To)
		if err != nil {
			return f, p, err
		}
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, p, domain.NewValidationError("to", "종료일은 시작일 이후여야 합니다")
	}
	return f, p, nil
}

// mapItems convierte una lista de entidades en DTOs.
func mapItems[E any, D any](items []E, fn func(E) D) []D {
	out := make([]D, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}

func trimOr(s *string, current string) string {
	if s == nil {
		return current
	}
	return strings.TrimSpace(*s)
}
