// Package pdf genera el 거래명세서 (estado de transacción) de una venta con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  거래명세서 + fecha + n° de documento                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  공급자 (emisor)            │  공급받는자 (cliente)             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: 품목 | 규격 | 수량 | 단가 | 공급가액 | 세액              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: 공급가액 / 세액 / 합계                                │
//	│  PIE: cuenta bancaria, nota, estado de firma + QR             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const koreanFamily = "korean"

var _ ports.StatementRenderer = (*StatementRenderer)(nil)

// StatementRenderer implementa ports.StatementRenderer.
type StatementRenderer struct {
	fontPath   string
	boldPath   string
	viewURL    string
	fontFamily string
}

// Option configura el renderer.
type Option func(*StatementRenderer)

// WithKoreanFont TTF con glifos hangul (p. ej. NanumGothic); sin él se usa helvetica.
func WithKoreanFont(regular, bold string) Option {
	return func(r *StatementRenderer) {
		r.fontPath = regular
		r.boldPath = bold
	}
}

// WithViewURL base del front para el QR de consulta (se añade /sales/<id>).
func WithViewURL(base string) Option {
	return func(r *StatementRenderer) { r.viewURL = strings.TrimRight(base, "/") }
}

// NewStatementRenderer construye el generador.
func NewStatementRenderer(opts ...Option) *StatementRenderer {
	r := &StatementRenderer{fontFamily: "helvetica"}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RenderStatement genera el PDF y devuelve sus bytes.
func (r *StatementRenderer) RenderStatement(_ context.Context, data ports.StatementData) ([]byte, error) {
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithTitle("거래명세서", true).
		WithAuthor(data.Business.Name, true)

	family := r.fontFamily
	if r.fontPath != "" {
		bold := r.boldPath
		if bold == "" {
			bold = r.fontPath
		}
		fonts, err := repository.New().
			AddUTF8Font(koreanFamily, fontstyle.Normal, r.fontPath).
			AddUTF8Font(koreanFamily, fontstyle.Bold, bold).
			Load()
		if err != nil {
			return nil, fmt.Errorf("pdf: cargar fuente: %w", err)
		}
		b = b.WithCustomFonts(fonts)
		family = koreanFamily
	}
	m := maroto.New(b.WithDefaultFont(&props.Font{Family: family, Size: 9}).Build())

	sale := data.Sale
	m.AddRows(headerRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(data.Business, data.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(sale.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(r.footerRows(sale, data.Settings)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha + número de documento (der).
func headerRow(sale *entity.Sale) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("거래명세서", props.Text{
				Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 1,
			}),
			text.New("(공급받는자 보관용)", props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("거래일자: "+sale.SaleDate.Format("2006-01-02"), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 3,
			}),
			text.New("No. "+strings.ToUpper(shortID(sale.ID)), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// partiesRow: 공급자 (izq) y 공급받는자 (der).
func partiesRow(b *entity.Business, c *entity.Customer) core.Row {
	block := func(title, name, number, rep, address, phone string) []core.Component {
		return []core.Component{
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New("등록번호: "+nonEmpty(number, "-")+"   대표자: "+nonEmpty(rep, "-"), props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New("주소: "+nonEmpty(address, "-"), props.Text{Size: 8, Top: 17, Color: colorGray}),
			text.New("전화: "+nonEmpty(phone, "-"), props.Text{Size: 8, Top: 22, Color: colorGray}),
		}
	}
	supplier := block("공급자", b.Name, b.BusinessNumber, b.Representative, b.Address, b.Phone)
	if b.BusinessType != "" || b.BusinessItem != "" {
		supplier = append(supplier, text.New("업태: "+nonEmpty(b.BusinessType, "-")+"   종목: "+nonEmpty(b.BusinessItem, "-"),
			props.Text{Size: 8, Top: 27, Color: colorGray}))
	}
	return row.New(33).Add(
		col.New(6).Add(supplier...),
		col.New(6).Add(block("공급받는자", c.Name, c.BusinessNumber, c.Representative, c.Address, c.Phone)...),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("품목", 3, align.Left),
		h("규격", 2, align.Left),
		h("수량", 1, align.Center),
		h("단가", 2, align.Right),
		h("공급가액", 2, align.Right),
		h("세액", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea de la venta.
func tableDetailRows(items []entity.SaleItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, it := range items {
		result = append(result, row.New(7).Add(
			cell(it.ProductName, 3, align.Left),
			cell(it.Spec, 2, align.Left),
			cell(it.Quantity.String(), 1, align.Center),
			cell(formatWon(it.UnitPrice), 2, align.Right),
			cell(formatWon(it.SupplyAmount), 2, align.Right),
			cell(formatWon(it.VATAmount), 2, align.Right),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(sale *entity.Sale) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("공급가액:"),
			text.New("세액:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
			grand("합계금액:", 12),
		),
		col.New(3).Add(
			text.New(formatWon(sale.SupplyAmount)+"원", props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New(formatWon(sale.VATAmount)+"원", props.Text{Size: 9, Align: align.Right, Right: 1, Top: 6}),
			grand(formatWon(sale.TotalAmount)+"원", 12),
		),
	)
}

// footerRows: cuenta de depósito, nota, memo y firma (+ QR de consulta si hay URL).
func (r *StatementRenderer) footerRows(sale *entity.Sale, s *entity.CompanySettings) []core.Row {
	var lines []string
	if s != nil && s.BankAccount != "" {
		lines = append(lines, fmt.Sprintf("입금계좌: %s %s (예금주: %s)", s.BankName, s.BankAccount, nonEmpty(s.AccountHolder, "-")))
	}
	if sale.Memo != "" {
		lines = append(lines, "비고: "+sale.Memo)
	}
	if s != nil && s.StatementNote != "" {
		lines = append(lines, s.StatementNote)
	}
	if sale.IsSigned() {
		lines = append(lines, "인수 확인: 서명완료 ("+sale.SignedAt.In(kst).Format("2006-01-02 15:04")+")")
	} else {
		lines = append(lines, "인수 확인: 미서명")
	}

	info := make([]core.Component, 0, len(lines))
	for i, l := range lines {
		info = append(info, text.New(l, props.Text{Size: 8, Top: float64(1 + i*6), Color: colorGray}))
	}
	height := float64(6*len(lines) + 4)
	if r.viewURL == "" {
		return []core.Row{row.New(height).Add(col.New(12).Add(info...))}
	}
	if height < 30 {
		height = 30
	}
	return []core.Row{row.New(height).Add(
		col.New(9).Add(info...),
		col.New(3).Add(code.NewQr(r.viewURL+"/sales/"+sale.ID, props.Rect{Percent: 90, Center: true})),
	)}
}
