// Package excel plantillas, exportación y carga masiva en xlsx de clientes, productos, ventas y compras.
package excel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/tax"
	"github.com/jhoicas/bizledger-api/pkg/bizno"
)

// Tipos de hoja admitidos.
const (
	KindCustomers = "customers"
	KindProducts  = "products"
	KindSales     = "sales"
	KindPurchases = "purchases"
)

// ContentType MIME de xlsx.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MaxRows filas de datos aceptadas por carga.
const MaxRows = 1000

type layout struct {
	sheet   string
	headers []string
	sample  []string
}

var layouts = map[string]layout{
	KindCustomers: {
		sheet:   "거래처",
		headers: []string{"거래처코드", "거래처명*", "구분(매출/매입/공통)", "사업자번호", "대표자", "전화번호", "이메일", "주소", "메모"},
		sample:  []string{"", "가나상회", "공통", "123-45-67890", "홍길동", "02-123-4567", "ganada@example.com", "서울시 중구 세종대로 1", ""},
	},
	KindProducts: {
		sheet:   "품목",
		headers: []string{"품목코드", "품목명*", "규격", "단위", "매입단가", "판매단가", "과세구분", "메모"},
		sample:  []string{"", "A4 복사용지", "80g 500매", "박스", "18000", "22000", "부가세별도", ""},
	},
	KindSales: {
		sheet:   "매출",
		headers: []string{"일자*(YYYY-MM-DD)", "거래처*(코드 또는 이름)", "품목명*", "규격", "수량*", "단가*", "과세구분", "메모"},
		sample:  []string{"2024-03-15", "가나상회", "A4 복사용지", "80g 500매", "10", "22000", "부가세별도", ""},
	},
	KindPurchases: {
		sheet:   "매입",
		headers: []string{"일자*(YYYY-MM-DD)", "거래처*(코드 또는 이름)", "품목명*", "규격", "수량*", "단가*", "과세구분", "메모"},
		sample:  []string{"2024-03-15", "다라유통", "A4 복사용지", "80g 500매", "10", "18000", "부가세별도", ""},
	},
}

var kindLabel = map[string]string{
	KindCustomers: "거래처",
	KindProducts:  "품목",
	KindSales:     "매출",
	KindPurchases: "매입",
}

var customerTypeLabels = map[string]string{
	"매출": entity.CustomerTypeSales, "sales": entity.CustomerTypeSales,
	"매입": entity.CustomerTypePurchase, "purchase": entity.CustomerTypePurchase,
	"공통": entity.CustomerTypeBoth, "both": entity.CustomerTypeBoth, "": entity.CustomerTypeBoth,
}

var customerTypeNames = map[string]string{
	entity.CustomerTypeSales:    "매출",
	entity.CustomerTypePurchase: "매입",
	entity.CustomerTypeBoth:     "공통",
}

var taxTypeNames = map[tax.Type]string{
	tax.Separate:  "부가세별도",
	tax.Inclusive: "부가세포함",
	tax.Free:      "면세",
	tax.ZeroRated: "영세",
}

// Service orquesta la hoja de cálculo con los casos de uso de cada entidad,
// de modo que la carga masiva aplica las mismas reglas que la API.
type Service struct {
	sheets        ports.Spreadsheet
	customers     *usecase.CustomerUseCase
	products      *usecase.ProductUseCase
	sales         *usecase.SaleUseCase
	purchases     *usecase.PurchaseUseCase
	activity      *usecase.ActivityLogUseCase
	notifications *usecase.NotificationUseCase
	now           func() time.Time
}

// NewService construye el servicio.
func NewService(
	sheets ports.Spreadsheet,
	customers *usecase.CustomerUseCase,
	products *usecase.ProductUseCase,
	sales *usecase.SaleUseCase,
	purchases *usecase.PurchaseUseCase,
	activity *usecase.ActivityLogUseCase,
	notifications *usecase.NotificationUseCase,
) *Service {
	return &Service{
		sheets: sheets, customers: customers, products: products, sales: sales, purchases: purchases,
		activity: activity, notifications: notifications, now: time.Now,
	}
}

func lookup(kind string) (layout, error) {
	l, ok := layouts[kind]
	if !ok {
		return layout{}, domain.NewValidationError("kind", "지원하지 않는 양식입니다 (customers, products, sales, purchases)")
	}
	return l, nil
}

// Template hoja vacía con encabezados en coreano y una fila de ejemplo.
func (s *Service) Template(kind string) (*dto.FileDownload, error) {
	l, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	data, err := s.sheets.Write(l.sheet, l.headers, [][]string{l.sample})
	if err != nil {
		return nil, err
	}
	return &dto.FileDownload{Filename: kind + "_template.xlsx", ContentType: ContentType, Data: data}, nil
}

// Export todas las filas activas del tipo indicado.
func (s *Service) Export(ctx context.Context, businessID, kind string) (*dto.FileDownload, error) {
	l, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	headers := l.headers
	switch kind {
	case KindCustomers:
		items, err := s.customers.All(ctx, businessID)
		if err != nil {
			return nil, err
		}
		for _, c := range items {
			rows = append(rows, []string{c.Code, c.Name, customerTypeNames[c.Type], c.BusinessNumber, c.Representative, c.Phone, c.Email, c.Address, c.Memo})
		}
	case KindProducts:
		items, err := s.products.All(ctx, businessID)
		if err != nil {
			return nil, err
		}
		for _, p := range items {
			rows = append(rows, []string{p.Code, p.Name, p.Spec, p.Unit, p.BuyPrice.StringFixed(0), p.SellPrice.StringFixed(0), taxTypeNames[p.TaxType], p.Memo})
		}
	case KindSales:
		headers = []string{"일자", "거래처", "공급가액", "세액", "합계", "서명", "메모"}
		items, err := s.sales.All(ctx, businessID)
		if err != nil {
			return nil, err
		}
		for _, v := range items {
			signed := ""
			if v.IsSigned() {
				signed = "서명완료"
			}
			rows = append(rows, []string{v.SaleDate.Format(dto.DateLayout), v.CustomerName, v.SupplyAmount.StringFixed(0), v.VATAmount.StringFixed(0), v.TotalAmount.StringFixed(0), signed, v.Memo})
		}
	case KindPurchases:
		headers = []string{"일자", "거래처", "공급가액", "세액", "합계", "메모"}
		items, err := s.purchases.All(ctx, businessID)
		if err != nil {
			return nil, err
		}
		for _, v := range items {
			rows = append(rows, []string{v.PurchaseDate.Format(dto.DateLayout), v.CustomerName, v.SupplyAmount.StringFixed(0), v.VATAmount.StringFixed(0), v.TotalAmount.StringFixed(0), v.Memo})
		}
	}
	data, err := s.sheets.Write(l.sheet, headers, rows)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s_%s.xlsx", kind, usecase.Today(s.now()).Format("20060102"))
	return &dto.FileDownload{Filename: name, ContentType: ContentType, Data: data}, nil
}

// Import valida y crea fila por fila; una fila con error no detiene las demás.
// Un fallo de infraestructura también queda como error de la fila, así el resumen
// siempre refleja qué filas quedaron guardadas.
// Row en los errores es el número de fila de la hoja (1 = encabezado).
func (s *Service) Import(ctx context.Context, actor usecase.Actor, businessID, kind string, data []byte) (*dto.ImportResult, error) {
	if _, err := lookup(kind); err != nil {
		return nil, err
	}
	rows, err := s.sheets.Read(data)
	if err != nil {
		return nil, domain.ErrUnsupportedFile
	}
	if len(rows) > 0 {
		rows = rows[1:]
	}
	if len(rows) > MaxRows {
		return nil, domain.NewValidationError("file", fmt.Sprintf("한 번에 최대 %d행까지 업로드할 수 있습니다", MaxRows))
	}

	res := &dto.ImportResult{Errors: []dto.ImportRowError{}}
	var resolver *customerResolver
	if kind == KindSales || kind == KindPurchases {
		all, err := s.customers.All(ctx, businessID)
		if err != nil {
			return nil, err
		}
		resolver = newCustomerResolver(all)
	}
	for i, row := range rows {
		if blank(row) {
			continue
		}
		res.Total++
		var rowErr error
		switch kind {
		case KindCustomers:
			rowErr = s.importCustomer(ctx, actor, businessID, row)
		case KindProducts:
			rowErr = s.importProduct(ctx, actor, businessID, row)
		case KindSales:
			rowErr = s.importSale(ctx, actor, businessID, resolver, row)
		case KindPurchases:
			rowErr = s.importPurchase(ctx, actor, businessID, resolver, row)
		}
		if rowErr != nil {
			if !isRowError(rowErr) {
				log.Error().Err(rowErr).Str("business_id", businessID).Str("kind", kind).Int("row", i+2).
					Msg("fallo al importar fila")
			}
			res.Failed++
			res.Errors = append(res.Errors, dto.ImportRowError{Row: i + 2, Message: rowMessage(rowErr)})
			continue
		}
		res.Success++
	}

	summary := fmt.Sprintf("%s 엑셀 업로드: 전체 %d건, 성공 %d건, 실패 %d건", kindLabel[kind], res.Total, res.Success, res.Failed)
	s.activity.Record(ctx, actor, businessID, entity.ActionImport, strings.TrimSuffix(kind, "s"), "", summary)
	s.notifications.Notify(ctx, actor.UserID, businessID, entity.NotificationExcelImport, "엑셀 업로드 완료", summary,
		fmt.Sprintf("/businesses/%s/%s", businessID, kind))
	return res, nil
}

func (s *Service) importCustomer(ctx context.Context, actor usecase.Actor, businessID string, row []string) error {
	name := cell(row, 1)
	if name == "" {
		return rowError("거래처명은 필수입니다")
	}
	kind, ok := customerTypeLabels[strings.ToLower(cell(row, 2))]
	if !ok {
		return rowError("구분은 매출, 매입, 공통 중 하나여야 합니다")
	}
	number := cell(row, 3)
	if number != "" && !bizno.ValidFormat(number) {
		return rowError("사업자번호 형식이 올바르지 않습니다 (000-00-00000)")
	}
	_, err := s.customers.Create(ctx, actor, businessID, dto.CreateCustomerRequest{
		Code: cell(row, 0), Name: name, Type: kind, BusinessNumber: number, Representative: cell(row, 4),
		Phone: cell(row, 5), Email: cell(row, 6), Address: cell(row, 7), Memo: cell(row, 8),
	})
	return err
}

func (s *Service) importProduct(ctx context.Context, actor usecase.Actor, businessID string, row []string) error {
	name := cell(row, 1)
	if name == "" {
		return rowError("품목명은 필수입니다")
	}
	buy, err := amount(cell(row, 4), "매입단가")
	if err != nil {
		return err
	}
	sell, err := amount(cell(row, 5), "판매단가")
	if err != nil {
		return err
	}
	label := cell(row, 6)
	taxType := tax.Infer(label, sell)
	if label != "" {
		parsed, ok := tax.Parse(label)
		if !ok {
			return rowError("과세구분이 올바르지 않습니다")
		}
		taxType = parsed
	}
	_, err = s.products.Create(ctx, actor, businessID, dto.CreateProductRequest{
		Code: cell(row, 0), Name: name, Spec: cell(row, 2), Unit: cell(row, 3),
		BuyPrice: buy, SellPrice: sell, TaxType: string(taxType), Memo: cell(row, 7),
	})
	return err
}

// transactionRow columnas comunes de ventas y compras.
type transactionRow struct {
	date       string
	customerID string
	item       dto.LineItemRequest
	memo       string
}

func parseTransactionRow(resolver *customerResolver, row []string) (*transactionRow, error) {
	date := cell(row, 0)
	if date == "" {
		return nil, rowError("일자는 필수입니다")
	}
	if _, err := time.Parse(dto.DateLayout, date); err != nil {
		return nil, rowError("일자 형식이 올바르지 않습니다 (YYYY-MM-DD)")
	}
	ref := cell(row, 1)
	if ref == "" {
		return nil, rowError("거래처는 필수입니다")
	}
	customer := resolver.find(ref)
	if customer == nil {
		return nil, rowError(fmt.Sprintf("거래처를 찾을 수 없습니다: %s", ref))
	}
	name := cell(row, 2)
	if name == "" {
		return nil, rowError("품목명은 필수입니다")
	}
	qty, err := amount(cell(row, 4), "수량")
	if err != nil {
		return nil, err
	}
	price, err := amount(cell(row, 5), "단가")
	if err != nil {
		return nil, err
	}
	item := dto.LineItemRequest{ProductName: name, Spec: cell(row, 3), Quantity: qty, UnitPrice: &price}
	if label := cell(row, 6); label != "" {
		t, ok := tax.Parse(label)
		if !ok {
			return nil, rowError("과세구분이 올바르지 않습니다")
		}
		item.TaxType = string(t)
	}
	return &transactionRow{date: date, customerID: customer.ID, item: item, memo: cell(row, 7)}, nil
}

func (s *Service) importSale(ctx context.Context, actor usecase.Actor, businessID string, resolver *customerResolver, row []string) error {
	r, err := parseTransactionRow(resolver, row)
	if err != nil {
		return err
	}
	_, err = s.sales.Create(ctx, actor, businessID, dto.SaleRequest{
		CustomerID: r.customerID, SaleDate: r.date, Memo: r.memo, Items: []dto.LineItemRequest{r.item},
	})
	return err
}

func (s *Service) importPurchase(ctx context.Context, actor usecase.Actor, businessID string, resolver *customerResolver, row []string) error {
	r, err := parseTransactionRow(resolver, row)
	if err != nil {
		return err
	}
	_, err = s.purchases.Create(ctx, actor, businessID, dto.PurchaseRequest{
		CustomerID: r.customerID, PurchaseDate: r.date, Memo: r.memo, Items: []dto.LineItemRequest{r.item},
	})
	return err
}

// customerResolver busca clientes por código exacto o por nombre.
type customerResolver struct {
	byCode map[string]*entity.Customer
	byName map[string]*entity.Customer
}

func newCustomerResolver(all []*entity.Customer) *customerResolver {
	r := &customerResolver{byCode: map[string]*entity.Customer{}, byName: map[string]*entity.Customer{}}
	for _, c := range all {
		r.byCode[c.Code] = c
		r.byName[strings.ToLower(c.Name)] = c
	}
	return r
}

func (r *customerResolver) find(ref string) *entity.Customer {
	if c, ok := r.byCode[ref]; ok {
		return c
	}
	return r.byName[strings.ToLower(ref)]
}

// rowErr error de validación de una fila concreta.
type rowErr struct{ msg string }

func (e *rowErr) Error() string { return e.msg }

func rowError(msg string) error { return &rowErr{msg: msg} }

// isRowError distingue errores de la fila de fallos de infraestructura (se registran en el log).
func isRowError(err error) bool {
	var re *rowErr
	return errors.As(err, &re) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrBusinessNumberUsed) ||
		errors.Is(err, domain.ErrCodeAlreadyExists) ||
		errors.Is(err, domain.ErrDuplicate)
}

func rowMessage(err error) string {
	var re *rowErr
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &re):
		return re.msg
	case errors.As(err, &ve):
		msgs := make([]string, 0, len(ve.Fields))
		for _, m := range ve.Fields {
			msgs = append(msgs, m)
		}
		sort.Strings(msgs)
		return strings.Join(msgs, ", ")
	case errors.Is(err, domain.ErrBusinessNumberUsed):
		return "이미 등록된 사업자번호입니다"
	case errors.Is(err, domain.ErrCodeAlreadyExists), errors.Is(err, domain.ErrDuplicate):
		return "이미 사용 중인 코드입니다"
	default:
		return "처리 중 오류가 발생했습니다"
	}
}

func amount(s, label string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, rowError(label + "은(는) 숫자여야 합니다")
	}
	return d, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
