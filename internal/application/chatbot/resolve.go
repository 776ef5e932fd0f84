package chatbot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

// plan borrador resuelto y la petición lista para el caso de uso correspondiente.
type plan struct {
	draft    dto.ChatbotDraft
	sale     *dto.SaleRequest
	purchase *dto.PurchaseRequest
	payment  *dto.PaymentRequest
}

func (p *plan) fail(msg string) *plan {
	p.draft.Status = dto.DraftFailed
	p.draft.Error = msg
	return p
}

// resolver datos del negocio contra los que se resuelven los nombres del borrador.
type resolver struct {
	customers []*entity.Customer
	products  []*entity.Product
	today     time.Time
}

// resolve convierte un borrador en un plan. Los errores quedan en el propio plan (status failed).
func (r *resolver) resolve(d ports.DraftTransaction) *plan {
	p := &plan{draft: dto.ChatbotDraft{
		Type: d.Type, CustomerName: d.CustomerName, ProductName: d.ProductName,
		Quantity: decimal.Zero, UnitPrice: decimal.Zero,
		SupplyAmount: decimal.Zero, VATAmount: decimal.Zero, TotalAmount: decimal.Zero,
		Status: dto.DraftPreview,
	}}

	date := r.today
	if d.Date != "" {
		parsed, err := time.Parse(dto.DateLayout, d.Date)
		if err != nil {
			return p.fail("날짜 형식이 올바르지 않습니다: " + d.Date)
		}
		date = parsed
	}
	p.draft.Date = date.Format(dto.DateLayout)

	customer, msg := r.matchCustomer(d.CustomerName)
	if customer == nil {
		return p.fail(msg)
	}
	p.draft.CustomerID = customer.ID
	p.draft.CustomerName = customer.Name

	switch d.Type {
	case ports.DraftSale, ports.DraftPurchase:
		return r.resolveTrade(p, d)
	case ports.DraftReceipt, ports.DraftDisbursement:
		amount := d.Amount
		if !amount.IsPositive() {
			amount = d.UnitPrice.Mul(d.Quantity)
		}
		amount = amount.Round(0)
		if !amount.IsPositive() {
			return p.fail("금액을 확인할 수 없습니다")
		}
		p.draft.SupplyAmount = amount
		p.draft.TotalAmount = amount
		p.payment = &dto.PaymentRequest{
			CustomerID: customer.ID, Type: d.Type, Amount: amount, Method: entity.PaymentMethodTransfer,
			PaymentDate: p.draft.Date, Memo: memo(d.Memo),
		}
		return p
	default:
		return p.fail("알 수 없는 거래 유형입니다: " + d.Type)
	}
}

func (r *resolver) resolveTrade(p *plan, d ports.DraftTransaction) *plan {
	product := r.matchProduct(d.ProductName)

	qty := d.Quantity
	if !qty.IsPositive() {
		qty = decimal.NewFromInt(1)
	}
	price := d.UnitPrice
	if !price.IsPositive() && d.Amount.IsPositive() {
		price = d.Amount.Div(qty).Round(0)
	}
	if !price.IsPositive() && product != nil {
		price = product.SellPrice
		if d.Type == ports.DraftPurchase {
			price = product.BuyPrice
		}
	}
	if !price.IsPositive() {
		return p.fail("금액을 확인할 수 없습니다")
	}

	name := strings.TrimSpace(d.ProductName)
	label := ""
	item := dto.LineItemRequest{Quantity: qty, UnitPrice: &price}
	if product != nil {
		item.ProductID = product.ID
		name = product.Name
		label = string(product.TaxType)
		p.draft.ProductID = product.ID
	}
	if name == "" {
		name = "기타"
	}
	taxType := tax.Infer(label, price)
	item.ProductName = name
	item.TaxType = string(taxType)

	amounts := tax.Compute(taxType, price, qty)
	p.draft.ProductName = name
	p.draft.Quantity = qty
	p.draft.UnitPrice = price
	p.draft.TaxType = string(taxType)
	p.draft.SupplyAmount = amounts.Supply
	p.draft.VATAmount = amounts.VAT
	p.draft.TotalAmount = amounts.Total

	items := []dto.LineItemRequest{item}
	if d.Type == ports.DraftSale {
		p.sale = &dto.SaleRequest{CustomerID: p.draft.CustomerID, SaleDate: p.draft.Date, Memo: memo(d.Memo), Items: items}
	} else {
		p.purchase = &dto.PurchaseRequest{CustomerID: p.draft.CustomerID, PurchaseDate: p.draft.Date, Memo: memo(d.Memo), Items: items}
	}
	return p
}

// matchCustomer coincidencia exacta normalizada; si no, única coincidencia por subcadena.
func (r *resolver) matchCustomer(name string) (*entity.Customer, string) {
	q := normalize(name)
	if q == "" {
		return nil, "거래처 이름을 찾을 수 없습니다"
	}
	var hits []*entity.Customer
	for _, c := range r.customers {
		cn := normalize(c.Name)
		if cn == q {
			return c, ""
		}
		if cn != "" && (strings.Contains(cn, q) || strings.Contains(q, cn)) {
			hits = append(hits, c)
		}
	}
	switch len(hits) {
	case 0:
		return nil, fmt.Sprintf("등록되지 않은 거래처입니다: %s", name)
	case 1:
		return hits[0], ""
	default:
		names := make([]string, 0, len(hits))
		for _, c := range hits {
			names = append(names, c.Name)
		}
		sort.Strings(names)
		return nil, fmt.Sprintf("여러 거래처가 일치합니다: %s", strings.Join(names, ", "))
	}
}

// matchProduct igual que matchCustomer pero el producto es opcional: ambigüedad → sin producto.
func (r *resolver) matchProduct(name string) *entity.Product {
	q := normalize(name)
	if q == "" {
		return nil
	}
	var hit *entity.Product
	count := 0
	for _, p := range r.products {
		pn := normalize(p.Name)
		if pn == q {
			return p
		}
		if pn != "" && (strings.Contains(pn, q) || strings.Contains(q, pn)) {
			hit = p
			count++
		}
	}
	if count == 1 {
		return hit
	}
	return nil
}

func memo(m string) string {
	if strings.TrimSpace(m) == "" {
		return "챗봇 등록"
	}
	return m
}
