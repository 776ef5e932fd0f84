package taxinvoice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

func sampleData(items ...entity.SaleItem) ports.StatementData {
	return ports.StatementData{
		Business: &entity.Business{Name: "한빛상사", BusinessNumber: "220-81-62517", Representative: "김사장"},
		Customer: &entity.Customer{Name: "가나상회", BusinessNumber: "123-45-67890"},
		Sale: &entity.Sale{
			ID: "0f8fad5b-d9cb-469f-a165-70867728950e", SaleDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			SupplyAmount: decimal.NewFromInt(10000), VATAmount: decimal.NewFromInt(1000), TotalAmount: decimal.NewFromInt(11000),
			Items: items,
		},
	}
}

func item(t tax.Type) entity.SaleItem {
	return entity.SaleItem{
		ProductName: "A4 복사용지", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10000), TaxType: t,
		SupplyAmount: decimal.NewFromInt(10000), VATAmount: decimal.NewFromInt(1000), TotalAmount: decimal.NewFromInt(11000),
	}
}

func fixedBuilder() *Builder {
	b := NewBuilder()
	b.now = func() time.Time { return time.Date(2024, 3, 16, 1, 0, 0, 0, time.UTC) }
	return b
}

func TestRenderTaxInvoice_DigestCoincideConBytes(t *testing.T) {
	out, digest, err := fixedBuilder().RenderTaxInvoice(context.Background(), sampleData(item(tax.Separate)))
	require.NoError(t, err)

	sum := sha256.Sum256(out)
	assert.Equal(t, hex.EncodeToString(sum[:]), digest)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Equal(t, "2208162517", doc.FindElement("//InvoicerParty/ID").Text())
	assert.Equal(t, "1234567890", doc.FindElement("//InvoiceeParty/ID").Text())
	assert.Equal(t, "11000", doc.FindElement("//GrandTotalAmount").Text())
	assert.Equal(t, TypeTaxInvoice, doc.FindElement("//TaxInvoiceDocument/TypeCode").Text())
	assert.Equal(t, "20240315", doc.FindElement("//TaxInvoiceDocument/IssueDateTime").Text())
	assert.Len(t, doc.FindElements("//TaxInvoiceTradeLineItem"), 1)
}

func TestRenderTaxInvoice_Determinista(t *testing.T) {
	b := fixedBuilder()
	_, d1, err := b.RenderTaxInvoice(context.Background(), sampleData(item(tax.Separate)))
	require.NoError(t, err)
	_, d2, err := b.RenderTaxInvoice(context.Background(), sampleData(item(tax.Separate)))
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestTypeCode(t *testing.T) {
	assert.Equal(t, TypeInvoice, typeCode([]entity.SaleItem{item(tax.Free)}))
	assert.Equal(t, TypeZeroRated, typeCode([]entity.SaleItem{item(tax.ZeroRated), item(tax.Free)}))
	assert.Equal(t, TypeTaxInvoice, typeCode([]entity.SaleItem{item(tax.Inclusive), item(tax.Free)}))
}

func TestRenderTaxInvoice_SinDatos(t *testing.T) {
	_, _, err := NewBuilder().RenderTaxInvoice(context.Background(), ports.StatementData{})
	assert.Error(t, err)
}
