// Package taxinvoice construye el XML del 전자세금계산서 (estándar KEC) a partir de una venta
// y lo devuelve canonicalizado (C14N) junto con su digest SHA-256.
package taxinvoice

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/tax"
)

// Namespace del esquema de 전자세금계산서.
const (
	NsTaxInvoice = "urn:kr:or:kec:standard:Tax:ReusableAggregateBusinessInformationEntitySchemaModule:1:0"
	nsXsi        = "http://www.w3.org/2001/XMLSchema-instance"
)

// Códigos de tipo (TypeCode) del documento.
const (
	TypeTaxInvoice = "0101" // 일반 세금계산서
	TypeZeroRated  = "0102" // 영세율 세금계산서
	TypeInvoice    = "0301" // 계산서 (면세)
)

// PurposeClaim 청구 (el comprador aún no pagó).
const PurposeClaim = "02"

var kst = time.FixedZone("KST", 9*60*60)

var _ ports.TaxInvoiceRenderer = (*Builder)(nil)

// Builder implementa ports.TaxInvoiceRenderer.
type Builder struct {
	now func() time.Time
}

// NewBuilder crea el servicio.
func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// RenderTaxInvoice genera el documento, lo canonicaliza y calcula el digest de los bytes devueltos.
func (b *Builder) RenderTaxInvoice(_ context.Context, data ports.StatementData) ([]byte, string, error) {
	if data.Sale == nil || data.Business == nil || data.Customer == nil {
		return nil, "", fmt.Errorf("taxinvoice: faltan venta, negocio o cliente")
	}
	raw, err := b.build(data).WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("taxinvoice: serializar: %w", err)
	}
	canonical, err := canonicalize(raw)
	if err != nil {
		return nil, "", fmt.Errorf("taxinvoice: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return canonical, hex.EncodeToString(sum[:]), nil
}

func (b *Builder) build(data ports.StatementData) *etree.Document {
	sale := data.Sale
	doc := etree.NewDocument()

	root := doc.CreateElement("TaxInvoice")
	root.CreateAttr("xmlns", NsTaxInvoice)
	root.CreateAttr("xmlns:xsi", nsXsi)

	exchanged := root.CreateElement("ExchangedDocument")
	exchanged.CreateElement("IssueDateTime").SetText(b.now().In(kst).Format("20060102150405"))

	header := root.CreateElement("TaxInvoiceDocument")
	header.CreateElement("IssueID").SetText(issueID(sale))
	header.CreateElement("TypeCode").SetText(typeCode(sale.Items))
	if sale.Memo != "" {
		header.CreateElement("DescriptionText").SetText(sale.Memo)
	}
	header.CreateElement("IssueDateTime").SetText(sale.SaleDate.Format("20060102"))
	header.CreateElement("PurposeCode").SetText(PurposeClaim)

	settlement := root.CreateElement("TaxInvoiceTradeSettlement")
	invoicer := settlement.CreateElement("InvoicerParty")
	party(invoicer, data.Business.BusinessNumber, data.Business.Name, data.Business.Representative,
		data.Business.Address, data.Business.BusinessType, data.Business.BusinessItem, data.Business.Email)
	invoicee := settlement.CreateElement("InvoiceeParty")
	party(invoicee, data.Customer.BusinessNumber, data.Customer.Name, data.Customer.Representative,
		data.Customer.Address, "", "", data.Customer.Email)
	if data.Customer.BusinessNumber == "" {
		invoicee.CreateElement("TypeCode").SetText("02") // 주민등록번호/개인
	} else {
		invoicee.CreateElement("TypeCode").SetText("01")
	}

	sum := settlement.CreateElement("SpecifiedMonetarySummation")
	sum.CreateElement("ChargeTotalAmount").SetText(won(sale.SupplyAmount))
	sum.CreateElement("TaxTotalAmount").SetText(won(sale.VATAmount))
	sum.CreateElement("GrandTotalAmount").SetText(won(sale.TotalAmount))

	for i, it := range sale.Items {
		line := root.CreateElement("TaxInvoiceTradeLineItem")
		line.CreateElement("SequenceNumeric").SetText(strconv.Itoa(i + 1))
		line.CreateElement("PurchaseExpiryDateTime").SetText(sale.SaleDate.Format("20060102"))
		line.CreateElement("NameText").SetText(it.ProductName)
		if it.Spec != "" {
			line.CreateElement("InformationText").SetText(it.Spec)
		}
		line.CreateElement("ChargeableUnitQuantity").SetText(it.Quantity.String())
		line.CreateElement("UnitPrice").CreateElement("UnitAmount").SetText(won(it.UnitPrice))
		line.CreateElement("InvoiceAmount").SetText(won(it.SupplyAmount))
		line.CreateElement("TotalTax").CreateElement("CalculatedAmount").SetText(won(it.VATAmount))
	}
	return doc
}

func party(el *etree.Element, number, name, rep, address, bizType, bizItem, email string) {
	el.CreateElement("ID").SetText(digits(number))
	el.CreateElement("NameText").SetText(name)
	if bizType != "" {
		el.CreateElement("SpecifiedOrganization").CreateElement("BusinessTypeCode").SetText(bizType)
	}
	if bizItem != "" {
		el.CreateElement("ClassificationCode").SetText(bizItem)
	}
	el.CreateElement("SpecifiedPerson").CreateElement("NameText").SetText(rep)
	if email != "" {
		el.CreateElement("DefinedContact").CreateElement("URICommunication").SetText(email)
	}
	el.CreateElement("SpecifiedAddress").CreateElement("LineOneText").SetText(address)
}

// typeCode 계산서 si todas las líneas son exentas; 영세율 si no hay líneas gravadas al 10 %.
func typeCode(items []entity.SaleItem) string {
	free, zero, taxed := 0, 0, 0
	for _, it := range items {
		switch it.TaxType {
		case tax.Free:
			free++
		case tax.ZeroRated:
			zero++
		default:
			taxed++
		}
	}
	switch {
	case taxed == 0 && zero == 0 && free > 0:
		return TypeInvoice
	case taxed == 0 && zero > 0:
		return TypeZeroRated
	default:
		return TypeTaxInvoice
	}
}

// issueID fecha + primeros 16 hex del id de la venta (24 caracteres).
func issueID(sale *entity.Sale) string {
	id := strings.ReplaceAll(sale.ID, "-", "")
	if len(id) > 16 {
		id = id[:16]
	}
	return sale.SaleDate.Format("20060102") + strings.ToUpper(id)
}

func won(d decimal.Decimal) string {
	return d.Round(0).StringFixed(0)
}

func digits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}
