// Package chatbot interpreta mensajes en coreano: consultas sobre el negocio o registro
// de ventas, compras, cobros y pagos a partir de texto libre.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
)

// DefaultTimeout tiempo máximo de una llamada al extractor LLM.
const DefaultTimeout = 15 * time.Second

// Deps casos de uso sobre los que opera el chatbot.
type Deps struct {
	Customers *usecase.CustomerUseCase
	Products  *usecase.ProductUseCase
	Sales     *usecase.SaleUseCase
	Purchases *usecase.PurchaseUseCase
	Payments  *usecase.PaymentUseCase
	Dashboard *usecase.DashboardUseCase
	Ledger    *usecase.LedgerUseCase
}

// Service chatbot de un negocio. extractor puede ser nil (solo reglas).
type Service struct {
	deps      Deps
	extractor ports.TransactionExtractor
	fallback  ports.TransactionExtractor
	timeout   time.Duration
	now       func() time.Time
	printer   *message.Printer
}

// NewService construye el servicio. fallback es el extractor por reglas.
func NewService(deps Deps, extractor, fallback ports.TransactionExtractor, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		deps: deps, extractor: extractor, fallback: fallback, timeout: timeout,
		now: time.Now, printer: message.NewPrinter(language.Korean),
	}
}

// Handle responde un mensaje. Con DryRun los borradores se devuelven en estado preview sin persistir.
func (s *Service) Handle(ctx context.Context, actor usecase.Actor, businessID string, in dto.ChatbotRequest) (*dto.ChatbotResponse, error) {
	text := strings.TrimSpace(in.Message)
	if text == "" {
		return nil, domain.NewValidationError("message", "메시지를 입력해 주세요")
	}
	if DetectIntent(text) == IntentRegister {
		res, err := s.register(ctx, actor, businessID, text, in.DryRun)
		if err != nil || res != nil {
			return res, err
		}
		// sin borradores: se intenta contestar como consulta ("3월 매입 합계")
	}
	return s.query(ctx, businessID, text)
}

// ── Registro ──────────────────────────────────────────────────────────────────

func (s *Service) register(ctx context.Context, actor usecase.Actor, businessID, text string, dryRun bool) (*dto.ChatbotResponse, error) {
	customers, err := s.deps.Customers.All(ctx, businessID)
	if err != nil {
		return nil, err
	}
	products, err := s.deps.Products.All(ctx, businessID)
	if err != nil {
		return nil, err
	}
	today := usecase.Today(s.now())
	hints := ports.ExtractionHints{Today: today.Format(dto.DateLayout)}
	for _, c := range customers {
		hints.Customers = append(hints.Customers, c.Name)
	}
	for _, p := range products {
		hints.Products = append(hints.Products, p.Name)
	}

	drafts, used, err := s.extract(ctx, text, hints)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, nil
	}

	r := &resolver{customers: customers, products: products, today: today}
	res := &dto.ChatbotResponse{Intent: IntentRegister, Extractor: used, Drafts: make([]dto.ChatbotDraft, 0, len(drafts))}
	created, failed := 0, 0
	for _, d := range drafts {
		p := r.resolve(d)
		if p.draft.Status != dto.DraftFailed && !dryRun {
			s.persist(ctx, actor, businessID, p)
		}
		switch p.draft.Status {
		case dto.DraftCreated:
			created++
		case dto.DraftFailed:
			failed++
		}
		res.Drafts = append(res.Drafts, p.draft)
	}
	res.Reply = s.registerReply(res.Drafts, created, failed, dryRun)
	return res, nil
}

// extract usa el LLM configurado y cae al extractor por reglas si no está disponible o falla.
func (s *Service) extract(ctx context.Context, text string, hints ports.ExtractionHints) ([]ports.DraftTransaction, string, error) {
	if s.extractor != nil {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		drafts, err := s.extractor.ExtractTransactions(cctx, text, hints)
		cancel()
		if err == nil {
			return drafts, s.extractor.Name(), nil
		}
		if !errors.Is(err, ports.ErrExtractorUnavailable) {
			log.Warn().Err(err).Str("extractor", s.extractor.Name()).Msg("chatbot: extractor LLM falló, se usan reglas")
		}
	}
	drafts, err := s.fallback.ExtractTransactions(ctx, text, hints)
	if err != nil {
		return nil, "", err
	}
	return drafts, s.fallback.Name(), nil
}

func (s *Service) persist(ctx context.Context, actor usecase.Actor, businessID string, p *plan) {
	var id string
	var err error
	switch {
	case p.sale != nil:
		var out *dto.SaleResponse
		if out, err = s.deps.Sales.Create(ctx, actor, businessID, *p.sale); err == nil {
			id = out.ID
		}
	case p.purchase != nil:
		var out *dto.PurchaseResponse
		if out, err = s.deps.Purchases.Create(ctx, actor, businessID, *p.purchase); err == nil {
			id = out.ID
		}
	case p.payment != nil:
		var out *dto.PaymentResponse
		if out, err = s.deps.Payments.Create(ctx, actor, businessID, *p.payment); err == nil {
			id = out.ID
		}
	default:
		return
	}
	if err != nil {
		p.fail(failureMessage(err))
		return
	}
	p.draft.Status = dto.DraftCreated
	p.draft.RecordID = id
}

var typeLabels = map[string]string{
	ports.DraftSale:         "매출",
	ports.DraftPurchase:     "매입",
	ports.DraftReceipt:      "입금",
	ports.DraftDisbursement: "출금",
}

func (s *Service) registerReply(drafts []dto.ChatbotDraft, created, failed int, dryRun bool) string {
	var sb strings.Builder
	if dryRun {
		fmt.Fprintf(&sb, "다음 %d건을 확인해 주세요 (아직 등록되지 않았습니다).", len(drafts))
	} else {
		fmt.Fprintf(&sb, "%d건 중 %d건을 등록했습니다.", len(drafts), created)
		if failed > 0 {
			fmt.Fprintf(&sb, " %d건은 실패했습니다.", failed)
		}
	}
	for _, d := range drafts {
		sb.WriteString("\n- ")
		sb.WriteString(typeLabels[d.Type])
		sb.WriteString(" ")
		sb.WriteString(d.CustomerName)
		if d.ProductName != "" {
			sb.WriteString(" / " + d.ProductName + " " + d.Quantity.String())
		}
		if d.Status == dto.DraftFailed {
			sb.WriteString(": " + d.Error)
			continue
		}
		sb.WriteString(" " + s.won(d.TotalAmount))
	}
	return sb.String()
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *Service) query(ctx context.Context, businessID, text string) (*dto.ChatbotResponse, error) {
	t := normalize(text)
	res := &dto.ChatbotResponse{Intent: IntentQuery}

	if containsAny(t, "미수", "받을돈", "외상", "잔액", "채권", "미지급", "줄돈", "채무") {
		customers, err := s.deps.Customers.All(ctx, businessID)
		if err != nil {
			return nil, err
		}
		if c := longestContained(t, customers); c != "" {
			bal, err := s.deps.Ledger.CustomerBalance(ctx, businessID, c)
			if err != nil {
				return nil, err
			}
			res.Reply = fmt.Sprintf("%s의 미수금은 %s, 미지급금은 %s입니다.", bal.Name, s.won(bal.Receivable), s.won(bal.Payable))
			res.Data = bal
			return res, nil
		}
		sum, err := s.deps.Ledger.Balances(ctx, businessID)
		if err != nil {
			return nil, err
		}
		res.Reply = fmt.Sprintf("전체 미수금은 %s, 미지급금은 %s입니다.", s.won(sum.Receivable), s.won(sum.Payable))
		res.Data = sum
		return res, nil
	}

	dash, err := s.deps.Dashboard.Get(ctx, businessID)
	if err != nil {
		return nil, err
	}
	countQuestion := containsAny(t, "몇", "개수", "수는", "수가", "얼마나많")
	switch {
	case countQuestion && containsAny(t, "거래처", "고객"):
		res.Reply = fmt.Sprintf("등록된 거래처는 %d곳입니다.", dash.CustomerCount)
		res.Data = map[string]int64{"customerCount": dash.CustomerCount}
	case countQuestion && containsAny(t, "품목", "상품", "제품"):
		res.Reply = fmt.Sprintf("등록된 품목은 %d개입니다.", dash.ProductCount)
		res.Data = map[string]int64{"productCount": dash.ProductCount}
	case containsAny(t, "매입", "구매"):
		res.Reply = fmt.Sprintf("이번 달(%s) 매입은 %d건, 합계 %s (공급가액 %s, 세액 %s)입니다.",
			dash.Period, dash.Purchases.Count, s.won(dash.Purchases.Total), s.won(dash.Purchases.Supply), s.won(dash.Purchases.VAT))
		res.Data = dash.Purchases
	case containsAny(t, "매출", "판매"):
		res.Reply = fmt.Sprintf("이번 달(%s) 매출은 %d건, 합계 %s (공급가액 %s, 세액 %s)입니다.",
			dash.Period, dash.Sales.Count, s.won(dash.Sales.Total), s.won(dash.Sales.Supply), s.won(dash.Sales.VAT))
		res.Data = dash.Sales
	default:
		res.Reply = fmt.Sprintf("이번 달(%s) 요약: 매출 %s, 매입 %s, 입금 %s, 출금 %s. 미수금 %s, 미지급금 %s.",
			dash.Period, s.won(dash.Sales.Total), s.won(dash.Purchases.Total), s.won(dash.Receipts),
			s.won(dash.Disbursements), s.won(dash.Receivable), s.won(dash.Payable))
		res.Data = dash
	}
	return res, nil
}

// longestContained id del cliente con el nombre más largo contenido en el texto normalizado.
func longestContained(t string, customers []*entity.Customer) string {
	sorted := append([]*entity.Customer(nil), customers...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i].Name) > len(sorted[j].Name) })
	for _, c := range sorted {
		if n := normalize(c.Name); n != "" && strings.Contains(t, n) {
			return c.ID
		}
	}
	return ""
}

func (s *Service) won(d decimal.Decimal) string {
	return s.printer.Sprintf("%d원", d.Round(0).IntPart())
}

// failureMessage texto para el usuario; los errores inesperados se registran en el log.
func failureMessage(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		msgs := make([]string, 0, len(ve.Fields))
		for _, m := range ve.Fields {
			msgs = append(msgs, m)
		}
		sort.Strings(msgs)
		return strings.Join(msgs, ", ")
	case errors.Is(err, domain.ErrNotFound):
		return "대상을 찾을 수 없습니다"
	default:
		log.Error().Err(err).Msg("chatbot: error al registrar borrador")
		return "등록 중 오류가 발생했습니다"
	}
}
