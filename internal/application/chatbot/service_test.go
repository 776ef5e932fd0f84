package chatbot_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/chatbot"
	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/ai"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/memory"
)

// stubExtractor devuelve borradores fijos o un error.
type stubExtractor struct {
	drafts []ports.DraftTransaction
	err    error
	calls  int
}

func (s *stubExtractor) ExtractTransactions(context.Context, string, ports.ExtractionHints) ([]ports.DraftTransaction, error) {
	s.calls++
	return s.drafts, s.err
}

func (s *stubExtractor) Name() string { return "stub" }

type env struct {
	deps       chatbot.Deps
	repos      repository.Repositories
	actor      usecase.Actor
	businessID string
	customer   *dto.CustomerResponse
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	tx := memory.NewTxRunner(store)
	ctx := context.Background()
	now := time.Now()
	admin := &entity.User{ID: uuid.New().String(), Email: "owner@example.com", Name: "김사장", Role: entity.RoleAdmin, IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Users.Create(ctx, admin))
	b := &entity.Business{ID: uuid.New().String(), UserID: admin.ID, Name: "한빛상사", IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Businesses.Create(ctx, b))

	activity := usecase.NewActivityLogUseCase(repos.ActivityLogs)
	notifs := usecase.NewNotificationUseCase(repos.Notifications)
	e := &env{
		repos:      repos,
		businessID: b.ID,
		actor:      usecase.Actor{UserID: admin.ID, Role: entity.RoleAdmin, IP: "127.0.0.1"},
		deps: chatbot.Deps{
			Customers: usecase.NewCustomerUseCase(repos.Customers, activity),
			Products:  usecase.NewProductUseCase(repos.Products, repos.Settings, activity),
			Sales:     usecase.NewSaleUseCase(repos, tx, nil, nil, notifs),
			Purchases: usecase.NewPurchaseUseCase(repos, tx),
			Payments:  usecase.NewPaymentUseCase(repos.Payments, repos.Customers, activity),
			Dashboard: usecase.NewDashboardUseCase(repos.Reports),
			Ledger:    usecase.NewLedgerUseCase(repos.Reports, repos.Customers),
		},
	}
	c, err := e.deps.Customers.Create(ctx, e.actor, b.ID, dto.CreateCustomerRequest{Name: "가나상회"})
	require.NoError(t, err)
	e.customer = c
	_, err = e.deps.Products.Create(ctx, e.actor, b.ID, dto.CreateProductRequest{
		Name: "A4 복사용지", BuyPrice: decimal.NewFromInt(18000), SellPrice: decimal.NewFromInt(22000), TaxType: "tax_separate",
	})
	require.NoError(t, err)
	return e
}

func (e *env) service(llm ports.TransactionExtractor) *chatbot.Service {
	return chatbot.NewService(e.deps, llm, ai.NewRuleExtractor(), time.Second)
}

func (e *env) send(t *testing.T, svc *chatbot.Service, msg string, dryRun bool) *dto.ChatbotResponse {
	t.Helper()
	res, err := svc.Handle(context.Background(), e.actor, e.businessID, dto.ChatbotRequest{Message: msg, DryRun: dryRun})
	require.NoError(t, err)
	return res
}

func (e *env) salesCount(t *testing.T) int {
	t.Helper()
	rows, _, err := e.repos.Sales.List(context.Background(), e.businessID, repository.ListFilter{})
	require.NoError(t, err)
	return len(rows)
}

func TestHandle_MensajeVacio_ErrorDeValidacion(t *testing.T) {
	e := newEnv(t)
	_, err := e.service(nil).Handle(context.Background(), e.actor, e.businessID, dto.ChatbotRequest{Message: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHandle_RegistraVentaConReglas(t *testing.T) {
	e := newEnv(t)
	res := e.send(t, e.service(nil), "가나상회에 A4 복사용지 10박스 개당 22,000원에 팔았어", false)

	assert.Equal(t, chatbot.IntentRegister, res.Intent)
	assert.Equal(t, "rule", res.Extractor)
	require.Len(t, res.Drafts, 1)
	d := res.Drafts[0]
	assert.Equal(t, dto.DraftCreated, d.Status, d.Error)
	assert.NotEmpty(t, d.RecordID)
	assert.Equal(t, e.customer.ID, d.CustomerID)
	assert.NotEmpty(t, d.ProductID)
	assert.True(t, d.SupplyAmount.Equal(decimal.NewFromInt(220000)))
	assert.True(t, d.VATAmount.Equal(decimal.NewFromInt(22000)))
	assert.True(t, d.TotalAmount.Equal(decimal.NewFromInt(242000)))
	assert.Contains(t, res.Reply, "242,000원")
	assert.Equal(t, 1, e.salesCount(t))
}

func TestHandle_DryRun_NoPersiste(t *testing.T) {
	e := newEnv(t)
	res := e.send(t, e.service(nil), "가나상회에 A4 복사용지 10박스 개당 22,000원에 팔았어", true)

	require.Len(t, res.Drafts, 1)
	assert.Equal(t, dto.DraftPreview, res.Drafts[0].Status)
	assert.Empty(t, res.Drafts[0].RecordID)
	assert.Equal(t, 0, e.salesCount(t))
}

func TestHandle_LLMFalla_CaeAReglas(t *testing.T) {
	e := newEnv(t)
	llm := &stubExtractor{err: errors.New("timeout")}
	res := e.send(t, e.service(llm), "가나상회에 A4 복사용지 2박스 개당 22,000원에 팔았어", false)

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, "rule", res.Extractor)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, dto.DraftCreated, res.Drafts[0].Status)
}

func TestHandle_UsaBorradoresDelLLM(t *testing.T) {
	e := newEnv(t)
	llm := &stubExtractor{drafts: []ports.DraftTransaction{
		{Type: ports.DraftSale, CustomerName: "가나상회", ProductName: "A4 복사용지", Quantity: decimal.NewFromInt(1)},
		{Type: ports.DraftReceipt, CustomerName: "가나상회", Amount: decimal.NewFromInt(10000)},
		{Type: ports.DraftSale, CustomerName: "없는상회", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1000)},
	}}
	res := e.send(t, e.service(llm), "가나상회 복사용지 1개 판매, 만원 입금", false)

	assert.Equal(t, "stub", res.Extractor)
	require.Len(t, res.Drafts, 3)

	// sin precio explícito se toma el precio de venta del producto
	assert.Equal(t, dto.DraftCreated, res.Drafts[0].Status)
	assert.True(t, res.Drafts[0].UnitPrice.Equal(decimal.NewFromInt(22000)))

	assert.Equal(t, dto.DraftCreated, res.Drafts[1].Status)
	assert.True(t, res.Drafts[1].TotalAmount.Equal(decimal.NewFromInt(10000)))

	assert.Equal(t, dto.DraftFailed, res.Drafts[2].Status)
	assert.Contains(t, res.Drafts[2].Error, "등록되지 않은 거래처")
	assert.Contains(t, res.Reply, "1건은 실패했습니다")
}

func TestHandle_ClienteAmbiguo_Falla(t *testing.T) {
	e := newEnv(t)
	_, err := e.deps.Customers.Create(context.Background(), e.actor, e.businessID, dto.CreateCustomerRequest{Name: "가나상사"})
	require.NoError(t, err)
	llm := &stubExtractor{drafts: []ports.DraftTransaction{
		{Type: ports.DraftSale, CustomerName: "가나", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5000)},
	}}
	res := e.send(t, e.service(llm), "가나에 5000원 판매", false)

	require.Len(t, res.Drafts, 1)
	assert.Equal(t, dto.DraftFailed, res.Drafts[0].Status)
	assert.Contains(t, res.Drafts[0].Error, "가나상사")
	assert.Contains(t, res.Drafts[0].Error, "가나상회")
	assert.Equal(t, 0, e.salesCount(t))
}

func TestHandle_ConsultaSaldoDeCliente(t *testing.T) {
	e := newEnv(t)
	svc := e.service(nil)
	e.send(t, svc, "가나상회에 A4 복사용지 10박스 개당 22,000원에 팔았어", false)

	res := e.send(t, svc, "가나상회 미수금 얼마야?", false)
	assert.Equal(t, chatbot.IntentQuery, res.Intent)
	assert.Contains(t, res.Reply, "가나상회")
	assert.Contains(t, res.Reply, "242,000원")
	bal, ok := res.Data.(*dto.CustomerBalanceDTO)
	require.True(t, ok)
	assert.True(t, bal.Receivable.Equal(decimal.NewFromInt(242000)))
}

func TestHandle_ConsultaConteoDeClientes(t *testing.T) {
	e := newEnv(t)
	res := e.send(t, e.service(nil), "거래처 몇 곳이야?", false)
	assert.Equal(t, chatbot.IntentQuery, res.Intent)
	assert.Equal(t, "등록된 거래처는 1곳입니다.", res.Reply)
}

func TestHandle_ConsultaVentasDelMes(t *testing.T) {
	e := newEnv(t)
	svc := e.service(nil)
	e.send(t, svc, "가나상회에 A4 복사용지 1박스 개당 22,000원에 팔았어", false)

	res := e.send(t, svc, "이번 달 매출 알려줘", false)
	assert.Equal(t, chatbot.IntentQuery, res.Intent)
	assert.Contains(t, res.Reply, "매출은 1건")
	assert.Contains(t, res.Reply, "24,200원")
}

func TestDetectIntent(t *testing.T) {
	cases := map[string]string{
		"가나상회에 10개 팔았어":  chatbot.IntentRegister,
		"30만원 입금 받았어":    chatbot.IntentRegister,
		"이번 달 매출 얼마야?":   chatbot.IntentQuery,
		"매입 등록하는 법 알려줘": chatbot.IntentQuery,
	}
	for in, want := range cases {
		assert.Equal(t, want, chatbot.DetectIntent(in), in)
	}
}
