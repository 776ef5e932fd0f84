package excel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/dto"
	"github.com/jhoicas/bizledger-api/internal/application/excel"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/internal/domain/tax"
	xlsx "github.com/jhoicas/bizledger-api/internal/infrastructure/excel"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/memory"
)

type env struct {
	svc        *excel.Service
	repos      repository.Repositories
	actor      usecase.Actor
	businessID string
	sheet      *xlsx.Sheet
	activity   *usecase.ActivityLogUseCase
	notifs     *usecase.NotificationUseCase
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
	sheet := xlsx.NewSheet()
	svc := excel.NewService(sheet,
		usecase.NewCustomerUseCase(repos.Customers, activity),
		usecase.NewProductUseCase(repos.Products, repos.Settings, activity),
		usecase.NewSaleUseCase(repos, tx, nil, nil, notifs),
		usecase.NewPurchaseUseCase(repos, tx),
		activity, notifs)
	return &env{
		svc: svc, repos: repos, businessID: b.ID, sheet: sheet, activity: activity, notifs: notifs,
		actor: usecase.Actor{UserID: admin.ID, Role: entity.RoleAdmin, IP: "127.0.0.1"},
	}
}

func (e *env) upload(t *testing.T, kind string, rows [][]string) *dto.ImportResult {
	t.Helper()
	tpl, err := e.svc.Template(kind)
	require.NoError(t, err)
	head, err := e.sheet.Read(tpl.Data)
	require.NoError(t, err)
	data, err := e.sheet.Write("upload", head[0], rows)
	require.NoError(t, err)
	res, err := e.svc.Import(context.Background(), e.actor, e.businessID, kind, data)
	require.NoError(t, err)
	return res
}

func TestTemplate_EncabezadosYFilaEjemplo(t *testing.T) {
	e := newEnv(t)
	for _, kind := range []string{excel.KindCustomers, excel.KindProducts, excel.KindSales, excel.KindPurchases} {
		f, err := e.svc.Template(kind)
		require.NoError(t, err, kind)
		assert.Equal(t, excel.ContentType, f.ContentType)

		rows, err := e.sheet.Read(f.Data)
		require.NoError(t, err)
		require.Len(t, rows, 2, kind)
		assert.Contains(t, rows[0][1], "*")
	}
}

func TestTemplate_TipoDesconocido(t *testing.T) {
	_, err := newEnv(t).svc.Template("invoices")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_Clientes_NombreVacioEsErrorDeFila(t *testing.T) {
	e := newEnv(t)
	res := e.upload(t, excel.KindCustomers, [][]string{
		{"", "가나상회", "매출", "123-45-67890"},
		{"", "", "공통", "", "이름없음"},
		{"", "다라유통", "매입"},
	})

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Success)
	assert.GreaterOrEqual(t, res.Failed, 1)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, "거래처명은 필수입니다", res.Errors[0].Message)

	all, _, err := e.repos.Customers.List(context.Background(), e.businessID, repository.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImport_Clientes_NumeroDuplicado(t *testing.T) {
	e := newEnv(t)
	res := e.upload(t, excel.KindCustomers, [][]string{
		{"", "가나상회", "", "123-45-67890"},
		{"", "가나상회 2호점", "", "123-45-67890"},
		{"", "마바상사", "", "12345"},
	})

	assert.Equal(t, 1, res.Success)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "이미 등록된 사업자번호입니다", res.Errors[0].Message)
	assert.Contains(t, res.Errors[1].Message, "사업자번호 형식")
}

func TestImport_Productos_InfiereTipoImpositivo(t *testing.T) {
	e := newEnv(t)
	res := e.upload(t, excel.KindProducts, [][]string{
		{"", "생수", "", "병", "300", "1100"},
		{"", "쌀", "", "포대", "30000", "42000", "면세"},
		{"", "볼펜", "", "개", "abc", "500"},
	})
	assert.Equal(t, 2, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 4, res.Errors[0].Row)

	all, _, err := e.repos.Products.List(context.Background(), e.businessID, repository.ListFilter{})
	require.NoError(t, err)
	types := map[string]tax.Type{}
	for _, p := range all {
		types[p.Name] = p.TaxType
	}
	assert.Equal(t, tax.Inclusive, types["생수"])
	assert.Equal(t, tax.Free, types["쌀"])
}

func TestImport_Ventas_ResuelveClientePorNombreOCodigo(t *testing.T) {
	e := newEnv(t)
	e.upload(t, excel.KindCustomers, [][]string{{"C0100", "가나상회"}})

	res := e.upload(t, excel.KindSales, [][]string{
		{"2024-03-15", "가나상회", "A4 복사용지", "", "10", "22000", "부가세별도"},
		{"2024-03-16", "C0100", "토너", "", "1", "55000", "부가세포함"},
		{"2024-03-17", "없는거래처", "토너", "", "1", "55000"},
		{"2024/03/18", "가나상회", "토너", "", "1", "55000"},
	})
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.Success)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0].Message, "없는거래처")
	assert.Contains(t, res.Errors[1].Message, "일자 형식")

	sales, total, err := e.repos.Sales.List(context.Background(), e.businessID, repository.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	sum := sales[0].TotalAmount.Add(sales[1].TotalAmount)
	assert.Equal(t, "297000", sum.String())
}

func TestImport_RegistraNotificacionYActividad(t *testing.T) {
	e := newEnv(t)
	e.upload(t, excel.KindCustomers, [][]string{{"", "가나상회"}, {"", ""}, {"", "", "", "", "대표"}})

	notes, err := e.notifs.List(context.Background(), e.actor.UserID, dto.NotificationQuery{})
	require.NoError(t, err)
	require.Len(t, notes.Items, 1)
	assert.Equal(t, entity.NotificationExcelImport, notes.Items[0].Type)
	assert.Contains(t, notes.Items[0].Message, "성공 1건, 실패 1건")

	logs, err := e.activity.List(context.Background(), e.businessID, dto.ActivityLogQuery{Action: entity.ActionImport})
	require.NoError(t, err)
	assert.Len(t, logs.Items, 1)
}

func TestImport_ArchivoNoXlsx(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Import(context.Background(), e.actor, e.businessID, excel.KindCustomers, []byte("a,b,c"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFile)
}

func TestExport_Clientes(t *testing.T) {
	e := newEnv(t)
	e.upload(t, excel.KindCustomers, [][]string{{"", "가나상회", "매출", "123-45-67890"}})

	f, err := e.svc.Export(context.Background(), e.businessID, excel.KindCustomers)
	require.NoError(t, err)
	assert.Contains(t, f.Filename, "customers_")

	rows, err := e.sheet.Read(f.Data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"C0001", "가나상회", "매출", "123-45-67890"}, rows[1][:4])
}

// flakyCustomers falla al crear un nombre concreto, como un corte de la base de datos.
type flakyCustomers struct {
	repository.CustomerRepository
	failName string
}

func (r flakyCustomers) Create(ctx context.Context, c *entity.Customer) error {
	if c.Name == r.failName {
		return errors.New("conn reset")
	}
	return r.CustomerRepository.Create(ctx, c)
}

func TestImport_FalloDeInfraestructuraQuedaEnElResumen(t *testing.T) {
	e := newEnv(t)
	activity := usecase.NewActivityLogUseCase(e.repos.ActivityLogs)
	svc := excel.NewService(e.sheet,
		usecase.NewCustomerUseCase(flakyCustomers{CustomerRepository: e.repos.Customers, failName: "장애상회"}, activity),
		nil, nil, nil, activity, e.notifs)

	tpl, err := svc.Template(excel.KindCustomers)
	require.NoError(t, err)
	head, err := e.sheet.Read(tpl.Data)
	require.NoError(t, err)
	data, err := e.sheet.Write("upload", head[0], [][]string{
		{"", "가나상회", "매출"},
		{"", "장애상회", "매출"},
		{"", "다라유통", "매입"},
	})
	require.NoError(t, err)

	res, err := svc.Import(context.Background(), e.actor, e.businessID, excel.KindCustomers, data)
	require.NoError(t, err, "un fallo a mitad de la carga no descarta el resumen")
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, "처리 중 오류가 발생했습니다", res.Errors[0].Message)

	all, _, err := e.repos.Customers.List(context.Background(), e.businessID, repository.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2, "las filas anteriores y posteriores quedan guardadas")

	notes, err := e.notifs.List(context.Background(), e.actor.UserID, dto.NotificationQuery{})
	require.NoError(t, err)
	require.Len(t, notes.Items, 1)
	assert.Contains(t, notes.Items[0].Message, "성공 2건, 실패 1건")
}
