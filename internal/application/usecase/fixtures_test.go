package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizledger-api/internal/application/ports"
	"github.com/jhoicas/bizledger-api/internal/application/usecase"
	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
	"github.com/jhoicas/bizledger-api/internal/infrastructure/memory"
)

// fixture store en memoria con un admin dueño de un negocio.
type fixture struct {
	store    *memory.Store
	repos    repository.Repositories
	tx       repository.TxRunner
	admin    *entity.User
	business *entity.Business
	actor    usecase.Actor
	activity *usecase.ActivityLogUseCase
	notifs   *usecase.NotificationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()
	now := time.Now()
	admin := &entity.User{
		ID: uuid.New().String(), Email: "owner@example.com", Name: "김사장",
		Role: entity.RoleAdmin, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Users.Create(ctx, admin))
	b := &entity.Business{
		ID: uuid.New().String(), UserID: admin.ID, Name: "한빛상사", BusinessNumber: "220-81-62517",
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Businesses.Create(ctx, b))
	return &fixture{
		store:    store,
		repos:    repos,
		tx:       memory.NewTxRunner(store),
		admin:    admin,
		business: b,
		actor:    usecase.Actor{UserID: admin.ID, Role: entity.RoleAdmin, IP: "127.0.0.1"},
		activity: usecase.NewActivityLogUseCase(repos.ActivityLogs),
		notifs:   usecase.NewNotificationUseCase(repos.Notifications),
	}
}

func (f *fixture) customers() *usecase.CustomerUseCase {
	return usecase.NewCustomerUseCase(f.repos.Customers, f.activity)
}

func (f *fixture) products() *usecase.ProductUseCase {
	return usecase.NewProductUseCase(f.repos.Products, f.repos.Settings, f.activity)
}

// fakeStorage guarda en un mapa.
type fakeStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeStorage() *fakeStorage { return &fakeStorage{files: map[string][]byte{}} }

func (s *fakeStorage) Save(_ context.Context, dir, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := "/uploads/" + dir + "/" + name
	s.files[path] = data
	return path, nil
}

func (s *fakeStorage) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

// fakeSender registra los mensajes enviados.
type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

type sentMessage struct {
	Phone string
	Msg   ports.TemplateMessage
}

func (s *fakeSender) Send(_ context.Context, phone string, msg ports.TemplateMessage) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{Phone: phone, Msg: msg})
	return true, nil
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}
