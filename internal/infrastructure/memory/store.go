// Package memory implementa los puertos de repositorio en memoria para tests y demos sin base de datos.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/bizledger-api/internal/domain/entity"
	"github.com/jhoicas/bizledger-api/internal/domain/repository"
)

// Store datos compartidos por todos los repositorios en memoria.
type Store struct {
	mu            sync.RWMutex
	users         map[string]entity.User
	businesses    map[string]entity.Business
	customers     map[string]entity.Customer
	products      map[string]entity.Product
	sales         map[string]entity.Sale
	purchases     map[string]entity.Purchase
	payments      map[string]entity.Payment
	notifications map[string]entity.Notification
	logs          []entity.ActivityLog
	otps          map[string]entity.OTP
	settings      map[string]entity.CompanySettings
	notes         map[string]entity.Note
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:         map[string]entity.User{},
		businesses:    map[string]entity.Business{},
		customers:     map[string]entity.Customer{},
		products:      map[string]entity.Product{},
		sales:         map[string]entity.Sale{},
		purchases:     map[string]entity.Purchase{},
		payments:      map[string]entity.Payment{},
		notifications: map[string]entity.Notification{},
		otps:          map[string]entity.OTP{},
		settings:      map[string]entity.CompanySettings{},
		notes:         map[string]entity.Note{},
	}
}

// Repositories devuelve todos los puertos sobre este store.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:         &UserRepo{s: s},
		Businesses:    &BusinessRepo{s: s},
		Customers:     &CustomerRepo{s: s},
		Products:      &ProductRepo{s: s},
		Sales:         &SaleRepo{s: s},
		Purchases:     &PurchaseRepo{s: s},
		Payments:      &PaymentRepo{s: s},
		Notifications: &NotificationRepo{s: s},
		ActivityLogs:  &ActivityLogRepo{s: s},
		OTPs:          &OTPRepo{s: s},
		Settings:      &SettingsRepo{s: s},
		Notes:         &NoteRepo{s: s},
		Reports:       &ReportRepo{s: s},
		Maintenance:   &MaintenanceRepo{s: s},
	}
}

// TxRunner emula una transacción: si fn falla restaura la copia previa del store.
type TxRunner struct {
	s *Store
}

var _ repository.TxRunner = (*TxRunner)(nil)

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn y deshace todos sus cambios si devuelve error.
func (r *TxRunner) Run(_ context.Context, fn func(repos repository.Repositories) error) error {
	snap := r.s.snapshot()
	if err := fn(r.s.Repositories()); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) snapshot() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := NewStore()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.businesses {
		c.businesses[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.sales {
		v.Items = append([]entity.SaleItem(nil), v.Items...)
		c.sales[k] = v
	}
	for k, v := range s.purchases {
		v.Items = append([]entity.PurchaseItem(nil), v.Items...)
		c.purchases[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	c.logs = append(c.logs, s.logs...)
	for k, v := range s.otps {
		c.otps[k] = v
	}
	for k, v := range s.settings {
		c.settings[k] = v
	}
	for k, v := range s.notes {
		c.notes[k] = v
	}
	return c
}

func (s *Store) restore(c *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = c.users
	s.businesses = c.businesses
	s.customers = c.customers
	s.products = c.products
	s.sales = c.sales
	s.purchases = c.purchases
	s.payments = c.payments
	s.notifications = c.notifications
	s.logs = c.logs
	s.otps = c.otps
	s.settings = c.settings
	s.notes = c.notes
}

// ── helpers ─────────────────────────────────────────────────────────────────

func contains(haystack, needle string) bool {
	return strings.Contains(fold(haystack), fold(needle))
}

func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// sortBy ordena con la función less y aplica el sentido pedido; createdAt desempata.
func sortBy[T any](items []T, desc bool, less func(a, b T) int, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		c := less(items[i], items[j])
		if c == 0 {
			c = created(items[i]).Compare(created(items[j]))
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}
