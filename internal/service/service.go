// Package service is the operator-facing facade for one session ("one tab"):
// it owns that session's ephemeral cart and drives the pure engine
// transitions through the shared state container. Carts are deliberately
// per-session: two sessions on the same device hold independent in-progress
// orders while sharing the committed state underneath.
package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"kasirpos/internal/domain"
	"kasirpos/internal/engine"
	"kasirpos/internal/export"
	"kasirpos/internal/report"
	"kasirpos/internal/state"
)

type Service struct {
	mu        sync.Mutex
	cart      engine.Cart
	container *state.Container
	log       zerolog.Logger
}

func New(container *state.Container, log zerolog.Logger) *Service {
	return &Service{
		container: container,
		log:       log.With().Str("component", "service").Logger(),
	}
}

// State returns a snapshot of the committed state.
func (s *Service) State() domain.AppState {
	return s.container.Snapshot()
}

// Menu returns the current catalog.
func (s *Service) Menu() []domain.MenuItem {
	return s.container.Snapshot().Menu
}

// Cart returns a copy of this session's in-progress order.
func (s *Service) Cart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *Service) AddToCart(menuID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := engine.AddToCart(s.container.Snapshot(), s.cart, menuID)
	if err != nil {
		return err
	}
	s.cart = next
	return nil
}

func (s *Service) ChangeCartQuantity(index int, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = engine.ChangeCartQuantity(s.cart, index, delta)
}

func (s *Service) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

// ParkOrder commits the cart as a pending order and clears the cart.
func (s *Service) ParkOrder(ctx context.Context, note string, table string) (domain.PendingOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var parked domain.PendingOrder
	err := s.container.Apply(ctx, func(st domain.AppState) (domain.AppState, error) {
		next, order, err := engine.ParkOrder(st, s.cart, note, table)
		if err != nil {
			return st, err
		}
		parked = order
		return next, nil
	})
	if err != nil {
		return domain.PendingOrder{}, err
	}

	s.cart = nil
	s.log.Info().Str("pending_id", parked.ID).Int("items", len(parked.Items)).Msg("order parked")
	return parked, nil
}

// ResumeOrder consumes a pending order and loads its items as this session's
// cart, replacing whatever was in it.
func (s *Service) ResumeOrder(ctx context.Context, pendingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var resumed engine.Cart
	err := s.container.Apply(ctx, func(st domain.AppState) (domain.AppState, error) {
		next, cart, err := engine.ResumeOrder(st, pendingID)
		if err != nil {
			return st, err
		}
		resumed = cart
		return next, nil
	})
	if err != nil {
		return err
	}

	s.cart = resumed
	s.log.Info().Str("pending_id", pendingID).Msg("order resumed")
	return nil
}

// AddStock replenishes one menu item and records the movement.
func (s *Service) AddStock(ctx context.Context, menuID string, qty int, note string) error {
	if note == "" {
		note = "manual"
	}
	err := s.container.Apply(ctx, func(st domain.AppState) (domain.AppState, error) {
		return engine.AddStock(st, menuID, qty, note)
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("menu_id", menuID).Int("qty", qty).Msg("stock added")
	return nil
}

type CheckoutRequest struct {
	Payment int64  `json:"payment"`
	Method  string `json:"method"`
	Note    string `json:"note"`
	Table   string `json:"table"`
}

// Checkout commits the cart as a sale and returns the new invoice for the
// printing collaborator. The cart is cleared on success only.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (domain.SaleInvoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Method == "" {
		req.Method = domain.PaymentCash
	}

	var invoice domain.SaleInvoice
	err := s.container.Apply(ctx, func(st domain.AppState) (domain.AppState, error) {
		next, inv, err := engine.Checkout(st, s.cart, engine.CheckoutParams{
			Payment: req.Payment,
			Method:  req.Method,
			Note:    req.Note,
			Table:   req.Table,
		})
		if err != nil {
			return st, err
		}
		invoice = inv
		return next, nil
	})
	if err != nil {
		return domain.SaleInvoice{}, err
	}

	s.cart = nil
	s.log.Info().Str("invoice_id", invoice.ID).Int64("total", invoice.Total).Str("method", invoice.Method).Msg("checkout committed")
	return invoice, nil
}

// Reset wipes the persisted record and reinstates the seed catalog. The
// session cart is cleared too.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.container.Reset(ctx); err != nil {
		return err
	}
	s.cart = nil
	s.log.Info().Msg("state reset to seed catalog")
	return nil
}

func (s *Service) DailySummary(date string) report.DailySummary {
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	return report.Daily(s.container.Snapshot(), date)
}

func (s *Service) TopSellers(n int) []report.TopSeller {
	if n < 1 {
		n = 5
	}
	return report.TopSellers(s.container.Snapshot(), n)
}

func (s *Service) MarginRanking() []report.MarginRow {
	return report.MarginRanking(s.container.Snapshot())
}

func (s *Service) LowStock() []domain.MenuItem {
	return report.LowStock(s.container.Snapshot())
}

func (s *Service) Trend(menuID string, days int) []report.TrendPoint {
	if days < 1 {
		days = 14
	}
	return report.Trend(s.container.Snapshot(), menuID, days)
}

// ExportReport streams the spreadsheet built from the current snapshot.
func (s *Service) ExportReport(w io.Writer) error {
	return export.Write(w, s.container.Snapshot())
}
