// Package engine holds the pure state transitions of the point of sale.
// Every operation takes the committed state (plus the session cart where
// relevant) and returns a whole new state value, or an error with the inputs
// untouched. Nothing here performs I/O; committing, mirroring, broadcasting,
// and receipt printing are the caller's business.
package engine

import (
	"errors"
	"fmt"
	"time"

	"kasirpos/internal/domain"
	"kasirpos/internal/xid"
)

// Validation failures. All of them leave state and cart unchanged; callers
// surface them as user notices, never as crashes.
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrOutOfStock      = errors.New("item is out of stock")
	ErrUnknownMenu     = errors.New("unknown menu item")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrUnknownPending  = errors.New("unknown pending order")
)

// Cart is the ephemeral, session-local order in progress. It is deliberately
// not part of domain.AppState: it is never persisted or replicated, so
// concurrent sessions keep independent in-progress carts.
type Cart []domain.CartItem

// Clone returns an independent copy of the cart.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Subtotal sums qty times the snapshot price over all lines.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, it := range c {
		total += int64(it.Qty) * it.Price
	}
	return total
}

// AddToCart appends one unit of the menu item to the cart, merging into an
// existing line for the same id. Items with zero stock cannot be added.
func AddToCart(state domain.AppState, cart Cart, menuID string) (Cart, error) {
	item := state.FindMenu(menuID)
	if item == nil {
		return cart, ErrUnknownMenu
	}
	if item.Stock <= 0 {
		return cart, ErrOutOfStock
	}

	next := cart.Clone()
	for i := range next {
		if next[i].ID == menuID {
			next[i].Qty++
			return next, nil
		}
	}
	next = append(next, domain.CartItem{
		ID:    item.ID,
		Name:  item.Name,
		Price: item.Price,
		Qty:   1,
	})
	return next, nil
}

// ChangeCartQuantity adjusts the line at index by delta, clamping at zero.
// A line that reaches zero is removed. An index outside the cart is a no-op.
func ChangeCartQuantity(cart Cart, index int, delta int) Cart {
	if index < 0 || index >= len(cart) {
		return cart
	}
	next := cart.Clone()
	qty := next[index].Qty + delta
	if qty < 0 {
		qty = 0
	}
	next[index].Qty = qty
	if qty == 0 {
		next = append(next[:index], next[index+1:]...)
	}
	return next
}

// ParkOrder captures the cart as a pending order prepended to the pending
// list. The caller clears the cart on success.
func ParkOrder(state domain.AppState, cart Cart, note string, table string) (domain.AppState, domain.PendingOrder, error) {
	if len(cart) == 0 {
		return state, domain.PendingOrder{}, ErrEmptyCart
	}

	order := domain.PendingOrder{
		ID:    xid.New("P"),
		Items: cart.Clone(),
		Date:  time.Now().UTC(),
		Note:  note,
		Table: table,
	}

	next := state.Clone()
	next.Pending = append([]domain.PendingOrder{order}, next.Pending...)
	return next, order, nil
}

// ResumeOrder consumes the pending order with the given id, returning its
// items as the new session cart. A pending order can be resumed exactly
// once; an unknown id leaves the state untouched.
func ResumeOrder(state domain.AppState, pendingID string) (domain.AppState, Cart, error) {
	idx := -1
	for i := range state.Pending {
		if state.Pending[i].ID == pendingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return state, nil, ErrUnknownPending
	}

	next := state.Clone()
	order := next.Pending[idx]
	next.Pending = append(next.Pending[:idx], next.Pending[idx+1:]...)

	cart := make(Cart, len(order.Items))
	copy(cart, order.Items)
	return next, cart, nil
}

// AddStock increases the item's stock by qty and appends one "masuk" entry
// to the stock ledger.
func AddStock(state domain.AppState, menuID string, qty int, note string) (domain.AppState, error) {
	if qty <= 0 {
		return state, ErrInvalidQuantity
	}
	if state.FindMenu(menuID) == nil {
		return state, ErrUnknownMenu
	}

	next := state.Clone()
	item := next.FindMenu(menuID)
	item.Stock += qty

	entry := domain.StockEntry{
		ID:       xid.New("SH"),
		Date:     time.Now().UTC(),
		MenuID:   item.ID,
		MenuName: item.Name,
		Type:     domain.StockIn,
		Qty:      qty,
		Note:     note,
	}
	next.StockHistory = append([]domain.StockEntry{entry}, next.StockHistory...)
	return next, nil
}

// CheckoutParams carries everything the checkout transition needs besides
// the state and cart.
type CheckoutParams struct {
	Payment int64
	Method  string
	Note    string
	Table   string
}

// Checkout commits the cart as a sale: the invoice is prepended to the sales
// ledger, each sold item's stock is decremented (floored at zero — an
// oversell from a stale read clamps rather than rejects), and one "keluar"
// stock entry per distinct sold menu id is prepended, referencing the
// invoice. The returned invoice is handed to the receipt collaborator by the
// caller; the caller clears the cart on success only.
func Checkout(state domain.AppState, cart Cart, params CheckoutParams) (domain.AppState, domain.SaleInvoice, error) {
	if len(cart) == 0 {
		return state, domain.SaleInvoice{}, ErrEmptyCart
	}

	now := time.Now().UTC()
	sold := make([]domain.SaleLine, len(cart))
	for i, it := range cart {
		sold[i] = domain.SaleLine{ID: it.ID, Name: it.Name, Price: it.Price, Qty: it.Qty}
	}
	total := cart.Subtotal()

	invoice := domain.SaleInvoice{
		ID:       xid.New("INV"),
		Date:     now,
		Items:    sold,
		Subtotal: total,
		Total:    total,
		Payment:  params.Payment,
		Method:   params.Method,
		Note:     params.Note,
		Table:    params.Table,
	}

	next := state.Clone()
	entries := make([]domain.StockEntry, 0, len(sold))
	for _, line := range sold {
		item := next.FindMenu(line.ID)
		if item == nil {
			// Sold line for an item no longer on the menu: ledger it anyway,
			// there is no stock row to decrement.
			entries = append(entries, domain.StockEntry{
				ID:       xid.New("SH"),
				Date:     now,
				MenuID:   line.ID,
				MenuName: line.Name,
				Type:     domain.StockOut,
				Qty:      line.Qty,
				Note:     fmt.Sprintf("Terjual (%s)", invoice.ID),
			})
			continue
		}
		item.Stock -= line.Qty
		if item.Stock < 0 {
			item.Stock = 0
		}
		entries = append(entries, domain.StockEntry{
			ID:       xid.New("SH"),
			Date:     now,
			MenuID:   item.ID,
			MenuName: item.Name,
			Type:     domain.StockOut,
			Qty:      line.Qty,
			Note:     fmt.Sprintf("Terjual (%s)", invoice.ID),
		})
	}

	next.Sales = append([]domain.SaleInvoice{invoice}, next.Sales...)
	next.StockHistory = append(entries, next.StockHistory...)
	return next, invoice, nil
}
