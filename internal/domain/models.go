package domain

import "time"

// MenuItem is a sellable product. ID is assigned once and never changes;
// Stock is kept at zero or above by every state transition.
type MenuItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Cost  int64  `json:"cost"`
	Stock int    `json:"stock"`
}

// CartItem is one line of an in-progress order. Name and Price are snapshots
// taken when the line was added, so later menu edits never change an open
// cart. The cart itself is session-local working state and is never part of
// AppState.
type CartItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Qty   int    `json:"qty"`
}

type SaleLine struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Qty   int    `json:"qty"`
}

// SaleInvoice is an immutable record of a completed checkout. Total always
// equals the sum of Qty*Price over Items at the prices recorded at sale time.
type SaleInvoice struct {
	ID       string     `json:"id"`
	Date     time.Time  `json:"date"`
	Items    []SaleLine `json:"items"`
	Subtotal int64      `json:"subtotal"`
	Total    int64      `json:"total"`
	Payment  int64      `json:"payment"`
	Method   string     `json:"method"`
	Note     string     `json:"note,omitempty"`
	Table    string     `json:"table,omitempty"`
}

const (
	StockIn  = "masuk"
	StockOut = "keluar"
)

// StockEntry is one immutable line of the stock movement ledger.
type StockEntry struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	MenuID   string    `json:"menu_id"`
	MenuName string    `json:"menu_name"`
	Type     string    `json:"type"`
	Qty      int       `json:"qty"`
	Note     string    `json:"note,omitempty"`
}

// PendingOrder is a cart parked for later resumption. It is the only entity
// that is ever deleted: exactly once, when the order is resumed.
type PendingOrder struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items"`
	Date  time.Time  `json:"date"`
	Note  string     `json:"note,omitempty"`
	Table string     `json:"table,omitempty"`
}

// AppState is the single aggregate that is persisted, mirrored, and
// replicated as one unit. Sales, StockHistory, and Pending are ordered
// newest first.
type AppState struct {
	Menu         []MenuItem     `json:"menu"`
	Sales        []SaleInvoice  `json:"sales"`
	StockHistory []StockEntry   `json:"stockHistory"`
	Pending      []PendingOrder `json:"pending"`
}

// Clone returns a deep copy so transitions can build a whole new state value
// without aliasing the committed one.
func (s AppState) Clone() AppState {
	out := AppState{
		Menu:         make([]MenuItem, len(s.Menu)),
		Sales:        make([]SaleInvoice, len(s.Sales)),
		StockHistory: make([]StockEntry, len(s.StockHistory)),
		Pending:      make([]PendingOrder, len(s.Pending)),
	}
	copy(out.Menu, s.Menu)
	copy(out.StockHistory, s.StockHistory)
	for i, inv := range s.Sales {
		items := make([]SaleLine, len(inv.Items))
		copy(items, inv.Items)
		inv.Items = items
		out.Sales[i] = inv
	}
	for i, p := range s.Pending {
		items := make([]CartItem, len(p.Items))
		copy(items, p.Items)
		p.Items = items
		out.Pending[i] = p
	}
	return out
}

// FindMenu returns the menu item with the given id, or nil.
func (s AppState) FindMenu(id string) *MenuItem {
	for i := range s.Menu {
		if s.Menu[i].ID == id {
			return &s.Menu[i]
		}
	}
	return nil
}

// Seed returns the first-run catalog for a fresh installation.
func Seed() AppState {
	return AppState{
		Menu: []MenuItem{
			{ID: "m1", Name: "Ayam Goreng", Price: 10000, Cost: 6000, Stock: 32},
			{ID: "m2", Name: "Ayam Goreng Jumbo", Price: 19000, Cost: 11000, Stock: 12},
			{ID: "m3", Name: "Es Teh", Price: 5000, Cost: 1500, Stock: 120},
			{ID: "m4", Name: "Nila Bakar", Price: 27000, Cost: 15000, Stock: 8},
			{ID: "m5", Name: "Gurame Goreng", Price: 35000, Cost: 20000, Stock: 5},
			{ID: "m6", Name: "Tempe Mendoan", Price: 8000, Cost: 3000, Stock: 20},
		},
		Sales:        []SaleInvoice{},
		StockHistory: []StockEntry{},
		Pending:      []PendingOrder{},
	}
}

const (
	PaymentCash     = "Tunai"
	PaymentQRIS     = "QRIS"
	PaymentTransfer = "Transfer"
)
