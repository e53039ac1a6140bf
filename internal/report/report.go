// Package report computes read-only projections over a state snapshot. None
// of them keep state of their own; callers recompute after every commit.
package report

import (
	"sort"
	"time"

	"kasirpos/internal/domain"
)

// LowStockThreshold is the fixed stock level at or below which an item is
// flagged (excluding items already at zero).
const LowStockThreshold = 5

const dateLayout = "2006-01-02"

type DailySummary struct {
	Date         string `json:"date"`
	Revenue      int64  `json:"revenue"`
	Transactions int    `json:"transactions"`
}

// Daily sums revenue and counts invoices whose date matches the given
// calendar day (UTC, "2006-01-02").
func Daily(state domain.AppState, date string) DailySummary {
	out := DailySummary{Date: date}
	for _, inv := range state.Sales {
		if inv.Date.UTC().Format(dateLayout) != date {
			continue
		}
		out.Revenue += inv.Total
		out.Transactions++
	}
	return out
}

type TopSeller struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// TopSellers aggregates quantity sold per menu id across all sales and
// returns the top n, descending. Ties keep the order in which an id was
// first seen while walking the ledger.
func TopSellers(state domain.AppState, n int) []TopSeller {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, inv := range state.Sales {
		for _, line := range inv.Items {
			if _, seen := counts[line.ID]; !seen {
				order = append(order, line.ID)
			}
			counts[line.ID] += line.Qty
		}
	}

	rows := make([]TopSeller, 0, len(order))
	for _, id := range order {
		rows = append(rows, TopSeller{ID: id, Name: menuName(state, id), Qty: counts[id]})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Qty > rows[j].Qty })

	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

type MarginRow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Revenue int64  `json:"revenue"`
	Cost    int64  `json:"cost"`
	Profit  int64  `json:"profit"`
}

// MarginRanking ranks menu ids by profit: revenue at the prices recorded at
// sale time, cost at the item's *current* menu cost.
func MarginRanking(state domain.AppState) []MarginRow {
	revenue := make(map[string]int64)
	cost := make(map[string]int64)
	order := make([]string, 0)
	for _, inv := range state.Sales {
		for _, line := range inv.Items {
			if _, seen := revenue[line.ID]; !seen {
				order = append(order, line.ID)
			}
			revenue[line.ID] += int64(line.Qty) * line.Price
			if item := state.FindMenu(line.ID); item != nil {
				cost[line.ID] += int64(line.Qty) * item.Cost
			}
		}
	}

	rows := make([]MarginRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, MarginRow{
			ID:      id,
			Name:    menuName(state, id),
			Revenue: revenue[id],
			Cost:    cost[id],
			Profit:  revenue[id] - cost[id],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Profit > rows[j].Profit })
	return rows
}

// LowStock lists items running out: stock above zero but at or below the
// threshold.
func LowStock(state domain.AppState) []domain.MenuItem {
	out := make([]domain.MenuItem, 0)
	for _, item := range state.Menu {
		if item.Stock > 0 && item.Stock <= LowStockThreshold {
			out = append(out, item)
		}
	}
	return out
}

type TrendPoint struct {
	Date string `json:"date"`
	Qty  int    `json:"qty"`
}

// Trend returns, for each of the last days calendar days (oldest first), the
// quantity of one menu id sold on that day. Days without sales are
// zero-filled, so the slice always has exactly days entries.
func Trend(state domain.AppState, menuID string, days int) []TrendPoint {
	if days < 1 {
		return []TrendPoint{}
	}

	perDay := make(map[string]int)
	for _, inv := range state.Sales {
		day := inv.Date.UTC().Format(dateLayout)
		for _, line := range inv.Items {
			if line.ID == menuID {
				perDay[day] += line.Qty
			}
		}
	}

	now := time.Now().UTC()
	points := make([]TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(dateLayout)
		points = append(points, TrendPoint{Date: day, Qty: perDay[day]})
	}
	return points
}

func menuName(state domain.AppState, id string) string {
	if item := state.FindMenu(id); item != nil {
		return item.Name
	}
	return "Unknown"
}
