// Package export flattens a state snapshot into a spreadsheet: one sheet
// each for sales, stock history, and the menu. It reads the snapshot it is
// given and keeps no reference afterwards.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"kasirpos/internal/domain"
)

const (
	sheetSales = "Penjualan"
	sheetStock = "Riwayat Stok"
	sheetMenu  = "Menu"
)

// Workbook builds the three-sheet report. The caller owns the returned file
// and should Close it when done.
func Workbook(state domain.AppState) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheetSales); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetStock); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sheetMenu); err != nil {
		return nil, err
	}

	salesRows := [][]any{{"id", "date", "total", "method", "table", "note"}}
	for _, inv := range state.Sales {
		salesRows = append(salesRows, []any{
			inv.ID, inv.Date.UTC().Format(time.RFC3339), inv.Total, inv.Method, inv.Table, inv.Note,
		})
	}
	if err := writeRows(f, sheetSales, salesRows); err != nil {
		return nil, err
	}

	stockRows := [][]any{{"id", "date", "menu", "type", "qty", "note"}}
	for _, entry := range state.StockHistory {
		stockRows = append(stockRows, []any{
			entry.ID, entry.Date.UTC().Format(time.RFC3339), entry.MenuName, entry.Type, entry.Qty, entry.Note,
		})
	}
	if err := writeRows(f, sheetStock, stockRows); err != nil {
		return nil, err
	}

	menuRows := [][]any{{"id", "name", "price", "cost", "stock"}}
	for _, item := range state.Menu {
		menuRows = append(menuRows, []any{item.ID, item.Name, item.Price, item.Cost, item.Stock})
	}
	if err := writeRows(f, sheetMenu, menuRows); err != nil {
		return nil, err
	}

	return f, nil
}

// Write streams the workbook to w, e.g. an HTTP response.
func Write(w io.Writer, state domain.AppState) error {
	f, err := Workbook(state)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// FileName returns the dated download name for the report.
func FileName(now time.Time) string {
	return fmt.Sprintf("Laporan_%s.xlsx", now.UTC().Format("2006-01-02"))
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
