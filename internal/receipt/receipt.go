// Package receipt renders a completed invoice as plain text for the printing
// collaborator. The core never depends on whether printing succeeds.
package receipt

import (
	"fmt"
	"strings"

	"kasirpos/internal/domain"
)

const width = 32

// Render produces the receipt body for a sale invoice. outletName heads the
// receipt; layout follows the thermal-printer convention of a fixed 32-column
// strip.
func Render(outletName string, inv domain.SaleInvoice) string {
	var b strings.Builder

	line := strings.Repeat("-", width)
	b.WriteString(center(outletName) + "\n")
	b.WriteString(center("Struk: "+inv.ID) + "\n")
	b.WriteString(center(inv.Date.Local().Format("02 Jan 2006 15:04")) + "\n")
	if inv.Table != "" {
		b.WriteString("Meja: " + inv.Table + "\n")
	}
	if inv.Note != "" {
		b.WriteString("Catatan: " + inv.Note + "\n")
	}
	b.WriteString(line + "\n")

	for _, it := range inv.Items {
		b.WriteString(row(fmt.Sprintf("%s x%d", it.Name, it.Qty), rupiah(it.Price*int64(it.Qty))))
	}

	b.WriteString(line + "\n")
	b.WriteString(row("Total", rupiah(inv.Total)))
	b.WriteString(row("Metode", inv.Method))
	b.WriteString(row("Dibayar", rupiah(inv.Payment)))
	b.WriteString(row("Kembali", rupiah(inv.Payment-inv.Total)))
	b.WriteString(line + "\n")
	b.WriteString(center("Terima kasih, datang kembali!") + "\n")

	return b.String()
}

func row(left, right string) string {
	pad := width - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right + "\n"
}

func center(s string) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", (width-len(s))/2) + s
}

func rupiah(v int64) string {
	digits := fmt.Sprintf("%d", v)
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteRune('.')
		}
		b.WriteRune(r)
	}
	out := "Rp" + b.String()
	if neg {
		out = "-" + out
	}
	return out
}
