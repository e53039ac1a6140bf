package receipt

import (
	"strings"
	"testing"
	"time"

	"kasirpos/internal/domain"
)

func sampleInvoice() domain.SaleInvoice {
	return domain.SaleInvoice{
		ID:   "INV-1756461600-abcd",
		Date: time.Date(2026, 8, 29, 12, 30, 0, 0, time.UTC),
		Items: []domain.SaleLine{
			{ID: "m1", Name: "Ayam Goreng", Price: 10000, Qty: 2},
			{ID: "m3", Name: "Es Teh", Price: 5000, Qty: 1},
		},
		Subtotal: 25000,
		Total:    25000,
		Payment:  50000,
		Method:   domain.PaymentCash,
		Table:    "Meja 4",
		Note:     "tanpa sambal",
	}
}

func TestRenderContents(t *testing.T) {
	out := Render("Sambelan Caping Gunung", sampleInvoice())

	for _, want := range []string{
		"Sambelan Caping Gunung",
		"Struk: INV-1756461600-abcd",
		"Meja: Meja 4",
		"Catatan: tanpa sambal",
		"Ayam Goreng x2",
		"Rp20.000",
		"Es Teh x1",
		"Rp5.000",
		"Metode",
		domain.PaymentCash,
		"Dibayar",
		"Rp50.000",
		"Kembali",
		"Rp25.000",
		"Terima kasih, datang kembali!",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("receipt missing %q:\n%s", want, out)
		}
	}
}

func TestRenderOmitsEmptyTableAndNote(t *testing.T) {
	inv := sampleInvoice()
	inv.Table = ""
	inv.Note = ""

	out := Render("Warung", inv)
	if strings.Contains(out, "Meja:") || strings.Contains(out, "Catatan:") {
		t.Fatalf("empty table or note rendered:\n%s", out)
	}
}

func TestRenderRowWidth(t *testing.T) {
	out := Render("Warung", sampleInvoice())

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Total") || strings.HasPrefix(line, "Dibayar") {
			if len(line) != 32 {
				t.Fatalf("row %q is %d columns, want 32", line, len(line))
			}
		}
	}
}

func TestRupiah(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "Rp0"},
		{500, "Rp500"},
		{5000, "Rp5.000"},
		{25000, "Rp25.000"},
		{1250000, "Rp1.250.000"},
		{-5000, "-Rp5.000"},
	}
	for _, tc := range cases {
		if got := rupiah(tc.in); got != tc.want {
			t.Errorf("rupiah(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
