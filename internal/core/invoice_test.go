package core

import (
	"testing"
	"time"
)

func TestInvoiceDate(t *testing.T) {
	cases := []struct {
		name       string
		purchase   time.Time
		closingDay int
		dueDay     int
		want       time.Time
	}{
		{"before closing stays in cycle", date(2025, 2, 10), 15, 20, date(2025, 2, 20)},
		{"on closing day stays in cycle", date(2025, 2, 15), 15, 20, date(2025, 2, 20)},
		{"after closing rolls forward", date(2025, 2, 16), 15, 20, date(2025, 3, 20)},
		{"december rolls into next year", date(2024, 12, 20), 15, 20, date(2025, 1, 20)},
		{"due day before closing day", date(2025, 5, 28), 25, 5, date(2025, 6, 5)},
	}
	for _, tc := range cases {
		got := InvoiceDate(tc.purchase, tc.closingDay, tc.dueDay)
		if !got.Equal(tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOpenAndClosedInvoiceDates(t *testing.T) {
	// March 10 with closing on the 15th: the March invoice is still open,
	// February's is the closed one.
	now := date(2025, 3, 10)
	if got := OpenInvoiceDate(now, 15, 25); !got.Equal(date(2025, 3, 25)) {
		t.Fatalf("open invoice: got %v", got)
	}
	if got := ClosedInvoiceDate(now, 15, 25); !got.Equal(date(2025, 2, 25)) {
		t.Fatalf("closed invoice: got %v", got)
	}

	// Past the closing day the open invoice is next month's.
	now = date(2025, 3, 20)
	if got := OpenInvoiceDate(now, 15, 25); !got.Equal(date(2025, 4, 25)) {
		t.Fatalf("open invoice after closing: got %v", got)
	}
	if got := ClosedInvoiceDate(now, 15, 25); !got.Equal(date(2025, 3, 25)) {
		t.Fatalf("closed invoice after closing: got %v", got)
	}
}
