package core

import "time"

// InvoiceDate maps a purchase date onto the due date of the invoice that
// will bill it. Purchases after the closing day roll to the following
// month's invoice; a purchase exactly on the closing day stays in the
// current cycle. December purchases past closing roll into January of
// the next year through normal date construction.
func InvoiceDate(purchase time.Time, closingDay, dueDay int) time.Time {
	year, month, day := purchase.Date()
	if day > closingDay {
		return time.Date(year, month+1, dueDay, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year, month, dueDay, 0, 0, 0, 0, time.UTC)
}

// InvoiceDateFor builds the due date identifying a card's invoice for a
// given calendar month. Invoice rows are selected by exact match on this
// date.
func InvoiceDateFor(year int, month time.Month, dueDay int) time.Time {
	return time.Date(year, month, dueDay, 0, 0, 0, 0, time.UTC)
}

// OpenInvoiceDate returns the due date of the invoice still accepting
// charges at the given instant.
func OpenInvoiceDate(now time.Time, closingDay, dueDay int) time.Time {
	return InvoiceDate(now, closingDay, dueDay)
}

// ClosedInvoiceDate returns the due date of the most recently closed
// invoice: the cycle one month before the open one.
func ClosedInvoiceDate(now time.Time, closingDay, dueDay int) time.Time {
	return AddMonths(OpenInvoiceDate(now, closingDay, dueDay), -1)
}
