// Package core holds the ledger's domain model and the pure money/date
// rules: month bounds, invoice-cycle mapping, installment splitting and
// balance-kind selection. Everything here works on integer cents and
// plain time.Time values; no floating point touches stored amounts.
package core

// SignedAmount applies the sign a transaction type implies: income and
// incoming transfers add to an account, everything else subtracts.
func SignedAmount(t TransactionType, cents int64) int64 {
	switch t {
	case TransactionIncome, TransactionTransferIn:
		return cents
	case TransactionExpense, TransactionTransferOut, TransactionCredit:
		return -cents
	}
	return 0
}

// ValidateAmount rejects zero and negative amounts. Signs are never
// supplied by callers; they come from the transaction type.
func ValidateAmount(cents int64) error {
	if cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
