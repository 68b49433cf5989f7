package core

import "time"

// BalanceKind labels which semantics a total-amount answer carries. The
// labels are the ones the API has always exposed.
type BalanceKind string

const (
	// BalanceSettled: the queried month already ended; only settled
	// transactions up to month-end count.
	BalanceSettled BalanceKind = "SALDO_ATÉ_O_FIM_DO_MÊS"
	// BalanceCurrent: the queried month is the live one; same settled-only
	// filter as BalanceSettled, different label to signal it still moves.
	BalanceCurrent BalanceKind = "SALDO_ATUAL_EM_CONTAS"
	// BalanceProjected: the queried month is ahead; every transaction up
	// to month-end counts, settled or not.
	BalanceProjected BalanceKind = "SALDO_PREVISTO"
)

// BalanceKindFor picks the balance semantics for a query month relative
// to now. Like IsCurrentOrPastMonth it compares month indexes only.
func BalanceKindFor(endOfMonth, now time.Time) BalanceKind {
	switch {
	case endOfMonth.Month() == now.Month():
		return BalanceCurrent
	case endOfMonth.Month() < now.Month():
		return BalanceSettled
	default:
		return BalanceProjected
	}
}

// CountsPending reports whether the kind includes not-yet-settled
// transactions in its sums.
func (k BalanceKind) CountsPending() bool {
	return k == BalanceProjected
}
