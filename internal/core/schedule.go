package core

const (
	SeriesSingle SeriesKind = iota
	SeriesFixed
	SeriesRecurring
	SeriesInstallment
)

// FixedSeriesLength is how many monthly records a fixed transaction
// materializes upfront.
const FixedSeriesLength = 12

type SeriesKind int

// SeriesPolicy says how one creation request expands into stored
// records. Exactly one variant applies; Count is only meaningful for
// recurring (number of months) and installment (number of shares).
type SeriesPolicy struct {
	Kind  SeriesKind
	Count int
}

func Single() SeriesPolicy { return SeriesPolicy{Kind: SeriesSingle} }

func Fixed() SeriesPolicy { return SeriesPolicy{Kind: SeriesFixed} }

func Recurring(months int) SeriesPolicy {
	return SeriesPolicy{Kind: SeriesRecurring, Count: months}
}
func Installment(shares int) SeriesPolicy {
	return SeriesPolicy{Kind: SeriesInstallment, Count: shares}
}

func (p SeriesPolicy) Validate() error {
	switch p.Kind {
	case SeriesSingle, SeriesFixed:
		return nil
	case SeriesRecurring:
		if p.Count < 1 {
			return ErrInvalidSeries
		}
		return nil
	case SeriesInstallment:
		if p.Count < 2 {
			return ErrInvalidSeries
		}
		return nil
	}
	return ErrInvalidSeries
}

// Length is how many records the policy expands into.
func (p SeriesPolicy) Length() int {
	switch p.Kind {
	case SeriesFixed:
		return FixedSeriesLength
	case SeriesRecurring, SeriesInstallment:
		return p.Count
	}
	return 1
}

// SplitInstallments divides an amount into n shares of floor(amount/n)
// cents, with the last share absorbing the remainder so the shares sum
// back to the amount exactly: 10000 over 3 gives 3333, 3333, 3334.
func SplitInstallments(amount int64, n int) []int64 {
	base := amount / int64(n)
	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
	}
	shares[n-1] = amount - base*int64(n-1)
	return shares
}
