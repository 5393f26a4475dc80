package money

// Quantity is a count of units on an order line. Always positive once a line
// exists; zero only appears transiently (an update to zero removes the line).
type Quantity int64

// Cycles returns how many complete groups of `per` units fit in the quantity.
// A quantity below the threshold yields zero cycles, never an error.
func (q Quantity) Cycles(per Quantity) int64 {
	if per <= 0 {
		return 0
	}
	return int64(q) / int64(per)
}

// InCycle returns the number of units covered by complete cycles of `per`.
func (q Quantity) InCycle(per Quantity) Quantity {
	return Quantity(q.Cycles(per) * int64(per))
}

func (q Quantity) Add(o Quantity) Quantity {
	return q + o
}

func (q Quantity) Int64() int64 {
	return int64(q)
}

func (q Quantity) IsPositive() bool {
	return q > 0
}
