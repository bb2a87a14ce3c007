package storage

import "github.com/shopspring/decimal"

type statsAccumulator struct {
	s *Stats
}

func newStatsAccumulator() *statsAccumulator {
	return &statsAccumulator{s: &Stats{
		GrossAmount:    decimal.Zero,
		DiscountAmount: decimal.Zero,
		NetAmount:      decimal.Zero,
		AverageSale:    decimal.Zero,
		ByOrderType:    make(map[string]OrderTypeStats),
	}}
}

func (a *statsAccumulator) add(orderType string, subtotal, discount, total decimal.Decimal, discounted bool, items int) {
	a.s.SaleCount++
	a.s.ItemCount += items
	a.s.GrossAmount = a.s.GrossAmount.Add(subtotal)
	a.s.DiscountAmount = a.s.DiscountAmount.Add(discount)
	a.s.NetAmount = a.s.NetAmount.Add(total)
	if discounted {
		a.s.DiscountedSale++
	}

	ot := a.s.ByOrderType[orderType]
	ot.Count++
	ot.NetAmount = ot.NetAmount.Add(total)
	a.s.ByOrderType[orderType] = ot
}

func (a *statsAccumulator) stats() *Stats {
	if a.s.SaleCount > 0 {
		a.s.AverageSale = a.s.NetAmount.Div(decimal.NewFromInt(int64(a.s.SaleCount))).Round(2)
	}
	return a.s
}
