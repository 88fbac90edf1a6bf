package invoice

// Totals are the derived financial figures. Values are exact; grouping and
// truncation are display concerns and never happen here.
type Totals struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// ComputeTotals derives subtotal, tax amount and grand total from the items
// and the tax rate percentage. It is pure and accepts any well-typed input:
// an empty item list yields zero, negative figures propagate arithmetically.
func ComputeTotals(items []LineItem, taxRate float64) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.LineTotal()
	}
	tax := subtotal * (taxRate / 100)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal + tax,
	}
}
