package checkout

// CheckAvailability verdicts every cart line against a snapshot. Requested
// quantities are accumulated per product, so duplicate lines that only
// jointly exceed stock still fail here. First failure wins; a passing
// pre-check is cheap rejection plus a good error message, not a guarantee —
// the commit transaction re-validates under its own atomicity.
func CheckAvailability(lines []Line, snapshot map[int64]ProductRow) error {
	want := make(map[int64]int, len(lines))
	for _, l := range lines {
		row, ok := snapshot[l.ProductID]
		if !ok {
			return &ProductNotFoundError{ProductID: l.ProductID}
		}
		want[l.ProductID] += l.Qty
		if row.Stock < want[l.ProductID] {
			return &InsufficientStockError{
				ProductID: l.ProductID,
				Name:      row.Name,
				Available: row.Stock,
				Requested: want[l.ProductID],
			}
		}
	}
	return nil
}
