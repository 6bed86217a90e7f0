package orders

type Status string

const (
	// No payment gateway is wired up, so checkout commits orders as paid.
	// Pending exists for the day one is.
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

var validNext = map[Status]map[Status]bool{
	StatusPending: {StatusPaid: true},
	StatusPaid:    {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
