package entity

import "time"

// Budget is the closed set of project budget brackets accepted by the
// contact form. Unlike category filtering on the read path, an unknown
// budget is rejected on write.
type Budget string

const (
	BudgetUnder5k  Budget = "under-5k"
	Budget5kTo15k  Budget = "5k-15k"
	Budget15kTo50k Budget = "15k-50k"
	BudgetOver50k  Budget = "over-50k"
	BudgetUnknown  Budget = "not-sure"
)

// Budgets lists every valid budget bracket.
var Budgets = []Budget{
	BudgetUnder5k,
	Budget5kTo15k,
	Budget15kTo50k,
	BudgetOver50k,
	BudgetUnknown,
}

// Valid reports whether b is one of the known budget brackets.
func (b Budget) Valid() bool {
	for _, known := range Budgets {
		if b == known {
			return true
		}
	}
	return false
}

// ContactMessage is a single contact form submission.
type ContactMessage struct {
	ID        int64
	Name      string
	Email     string
	Company   string
	Budget    Budget
	Message   string
	CreatedAt time.Time
}
