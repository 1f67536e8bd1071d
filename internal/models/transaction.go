package models

// TransactionType represents the direction of a transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a financial transaction
type Transaction struct {
	ID              int64           `json:"id"`
	Slug            string          `json:"slug"`
	AccountID       int64           `json:"account_id"`
	UserID          int64           `json:"user_id"`
	PaymentMethodID int64           `json:"payment_method_id"`
	Type            TransactionType `json:"transaction_type"`
	Category        string          `json:"category"`
	Amount          float64         `json:"amount"`
	Description     string          `json:"description"`
	CreatedAt       string          `json:"created_at"`
}

// Categories is the fixed set of transaction categories.
var Categories = []string{
	"groceries",
	"rent",
	"utilities",
	"transport",
	"dining",
	"entertainment",
	"health",
	"travel",
	"salary",
	"other",
}

// ValidCategory reports whether name is one of the fixed categories.
func ValidCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
