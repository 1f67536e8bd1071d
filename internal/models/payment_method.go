package models

// PaymentMethod represents one of the fixed payment methods
type PaymentMethod struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PaymentMethods is the fixed set of known payment methods.
var PaymentMethods = []PaymentMethod{
	{ID: 1, Name: "cash"},
	{ID: 2, Name: "debit card"},
	{ID: 3, Name: "credit card"},
	{ID: 4, Name: "bank transfer"},
	{ID: 5, Name: "mobile pay"},
}

// ValidPaymentMethod reports whether id refers to a known payment method.
func ValidPaymentMethod(id int64) bool {
	for _, m := range PaymentMethods {
		if m.ID == id {
			return true
		}
	}
	return false
}
