package entities

type Customer struct {
	ID            uint64 `json:"id"`
	CustomerName  string `json:"customer_name"`
	CustomerNote  string `json:"customer_note,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
}
