package person

// Person is the domain entity. ID is store-assigned and immutable; Email is
// optional but must be unique across all records when present.
type Person struct {
	ID      int64   `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Age     int     `json:"age" db:"age"`
	Email   *string `json:"email,omitempty" db:"email"`
	Address *string `json:"address,omitempty" db:"address"`
	Phone   *string `json:"phone,omitempty" db:"phone"`
}
