package model

// Vendor is a supplier that can receive purchase requests.
type Vendor struct {
	Name  string
	Email string
	Phone string
	ID    int64
}

// Event is a budgeted occasion purchase requests are raised for.
type Event struct {
	Name string
	ID   int64
}
