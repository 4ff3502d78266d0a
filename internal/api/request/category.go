package request

// CategoryRequest is the body for creating or updating a capital-allocation
// category. Collection selects the personal or martingale side; an empty
// value means personal.
type CategoryRequest struct {
	Name              string  `json:"name"`
	Market            string  `json:"market"`
	AllocationPercent float64 `json:"allocationPercent"`
	Collection        string  `json:"collection,omitempty"`
}
