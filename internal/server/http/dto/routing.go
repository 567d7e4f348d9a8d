package dto

// BulkRouteRequest selects products and the action to apply to them.
type BulkRouteRequest struct {
	ProductIDs []int64 `json:"product_ids" binding:"required"`
	Action     string  `json:"action" binding:"required"`
	Notes      string  `json:"notes,omitempty"`
}

// SkippedProduct explains why one selected product did not route.
type SkippedProduct struct {
	ProductID int64  `json:"product_id"`
	Reason    string `json:"reason"`
}

// BulkRouteResponse reports the outcome of a bulk routing action.
type BulkRouteResponse struct {
	Routed  []int64          `json:"routed"`
	Skipped []SkippedProduct `json:"skipped,omitempty"`
}

// SampleRouteRequest hands the order's sample to another custodian.
type SampleRouteRequest struct {
	Target string `json:"target" binding:"required"`
	Notes  string `json:"notes,omitempty"`
}
