package search

// Segmentation is the result of a single-penalty search: ordered
// changepoint indices plus the total cost of the chosen segmentation
type Segmentation struct {
	Changepoints []int   `json:"changepoints"`
	TotalCost    float64 `json:"total_cost"`
}

// PenaltySolution pairs one penalty value with the segmentation that is
// optimal at that penalty. A range search returns one per distinct
// optimal segmentation across the interval.
type PenaltySolution struct {
	Penalty      float64 `json:"penalty"`
	Changepoints []int   `json:"changepoints"`
}
