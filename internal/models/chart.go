package models

import "time"

// Dataset is a chart-ready payload: a label axis plus one or more series whose
// values align index-for-index with the labels. A nil value marks a point that
// is undefined (for example an average over zero quantity); it marshals as
// JSON null so the chart layer can render a gap instead of a bogus number.
type Dataset struct {
	Labels []string `json:"labels"`
	Series []Series `json:"datasets"`
}

type Series struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// Point is a single scatter sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScatterDataset carries one point per label, in label order.
type ScatterDataset struct {
	Labels []string `json:"labels"`
	Points []Point  `json:"points"`
}

// Report holds the six derived chart datasets for one uploaded file. It is
// recomputed in full on every upload; there is no incremental state.
type Report struct {
	RevenueOverTime   Dataset        `json:"revenue_over_time"`
	ProductRevenue    Dataset        `json:"product_revenue"`
	QuantitySold      Dataset        `json:"quantity_sold"`
	AverageRevenue    Dataset        `json:"average_revenue"`
	RevenueVsQuantity ScatterDataset `json:"revenue_vs_quantity"`
	MonthlyGrowth     Dataset        `json:"monthly_growth"`

	RowCount    int64     `json:"row_count"`
	GeneratedAt time.Time `json:"generated_at"`
}
