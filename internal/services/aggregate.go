package services

import (
	"salesdash/internal/models"
)

// Series names as shown in chart legends.
const (
	seriesRevenue  = "Total Revenue"
	seriesQuantity = "Quantity Sold"
	seriesAverage  = "Average Revenue"
	seriesGrowth   = "Growth %"
)

// orderedSet builds a de-duplicated key axis in first-occurrence order.
type orderedSet struct {
	index map[string]int
	keys  []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[string]int), keys: make([]string, 0)}
}

// Add returns the key's slot, appending the key on first sight so slots
// follow first-occurrence order.
func (s *orderedSet) Add(key string) int {
	if i, ok := s.index[key]; ok {
		return i
	}
	i := len(s.keys)
	s.index[key] = i
	s.keys = append(s.keys, key)
	return i
}

func (s *orderedSet) Len() int { return len(s.keys) }

// Aggregate derives the six chart datasets from parsed sales rows in a single
// synchronous pass. It is pure: no I/O, no shared state, and the same input
// always yields the same output. Empty input yields empty datasets.
//
// Division edge cases are total by policy: an average over a zero quantity
// sum and a growth rate over a zero previous month are reported as nil
// (JSON null) points, never NaN or Inf. The first month's growth is 0.
func Aggregate(rows []models.SaleRow) *models.Report {
	products := newOrderedSet()
	months := newOrderedSet()

	dateLabels := make([]string, 0, len(rows))
	perRowRevenue := make([]*float64, 0, len(rows))

	var productRevenue, productQuantity, monthlyRevenue []float64

	for _, row := range rows {
		dateLabels = append(dateLabels, row.DateLabel())
		perRowRevenue = append(perRowRevenue, ptr(row.Revenue))

		p := products.Add(row.Product)
		if p == len(productRevenue) {
			productRevenue = append(productRevenue, 0)
			productQuantity = append(productQuantity, 0)
		}
		productRevenue[p] += row.Revenue
		productQuantity[p] += row.Quantity

		m := months.Add(row.MonthKey())
		if m == len(monthlyRevenue) {
			monthlyRevenue = append(monthlyRevenue, 0)
		}
		monthlyRevenue[m] += row.Revenue
	}

	revenueVals := make([]*float64, products.Len())
	quantityVals := make([]*float64, products.Len())
	averageVals := make([]*float64, products.Len())
	points := make([]models.Point, products.Len())
	for i := 0; i < products.Len(); i++ {
		revenueVals[i] = ptr(productRevenue[i])
		quantityVals[i] = ptr(productQuantity[i])
		if productQuantity[i] != 0 {
			averageVals[i] = ptr(productRevenue[i] / productQuantity[i])
		}
		points[i] = models.Point{X: productQuantity[i], Y: productRevenue[i]}
	}

	growthVals := make([]*float64, months.Len())
	for i := range growthVals {
		if i == 0 {
			growthVals[i] = ptr(0)
			continue
		}
		prev := monthlyRevenue[i-1]
		if prev == 0 {
			continue
		}
		growthVals[i] = ptr((monthlyRevenue[i] - prev) / prev * 100)
	}

	return &models.Report{
		RevenueOverTime: models.Dataset{
			Labels: dateLabels,
			Series: []models.Series{{Name: seriesRevenue, Values: perRowRevenue}},
		},
		ProductRevenue: models.Dataset{
			Labels: products.keys,
			Series: []models.Series{{Name: seriesRevenue, Values: revenueVals}},
		},
		QuantitySold: models.Dataset{
			Labels: products.keys,
			Series: []models.Series{{Name: seriesQuantity, Values: quantityVals}},
		},
		AverageRevenue: models.Dataset{
			Labels: products.keys,
			Series: []models.Series{{Name: seriesAverage, Values: averageVals}},
		},
		RevenueVsQuantity: models.ScatterDataset{
			Labels: products.keys,
			Points: points,
		},
		MonthlyGrowth: models.Dataset{
			Labels: months.keys,
			Series: []models.Series{{Name: seriesGrowth, Values: growthVals}},
		},
		RowCount: int64(len(rows)),
	}
}

func ptr(v float64) *float64 { return &v }
