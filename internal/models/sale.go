package models

import "time"

// SaleRow is one parsed record from an uploaded sales file. Dates are parsed
// into structured values at ingestion so month bucketing keys on (year, month)
// rather than on string prefixes.
type SaleRow struct {
	Date     time.Time
	Product  string
	Revenue  float64
	Quantity float64
}

// MonthKey returns the bucket label for the row's month, e.g. "1/2023".
func (r SaleRow) MonthKey() string {
	return formatMonth(r.Date)
}

// DateLabel returns the row's date as it appears on the time axis.
func (r SaleRow) DateLabel() string {
	return r.Date.Format("1/2/2006")
}

func formatMonth(t time.Time) string {
	return t.Format("1/2006")
}
