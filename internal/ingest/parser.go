package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/jszwec/csvutil"
	"github.com/xuri/excelize/v2"

	"salesdash/internal/models"
)

// Required columns. Names are exact-match and case-sensitive.
const (
	colDate     = "Date"
	colProduct  = "Product Name"
	colRevenue  = "Total Revenue"
	colQuantity = "Quantity Sold"
)

const maxSheetRows = 100000

var dateLayouts = []string{"1/2/2006", "2006-01-02"}

// Parse converts an uploaded file's raw bytes into sales rows. The format is
// chosen by file extension; unrecognized extensions return
// ErrUnsupportedFormat. Malformed content returns an error with no partial
// rows.
func Parse(data []byte, filename string) ([]models.SaleRow, error) {
	switch DetectFormat(filename) {
	case FormatCSV:
		return parseCSV(data)
	case FormatXLS:
		return parseXLS(data)
	case FormatXLSX:
		return parseXLSX(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

type csvRecord struct {
	Date     string  `csv:"Date"`
	Product  string  `csv:"Product Name"`
	Revenue  float64 `csv:"Total Revenue"`
	Quantity float64 `csv:"Quantity Sold"`
}

func parseCSV(data []byte) ([]models.SaleRow, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if err := requireColumns(dec.Header()); err != nil {
		return nil, err
	}

	var records []csvRecord
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}

	rows := make([]models.SaleRow, 0, len(records))
	for i, rec := range records {
		date, err := parseDate(rec.Date)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, models.SaleRow{
			Date:     date,
			Product:  rec.Product,
			Revenue:  rec.Revenue,
			Quantity: rec.Quantity,
		})
	}
	return rows, nil
}

func parseXLSX(data []byte) ([]models.SaleRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}
	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rowsFromGrid(grid)
}

func parseXLS(data []byte) ([]models.SaleRow, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}

	grid := make([][]string, 0, sheet.MaxRow+1)
	for i := 0; i <= int(sheet.MaxRow) && i < maxSheetRows; i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		grid = append(grid, cells)
	}
	return rowsFromGrid(grid)
}

// rowsFromGrid converts a header-led cell grid (first sheet of a workbook)
// into sales rows. Trailing blank rows are skipped; anything else malformed
// aborts the parse.
func rowsFromGrid(grid [][]string) ([]models.SaleRow, error) {
	if len(grid) == 0 {
		return nil, errors.New("sheet is empty")
	}

	idx := make(map[string]int, len(grid[0]))
	header := make([]string, 0, len(grid[0]))
	for i, name := range grid[0] {
		name = strings.TrimSpace(name)
		idx[name] = i
		header = append(header, name)
	}
	if err := requireColumns(header); err != nil {
		return nil, err
	}

	rows := make([]models.SaleRow, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		if isBlankRow(cells) {
			continue
		}

		date, err := parseDate(cell(cells, idx[colDate]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		revenue, err := parseNumber(cell(cells, idx[colRevenue]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", i+2, colRevenue, err)
		}
		quantity, err := parseNumber(cell(cells, idx[colQuantity]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", i+2, colQuantity, err)
		}

		rows = append(rows, models.SaleRow{
			Date:     date,
			Product:  cell(cells, idx[colProduct]),
			Revenue:  revenue,
			Quantity: quantity,
		})
	}
	return rows, nil
}

func requireColumns(header []string) error {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	for _, name := range []string{colDate, colProduct, colRevenue, colQuantity} {
		if !present[name] {
			return fmt.Errorf("missing required column %q", name)
		}
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", s)
}

func parseNumber(s string) (float64, error) {
	// Spreadsheet cells may carry display formatting like "1,234.50".
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return strconv.ParseFloat(s, 64)
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
