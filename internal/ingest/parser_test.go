package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

const sampleCSV = `Date,Product Name,Total Revenue,Quantity Sold
1/5/2023,Laptop,100,10
1/6/2023,Mouse,50,5
2/1/2023,Laptop,200,20`

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"sales.csv", FormatCSV},
		{"SALES.CSV", FormatCSV},
		{"report.xlsx", FormatXLSX},
		{"Report.XLSX", FormatXLSX},
		{"legacy.xls", FormatXLS},
		{"notes.txt", FormatUnsupported},
		{"archive.csv.gz", FormatUnsupported},
		{"noextension", FormatUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := DetectFormat(tt.filename); got != tt.want {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestParse_CSV(t *testing.T) {
	rows, err := Parse([]byte(sampleCSV), "sales.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Parse() returned %d rows, want 3", len(rows))
	}

	first := rows[0]
	if !first.Date.Equal(time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first row date = %v, want 2023-01-05", first.Date)
	}
	if first.Product != "Laptop" {
		t.Errorf("first row product = %q, want %q", first.Product, "Laptop")
	}
	if first.Revenue != 100 {
		t.Errorf("first row revenue = %v, want 100", first.Revenue)
	}
	if first.Quantity != 10 {
		t.Errorf("first row quantity = %v, want 10", first.Quantity)
	}
}

func TestParse_CSV_ISODates(t *testing.T) {
	csv := "Date,Product Name,Total Revenue,Quantity Sold\n2023-01-05,Laptop,100,10"
	rows, err := Parse([]byte(csv), "sales.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !rows[0].Date.Equal(time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v, want 2023-01-05", rows[0].Date)
	}
}

func TestParse_CSV_HeaderOnly(t *testing.T) {
	csv := "Date,Product Name,Total Revenue,Quantity Sold"
	rows, err := Parse([]byte(csv), "sales.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Parse() returned %d rows, want 0", len(rows))
	}
}

func TestParse_CSV_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		errPart string
	}{
		{
			name:    "missing quantity column",
			csv:     "Date,Product Name,Total Revenue\n1/5/2023,Laptop,100",
			errPart: "Quantity Sold",
		},
		{
			name:    "column names are case sensitive",
			csv:     "date,product name,total revenue,quantity sold\n1/5/2023,Laptop,100,10",
			errPart: "Date",
		},
		{
			name:    "bad date",
			csv:     "Date,Product Name,Total Revenue,Quantity Sold\nnot-a-date,Laptop,100,10",
			errPart: "parse date",
		},
		{
			name:    "bad revenue",
			csv:     "Date,Product Name,Total Revenue,Quantity Sold\n1/5/2023,Laptop,lots,10",
			errPart: "",
		},
		{
			name:    "empty file",
			csv:     "",
			errPart: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.csv), "sales.csv")
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if tt.errPart != "" && !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Parse() error = %q, want it to mention %q", err, tt.errPart)
			}
		})
	}
}

func TestParse_UnsupportedExtension(t *testing.T) {
	_, err := Parse([]byte(sampleCSV), "sales.txt")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Parse() error = %v, want ErrUnsupportedFormat", err)
	}
}

func buildXLSX(t *testing.T, grid [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i := range grid {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &grid[i]); err != nil {
			t.Fatal(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParse_XLSX(t *testing.T) {
	data := buildXLSX(t, [][]any{
		{"Date", "Product Name", "Total Revenue", "Quantity Sold"},
		{"1/5/2023", "Laptop", "100", "10"},
		{"1/6/2023", "Mouse", "1,250.50", "5"},
	})

	rows, err := Parse(data, "sales.xlsx")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Parse() returned %d rows, want 2", len(rows))
	}
	if rows[1].Revenue != 1250.50 {
		t.Errorf("formatted revenue = %v, want 1250.50", rows[1].Revenue)
	}
}

func TestParse_XLSX_BlankRowsSkipped(t *testing.T) {
	data := buildXLSX(t, [][]any{
		{"Date", "Product Name", "Total Revenue", "Quantity Sold"},
		{"1/5/2023", "Laptop", "100", "10"},
		{"", "", "", ""},
	})

	rows, err := Parse(data, "sales.xlsx")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Parse() returned %d rows, want 1", len(rows))
	}
}

func TestParse_XLSX_MissingColumn(t *testing.T) {
	data := buildXLSX(t, [][]any{
		{"Date", "Product Name", "Total Revenue"},
		{"1/5/2023", "Laptop", "100"},
	})

	_, err := Parse(data, "sales.xlsx")
	if err == nil || !strings.Contains(err.Error(), "Quantity Sold") {
		t.Errorf("Parse() error = %v, want missing column error", err)
	}
}

func TestParse_XLSX_Malformed(t *testing.T) {
	if _, err := Parse([]byte("this is not a workbook"), "sales.xlsx"); err == nil {
		t.Error("Parse() expected error for malformed workbook, got nil")
	}
}

func TestParse_XLS_Malformed(t *testing.T) {
	if _, err := Parse([]byte("this is not a workbook"), "sales.xls"); err == nil {
		t.Error("Parse() expected error for malformed workbook, got nil")
	}
}
