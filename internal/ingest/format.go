package ingest

import (
	"errors"
	"path/filepath"
	"strings"
)

// Format is the closed set of upload formats the parser understands.
// Anything outside the set is rejected explicitly rather than silently
// producing no rows.
type Format int

const (
	FormatUnsupported Format = iota
	FormatCSV
	FormatXLS
	FormatXLSX
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLS:
		return "xls"
	case FormatXLSX:
		return "xlsx"
	default:
		return "unsupported"
	}
}

// DetectFormat dispatches on the file name's extension, case-insensitively.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV
	case ".xls":
		return FormatXLS
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatUnsupported
	}
}
