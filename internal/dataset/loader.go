package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnsupportedFormat is returned for files the loader cannot read.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Format identifies how a file is parsed.
type Format string

const (
	FormatDelimited   Format = "delimited"
	FormatSpreadsheet Format = "spreadsheet"
)

var formatsByExt = map[string]Format{
	".csv":  FormatDelimited,
	".tsv":  FormatDelimited,
	".txt":  FormatDelimited,
	".xlsx": FormatSpreadsheet,
	".xlsm": FormatSpreadsheet,
}

// SupportedExtensions lists the file extensions Load accepts, without dots.
func SupportedExtensions() []string {
	return []string{"csv", "tsv", "txt", "xlsx", "xlsm"}
}

// DetectFormat maps a file path to its format by extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if format, ok := formatsByExt[ext]; ok {
		return format, nil
	}
	if ext == ".xls" {
		return "", fmt.Errorf("%w: %s: legacy .xls workbooks are not supported, save as .xlsx", ErrUnsupportedFormat, path)
	}
	return "", fmt.Errorf("%w: %s: use CSV or Excel (.xlsx) files", ErrUnsupportedFormat, path)
}

// Load reads a delimited or spreadsheet file into a Dataset.
func Load(path string) (*Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var ds *Dataset
	switch format {
	case FormatSpreadsheet:
		ds, err = loadSpreadsheet(path)
	default:
		ds, err = loadDelimited(path)
	}
	if err != nil {
		return nil, err
	}

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset %s: %w", path, err)
	}
	return ds, nil
}

func loadDelimited(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	data, err = DecodeText(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	header, rows, err := ReadDelimited(bytes.NewReader(data), DetectDelimiter(data, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return FromRecords(path, header, rows)
}

// DecodeText returns data as UTF-8. Input that is not valid UTF-8 is decoded
// as ISO-8859-1.
func DecodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}
	return charmap.ISO8859_1.NewDecoder().Bytes(data)
}

// ReadDelimited reads a header row followed by data rows. An input with no
// header at all yields an empty dataset.
func ReadDelimited(r io.Reader, delimiter rune) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read headers: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read record: %w", err)
		}
		rows = append(rows, record)
	}
	return header, rows, nil
}

func loadSpreadsheet(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return New(path), nil
	}

	header := records[0]
	rows := records[1:]
	// Trailing empty cells are not returned by the workbook reader, so a
	// data row can be wider than the header only if the header itself has
	// blank trailing cells.
	width := len(header)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for len(header) < width {
		header = append(header, "")
	}
	return FromRecords(path, header, rows)
}
