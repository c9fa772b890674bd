// Package importer provides CSV and Excel import functionality for cut lists.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/barcut/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Requests []model.PieceRequest
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// -1 marks a column that is not present.
type ColumnMapping struct {
	Name     int
	Length   int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":     {"name", "label", "part", "part name", "description", "desc", "piece", "item", "mark"},
	"length":   {"length", "len", "l", "size", "length (mm)", "length mm", "mm", "cut length"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
}

// headerRoles fixes the order roles are matched in.
var headerRoles = []string{"name", "length", "quantity"}

// csvDelimiters are tried in order; earlier entries win ties.
var csvDelimiters = []rune{',', ';', '\t', '|'}

var delimiterNames = map[rune]string{',': "comma", ';': "semicolon", '\t': "tab", '|': "pipe"}

func readCSV(data []byte, delim rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// DetectCSVDelimiter picks the delimiter that splits the first line into at
// least two columns and keeps that column count on the most lines. More
// columns break ties. Comma is the fallback.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, delim := range csvDelimiters {
		records, err := readCSV(data, delim)
		if err != nil || len(records) == 0 || len(records[0]) < 2 {
			continue
		}
		width := len(records[0])
		consistent := 0
		for _, row := range records {
			if len(row) == width {
				consistent++
			}
		}
		if score := consistent*10 + width; score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Name: -1, Length: -1, Quantity: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for _, role := range headerRoles {
			if !containsAlias(headerAliases[role], normalized) {
				continue
			}
			isHeader = true
			switch role {
			case "name":
				if mapping.Name == -1 {
					mapping.Name = i
				}
			case "length":
				if mapping.Length == -1 {
					mapping.Length = i
				}
			case "quantity":
				if mapping.Quantity == -1 {
					mapping.Quantity = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping(row), false
	}
	return mapping, true
}

// positionalMapping guesses the layout of a headerless row: a leading number
// means "length, quantity", otherwise "name, length, quantity".
func positionalMapping(row []string) ColumnMapping {
	if _, err := parseLength(getCell(row, 0)); err == nil {
		return ColumnMapping{Name: -1, Length: 0, Quantity: 1}
	}
	return ColumnMapping{Name: 0, Length: 1, Quantity: 2}
}

func containsAlias(aliases []string, s string) bool {
	for _, a := range aliases {
		if a == s {
			return true
		}
	}
	return false
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseLength accepts both "1250.5" and the European "1250,5".
func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.ToLower(s), "mm")
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}

// parseRow extracts a PieceRequest from a row using the given column mapping.
// Returns the request, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.PieceRequest, string, string) {
	name := getCell(row, mapping.Name)

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return model.PieceRequest{}, fmt.Sprintf("%s: Missing length value", rowLabel), ""
	}
	length, err := parseLength(lengthStr)
	if err != nil {
		return model.PieceRequest{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr), ""
	}

	var warning string
	qty := 1
	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr == "" {
		warning = fmt.Sprintf("%s: Missing quantity, defaulting to 1", rowLabel)
	} else {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil {
			return model.PieceRequest{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
		}
	}

	if length <= 0 || qty <= 0 {
		return model.PieceRequest{}, fmt.Sprintf("%s: Length and quantity must be positive", rowLabel), ""
	}

	return model.NewPieceRequest(name, length, qty), "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// failed returns a result holding a single error.
func failed(format string, args ...any) ImportResult {
	return ImportResult{Errors: []string{fmt.Sprintf(format, args...)}}
}

// ImportFile picks the CSV or Excel importer from the file extension.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

// ImportCSV imports a cut list from a CSV file, detecting the delimiter.
func ImportCSV(path string) ImportResult {
	f, err := os.Open(path)
	if err != nil {
		return failed("Cannot open file: %v", err)
	}
	defer f.Close()
	return ImportCSVFromReader(f, 0)
}

// ImportCSVFromReader imports a cut list from r. A zero delimiter is detected
// from the content.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	data, err := io.ReadAll(r)
	if err != nil {
		return failed("Cannot read CSV: %v", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return failed("File is empty")
	}

	var warnings []string
	if delimiter == 0 {
		delimiter = DetectCSVDelimiter(data)
		if delimiter != ',' {
			warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimiterNames[delimiter]))
		}
	}

	records, err := readCSV(data, delimiter)
	if err != nil {
		return failed("Cannot read CSV: %v", err)
	}
	return importFromRows(records, "Line", warnings)
}

// ImportExcel imports a cut list from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return failed("Cannot open Excel file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return failed("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return failed("Cannot read Excel data: %v", err)
	}
	if len(rows) == 0 {
		return failed("Sheet is empty")
	}
	return importFromRows(rows, "Row", nil)
}

// importFromRows detects a header, maps columns and parses every non-empty
// row. Bad rows are reported and skipped.
func importFromRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	if len(rows) == 0 {
		return failed("No data rows found")
	}
	result := ImportResult{Warnings: warnings}

	mapping, hasHeader := DetectColumns(rows[0])
	start := 0
	switch {
	case hasHeader:
		if mapping.Length == -1 {
			return failed("Required column not found in header: Length")
		}
		start = 1
	case mapping.Name == 0:
		// Text where a length is expected: an unrecognized header.
		if _, err := parseLength(getCell(rows[0], mapping.Length)); err != nil {
			start = 1
			if len(rows) > 1 {
				mapping = positionalMapping(rows[1])
			}
		}
	}
	if start == 1 {
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	for i := start; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		req, errMsg, warning := parseRow(rows[i], mapping, fmt.Sprintf("%s %d", rowPrefix, i+1))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Requests = append(result.Requests, req)
	}
	return result
}
