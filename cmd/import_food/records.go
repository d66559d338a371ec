package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

type foodRecord struct {
	Code   int
	Name   string
	Amount float64
}

var (
	headerSeparators = regexp.MustCompile(`[\s\-]+`)
	lineSeparators   = regexp.MustCompile(`[;,|]`)
)

var requiredColumns = []string{"food_code", "name", "amount"}

func readRecords(path string) ([]foodRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return parseCSV(file)
	case ".pdf":
		text, err := pdfText(path)
		if err != nil {
			return nil, fmt.Errorf("extract pdf text: %w", err)
		}
		return parseTextRecords(text), nil
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

func parseCSV(r io.Reader) ([]foodRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	columns := make(map[string]int, len(rows[0]))
	for idx, key := range rows[0] {
		columns[normalizeHeader(key)] = idx
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("csv header is missing %q", required)
		}
	}

	records := make([]foodRecord, 0, len(rows)-1)
	for line, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		value := func(column string) string {
			idx := columns[column]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		code, err := strconv.Atoi(value("food_code"))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid food_code %q", line+2, value("food_code"))
		}
		amount, err := parseAmount(value("amount"))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q", line+2, value("amount"))
		}
		name := value("name")
		if name == "" {
			return nil, fmt.Errorf("line %d: name is empty", line+2)
		}
		records = append(records, foodRecord{Code: code, Name: name, Amount: amount})
	}
	return records, nil
}

// parseTextRecords reads one "<code> <name words> <amount>" item per line.
// Lines that do not fit, such as titles and page footers, are skipped.
func parseTextRecords(text string) []foodRecord {
	var records []foodRecord
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(lineSeparators.ReplaceAllString(line, " "))
		if len(fields) < 3 {
			continue
		}
		code, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		amount, err := parseAmount(fields[len(fields)-1])
		if err != nil {
			continue
		}
		records = append(records, foodRecord{
			Code:   code,
			Name:   strings.Join(fields[1:len(fields)-1], " "),
			Amount: amount,
		})
	}
	return records
}

// pdfText returns the plain text of every page of the file at path,
// one page after another.
func pdfText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	pages := make([]string, 0, reader.NumPage())
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", n, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

func parseAmount(value string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("amount %q is not finite", value)
	}
	return amount, nil
}

func normalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(value, "\ufeff")))
	return headerSeparators.ReplaceAllString(value, "_")
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
