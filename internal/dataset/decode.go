package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrMissingColumns means the header lacks one or more required columns.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrMalformedValue means a cell could not be parsed into its column type.
	ErrMalformedValue = errors.New("malformed value")
	// ErrUnsupportedFormat means the file is neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// Format is the on-disk encoding of a dataset file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromName infers the format from a file name's extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// Decode reads a whole dataset in the given format.
func Decode(r io.Reader, format Format) ([]domain.Product, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = readCSV(r)
	case FormatXLSX:
		records, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return parseRecords(records)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

// readXLSX returns the rows of the first sheet.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

type column int

const (
	colProduct column = iota
	colWarehouse
	colBuyer
	colCategory
	colStockQty
	colAvgLandedCost
	colTotalInventoryCost
	colLast12MoQtySold
	colDOI
	colOverstockInventoryValue
	colExpiryDate
	colDollarsSold12Mo
	numColumns
)

// columnNames lists the accepted headers per column; the first is canonical.
var columnNames = [numColumns][]string{
	colProduct:                 {"Product", "sku", "product_name"},
	colWarehouse:               {"Warehouse"},
	colBuyer:                   {"Buyer"},
	colCategory:                {"Category"},
	colStockQty:                {"StockQty", "stock"},
	colAvgLandedCost:           {"AvgLandedCost"},
	colTotalInventoryCost:      {"TotalInventoryCost"},
	colLast12MoQtySold:         {"Last12MoQtySold"},
	colDOI:                     {"DOI", "days_of_inventory"},
	colOverstockInventoryValue: {"OverstockInventoryValue"},
	colExpiryDate:              {"ExpiryDate"},
	colDollarsSold12Mo:         {"12MoDollarsSold", "dollars_sold_12mo"},
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(strings.TrimPrefix(name, "\ufeff")))
	return columnNameSanitizer.Replace(name)
}

// resolveColumns maps every required column to its header index.
func resolveColumns(header []string) ([numColumns]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeColumnName(h)
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	var idx [numColumns]int
	var missing []string
	for c := column(0); c < numColumns; c++ {
		idx[c] = -1
		for _, name := range columnNames[c] {
			if i, ok := positions[normalizeColumnName(name)]; ok {
				idx[c] = i
				break
			}
		}
		if idx[c] < 0 {
			missing = append(missing, columnNames[c][0])
		}
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRecords(records [][]string) ([]domain.Product, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumns)
	}

	idx, err := resolveColumns(records[0])
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(records)-1)
	for i, record := range records[1:] {
		if blankRecord(record) {
			continue
		}
		// header is line 1
		p, err := parseRecord(record, idx, i+2)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// rowParser accumulates the first parse failure of a row.
type rowParser struct {
	record []string
	idx    [numColumns]int
	line   int
	err    error
}

func (rp *rowParser) raw(c column) string {
	i := rp.idx[c]
	if i < 0 || i >= len(rp.record) {
		return ""
	}
	return strings.TrimSpace(rp.record[i])
}

func (rp *rowParser) fail(c column, value string) {
	if rp.err == nil {
		rp.err = fmt.Errorf("line %d column %s: %w: %q", rp.line, columnNames[c][0], ErrMalformedValue, value)
	}
}

func (rp *rowParser) text(c column) string {
	return rp.raw(c)
}

func (rp *rowParser) count(c column) int64 {
	v := rp.raw(c)
	f, err := strconv.ParseFloat(stripNumber(v), 64)
	if err != nil || f < 0 || f != math.Trunc(f) || math.IsInf(f, 0) {
		rp.fail(c, v)
		return 0
	}
	return int64(f)
}

func (rp *rowParser) money(c column) decimal.Decimal {
	v := rp.raw(c)
	d, err := decimal.NewFromString(stripNumber(v))
	if err != nil || d.IsNegative() {
		rp.fail(c, v)
		return decimal.Zero
	}
	return d
}

func (rp *rowParser) float(c column) float64 {
	v := rp.raw(c)
	f, err := strconv.ParseFloat(stripNumber(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		rp.fail(c, v)
		return 0
	}
	return f
}

func (rp *rowParser) date(c column) time.Time {
	v := rp.raw(c)
	d, err := ParseDate(v)
	if err != nil {
		rp.fail(c, v)
	}
	return d
}

func parseRecord(record []string, idx [numColumns]int, line int) (domain.Product, error) {
	rp := &rowParser{record: record, idx: idx, line: line}
	p := domain.Product{
		Product:                 rp.text(colProduct),
		Warehouse:               rp.text(colWarehouse),
		Buyer:                   rp.text(colBuyer),
		Category:                rp.text(colCategory),
		StockQty:                rp.count(colStockQty),
		AvgLandedCost:           rp.money(colAvgLandedCost),
		TotalInventoryCost:      rp.money(colTotalInventoryCost),
		Last12MoQtySold:         rp.count(colLast12MoQtySold),
		DOI:                     rp.float(colDOI),
		OverstockInventoryValue: rp.money(colOverstockInventoryValue),
		ExpiryDate:              rp.date(colExpiryDate),
		DollarsSold12Mo:         rp.money(colDollarsSold12Mo),
	}
	return p, rp.err
}

var numberSanitizer = strings.NewReplacer("$", "", ",", "", " ", "")

func stripNumber(v string) string {
	return numberSanitizer.Replace(v)
}

var dateLayouts = []string{
	domain.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
}

// ParseDate accepts the calendar-date spellings seen in inventory exports.
// Results are in UTC.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", ErrMalformedValue, v)
}
