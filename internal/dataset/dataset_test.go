package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/drive"
	"github.com/andresuchdata/doi-dashboard/backend-go/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `Product,Warehouse,Buyer,Category,StockQty,AvgLandedCost,TotalInventoryCost,Last12MoQtySold,DOI,OverstockInventoryValue,ExpiryDate,12MoDollarsSold
SKU-A,WH1,Alice,Snacks,100,2.50,250.00,900,40.5,0,2024-03-15,4500.00
SKU-B,WH2,Bob,Drinks,"1,200",$5.00,"$6,000.00",10,220,"1,500.75",02/01/2025,120.00

SKU-C,WH1,Alice,Drinks,3,10,30,400,2.7,0,2024-01-20 00:00:00,8000
`

func TestDecodeCSV(t *testing.T) {
	products, err := Decode(strings.NewReader(sampleCSV), FormatCSV)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products (blank row skipped), got %d", len(products))
	}

	b := products[1]
	if b.Product != "SKU-B" || b.Warehouse != "WH2" || b.Buyer != "Bob" || b.Category != "Drinks" {
		t.Errorf("unexpected text fields: %+v", b)
	}
	if b.StockQty != 1200 {
		t.Errorf("StockQty = %d, want 1200", b.StockQty)
	}
	if !b.TotalInventoryCost.Equal(decimal.NewFromInt(6000)) {
		t.Errorf("TotalInventoryCost = %s, want 6000", b.TotalInventoryCost)
	}
	if !b.OverstockInventoryValue.Equal(decimal.RequireFromString("1500.75")) {
		t.Errorf("OverstockInventoryValue = %s, want 1500.75", b.OverstockInventoryValue)
	}
	if b.DOI != 220 || b.Status() != domain.StatusOverstock {
		t.Errorf("DOI = %v status %s", b.DOI, b.Status())
	}
	want := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	if !b.ExpiryDate.Equal(want) {
		t.Errorf("ExpiryDate = %v, want %v", b.ExpiryDate, want)
	}

	c := products[2]
	if !c.ExpiryDate.Equal(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("datetime layout not parsed: %v", c.ExpiryDate)
	}
	if c.Status() != domain.StatusLow {
		t.Errorf("SKU-C status = %s, want Low", c.Status())
	}
}

func TestDecodeAcceptsLooseHeaders(t *testing.T) {
	data := "product, warehouse ,BUYER,category,stock_qty,avg_landed_cost,total_inventory_cost,last_12mo_qty_sold,doi,overstock_inventory_value,expiry_date,12mo_dollars_sold\n" +
		"X,W,B,C,1,1,1,1,1,0,2024-01-01,1\n"

	products, err := Decode(strings.NewReader(data), FormatCSV)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(products) != 1 || products[0].Product != "X" {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestDecodeMissingColumns(t *testing.T) {
	data := "Product,Warehouse,Buyer\nX,W,B\n"

	_, err := Decode(strings.NewReader(data), FormatCSV)
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	for _, col := range []string{"DOI", "ExpiryDate", "12MoDollarsSold"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error %q does not name missing column %s", err, col)
		}
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	if _, err := Decode(strings.NewReader(""), FormatCSV); !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns for empty input, got %v", err)
	}
}

func TestDecodeMalformedValues(t *testing.T) {
	header := "Product,Warehouse,Buyer,Category,StockQty,AvgLandedCost,TotalInventoryCost,Last12MoQtySold,DOI,OverstockInventoryValue,ExpiryDate,12MoDollarsSold\n"

	tests := []struct {
		name   string
		row    string
		column string
	}{
		{"non-numeric doi", "X,W,B,C,1,1,1,1,abc,0,2024-01-01,1", "DOI"},
		{"nan doi", "X,W,B,C,1,1,1,1,NaN,0,2024-01-01,1", "DOI"},
		{"negative stock", "X,W,B,C,-1,1,1,1,1,0,2024-01-01,1", "StockQty"},
		{"fractional units sold", "X,W,B,C,1,1,1,1.5,1,0,2024-01-01,1", "Last12MoQtySold"},
		{"negative money", "X,W,B,C,1,1,-5,1,1,0,2024-01-01,1", "TotalInventoryCost"},
		{"bad date", "X,W,B,C,1,1,1,1,1,0,next tuesday,1", "ExpiryDate"},
		{"empty revenue", "X,W,B,C,1,1,1,1,1,0,2024-01-01,", "12MoDollarsSold"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(header+tc.row+"\n"), FormatCSV)
			if !errors.Is(err, ErrMalformedValue) {
				t.Fatalf("expected ErrMalformedValue, got %v", err)
			}
			if !strings.Contains(err.Error(), "line 2") || !strings.Contains(err.Error(), tc.column) {
				t.Errorf("error %q should locate line 2 column %s", err, tc.column)
			}
		})
	}
}

func TestDecodeNegativeDOIAllowed(t *testing.T) {
	data := "Product,Warehouse,Buyer,Category,StockQty,AvgLandedCost,TotalInventoryCost,Last12MoQtySold,DOI,OverstockInventoryValue,ExpiryDate,12MoDollarsSold\n" +
		"X,W,B,C,1,1,1,1,-3,0,2024-01-01,1\n"

	products, err := Decode(strings.NewReader(data), FormatCSV)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if products[0].Status() != domain.StatusLow {
		t.Errorf("negative DOI should classify Low, got %s", products[0].Status())
	}
}

func TestFormatFromName(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"inventory.csv", FormatCSV, false},
		{"snapshots/2024-05-01.XLSX", FormatXLSX, false},
		{"inventory.json", "", true},
		{"inventory", "", true},
	}
	for _, tc := range tests {
		got, err := FormatFromName(tc.name)
		if (err != nil) != tc.wantErr {
			t.Errorf("FormatFromName(%q) error = %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("FormatFromName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestParseDateLayouts(t *testing.T) {
	want := time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)
	for _, v := range []string{"2024-07-04", "2024-07-04 00:00:00", "2024-07-04T00:00:00Z", "07/04/2024", "7/4/2024", "7/4/24"} {
		got, err := ParseDate(v)
		if err != nil {
			t.Errorf("ParseDate(%q) error = %v", v, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", v, got, want)
		}
	}
}

func xlsxBytes(t *testing.T) []byte {
	t.Helper()

	records := [][]any{
		{"Product", "Warehouse", "Buyer", "Category", "StockQty", "AvgLandedCost", "TotalInventoryCost", "Last12MoQtySold", "DOI", "OverstockInventoryValue", "ExpiryDate", "12MoDollarsSold"},
		{"SKU-X", "WH9", "Cara", "Frozen", 40, 12.5, 500, 20, 365, 250, "2025-06-30", 300},
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rec); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeXLSX(t *testing.T) {
	products, err := Decode(bytes.NewReader(xlsxBytes(t)), FormatXLSX)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	p := products[0]
	if p.Product != "SKU-X" || p.StockQty != 40 || p.DOI != 365 {
		t.Errorf("unexpected product %+v", p)
	}
	if !p.AvgLandedCost.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("AvgLandedCost = %s", p.AvgLandedCost)
	}
}

func TestFileSourceAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := Load(context.Background(), FileSource{Path: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.Len())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "nope.csv")})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

type fakeObjectStorage struct {
	objects map[string][]byte
	opened  []string
}

func (f *fakeObjectStorage) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for key, body := range f.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(body))})
		}
	}
	return out, nil
}

func (f *fakeObjectStorage) OpenObject(ctx context.Context, key string) (io.ReadCloser, error) {
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	f.opened = append(f.opened, key)
	return io.NopCloser(bytes.NewReader(body)), nil
}

func TestObjectSourcePicksLatestUnderPrefix(t *testing.T) {
	store := &fakeObjectStorage{objects: map[string][]byte{
		"doi/2024-04-01.csv":  []byte(sampleCSV),
		"doi/2024-05-01.xlsx": xlsxBytes(t),
		"doi/readme.txt":      []byte("ignore me"),
	}}

	products, err := ObjectSource{Client: store, Key: "doi/"}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(store.opened) != 1 || store.opened[0] != "doi/2024-05-01.xlsx" {
		t.Fatalf("opened %v, want the newest dataset object", store.opened)
	}
	if len(products) != 1 || products[0].Product != "SKU-X" {
		t.Errorf("unexpected products %+v", products)
	}
}

func TestObjectSourceExactKey(t *testing.T) {
	store := &fakeObjectStorage{objects: map[string][]byte{"inventory.csv": []byte(sampleCSV)}}

	products, err := ObjectSource{Client: store, Key: "inventory.csv"}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(products) != 3 {
		t.Errorf("expected 3 products, got %d", len(products))
	}
}

func TestObjectSourceEmptyPrefix(t *testing.T) {
	store := &fakeObjectStorage{objects: map[string][]byte{"doi/notes.txt": nil}}

	if _, err := (ObjectSource{Client: store, Key: "doi/"}).Load(context.Background()); err == nil {
		t.Fatal("expected error when no dataset objects exist under prefix")
	}
}

type fakeDrive struct {
	file *drive.File
	body []byte
}

func (f *fakeDrive) GetFile(ctx context.Context, fileID string) (*drive.File, error) {
	if fileID != f.file.ID {
		return nil, errors.New("not found")
	}
	return f.file, nil
}

func (f *fakeDrive) DownloadFile(ctx context.Context, fileID string, w io.Writer) error {
	_, err := w.Write(f.body)
	return err
}

func TestDriveSource(t *testing.T) {
	files := &fakeDrive{
		file: &drive.File{ID: "abc", Name: "Days of Inventory.csv"},
		body: []byte(sampleCSV),
	}

	table, err := Load(context.Background(), DriveSource{Files: files, FileID: "abc"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("expected 3 rows, got %d", table.Len())
	}

	if _, err := (DriveSource{Files: files, FileID: "missing"}).Load(context.Background()); err == nil {
		t.Error("expected error for unknown drive file")
	}
}

type fakeRepo struct {
	products []domain.Product
	err      error
}

func (f fakeRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

func TestPostgresSource(t *testing.T) {
	repo := fakeRepo{products: []domain.Product{{Product: "P1", DOI: 5}}}

	table, err := Load(context.Background(), PostgresSource{Repo: repo, Table: "inventory_items"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("expected 1 row, got %d", table.Len())
	}

	boom := errors.New("connection refused")
	if _, err := Load(context.Background(), PostgresSource{Repo: fakeRepo{err: boom}}); !errors.Is(err, boom) {
		t.Errorf("expected wrapped repository error, got %v", err)
	}
}
