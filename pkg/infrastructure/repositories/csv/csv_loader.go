package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/rawmat/pkg/domain/entities"
)

const dateLayout = "2006-01-02"

// Loader handles loading planning inputs from CSV files. Columns are matched by
// name, case-insensitively; optional columns may be omitted.
type Loader struct {
	// SkipInvalid logs and skips rows that fail validation instead of failing the file
	SkipInvalid bool
	logger      *zap.Logger
}

// NewLoader creates a new CSV loader
func NewLoader(logger *zap.Logger, skipInvalid bool) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{SkipInvalid: skipInvalid, logger: logger}
}

// LoadForecasts loads forecasts: sku_id, forecast_qty, forecast_date, source[, unit, confidence]
func (l *Loader) LoadForecasts(filename string) ([]*entities.Forecast, error) {
	t, err := l.readTable(filename, "forecasts",
		[]string{"sku_id", "forecast_qty", "forecast_date", "source"},
		[]string{"unit", "confidence"})
	if err != nil {
		return nil, err
	}

	forecasts := make([]*entities.Forecast, 0, len(t.rows))
	for i, record := range t.rows {
		f, err := parseForecast(t, record)
		if err != nil {
			if err := l.rowError(t, i, err); err != nil {
				return nil, err
			}
			continue
		}
		forecasts = append(forecasts, f)
	}
	return forecasts, nil
}

// LoadBOM loads flat BOM lines: sku_id, material_id, qty_per_unit, unit
func (l *Loader) LoadBOM(filename string) ([]*entities.BOMLine, error) {
	t, err := l.readTable(filename, "BOM",
		[]string{"sku_id", "material_id", "qty_per_unit", "unit"}, nil)
	if err != nil {
		return nil, err
	}

	lines := make([]*entities.BOMLine, 0, len(t.rows))
	for i, record := range t.rows {
		line, err := parseBOMLine(t, record)
		if err != nil {
			if err := l.rowError(t, i, err); err != nil {
				return nil, err
			}
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// LoadStyleBOM loads style-yarn blend lines: style_id, yarn_id, percentage[, yarn_name]
func (l *Loader) LoadStyleBOM(filename string) ([]*entities.BlendLine, error) {
	t, err := l.readTable(filename, "style BOM",
		[]string{"style_id", "yarn_id", "percentage"},
		[]string{"yarn_name"})
	if err != nil {
		return nil, err
	}

	lines := make([]*entities.BlendLine, 0, len(t.rows))
	for i, record := range t.rows {
		line, err := parseBlendLine(t, record)
		if err != nil {
			if err := l.rowError(t, i, err); err != nil {
				return nil, err
			}
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// LoadInventory loads inventory snapshots: material_id, on_hand_qty, open_po_qty[, unit, po_expected_date]
func (l *Loader) LoadInventory(filename string) ([]*entities.InventorySnapshot, error) {
	t, err := l.readTable(filename, "inventory",
		[]string{"material_id", "on_hand_qty", "open_po_qty"},
		[]string{"unit", "po_expected_date"})
	if err != nil {
		return nil, err
	}

	snapshots := make([]*entities.InventorySnapshot, 0, len(t.rows))
	for i, record := range t.rows {
		snapshot, err := parseInventory(t, record)
		if err != nil {
			if err := l.rowError(t, i, err); err != nil {
				return nil, err
			}
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// LoadSuppliers loads the supplier catalog: material_id, supplier_id, cost_per_unit,
// lead_time_days, moq, reliability_score[, order_multiple, setup_cost, holding_cost_rate,
// shipping_cost, quality_score, payment_terms_days]
func (l *Loader) LoadSuppliers(filename string) ([]*entities.SupplierOffer, error) {
	t, err := l.readTable(filename, "suppliers",
		[]string{"material_id", "supplier_id", "cost_per_unit", "lead_time_days", "moq", "reliability_score"},
		[]string{"order_multiple", "setup_cost", "holding_cost_rate", "shipping_cost", "quality_score", "payment_terms_days"})
	if err != nil {
		return nil, err
	}

	offers := make([]*entities.SupplierOffer, 0, len(t.rows))
	for i, record := range t.rows {
		offer, err := parseSupplierOffer(t, record)
		if err != nil {
			if err := l.rowError(t, i, err); err != nil {
				return nil, err
			}
			continue
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// LoadDemandHistory loads per-period consumption: material_id, period, quantity.
// Periods are ordered by their label (ISO dates or zero-padded indexes sort correctly).
func (l *Loader) LoadDemandHistory(filename string) (map[entities.MaterialID][]float64, error) {
	t, err := l.readTable(filename, "demand history",
		[]string{"material_id", "period", "quantity"}, nil)
	if err != nil {
		return nil, err
	}

	type period struct {
		label string
		qty   float64
	}
	periods := make(map[entities.MaterialID][]period)

	for i, record := range t.rows {
		materialID := entities.MaterialID(t.get(record, "material_id"))
		qty, err := parseFloat(t.get(record, "quantity"), "quantity")
		if err == nil && materialID == "" {
			err = fmt.Errorf("material_id cannot be empty")
		}
		if err == nil && qty < 0 {
			err = fmt.Errorf("quantity cannot be negative, got %g", qty)
		}
		if err != nil {
			if err := l.rowError(t, i, err); err != nil {
				return nil, err
			}
			continue
		}
		periods[materialID] = append(periods[materialID], period{label: t.get(record, "period"), qty: qty})
	}

	history := make(map[entities.MaterialID][]float64, len(periods))
	for id, ps := range periods {
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].label < ps[j].label })
		series := make([]float64, 0, len(ps))
		for _, p := range ps {
			series = append(series, p.qty)
		}
		history[id] = series
	}
	return history, nil
}

// table is a CSV file with its header resolved to column positions
type table struct {
	name    string
	columns map[string]int
	rows    [][]string
}

func (t *table) get(record []string, column string) string {
	index, ok := t.columns[column]
	if !ok || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func (l *Loader) readTable(filename, name string, required, optional []string) (*table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", name, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", name, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", name)
	}

	columns, err := indexHeader(records[0], required, optional)
	if err != nil {
		return nil, fmt.Errorf("%s CSV header mismatch: %w", name, err)
	}

	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		rows = append(rows, record)
	}

	return &table{name: name, columns: columns, rows: rows}, nil
}

// rowError fails the file, or logs and swallows the error when skipping invalid rows
func (l *Loader) rowError(t *table, index int, err error) error {
	row := index + 2
	if !l.SkipInvalid {
		return fmt.Errorf("%s CSV row %d: %w", t.name, row, err)
	}

	fields := []zap.Field{zap.String("file", t.name), zap.Int("row", row), zap.Error(err)}
	var validationErr *entities.ValidationError
	if errors.As(err, &validationErr) {
		fields = append(fields, zap.String("field", validationErr.Field))
	}
	l.logger.Warn("skipping invalid CSV row", fields...)
	return nil
}

// Helper functions for parsing CSV records

func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ReplaceAll(name, " ", "_")
}

func indexHeader(header, required, optional []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[normalizeColumn(col)] = i
	}

	missing := make([]string, 0)
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns %v (required: %v, optional: %v)", missing, required, optional)
	}
	return columns, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func parseFloat(value, column string) (float64, error) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, value)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s: %s is not a finite number", column, value)
	}
	return f, nil
}

func parseOptionalFloat(value, column string, fallback float64) (float64, error) {
	if value == "" {
		return fallback, nil
	}
	return parseFloat(value, column)
}

func parseOptionalInt(value, column string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, value)
	}
	return n, nil
}

func parseDecimal(value, column string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.ReplaceAll(value, ",", ""), "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", column, value)
	}
	return d, nil
}

func parseOptionalDecimal(value, column string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return parseDecimal(value, column)
}

func parseForecast(t *table, record []string) (*entities.Forecast, error) {
	qty, err := parseFloat(t.get(record, "forecast_qty"), "forecast_qty")
	if err != nil {
		return nil, err
	}

	var date time.Time
	if raw := t.get(record, "forecast_date"); raw != "" {
		date, err = time.Parse(dateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid forecast_date format: %s (expected YYYY-MM-DD)", raw)
		}
	}

	source, err := entities.ParseForecastSource(t.get(record, "source"))
	if err != nil {
		return nil, err
	}

	confidence, err := parseOptionalFloat(t.get(record, "confidence"), "confidence", 1)
	if err != nil {
		return nil, err
	}

	return entities.NewForecast(
		entities.SKU(t.get(record, "sku_id")),
		qty,
		date,
		source,
		t.get(record, "unit"),
		confidence,
	)
}

func parseBOMLine(t *table, record []string) (*entities.BOMLine, error) {
	qtyPerUnit, err := parseFloat(t.get(record, "qty_per_unit"), "qty_per_unit")
	if err != nil {
		return nil, err
	}

	return entities.NewBOMLine(
		entities.SKU(t.get(record, "sku_id")),
		entities.MaterialID(t.get(record, "material_id")),
		qtyPerUnit,
		t.get(record, "unit"),
	)
}

func parseBlendLine(t *table, record []string) (*entities.BlendLine, error) {
	percentage, err := parseFloat(strings.TrimSuffix(t.get(record, "percentage"), "%"), "percentage")
	if err != nil {
		return nil, err
	}

	return entities.NewBlendLine(
		entities.SKU(t.get(record, "style_id")),
		entities.MaterialID(t.get(record, "yarn_id")),
		percentage,
		t.get(record, "yarn_name"),
	)
}

func parseInventory(t *table, record []string) (*entities.InventorySnapshot, error) {
	onHand, err := parseFloat(t.get(record, "on_hand_qty"), "on_hand_qty")
	if err != nil {
		return nil, err
	}
	openPO, err := parseOptionalFloat(t.get(record, "open_po_qty"), "open_po_qty", 0)
	if err != nil {
		return nil, err
	}

	var expected *time.Time
	if raw := t.get(record, "po_expected_date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid po_expected_date format: %s (expected YYYY-MM-DD)", raw)
		}
		expected = &date
	}

	return entities.NewInventorySnapshot(
		entities.MaterialID(t.get(record, "material_id")),
		onHand,
		openPO,
		t.get(record, "unit"),
		expected,
	)
}

func parseSupplierOffer(t *table, record []string) (*entities.SupplierOffer, error) {
	cost, err := parseDecimal(t.get(record, "cost_per_unit"), "cost_per_unit")
	if err != nil {
		return nil, err
	}
	leadTime, err := parseOptionalInt(t.get(record, "lead_time_days"), "lead_time_days")
	if err != nil {
		return nil, err
	}
	moq, err := parseOptionalFloat(t.get(record, "moq"), "moq", 0)
	if err != nil {
		return nil, err
	}
	reliability, err := parseFloat(t.get(record, "reliability_score"), "reliability_score")
	if err != nil {
		return nil, err
	}

	offer, err := entities.NewSupplierOffer(
		entities.MaterialID(t.get(record, "material_id")),
		entities.SupplierID(t.get(record, "supplier_id")),
		cost,
		leadTime,
		moq,
		reliability,
	)
	if err != nil {
		return nil, err
	}

	if offer.OrderMultiple, err = parseOptionalFloat(t.get(record, "order_multiple"), "order_multiple", 0); err != nil {
		return nil, err
	}
	if offer.SetupCost, err = parseOptionalDecimal(t.get(record, "setup_cost"), "setup_cost"); err != nil {
		return nil, err
	}
	if offer.HoldingCostRate, err = parseOptionalFloat(t.get(record, "holding_cost_rate"), "holding_cost_rate", 0); err != nil {
		return nil, err
	}
	if offer.ShippingCost, err = parseOptionalDecimal(t.get(record, "shipping_cost"), "shipping_cost"); err != nil {
		return nil, err
	}
	if raw := t.get(record, "quality_score"); raw != "" {
		quality, err := parseFloat(raw, "quality_score")
		if err != nil {
			return nil, err
		}
		offer.Quality = &quality
	}
	if offer.PaymentTermsDays, err = parseOptionalInt(t.get(record, "payment_terms_days"), "payment_terms_days"); err != nil {
		return nil, err
	}

	if err := offer.Validate(); err != nil {
		return nil, err
	}
	return offer, nil
}
