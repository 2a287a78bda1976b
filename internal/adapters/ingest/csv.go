package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/forgewatch/forgewatch/internal/domain/model"
)

// ErrBadCSV marks a stream file that cannot be parsed into unit records.
var ErrBadCSV = errors.New("bad stream csv")

// Column headers expected in a prepared sensor stream file.
const (
	colUDI       = "UDI"
	colType      = "Type"
	colAirTemp   = "Air temperature [K]"
	colProcTemp  = "Process temperature [K]"
	colRotSpeed  = "Rotational speed [rpm]"
	colTorque    = "Torque [Nm]"
	colToolWear  = "Tool wear [min]"
	requiredCols = 7
)

// Header lists the stream file columns in canonical order. Writers of
// prepared stream files emit exactly these names.
func Header() []string {
	return []string{colUDI, colType, colAirTemp, colProcTemp, colRotSpeed, colTorque, colToolWear}
}

// NewCSVSource loads a prepared sensor stream file and returns a source
// over its rows in file order. The whole file is parsed up front so all
// blocking I/O happens before the stream loop starts; the handle is closed
// before returning.
func NewCSVSource(path string) (*SliceSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stream csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCSV, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("%w: missing header row", ErrBadCSV)
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]model.UnitRecord, 0, len(rows)-1)
	var lastID uint64
	for i, row := range rows[1:] {
		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrBadCSV, i+2, err)
		}
		if rec.ID <= lastID {
			return nil, fmt.Errorf("%w: row %d: identifier %d not ascending", ErrBadCSV, i+2, rec.ID)
		}
		lastID = rec.ID
		records = append(records, rec)
	}
	return NewSliceSource(records), nil
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range Header() {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrBadCSV, name)
		}
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int) (model.UnitRecord, error) {
	if len(row) < requiredCols {
		return model.UnitRecord{}, fmt.Errorf("want at least %d fields, got %d", requiredCols, len(row))
	}
	id, err := strconv.ParseUint(row[cols[colUDI]], 10, 64)
	if err != nil {
		return model.UnitRecord{}, fmt.Errorf("udi: %v", err)
	}
	product := model.ProductType(row[cols[colType]])
	switch product {
	case model.ProductLow, model.ProductMedium, model.ProductHigh:
	default:
		return model.UnitRecord{}, fmt.Errorf("unknown product type %q", row[cols[colType]])
	}

	fields := make(map[string]float64, 5)
	for _, name := range []string{colAirTemp, colProcTemp, colRotSpeed, colTorque, colToolWear} {
		v, err := strconv.ParseFloat(row[cols[name]], 64)
		if err != nil {
			return model.UnitRecord{}, fmt.Errorf("%s: %v", name, err)
		}
		fields[name] = v
	}

	return model.UnitRecord{
		ID:          id,
		Product:     product,
		AirTempK:    fields[colAirTemp],
		ProcTempK:   fields[colProcTemp],
		RotSpeedRPM: fields[colRotSpeed],
		TorqueNm:    fields[colTorque],
		ToolWearMin: fields[colToolWear],
	}, nil
}
