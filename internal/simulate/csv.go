package simulate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/forgewatch/forgewatch/internal/adapters/ingest"
	"github.com/forgewatch/forgewatch/internal/domain/model"
)

const outputFilePermission = 0600

// WriteCSV writes records as a prepared stream file readable by the
// ingestion layer.
func WriteCSV(w io.Writer, records []model.UnitRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ingest.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatUint(r.ID, 10),
			string(r.Product),
			strconv.FormatFloat(r.AirTempK, 'f', 1, 64),
			strconv.FormatFloat(r.ProcTempK, 'f', 1, 64),
			strconv.FormatFloat(r.RotSpeedRPM, 'f', 0, 64),
			strconv.FormatFloat(r.TorqueNm, 'f', 1, 64),
			strconv.FormatFloat(r.ToolWearMin, 'f', 0, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush stream csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes records to path, creating or truncating it.
func WriteCSVFile(path string, records []model.UnitRecord) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
	if err != nil {
		return fmt.Errorf("create stream csv: %w", err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close stream csv: %w", err)
	}
	return nil
}
