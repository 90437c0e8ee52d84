package csvdb

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ntc490/mls3/pkg/core/model"
	"github.com/ntc490/mls3/pkg/db"
)

// DB provides database operations over flat CSV/YAML files in a data
// directory. Every operation reads the current file contents fresh, so no
// stale roster or assignment state survives across calls.
type DB struct {
	membersPath          string
	prayersPath          string
	appointmentsPath     string
	appointmentTypesPath string
}

// NewDB creates a CSV database rooted at the given data directory
func NewDB(dataDir string) *DB {
	return &DB{
		membersPath:          filepath.Join(dataDir, "members.csv"),
		prayersPath:          filepath.Join(dataDir, "prayer_assignments.csv"),
		appointmentsPath:     filepath.Join(dataDir, "appointments.csv"),
		appointmentTypesPath: filepath.Join(dataDir, "appointment_types.yaml"),
	}
}

var _ db.Database = (*DB)(nil)

// readAll loads all CSV records from path. A missing file is an empty
// table, not an error.
func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if len(rows) <= 1 {
		return nil, nil // Header only, or empty
	}
	return rows[1:], nil
}

// writeAll rewrites path with a header row plus the given records
func writeAll(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows to %s: %w", path, err)
	}
	writer.Flush()
	return writer.Error()
}

// GetAppointmentTypes loads the appointment type registry from YAML
func (d *DB) GetAppointmentTypes(ctx context.Context) ([]model.AppointmentType, error) {
	data, err := os.ReadFile(d.appointmentTypesPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read appointment types: %w", err)
	}

	var doc struct {
		AppointmentTypes []model.AppointmentType `yaml:"appointmentTypes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse appointment types: %w", err)
	}
	return doc.AppointmentTypes, nil
}
