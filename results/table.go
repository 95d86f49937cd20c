// Package results keeps the behavioural results of a session and writes
// them out as CSV.
package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const TrainingBlock = "training"

// Header is always the first row of a results file.
var Header = []string{
	"PART_ID",
	"Block number",
	"Trial number",
	"Button pressed",
	"Reaction time",
	"Correctness",
	"Stim word",
	"Trial type",
	"Stim color",
}

type Row struct {
	ParticipantID string
	Block         string
	Trial         int
	Key           string
	RT            float64
	Correctness   int
	Word          string
	Type          string
	Color         string
}

func (r Row) Training() bool {
	return r.Block == TrainingBlock
}

func (r Row) record() []string {
	return []string{
		r.ParticipantID,
		r.Block,
		strconv.Itoa(r.Trial),
		r.Key,
		strconv.FormatFloat(r.RT, 'f', 4, 64),
		strconv.Itoa(r.Correctness),
		r.Word,
		r.Type,
		r.Color,
	}
}

// Table holds rows in the order trials were run.
type Table struct {
	rows []Row
}

func NewTable() *Table {
	return &Table{}
}

func (t *Table) Append(r Row) {
	t.rows = append(t.rows, r)
}

func (t *Table) Rows() []Row {
	return t.rows
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Save writes the header and all rows to path.
func (t *Table) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	w.Write(Header)
	for _, r := range t.rows {
		w.Write(r.record())
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write results: %w", err)
	}
	return f.Close()
}

// Load reads a results file written by Save.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) == 0 || records[0][0] != Header[0] {
		return nil, errors.New("missing results header")
	}

	t := NewTable()
	for i, record := range records[1:] {
		line := i + 2
		if len(record) < 6 {
			return nil, fmt.Errorf("line %d: expected at least 6 columns, got %d", line, len(record))
		}

		trial, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid trial number: %v", line, err)
		}
		rt, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid reaction time: %v", line, err)
		}
		corr, err := strconv.Atoi(record[5])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid correctness: %v", line, err)
		}

		r := Row{
			ParticipantID: record[0],
			Block:         record[1],
			Trial:         trial,
			Key:           record[3],
			RT:            rt,
			Correctness:   corr,
		}
		if len(record) > 6 {
			r.Word = record[6]
		}
		if len(record) > 7 {
			r.Type = record[7]
		}
		if len(record) > 8 {
			r.Color = record[8]
		}
		t.Append(r)
	}
	return t, nil
}

// BehPath is the results file name for a participant.
func BehPath(dir, partID string) string {
	return filepath.Join(dir, partID+"_beh.csv")
}

// UniquePath returns path unchanged when nothing exists there, otherwise
// the path with a timestamp inserted before the extension.
func UniquePath(path string, now time.Time) string {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + now.Format("20060102-150405") + ext
}
