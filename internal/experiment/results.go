package experiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
)

const utf8BOM = "\ufeff"

// Sessions names the two sessions compared by the SIR ratios.
type Sessions struct {
	Baseline string
	Test     string
}

// DefaultSessions compares session "2" against session "1".
func DefaultSessions() Sessions {
	return Sessions{Baseline: "1", Test: "2"}
}

// TableOptions controls the optional columns of a ResultTable.
type TableOptions struct {
	Sessions           Sessions
	IncludeRawDistance bool
	IncludeConditions  bool
	// ConditionColumns fixes the order of condition columns. When empty the
	// sorted union of all condition names is used.
	ConditionColumns []string
}

// Row is one animal of a ResultTable.
type Row struct {
	AnimalID   string
	Values     map[string]float64
	Conditions map[string]string
}

// ResultTable holds one row per animal with per-session metrics and SIR ratios.
type ResultTable struct {
	columns          []string
	conditionColumns []string
	rows             []Row

	// Analyzed is the number of recordings that produced metrics.
	Analyzed int
	// Skipped lists recordings without arena or zone geometry.
	Skipped []string
	// Overwritten lists recordings that replaced an already recorded session.
	Overwritten []string
}

// BuildTable converts accumulated records into a ResultTable.
func BuildTable(records []*AnimalRecord, opts TableOptions) *ResultTable {
	if opts.Sessions == (Sessions{}) {
		opts.Sessions = DefaultSessions()
	}
	s1, s2 := opts.Sessions.Baseline, opts.Sessions.Test

	t := &ResultTable{
		columns: []string{
			ColumnAnimalID,
			TimeInZoneColumn(s1), TimeInZoneColumn(s2),
			NormalizedDistanceColumn(s1), NormalizedDistanceColumn(s2),
			TotalDistanceColumn(s1), TotalDistanceColumn(s2),
			ColumnTimeSIRTypeA, ColumnTimeSIRTypeB,
			ColumnDistanceSIRTypeA, ColumnDistanceSIRTypeB,
		},
	}
	if opts.IncludeRawDistance {
		t.columns = append(t.columns, DistanceColumn(s1), DistanceColumn(s2))
	}
	if opts.IncludeConditions {
		t.conditionColumns = opts.ConditionColumns
		if len(t.conditionColumns) == 0 {
			t.conditionColumns = conditionNames(records)
		}
		t.columns = append(t.columns, t.conditionColumns...)
	}

	for _, rec := range records {
		values := make(map[string]float64)
		for label, m := range rec.Sessions {
			values[TimeInZoneColumn(label)] = m.TimeInZone
			values[NormalizedDistanceColumn(label)] = m.NormalizedDistanceToPOI
			values[DistanceColumn(label)] = m.DistanceToPOI
			values[TotalDistanceColumn(label)] = m.TotalDistanceTraveled
		}

		t1, d1 := metric(values, TimeInZoneColumn(s1)), metric(values, NormalizedDistanceColumn(s1))
		t2, d2 := metric(values, TimeInZoneColumn(s2)), metric(values, NormalizedDistanceColumn(s2))

		values[ColumnTimeSIRTypeA] = Ratio(t2, t1)
		values[ColumnTimeSIRTypeB] = ShareRatio(t1, t2)
		values[ColumnDistanceSIRTypeA] = Ratio(d2, d1)
		values[ColumnDistanceSIRTypeB] = ShareRatio(d1, d2)

		conditions := make(map[string]string, len(rec.Conditions))
		for k, v := range rec.Conditions {
			conditions[k] = v
		}

		t.rows = append(t.rows, Row{AnimalID: rec.AnimalID, Values: values, Conditions: conditions})
	}

	return t
}

func metric(values map[string]float64, column string) float64 {
	if v, ok := values[column]; ok {
		return v
	}
	return math.NaN()
}

func conditionNames(records []*AnimalRecord) []string {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range records {
		for k := range rec.Conditions {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Columns returns the header in output order.
func (t *ResultTable) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of animals.
func (t *ResultTable) Len() int {
	return len(t.rows)
}

// Rows returns the rows in first-seen order.
func (t *ResultTable) Rows() []Row {
	return append([]Row(nil), t.rows...)
}

// Value returns a numeric cell. Missing cells are reported as NaN with ok=false.
func (t *ResultTable) Value(animalID, column string) (float64, bool) {
	for _, r := range t.rows {
		if r.AnimalID != animalID {
			continue
		}
		v, ok := r.Values[column]
		if !ok {
			return math.NaN(), false
		}
		return v, true
	}
	return math.NaN(), false
}

// Records formats the table as string records, header first.
// NaN and missing values are empty cells.
func (t *ResultTable) Records() [][]string {
	conditional := make(map[string]bool, len(t.conditionColumns))
	for _, c := range t.conditionColumns {
		conditional[c] = true
	}

	out := make([][]string, 0, len(t.rows)+1)
	out = append(out, t.Columns())
	for _, r := range t.rows {
		record := make([]string, len(t.columns))
		for i, col := range t.columns {
			switch {
			case col == ColumnAnimalID:
				record[i] = r.AnimalID
			case conditional[col]:
				record[i] = r.Conditions[col]
			default:
				record[i] = FormatValue(metric(r.Values, col))
			}
		}
		out = append(out, record)
	}
	return out
}

// FormatValue renders a metric with the shortest exact representation.
// NaN renders as an empty string.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes the table as UTF-8 CSV with a byte order mark.
func (t *ResultTable) WriteCSV(w io.Writer) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
