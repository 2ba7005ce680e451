// Package bmslog reads Battery Management Studio log exports and derives the elapsed-time axis
// used for plotting.
package bmslog

import "time"

// Column names of the log table.
const (
	ColDateTime     = "DateTime"
	ColVoltage      = "Voltage"
	ColAvgCurrent   = "AvgCurrent"
	ColTemperature  = "Temperature"
	ColElapsedHours = "ElapsedHours"
)

// RequiredColumns must be present in the header row, in any order.
var RequiredColumns = []string{ColDateTime, ColVoltage, ColAvgCurrent, ColTemperature}

// LogRecord is one parsed data row.
type LogRecord struct {
	Timestamp   time.Time
	Voltage     float64 // mV
	AvgCurrent  float64 // mA
	Temperature float64 // °C
}

// LogTable holds the records of one file in file order.
type LogTable struct {
	Source  string
	Columns []string
	Records []LogRecord
}

// Len returns the number of records.
func (t *LogTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// HasColumn reports whether the header row contained name.
func (t *LogTable) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	return hasColumn(t.Columns, name)
}

// NormalizedRecord is a LogRecord with its elapsed time since the first record.
type NormalizedRecord struct {
	LogRecord
	ElapsedHours float64
}

// NormalizedTable is a LogTable plus the derived ElapsedHours column.
type NormalizedTable struct {
	Source  string
	Columns []string
	Records []NormalizedRecord

	backwardSteps int
}

// Len returns the number of records.
func (t *NormalizedTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// HasColumn reports whether the table carries the named column.
func (t *NormalizedTable) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	return hasColumn(t.Columns, name)
}

// BackwardSteps counts records whose timestamp is earlier than the previous record's.
func (t *NormalizedTable) BackwardSteps() int {
	if t == nil {
		return 0
	}
	return t.backwardSteps
}

// Span returns the elapsed hours of the last record.
func (t *NormalizedTable) Span() float64 {
	if t.Len() == 0 {
		return 0
	}
	return t.Records[len(t.Records)-1].ElapsedHours
}

// Column returns the float values of a value column in row order, or nil for unknown names.
func (t *NormalizedTable) Column(name string) []float64 {
	if t == nil || !t.HasColumn(name) {
		return nil
	}
	var sel func(NormalizedRecord) float64
	switch name {
	case ColVoltage:
		sel = func(r NormalizedRecord) float64 { return r.Voltage }
	case ColAvgCurrent:
		sel = func(r NormalizedRecord) float64 { return r.AvgCurrent }
	case ColTemperature:
		sel = func(r NormalizedRecord) float64 { return r.Temperature }
	case ColElapsedHours:
		sel = func(r NormalizedRecord) float64 { return r.ElapsedHours }
	default:
		return nil
	}
	out := make([]float64, len(t.Records))
	for i, r := range t.Records {
		out[i] = sel(r)
	}
	return out
}

func hasColumn(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}
