package bmslog

import (
	"testing"
	"time"
)

func TestLoad_ElapsedHoursScenario(t *testing.T) {
	body := "DateTime,Voltage,AvgCurrent,Temperature\n" +
		"2024-01-01 00:00:00,3700,150,25.0\n" +
		"2024-01-01 01:30:00,3650,140,26.0\n"
	nt, err := Load(writeLog(t, body), DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if nt.Len() != 2 {
		t.Fatalf("expected 2 rows got %d", nt.Len())
	}
	if nt.Records[0].ElapsedHours != 0.0 {
		t.Fatalf("first elapsed must be exactly 0, got %v", nt.Records[0].ElapsedHours)
	}
	if nt.Records[1].ElapsedHours != 1.5 {
		t.Fatalf("second elapsed = %v want 1.5", nt.Records[1].ElapsedHours)
	}
	r := nt.Records[0]
	if r.Voltage != 3700 || r.AvgCurrent != 150 || r.Temperature != 25.0 {
		t.Fatalf("original columns changed: %+v", r)
	}
	if !nt.HasColumn(ColElapsedHours) || !nt.HasColumn(ColTemperature) {
		t.Fatalf("columns = %v", nt.Columns)
	}
	if nt.Span() != 1.5 {
		t.Fatalf("span = %v", nt.Span())
	}
}

func TestNormalize_RowCountAndMonotonic(t *testing.T) {
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	steps := []time.Duration{0, 10 * time.Second, 10 * time.Second, 95 * time.Minute, 3*time.Hour + 7*time.Second}
	table := &LogTable{Source: "mem", Columns: append([]string(nil), RequiredColumns...)}
	for i, d := range steps {
		table.Records = append(table.Records, LogRecord{Timestamp: base.Add(d), Voltage: float64(4000 - i)})
	}
	nt, err := Normalize(table)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if nt.Len() != len(steps) {
		t.Fatalf("row count %d want %d", nt.Len(), len(steps))
	}
	hours := nt.Column(ColElapsedHours)
	if len(hours) != len(steps) || hours[0] != 0 {
		t.Fatalf("unexpected elapsed column %v", hours)
	}
	for i := 1; i < len(hours); i++ {
		if hours[i] < hours[i-1] {
			t.Fatalf("elapsed not monotonic at %d: %v", i, hours)
		}
	}
	if nt.BackwardSteps() != 0 {
		t.Fatalf("unexpected backward steps %d", nt.BackwardSteps())
	}
	if v := nt.Column(ColVoltage); v[4] != 3996 {
		t.Fatalf("voltage column = %v", v)
	}
	if nt.Column("Nope") != nil {
		t.Fatalf("unknown column should be nil")
	}
}

func TestNormalize_OutOfOrderAllowed(t *testing.T) {
	captureLog(t)
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	table := &LogTable{Columns: RequiredColumns, Records: []LogRecord{
		{Timestamp: base},
		{Timestamp: base.Add(-30 * time.Minute)},
		{Timestamp: base.Add(time.Hour)},
	}}
	nt, err := Normalize(table)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if nt.Records[1].ElapsedHours != -0.5 {
		t.Fatalf("expected -0.5 got %v", nt.Records[1].ElapsedHours)
	}
	if nt.BackwardSteps() != 1 {
		t.Fatalf("expected 1 backward step got %d", nt.BackwardSteps())
	}
}

func TestNormalize_Empty(t *testing.T) {
	if _, err := Normalize(&LogTable{Source: "x"}); !IsEmptyData(err) {
		t.Fatalf("expected EmptyDataError got %v", err)
	}
	if _, err := Normalize(nil); !IsEmptyData(err) {
		t.Fatalf("nil table: expected EmptyDataError got %v", err)
	}
}
