package bmslog

// Normalize derives ElapsedHours for every record relative to the first record's timestamp.
//
// Timestamps are not required to be sorted. A record earlier than the first one gets a negative
// elapsed value; backwards steps are counted and reported as a warning rather than rejected.
func Normalize(t *LogTable) (*NormalizedTable, error) {
	if t.Len() == 0 {
		src := ""
		if t != nil {
			src = t.Source
		}
		return nil, &EmptyDataError{Path: src}
	}
	cols := make([]string, 0, len(t.Columns)+1)
	cols = append(cols, t.Columns...)
	if !hasColumn(cols, ColElapsedHours) {
		cols = append(cols, ColElapsedHours)
	}
	out := &NormalizedTable{
		Source:  t.Source,
		Columns: cols,
		Records: make([]NormalizedRecord, len(t.Records)),
	}
	anchor := t.Records[0].Timestamp
	for i, r := range t.Records {
		out.Records[i] = NormalizedRecord{
			LogRecord:    r,
			ElapsedHours: r.Timestamp.Sub(anchor).Seconds() / 3600,
		}
		if i > 0 && r.Timestamp.Before(t.Records[i-1].Timestamp) {
			out.backwardSteps++
		}
	}
	if out.backwardSteps > 0 {
		Warnf("%s: timestamps go backwards %d times; elapsed hours are not monotonic", t.Source, out.backwardSteps)
	}
	return out, nil
}

// Load parses the file at path and normalizes it.
func Load(path string, opts Options) (*NormalizedTable, error) {
	table, err := ParseFile(path, opts)
	if err != nil {
		return nil, err
	}
	return Normalize(table)
}
