// Package export writes prediction history records in portable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/pitwall/core/history"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{
	"timestamp", "request_id", "track", "year", "driver",
	"total_pit_stops", "pit_stop_laps", "tires", "lap_regressions", "duration_ms", "error",
}

// WriteJSON writes the records to w as a JSON array.
func WriteJSON(w io.Writer, records []history.Record) error {
	if records == nil {
		records = []history.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteCSV writes one row per record. Laps and tires are joined with ';'.
func WriteCSV(w io.Writer, records []history.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		var stops, laps, tires string
		if r.Plan != nil {
			stops = strconv.Itoa(r.Plan.TotalPitStops)
			lapStr := make([]string, len(r.Plan.PitStopLaps))
			for i, l := range r.Plan.PitStopLaps {
				lapStr[i] = strconv.Itoa(l)
			}
			laps = strings.Join(lapStr, ";")
			tireStr := make([]string, len(r.Plan.TireStrategy))
			for i, st := range r.Plan.TireStrategy {
				tireStr[i] = st.Tire
			}
			tires = strings.Join(tireStr, ";")
		}
		rec := []string{
			r.Timestamp.UTC().Format(time.RFC3339Nano),
			r.RequestID,
			r.Context.Track,
			strconv.Itoa(r.Context.Year),
			r.Context.Driver,
			stops,
			laps,
			tires,
			strconv.Itoa(r.LapRegressions),
			strconv.FormatFloat(r.DurationMS, 'f', -1, 64),
			r.Error,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
