package timesheet

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Tiliavir/worktime/internal/compensation"
	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

const rule = "--------------------------------------------------"

// PreviewOptions customises WritePreview.
type PreviewOptions struct {
	// StyleOvertime decorates the rendered overtime figure; nil leaves it plain.
	StyleOvertime func(text string, overtime float64) string
}

// WritePreview renders the on-screen timesheet preview. Weeks without content
// are omitted; the totals are unaffected.
func WritePreview(w io.Writer, ts Timesheet, opts PreviewOptions) error {
	var sb strings.Builder
	f := ts.Figures()

	fmt.Fprintf(&sb, "Timesheet %s\n", f.Month)
	sb.WriteString(rule + "\n")
	for _, week := range ts.VisibleWeeks() {
		fmt.Fprintf(&sb, "%s  (%s – %s)\n", week.Label, week.Monday.Format("Jan 02"), week.Sunday.Format("Jan 02"))
		for _, day := range week.Days {
			for _, row := range day.Rows {
				fmt.Fprintf(&sb, "  %s  %-22s %-13s %8s\n",
					day.Date.Format("Mon 02"),
					truncate(row.Entry.Location, 22),
					span(row.Entry),
					compensation.FormatHours(row.CompensatedMinutes/60))
			}
		}
		fmt.Fprintf(&sb, "  %-42s %8s\n", "Week total", compensation.FormatHours(week.Hours))
	}
	sb.WriteString(rule + "\n")

	overtime := f.Overtime
	if opts.StyleOvertime != nil {
		overtime = opts.StyleOvertime(overtime, ts.Summary.Overtime)
	}
	fmt.Fprintf(&sb, "%-28s %20s\n", "Total hours", f.TotalHours)
	fmt.Fprintf(&sb, "%-28s %20s\n", "Passenger hours (converted)", f.ConvertedPassengerHours)
	fmt.Fprintf(&sb, "%-28s %20s\n", "Total after conversion", f.TotalAfterConversion)
	fmt.Fprintf(&sb, "%-28s %20s\n", "Expected hours", f.ExpectedHours)
	fmt.Fprintf(&sb, "%-28s %20s\n", "Overtime", overtime)

	_, err := io.WriteString(w, sb.String())
	return err
}

// CSVHeader is the header row of the exported entry table.
var CSVHeader = []string{
	"date", "location", "start", "end", "pause_minutes",
	"driver_hours", "passenger_hours", "compensated_hours",
}

// WriteCSV exports every in-month entry followed by the summary rows.
func WriteCSV(w io.Writer, ts Timesheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, week := range ts.Weeks {
		for _, day := range week.Days {
			for _, row := range day.Rows {
				e := row.Entry
				end := ""
				if e.End != nil {
					end = timecalc.FormatClock(*e.End)
				}
				start := timecalc.FormatClock(e.Start)
				if e.IsDurationOnly() {
					start = ""
				}
				record := []string{
					timecalc.DayKey(day.Date),
					e.Location,
					start,
					end,
					formatFloat(e.PauseMinutes),
					formatFloat(e.DriverTimeHours),
					formatFloat(e.PassengerTimeHours),
					compensation.FormatHours(row.CompensatedMinutes / 60),
				}
				if err := cw.Write(record); err != nil {
					return fmt.Errorf("writing csv row: %w", err)
				}
			}
		}
	}

	f := ts.Figures()
	summary := [][]string{
		{},
		{"total_hours", f.TotalHours},
		{"raw_passenger_hours", f.RawPassengerHours},
		{"converted_passenger_hours", f.ConvertedPassengerHours},
		{"total_after_conversion", f.TotalAfterConversion},
		{"expected_hours", f.ExpectedHours},
		{"overtime", f.Overtime},
	}
	if err := cw.WriteAll(summary); err != nil {
		return fmt.Errorf("writing csv summary: %w", err)
	}
	return nil
}

// Document is the JSON form of a timesheet.
type Document struct {
	Figures Figures `json:"figures"`
	Weeks   []Week  `json:"weeks"`
}

// NewDocument wraps ts for JSON encoding.
func NewDocument(ts Timesheet) Document {
	return Document{Figures: ts.Figures(), Weeks: ts.Weeks}
}

// WriteJSON exports the timesheet as indented JSON.
func WriteJSON(w io.Writer, ts Timesheet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(ts)); err != nil {
		return fmt.Errorf("encoding timesheet: %w", err)
	}
	return nil
}

func span(e model.TimeEntry) string {
	switch {
	case e.IsDurationOnly():
		return "(duration)"
	case e.End == nil:
		return timecalc.FormatClock(e.Start) + "–ongoing"
	default:
		return timecalc.FormatClock(e.Start) + "–" + timecalc.FormatClock(*e.End)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
