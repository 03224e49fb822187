package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/compensation"
	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/suggest"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

var (
	addLocation  string
	addDate      string
	addStart     string
	addEnd       string
	addMinutes   float64
	addPause     float64
	addDriver    float64
	addPassenger float64
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a finished entry",
	Long: fmt.Sprintf(`Log an interval (--start/--end) or a raw duration (--minutes).

Sick leave, PTO, bank holidays and time off in lieu are logged with
--location %s. Without times they
are credited with the configured default work hours.

Without --pause an interval gets the suggested pause for its length.`, strings.Join(model.SpecialLocations, "|")),
	Example: `  wt add --location Office --start 08:00 --end 17:00
  wt add --location "Client site" --date 2026-03-02 --start 07:30 --end 18:00 --driver 1.5
  wt add --location PTO --date 2026-03-06`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addLocation, "location", "l", "", "Location or special location key (required)")
	addCmd.Flags().StringVar(&addDate, "date", "", "Day of the entry (YYYY-MM-DD); defaults to today")
	addCmd.Flags().StringVar(&addStart, "start", "", "Start time (HH:mm)")
	addCmd.Flags().StringVar(&addEnd, "end", "", "End time (HH:mm)")
	addCmd.Flags().Float64Var(&addMinutes, "minutes", 0, "Log a duration in minutes instead of start/end")
	addCmd.Flags().Float64Var(&addPause, "pause", 0, "Pause in minutes")
	addCmd.Flags().Float64Var(&addDriver, "driver", 0, "Hours spent driving")
	addCmd.Flags().Float64Var(&addPassenger, "passenger", 0, "Hours spent as passenger")
}

func runAdd(cmd *cobra.Command, args []string) error {
	day := env.now().In(env.loc)
	if addDate != "" {
		d, err := parseDate(addDate)
		if err != nil {
			return err
		}
		day = d
	}

	entry, suggested, err := buildEntry(entryInput{
		Location:       addLocation,
		Day:            day,
		Start:          addStart,
		End:            addEnd,
		Minutes:        addMinutes,
		HasMinutes:     cmd.Flags().Changed("minutes"),
		Pause:          addPause,
		HasPause:       cmd.Flags().Changed("pause"),
		Driver:         addDriver,
		Passenger:      addPassenger,
		DefaultMinutes: env.settings.DefaultWorkHours * 60,
	})
	if err != nil {
		return err
	}
	if err := env.store.Save(entry); err != nil {
		return ioError(err)
	}

	out := cmd.OutOrStdout()
	if suggested {
		fmt.Fprintf(out, "Applied suggested pause of %.0f minutes (override with --pause).\n", entry.PauseMinutes)
	}
	fmt.Fprintf(out, "Added %s entry at %q on %s, credited %s [%s]\n",
		kind(entry), entry.Location, timecalc.DayKey(entry.Start),
		timecalc.FormatMinutesHHMMSS(compensation.EntryMinutes(entry, env.settings)), shortID(entry.ID))
	return nil
}

// entryInput is the raw entry form.
type entryInput struct {
	Location          string
	Day               time.Time
	Start, End        string
	Minutes           float64
	HasMinutes        bool
	Pause             float64
	HasPause          bool
	Driver, Passenger float64
	// DefaultMinutes credits special locations logged without times.
	DefaultMinutes float64
}

// buildEntry validates the form and builds the entry. It reports whether the
// pause was filled in from the suggestion.
func buildEntry(in entryInput) (model.TimeEntry, bool, error) {
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return model.TimeEntry{}, false, userError("--location is required")
	}
	if in.Minutes < 0 || in.Pause < 0 || in.Driver < 0 || in.Passenger < 0 {
		return model.TimeEntry{}, false, userError("--minutes, --pause, --driver and --passenger must not be negative")
	}
	special := model.IsSpecialLocation(location)
	hasTimes := in.Start != "" || in.End != ""

	switch {
	case hasTimes && in.HasMinutes:
		return model.TimeEntry{}, false, userError("use either --start/--end or --minutes, not both")

	case hasTimes:
		start, err := timecalc.ParseTimeString(in.Start, in.Day)
		if err != nil {
			return model.TimeEntry{}, false, userError("--start: %w", err)
		}
		end, err := timecalc.ParseTimeString(in.End, in.Day)
		if err != nil {
			return model.TimeEntry{}, false, userError("--end: %w", err)
		}
		if !end.After(start) {
			return model.TimeEntry{}, false, userError("--end %s must be after --start %s", in.End, in.Start)
		}
		entry := model.TimeEntry{
			ID:       model.NewEntryID(),
			Location: location,
			Start:    start,
			End:      &end,
			Source:   "manual",
		}
		if special {
			return entry, false, nil
		}
		entry.DriverTimeHours = in.Driver
		entry.PassengerTimeHours = in.Passenger
		entry.PauseMinutes = in.Pause
		if !in.HasPause {
			if minutes, ok := suggest.SuggestPause(start, end, suggest.TravelMinutes(in.Driver, in.Passenger)); ok {
				entry.PauseMinutes = float64(minutes)
				return entry, true, nil
			}
		}
		return entry, false, nil

	case in.HasMinutes:
		return model.NewDurationEntry(location, in.Day, in.Minutes), false, nil

	case special:
		return model.NewDurationEntry(location, in.Day, in.DefaultMinutes), false, nil

	default:
		return model.TimeEntry{}, false, userError("--start and --end (or --minutes) are required for %q", location)
	}
}

func kind(e model.TimeEntry) string {
	if e.IsDurationOnly() {
		return "duration"
	}
	return "interval"
}
