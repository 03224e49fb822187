package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/compensation"
	"github.com/Tiliavir/worktime/internal/suggest"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

var (
	stopPause     float64
	stopDriver    float64
	stopPassenger float64
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the currently running timer",
	Long: `Stop the running timer. Without --pause a pause is suggested from the
day's length (30 minutes above 6 hours, 45 above 9 hours, travel included).`,
	Args: cobra.NoArgs,
	RunE: runStop,
}

func init() {
	stopCmd.Flags().Float64Var(&stopPause, "pause", 0, "Pause in minutes")
	stopCmd.Flags().Float64Var(&stopDriver, "driver", 0, "Hours spent driving")
	stopCmd.Flags().Float64Var(&stopPassenger, "passenger", 0, "Hours spent as passenger")
}

func runStop(cmd *cobra.Command, args []string) error {
	now := env.now().In(env.loc)

	active, err := env.store.FindActive(now)
	if err != nil {
		return ioError(err)
	}
	if active == nil {
		return userError("no active timer to stop")
	}
	if stopPause < 0 || stopDriver < 0 || stopPassenger < 0 {
		return userError("--pause, --driver and --passenger must not be negative")
	}

	entry := *active
	entry.DriverTimeHours = stopDriver
	entry.PassengerTimeHours = stopPassenger
	entry.PauseMinutes = stopPause
	if !cmd.Flags().Changed("pause") {
		if minutes, ok := suggest.SuggestPause(entry.Start, now, suggest.TravelMinutes(stopDriver, stopPassenger)); ok {
			entry.PauseMinutes = float64(minutes)
			fmt.Fprintf(cmd.OutOrStdout(), "Applied suggested pause of %d minutes (override with --pause).\n", minutes)
		}
	}

	segments := splitAtMidnight(entry, now)
	for _, s := range segments {
		if err := env.store.Save(s); err != nil {
			return ioError(err)
		}
	}

	var credited float64
	for _, s := range segments {
		credited += compensation.EntryMinutes(s, env.settings)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stopped timer at %q. Elapsed: %s, credited: %s\n",
		active.Location, elapsedSince(active.Start, now), timecalc.FormatMinutesHHMMSS(credited))
	if len(segments) > 1 {
		fmt.Fprintf(cmd.OutOrStdout(), "Split across %d days at midnight.\n", len(segments))
	}
	return nil
}

// elapsedSince is the running time of a timer started at start.
func elapsedSince(start, now time.Time) string {
	return timecalc.FormatDurationHHMMSS(int64(now.Sub(start).Seconds()))
}
