package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/suggest"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

// historyDays is how far back suggestions look.
const historyDays = 90

var (
	suggestLimit     int
	suggestRecent    bool
	suggestFilter    string
	suggestLocation  string
	suggestWeekday   int
	suggestStart     string
	suggestEnd       string
	suggestDriver    float64
	suggestPassenger float64
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest locations, times and pauses from your history",
}

var suggestLocationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Most used locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := loadHistory()
		if err != nil {
			return err
		}
		printSuggestions(cmd.OutOrStdout(), suggest.SuggestLocations(history, suggest.LocationOptions{
			Limit:       suggestLimit,
			RecentFirst: suggestRecent,
			FilterText:  suggestFilter,
		}))
		return nil
	},
}

var suggestStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Usual start times",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuggestTimes(cmd, suggest.SuggestStartTimes)
	},
}

var suggestEndCmd = &cobra.Command{
	Use:   "end",
	Short: "Usual end times",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuggestTimes(cmd, suggest.SuggestEndTimes)
	},
}

var suggestPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Suggested pause for a planned day",
	Args:  cobra.NoArgs,
	RunE:  runSuggestPause,
}

func init() {
	suggestLocationsCmd.Flags().IntVar(&suggestLimit, "limit", 0, "Maximum number of suggestions")
	suggestLocationsCmd.Flags().BoolVar(&suggestRecent, "recent", false, "Rank by last use only")
	suggestLocationsCmd.Flags().StringVar(&suggestFilter, "filter", "", "Only locations containing this text")

	for _, c := range []*cobra.Command{suggestStartCmd, suggestEndCmd} {
		c.Flags().IntVar(&suggestLimit, "limit", 0, "Maximum number of suggestions")
		c.Flags().StringVar(&suggestLocation, "location", "", "Only entries at this location")
		c.Flags().IntVar(&suggestWeekday, "weekday", -1, "Only entries on this weekday (0=Sunday … 6=Saturday)")
	}

	suggestPauseCmd.Flags().StringVar(&suggestStart, "start", "", "Start time (HH:mm)")
	suggestPauseCmd.Flags().StringVar(&suggestEnd, "end", "", "End time (HH:mm)")
	suggestPauseCmd.Flags().Float64Var(&suggestDriver, "driver", 0, "Hours spent driving")
	suggestPauseCmd.Flags().Float64Var(&suggestPassenger, "passenger", 0, "Hours spent as passenger")

	suggestCmd.AddCommand(suggestLocationsCmd, suggestStartCmd, suggestEndCmd, suggestPauseCmd)
}

func runSuggestTimes(cmd *cobra.Command, rank func([]model.TimeEntry, suggest.TimeOptions) []string) error {
	opts := suggest.TimeOptions{Location: suggestLocation, Limit: suggestLimit}
	if suggestWeekday >= 0 {
		if suggestWeekday > 6 {
			return userError("--weekday must be 0 (Sunday) to 6 (Saturday)")
		}
		wd := time.Weekday(suggestWeekday)
		opts.DayOfWeek = &wd
	}
	history, err := loadHistory()
	if err != nil {
		return err
	}
	printSuggestions(cmd.OutOrStdout(), rank(history, opts))
	return nil
}

func runSuggestPause(cmd *cobra.Command, args []string) error {
	base := env.now().In(env.loc)
	start, err := timecalc.ParseTimeString(suggestStart, base)
	if err != nil {
		return userError("--start: %w", err)
	}
	end, err := timecalc.ParseTimeString(suggestEnd, base)
	if err != nil {
		return userError("--end: %w", err)
	}
	minutes, ok := suggest.SuggestPause(start, end, suggest.TravelMinutes(suggestDriver, suggestPassenger))
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No pause needed.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d minutes\n", minutes)
	return nil
}

func loadHistory() ([]model.TimeEntry, error) {
	now := env.now().In(env.loc)
	entries, err := env.store.LoadRange(now.AddDate(0, 0, -historyDays), now)
	if err != nil {
		return nil, ioError(err)
	}
	return entries, nil
}

func printSuggestions(out io.Writer, values []string) {
	if len(values) == 0 {
		fmt.Fprintln(out, "No suggestions yet.")
		return
	}
	for i, v := range values {
		fmt.Fprintf(out, "%d. %s\n", i+1, v)
	}
}
