package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/compensation"
	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
	"github.com/Tiliavir/worktime/internal/timesheet"
)

var (
	listToday bool
	listWeek  bool
	listDate  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List time entries with their credited time",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show today's entries")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's entries")
	listCmd.Flags().StringVar(&listDate, "date", "", "Show entries of a specific date (YYYY-MM-DD)")
}

func runList(cmd *cobra.Command, args []string) error {
	now := env.now().In(env.loc)

	var from, to time.Time
	switch {
	case listDate != "":
		d, err := parseDate(listDate)
		if err != nil {
			return err
		}
		from, to = d, d
	case listWeek:
		from, to = timecalc.WeekRange(now)
	default:
		// Default to today (covers --today and the bare command).
		from, to = now, now
	}

	entries, err := env.store.LoadRange(from, to)
	if err != nil {
		return ioError(err)
	}

	printList(cmd.OutOrStdout(), entries, env.settings, now)
	return nil
}

// printList groups entries by date and prints their cards with a day total.
func printList(out io.Writer, entries []model.TimeEntry, settings model.EffectiveSettings, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries found.")
		return
	}

	order, byDay := groupByDay(entries, now.Location())
	for _, day := range order {
		dayEntries := byDay[day]
		fmt.Fprintln(out, day)
		printCards(out, timesheet.Cards(dayEntries, settings, now))
		total := compensation.DayCompensatedMinutes(dayEntries, &settings)
		fmt.Fprintf(out, "  %-36s %s\n", "Total", timecalc.FormatMinutesHHMMSS(total))
	}
}

// groupByDay buckets entries by their calendar day in loc, in first-seen order.
func groupByDay(entries []model.TimeEntry, loc *time.Location) ([]string, map[string][]model.TimeEntry) {
	var order []string
	byDay := map[string][]model.TimeEntry{}
	for _, e := range entries {
		day := timecalc.DayKey(e.Start.In(loc))
		if _, seen := byDay[day]; !seen {
			order = append(order, day)
		}
		byDay[day] = append(byDay[day], e)
	}
	return order, byDay
}

func printCards(out io.Writer, cards []timesheet.Card) {
	for _, c := range cards {
		span := "(duration)"
		switch {
		case c.Open:
			span = c.Start + "–ongoing"
		case c.Start != "":
			span = c.Start + "–" + c.End
		}
		line := fmt.Sprintf("  %-13s %-22s %s", span, c.Location, c.Compensated)
		if c.Open {
			line += fmt.Sprintf("  (running %s)", c.Elapsed)
		}
		fmt.Fprintf(out, "%s  [%s]\n", line, shortID(c.ID))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, env.loc)
	if err != nil {
		return time.Time{}, userError("invalid date %q, want YYYY-MM-DD", s)
	}
	return d, nil
}
