package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/compensation"
	"github.com/Tiliavir/worktime/internal/timecalc"
	"github.com/Tiliavir/worktime/internal/timesheet"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer and today's credited time",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	now := env.now().In(env.loc)

	active, err := env.store.FindActive(now)
	if err != nil {
		return ioError(err)
	}
	if active != nil {
		fmt.Fprintln(out, "Running:")
		fmt.Fprintf(out, "  Location: %s\n", active.Location)
		fmt.Fprintf(out, "  Since: %s\n", active.Start.In(env.loc).Format("15:04"))
		fmt.Fprintf(out, "  Elapsed: %s\n", elapsedSince(active.Start, now))
	} else {
		fmt.Fprintln(out, "No active timer.")
	}

	entries, err := env.store.LoadRange(now, now)
	if err != nil {
		return ioError(err)
	}
	cards := timesheet.Cards(entries, env.settings, now)
	if len(cards) > 0 {
		fmt.Fprintln(out)
		printCards(out, cards)
	}
	total := compensation.DayCompensatedMinutes(entries, &env.settings)
	fmt.Fprintf(out, "Today: %s credited.\n", timecalc.FormatMinutesHHMMSS(total))
	return nil
}
