package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

var startCmd = &cobra.Command{
	Use:   "start <location>",
	Short: "Start a live timer at a location",
	Args:  cobra.ExactArgs(1),
	RunE:  runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	location := strings.TrimSpace(args[0])
	if location == "" {
		return userError("location must not be empty")
	}
	if model.IsSpecialLocation(location) {
		return userError("%s is logged per day with `wt add --location %s`, not timed", location, location)
	}
	now := env.now().In(env.loc)

	// Check for an existing active timer and auto-stop it.
	active, err := env.store.FindActive(now)
	if err != nil {
		return ioError(err)
	}
	if active != nil {
		env.logger.Warn("auto-stopping active timer", zap.String("location", active.Location))
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: auto-stopping active timer at %q\n", active.Location)
		if err := stopEntry(*active, now); err != nil {
			return ioError(err)
		}
	}

	entry := model.TimeEntry{
		ID:       model.NewEntryID(),
		Location: location,
		Start:    now,
		Source:   "manual",
	}
	// Midnight crossover is handled at stop time.
	if err := env.store.Save(entry); err != nil {
		return ioError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Started timer at %q at %s\n", location, now.Format("15:04:05"))
	return nil
}

// stopEntry closes an entry at stopTime, splitting it at every midnight it spans.
func stopEntry(entry model.TimeEntry, stopTime time.Time) error {
	for _, segment := range splitAtMidnight(entry, stopTime) {
		if err := env.store.Save(segment); err != nil {
			return err
		}
	}
	return nil
}

// splitAtMidnight closes entry at stop. A timer running past midnight becomes
// one entry per calendar day so every day is credited with its own share.
func splitAtMidnight(entry model.TimeEntry, stop time.Time) []model.TimeEntry {
	var out []model.TimeEntry
	current := entry
	for !timecalc.SameDay(current.Start, stop) && current.Start.Before(stop) {
		midnight := timecalc.StartOfDay(current.Start).AddDate(0, 0, 1)
		end := midnight
		current.End = &end
		out = append(out, current)

		current = model.TimeEntry{
			ID:       model.NewEntryID(),
			UserID:   entry.UserID,
			Location: entry.Location,
			Start:    midnight,
			Source:   entry.Source,
		}
	}
	end := stop
	current.End = &end
	return append(out, current)
}
