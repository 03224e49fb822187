package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/msgraph"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

var (
	outlookSyncFrom     string
	outlookSyncTo       string
	outlookSyncDate     string
	outlookSyncDryRun   bool
	outlookSyncLocation string
	outlookSyncTZ       string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Outlook calendar events as entries",
	Long: `Import Outlook calendar events as entries.

Timed events are logged at their location (or the default location).
Out-of-office events become PTO; all-day out-of-office events are credited
with the default work hours per weekday. Cancelled, private, free and other
all-day events are skipped. Re-running a sync updates instead of duplicating.`,
	Args: cobra.NoArgs,
	RunE: runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD); default today")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncLocation, "location", "", "Location for events without one (default from config)")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (default from config)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncRange resolves the --date/--from/--to flags into [from, to].
func syncRange(now time.Time) (time.Time, time.Time, error) {
	switch {
	case outlookSyncDate != "":
		d, err := parseDate(outlookSyncDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return timecalc.StartOfDay(d), timecalc.EndOfDay(d), nil

	case outlookSyncFrom != "" || outlookSyncTo != "":
		if outlookSyncFrom == "" {
			return time.Time{}, time.Time{}, userError("--from is required when --to is specified")
		}
		from, err := parseDate(outlookSyncFrom)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to := now
		if outlookSyncTo != "" {
			if to, err = parseDate(outlookSyncTo); err != nil {
				return time.Time{}, time.Time{}, err
			}
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, userError("--to must not be before --from")
		}
		return timecalc.StartOfDay(from), timecalc.EndOfDay(to), nil

	default:
		return timecalc.StartOfDay(now), timecalc.EndOfDay(now), nil
	}
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	from, to, err := syncRange(env.now().In(env.loc))
	if err != nil {
		return err
	}

	oc := env.cfg.Outlook
	timezone := oc.Timezone
	if outlookSyncTZ != "" {
		timezone = outlookSyncTZ
	}
	location := oc.DefaultLocation
	if outlookSyncLocation != "" {
		location = outlookSyncLocation
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Fprintf(out, "Syncing Outlook events (%s → %s)%s...\n\n",
		from.Format("2006-01-02"), to.Format("2006-01-02"), dryTag)

	ctx := context.Background()

	tokens, err := msgraph.DefaultTokenStore(env.logger)
	if err != nil {
		return ioError(err)
	}
	tok, oauthCfg, err := tokens.Authenticate(ctx, oc.TenantID, oc.ClientID, out)
	if err != nil {
		return userError("authentication failed: %w", err)
	}
	client := msgraph.NewClient(ctx, tok, oauthCfg, tokens)

	events, err := client.GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		return userError("failed to fetch calendar events: %w", err)
	}

	result, err := msgraph.SyncEvents(env.store, events, msgraph.SyncOptions{
		MapOptions: msgraph.MapOptions{
			Timezone:         timezone,
			DefaultLocation:  location,
			DefaultWorkHours: env.settings.DefaultWorkHours,
		},
		DryRun: outlookSyncDryRun,
		Out:    out,
	}, env.logger)
	if err != nil {
		return ioError(err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  %d imported\n", result.Imported)
	fmt.Fprintf(out, "  %d skipped\n", result.Skipped)
	fmt.Fprintf(out, "  %d updated\n", result.Updated)
	if result.Errors > 0 {
		fmt.Fprintf(out, "  %d errors\n", result.Errors)
		return ioError(fmt.Errorf("%d events could not be synced", result.Errors))
	}
	return nil
}
