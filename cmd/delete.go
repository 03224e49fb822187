package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/model"
)

var deleteDate string

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entry by id (or unique id prefix)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().StringVar(&deleteDate, "date", "", "Day of the entry (YYYY-MM-DD); defaults to today")
}

func runDelete(cmd *cobra.Command, args []string) error {
	day := env.now().In(env.loc)
	if deleteDate != "" {
		d, err := parseDate(deleteDate)
		if err != nil {
			return err
		}
		day = d
	}

	entries, err := env.store.LoadRange(day, day)
	if err != nil {
		return ioError(err)
	}
	var matches []model.TimeEntry
	for _, e := range entries {
		if strings.HasPrefix(e.ID, args[0]) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return userError("no entry %q on %s", args[0], day.Format("2006-01-02"))
	case 1:
	default:
		return userError("id prefix %q is ambiguous (%d entries)", args[0], len(matches))
	}

	if err := env.store.Delete(matches[0].ID, matches[0].Start); err != nil {
		return ioError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry at %q [%s]\n", matches[0].Location, shortID(matches[0].ID))
	return nil
}
