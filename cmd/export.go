package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/timesheet"
)

var (
	exportFormat string
	exportMonth  string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the monthly timesheet",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Month to export (YYYY-MM); defaults to the current month")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	var write func(io.Writer, timesheet.Timesheet) error
	switch exportFormat {
	case "csv":
		write = timesheet.WriteCSV
	case "json":
		write = timesheet.WriteJSON
	default:
		return userError("unknown format %q (want csv or json)", exportFormat)
	}

	month, err := monthFlag(exportMonth)
	if err != nil {
		return err
	}
	ts, err := timesheet.ForMonth(env.store, month, env.loc, &env.settings)
	if err != nil {
		return ioError(err)
	}

	if exportOutput == "" {
		if err := write(cmd.OutOrStdout(), ts); err != nil {
			return ioError(err)
		}
		return nil
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return ioError(err)
	}
	if err := write(f, ts); err != nil {
		f.Close()
		return ioError(err)
	}
	if err := f.Close(); err != nil {
		return ioError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s timesheet for %s to %s\n", exportFormat, month, exportOutput)
	return nil
}
