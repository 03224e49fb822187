package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/timecalc"
	"github.com/Tiliavir/worktime/internal/timesheet"
)

var reportMonth string

var (
	aheadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	behindStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Preview the monthly timesheet",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "Month to report (YYYY-MM); defaults to the current month")
}

func runReport(cmd *cobra.Command, args []string) error {
	month, err := monthFlag(reportMonth)
	if err != nil {
		return err
	}

	ts, err := timesheet.ForMonth(env.store, month, env.loc, &env.settings)
	if err != nil {
		return ioError(err)
	}

	if err := timesheet.WritePreview(cmd.OutOrStdout(), ts, timesheet.PreviewOptions{StyleOvertime: styleOvertime}); err != nil {
		return ioError(err)
	}
	return nil
}

// styleOvertime renders hours ahead of target as affirmative and hours behind as a warning.
func styleOvertime(text string, overtime float64) string {
	if overtime < 0 {
		return behindStyle.Render(text)
	}
	return aheadStyle.Render(text)
}

func monthFlag(s string) (timecalc.Month, error) {
	if s == "" {
		return timecalc.MonthOf(env.now().In(env.loc)), nil
	}
	m, err := timecalc.ParseMonth(s)
	if err != nil {
		return timecalc.Month{}, userError("invalid month %q, want YYYY-MM", s)
	}
	return m, nil
}
