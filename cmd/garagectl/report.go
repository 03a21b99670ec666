package main

import (
	"context"
	"fmt"
	"time"

	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/advcompro/garage-dashboard/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reportFrom   string
	reportTo     string
	reportSource string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Income and brand mix for a time range",
	Long: `Aggregates the customers registered strictly between --from and --to.
A missing or empty range prints an empty report. The result is cached.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the shop counters",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

func runReport(cmd *cobra.Command, args []string) error {
	start, err := parseTimeFlag("from", reportFrom)
	if err != nil {
		return err
	}
	end, err := parseTimeFlag("to", reportTo)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	source := domain.ReportSource(reportSource)
	if source != domain.ReportSourceRemote {
		ensureCustomers(ctx)
	}

	r, err := application.Reports.Generate(ctx, report.Interval{Start: start, End: end}, source)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), r)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Report %s to %s (%s)\n", formatBound(r.Start), formatBound(r.End), r.Source)
	fmt.Fprintf(out, "Cars: %d\nIncome: %s\n\n", r.TotalCars, r.TotalIncome.StringFixed(2))
	tw := newTable(out)
	fmt.Fprintln(tw, "BRAND\tCARS\tSHARE")
	for _, b := range r.CarBrands {
		fmt.Fprintf(tw, "%s\t%d\t%.2f%%\n", b.Name, b.Count, b.Percentage)
	}
	return tw.Flush()
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := application.Store.Refresh(ctx); err != nil {
		log.Warn("Failed to refresh, showing cached counters", zap.Error(err))
	}

	s := application.Reports.Dashboard(time.Now())
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), s)
	}

	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintf(tw, "Date\t%s\n", s.Date.Format(dateLayout))
	fmt.Fprintf(tw, "Cars\t%d\n", s.TotalCars)
	fmt.Fprintf(tw, "Income\t%s\n", s.TotalIncome.StringFixed(2))
	overloaded := ""
	if s.Overloaded {
		overloaded = " (overloaded)"
	}
	fmt.Fprintf(tw, "Fixing\t%d/%d%s\n", s.FixingCars, s.FixingCapacity, overloaded)
	fmt.Fprintf(tw, "Mechanics available\t%d/%d\n", s.AvailableMechanics, s.MechanicCapacity)
	return tw.Flush()
}
