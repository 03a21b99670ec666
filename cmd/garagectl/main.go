// Command garagectl runs one garage dashboard operation per invocation
// against the configured Gateway and local cache.
//
// Usage:
//
//	garagectl customers list
//	garagectl customers add --name Somchai --surname Jaidee ...
//	garagectl report --from 2024-05-01 --to 2024-06-01
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/advcompro/garage-dashboard/internal/app"
	"github.com/advcompro/garage-dashboard/internal/config"
	"github.com/advcompro/garage-dashboard/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	jsonOutput bool
	verbose    bool
	assumeYes  bool
	timeout    time.Duration

	// Set up in PersistentPreRunE
	log         *zap.Logger
	application *app.App

	// stdin for confirmation prompts
	stdin io.Reader = os.Stdin
)

var rootCmd = &cobra.Command{
	Use:   "garagectl",
	Short: "garagectl - repair shop customers, mechanics and reports",
	Long: `garagectl manages the repair shop records held by the Gateway.

Every command first restores the last known state from the local cache,
then performs a single operation and saves the result back.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if application != nil {
			return nil
		}

		log = logger.NewCLILogger(verbose)

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		// The CLI never serves metrics
		cfg.Metrics.Enabled = false

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		application, err = app.New(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			if err := application.Close(); err != nil && log != nil {
				log.Warn("Failed to close application", zap.Error(err))
			}
			application = nil
		}
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for opening the cache and hydrating")

	customerAddCmd.Flags().StringVar(&customerForm.Name, "name", "", "Customer first name (required)")
	customerAddCmd.Flags().StringVar(&customerForm.Surname, "surname", "", "Customer surname (required)")
	customerAddCmd.Flags().StringVar(&customerForm.Tel, "tel", "", "Phone number (required)")
	customerAddCmd.Flags().StringVar(&customerForm.LicensePlate, "plate", "", "License plate (required)")
	customerAddCmd.Flags().StringVar(&customerForm.Brand, "brand", "", "Car brand (required)")
	customerAddCmd.Flags().StringVar(&customerForm.Model, "model", "", "Car model (required)")
	customerAddCmd.Flags().StringVar(&customerForm.Symptoms, "symptom", "", "Repair category (required)")
	customerAddCmd.Flags().StringVar(&customerCost, "cost", "", "Repair cost (required)")
	customerAddCmd.Flags().StringVar(&customerForm.Mechanic, "mechanic", "", "Assigned mechanic (required)")
	customerToggleCmd.Flags().BoolVar(&toggleByPosition, "at", false, "Treat the argument as a 0-based table position")

	mechanicAddCmd.Flags().StringVar(&mechanicForm.Name, "name", "", "Mechanic first name (required)")
	mechanicAddCmd.Flags().StringVar(&mechanicForm.Surname, "surname", "", "Mechanic surname (required)")
	mechanicAddCmd.Flags().StringVar(&mechanicForm.Tel, "tel", "", "Phone number (required)")

	reportCmd.Flags().StringVar(&reportFrom, "from", "", "Range start (RFC 3339 or YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "Range end (RFC 3339 or YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportSource, "source", "", "Where to compute the report (local or remote)")

	customersCmd.AddCommand(customerListCmd)
	customersCmd.AddCommand(customerAddCmd)
	customersCmd.AddCommand(customerDeleteCmd)
	customersCmd.AddCommand(customerToggleCmd)
	customersCmd.AddCommand(customerClearCmd)

	mechanicsCmd.AddCommand(mechanicListCmd)
	mechanicsCmd.AddCommand(mechanicAddCmd)
	mechanicsCmd.AddCommand(mechanicDeleteCmd)

	rootCmd.AddCommand(customersCmd)
	rootCmd.AddCommand(mechanicsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(dashboardCmd)
}

func main() {
	err := rootCmd.Execute()
	// PersistentPostRun is skipped when a command fails
	if application != nil {
		_ = application.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
