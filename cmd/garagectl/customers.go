package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	customerForm     domain.CreateCustomerRequest
	customerCost     string
	toggleByPosition bool
)

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "List and manage registered cars",
}

var customerListCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch and print the customer table",
	Long: `Fetches the customer table from the Gateway and prints it. When the
Gateway cannot be reached the cached table is printed instead.`,
	Args: cobra.NoArgs,
	RunE: runCustomerList,
}

var customerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a car for repair",
	Args:  cobra.NoArgs,
	RunE:  runCustomerAdd,
}

var customerDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a customer at the Gateway",
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomerDelete,
}

var customerToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip the repair-complete mark of a customer",
	Long: `Flips the repair-complete mark of one customer. The mark is kept in the
local cache only. With --at the argument is the 0-based table position.`,
	Args: cobra.ExactArgs(1),
	RunE: runCustomerToggle,
}

var customerClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the local customer table",
	Long:  `Empties the local customer table and its cache. Nothing is deleted at the Gateway.`,
	Args:  cobra.NoArgs,
	RunE:  runCustomerClear,
}

func runCustomerList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := application.Store.LoadCustomers(ctx); err != nil {
		log.Warn("Failed to fetch customers, showing cached table", zap.Error(err))
	}
	customers, active := application.Store.CustomerTable()
	return printCustomers(cmd, customers, active)
}

func printCustomers(cmd *cobra.Command, customers []domain.Customer, active int) error {
	rows := make([]domain.CustomerDTO, len(customers))
	for i := range customers {
		rows[i] = domain.ToCustomerDTO(&customers[i], i)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), domain.CustomerListResponse{
			Data:          rows,
			Total:         len(rows),
			ActiveRepairs: active,
		})
	}

	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintln(tw, "#\tID\tCUSTOMER\tTEL\tCAR\tPLATE\tSYMPTOM\tCOST\tMECHANIC\tDONE")
	for _, r := range rows {
		done := ""
		if r.Checked {
			done = "yes"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Position, r.ID, r.CustomerName, r.Tel, r.Car, r.LicensePlate, r.Symptoms, r.Cost, r.Mechanic, done)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d customers, %d under repair\n", len(rows), active)
	return nil
}

func runCustomerAdd(cmd *cobra.Command, args []string) error {
	form := customerForm
	form.Cost = json.Number(customerCost)
	if err := validateForm(&form); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	added, err := application.Store.AddCustomer(ctx, form.ToCustomer(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to add customer: %w", err)
	}

	dto := domain.ToCustomerDTO(&added, positionOf(added.ID))
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), dto)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s) as customer %d\n", dto.CustomerName, dto.Car, dto.ID)
	return nil
}

func runCustomerDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id must be an integer", domain.ErrInvalidInput)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ensureCustomers(ctx)

	c, ok := application.Store.Customer(id)
	label := strconv.FormatInt(id, 10)
	if ok {
		label = fmt.Sprintf("%d (%s, %s)", id, c.Name.Display(), c.LicensePlate)
	}
	if !confirm(cmd, "Delete customer "+label+"?") {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
		return nil
	}

	if err := application.Store.DeleteCustomer(ctx, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]int64{"deleted": id})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted customer %d\n", id)
	return nil
}

func runCustomerToggle(cmd *cobra.Command, args []string) error {
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: argument must be an integer", domain.ErrInvalidInput)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ensureCustomers(ctx)

	var c domain.Customer
	if toggleByPosition {
		c, err = application.Store.ToggleCheckedAt(int(n))
	} else {
		c, err = application.Store.ToggleChecked(n)
	}
	if err != nil {
		return fmt.Errorf("failed to toggle customer: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), domain.ToCustomerDTO(&c, positionOf(c.ID)))
	}
	state := "under repair"
	if c.Checked {
		state = "done"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Customer %d (%s) marked %s\n", c.ID, c.LicensePlate, state)
	return nil
}

func runCustomerClear(cmd *cobra.Command, args []string) error {
	if !confirm(cmd, "Clear the local customer table?") {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
		return nil
	}
	application.Store.ReplaceAll(nil)
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]int{"total": 0})
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Customer table cleared")
	return nil
}

// ensureCustomers fetches the table when the cache held nothing
func ensureCustomers(ctx context.Context) {
	if len(application.Store.Customers()) > 0 {
		return
	}
	if err := application.Store.LoadCustomers(ctx); err != nil {
		log.Warn("Failed to fetch customers", zap.Error(err))
	}
}

func positionOf(id int64) int {
	for i, c := range application.Store.Customers() {
		if c.ID == id {
			return i
		}
	}
	return -1
}
