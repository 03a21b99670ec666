package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mechanicForm domain.CreateMechanicRequest

var mechanicsCmd = &cobra.Command{
	Use:   "mechanics",
	Short: "List and manage workshop staff",
}

var mechanicListCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch and print the mechanics",
	Args:  cobra.NoArgs,
	RunE:  runMechanicList,
}

var mechanicAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a mechanic",
	Args:  cobra.NoArgs,
	RunE:  runMechanicAdd,
}

var mechanicDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a mechanic at the Gateway",
	Args:  cobra.ExactArgs(1),
	RunE:  runMechanicDelete,
}

func runMechanicList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := application.Store.LoadMechanics(ctx); err != nil {
		log.Warn("Failed to fetch mechanics, showing cached list", zap.Error(err))
	}

	mechanics := application.Store.Mechanics()
	rows := make([]domain.MechanicDTO, len(mechanics))
	for i := range mechanics {
		rows[i] = domain.ToMechanicDTO(&mechanics[i])
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), rows)
	}

	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintln(tw, "ID\tNAME\tSHORT\tTEL")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\n", r.ID, r.Name, r.Surname, r.DisplayName, r.Tel)
	}
	return tw.Flush()
}

func runMechanicAdd(cmd *cobra.Command, args []string) error {
	form := mechanicForm
	if err := validateForm(&form); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	added, err := application.Store.AddMechanic(ctx, form.ToMechanic())
	if err != nil {
		return fmt.Errorf("failed to add mechanic: %w", err)
	}

	dto := domain.ToMechanicDTO(&added)
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), dto)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Registered mechanic %s as %d\n", dto.DisplayName, dto.ID)
	return nil
}

func runMechanicDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id must be an integer", domain.ErrInvalidInput)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if len(application.Store.Mechanics()) == 0 {
		if err := application.Store.LoadMechanics(ctx); err != nil {
			log.Warn("Failed to fetch mechanics", zap.Error(err))
		}
	}

	if !confirm(cmd, fmt.Sprintf("Delete mechanic %d?", id)) {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
		return nil
	}
	if err := application.Store.DeleteMechanic(ctx, id); err != nil {
		return fmt.Errorf("failed to delete mechanic: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]int64{"deleted": id})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted mechanic %d\n", id)
	return nil
}
