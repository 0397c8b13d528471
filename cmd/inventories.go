package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"inventory-manager/core/config"
	"inventory-manager/core/database"
	"inventory-manager/core/logger"
	"inventory-manager/feature/inventory"
	"inventory-manager/feature/inventory/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listStatus string
	listWard   string
)

// inventoriesCmd lists stock-count sessions from the command line.
var inventoriesCmd = &cobra.Command{
	Use:   "inventories",
	Short: "List inventories (optionally filtered by status and ward)",
	Long: `List stock-count sessions directly against the configured database.

Examples:
  # All inventories
  inventory-manager inventories

  # Only validated counts on ward P
  inventory-manager inventories --status validated --ward P`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return err
		}
		logg, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console"})
		if err != nil {
			return err
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}

		engine := inventory.NewEngine(
			inventory.NewGormTxRunner(db),
			inventory.NewGormInventoryStore(db),
			inventory.NewGormInventoryRowStore(db),
			inventory.NewGormMasterData(db),
			nil,
			logg,
		)

		ctx := context.Background()
		var out []models.Inventory
		switch {
		case listStatus != "" && listWard != "":
			out, err = engine.ListByStatusAndWard(ctx, models.Status(listStatus), listWard)
		case listStatus != "":
			out, err = engine.ListByStatus(ctx, models.Status(listStatus))
		default:
			out, err = engine.List(ctx)
		}
		if err != nil {
			logg.Error("listing failed", zap.Error(err))
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tREFERENCE\tWARD\tSTATUS\tCREATED")
		for _, inv := range out {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				inv.ID, inv.Reference, inv.WardCode, inv.Status,
				inv.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	inventoriesCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (draft, validated, canceled)")
	inventoriesCmd.Flags().StringVar(&listWard, "ward", "", "filter by ward code (requires --status)")
	RootCmd.AddCommand(inventoriesCmd)
}
