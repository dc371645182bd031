package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPlaceCommand creates the place command group: bouquets and flowers.
func NewPlaceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place a bouquet or flower on a field",
	}
	cmd.AddCommand(newPlaceBouquetCommand(rootOpts))
	cmd.AddCommand(newPlaceFlowerCommand(rootOpts))
	return cmd
}

func newPlaceBouquetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bouquet <field-index> <species>",
		Short: "Place a bouquet on a grass field",
		Long: `Place a bouquet on an empty grass field.

The bouquet emits up to four butterflies at random intervals and withers
after its lifetime, paying a seed reward.

Example:
  garden place bouquet 0 rose-bunch --user alice`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(rootOpts, cmd, true)
			if err != nil {
				return err
			}
			defer e.close()

			idx, err := requireFieldIndex(args[0])
			if err != nil {
				return err
			}

			placed, err := e.svc.PlaceBouquet(cmd.Context(), e.cfg.User, idx, args[1])
			if err != nil {
				return e.commandError(err)
			}

			if rootOpts.Format == "json" {
				return e.out.Success(placed)
			}
			fmt.Fprintf(e.out.Writer, "placed %s on field %d (first spawn in %s)\n",
				placed.Name, idx, placed.NextTransitionAt.Sub(placed.CreatedAt).Round(0))
			return nil
		},
	}
}

func newPlaceFlowerCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "flower <field-index> <species>",
		Short:         "Plant an owned flower on a grass field",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(rootOpts, cmd, true)
			if err != nil {
				return err
			}
			defer e.close()

			idx, err := requireFieldIndex(args[0])
			if err != nil {
				return err
			}

			placed, err := e.svc.PlaceFlower(cmd.Context(), e.cfg.User, idx, args[1])
			if err != nil {
				return e.commandError(err)
			}

			if rootOpts.Format == "json" {
				return e.out.Success(placed)
			}
			fmt.Fprintf(e.out.Writer, "planted %s (%s) on field %d\n",
				placed.Name, placed.Rarity, idx)
			return nil
		},
	}
}

// NewSpawnSunCommand creates the spawn-sun command. The sun economy that
// decides when suns drop lives outside this process; this command is its
// entry point.
func NewSpawnSunCommand(rootOpts *RootOptions) *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:           "spawn-sun <field-index>",
		Short:         "Drop a sun pickup on a field",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(rootOpts, cmd, true)
			if err != nil {
				return err
			}
			defer e.close()

			idx, err := requireFieldIndex(args[0])
			if err != nil {
				return err
			}
			if amount < 1 || amount > 3 {
				return NewExitError(ExitCommandError, "amount must be between 1 and 3")
			}

			sun, err := e.svc.SpawnSun(cmd.Context(), e.cfg.User, idx, amount)
			if err != nil {
				return e.commandError(err)
			}

			if rootOpts.Format == "json" {
				return e.out.Success(sun)
			}
			fmt.Fprintf(e.out.Writer, "sun (%d) dropped on field %d\n", amount, idx)
			return nil
		},
	}

	cmd.Flags().IntVar(&amount, "amount", 1, "sun amount (1-3)")
	return cmd
}
