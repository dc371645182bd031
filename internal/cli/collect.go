package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdantloop/garden/internal/entity"
)

// NewCollectCommand creates the collect command group.
func NewCollectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect a butterfly, caterpillar, fish, or sun from a field",
	}
	cmd.AddCommand(newCollectCreatureCommand(rootOpts, entity.KindButterfly))
	cmd.AddCommand(newCollectCreatureCommand(rootOpts, entity.KindCaterpillar))
	cmd.AddCommand(newCollectCreatureCommand(rootOpts, entity.KindFish))
	cmd.AddCommand(newCollectSunCommand(rootOpts))
	return cmd
}

func newCollectCreatureCommand(rootOpts *RootOptions, kind entity.Kind) *cobra.Command {
	return &cobra.Command{
		Use:           fmt.Sprintf("%s <field-index>", kind),
		Short:         fmt.Sprintf("Collect a field %s into the owned inventory", kind),
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

			var collected entity.FieldEntity
			switch kind {
			case entity.KindButterfly:
				collected, err = e.svc.CollectButterfly(cmd.Context(), e.cfg.User, idx)
			case entity.KindCaterpillar:
				collected, err = e.svc.CollectCaterpillar(cmd.Context(), e.cfg.User, idx)
			case entity.KindFish:
				collected, err = e.svc.CollectFish(cmd.Context(), e.cfg.User, idx)
			}
			if err != nil {
				return e.commandError(err)
			}

			if rootOpts.Format == "json" {
				return e.out.Success(collected)
			}
			fmt.Fprintf(e.out.Writer, "collected %s (%s) from field %d\n",
				collected.Name, collected.Rarity, idx)
			return nil
		},
	}
}

func newCollectSunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "sun <field-index>",
		Short:         "Collect a sun pickup into the currency balance",
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

			amount, err := e.svc.CollectSun(cmd.Context(), e.cfg.User, idx)
			if err != nil {
				return e.commandError(err)
			}

			if rootOpts.Format == "json" {
				return e.out.Success(map[string]int{"amount": amount})
			}
			fmt.Fprintf(e.out.Writer, "collected %d sun from field %d\n", amount, idx)
			return nil
		},
	}
}
