package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verdantloop/garden/internal/entity"
)

// NewFeedCommand creates the feed command.
func NewFeedCommand(rootOpts *RootOptions) *cobra.Command {
	var sourceKind string

	cmd := &cobra.Command{
		Use:   "feed <field-index> <species>",
		Short: "Feed an owned caterpillar or butterfly to a pond field",
		Long: `Feed one owned creature to a pond field.

Every third feed spawns a fish whose rarity is the rounded average of the
last three fed creatures.

Example:
  garden feed 4 ruby-crawler --user alice
  garden feed 4 glasswing --kind butterfly --user alice`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := entity.Kind(sourceKind)
			if kind != entity.KindCaterpillar && kind != entity.KindButterfly {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid --kind %q: must be caterpillar or butterfly", sourceKind))
			}

			e, err := newEnv(rootOpts, cmd, true)
			if err != nil {
				return err
			}
			defer e.close()

			idx, err := requireFieldIndex(args[0])
			if err != nil {
				return err
			}

			res, err := e.svc.Feed(cmd.Context(), e.cfg.User, idx, args[1], kind)
			if err != nil {
				return e.commandError(err)
			}

			if rootOpts.Format == "json" {
				return e.out.Success(res)
			}
			if res.Fish != nil {
				fmt.Fprintf(e.out.Writer, "a %s %s appeared on field %d\n",
					res.Fish.Rarity, res.Fish.Name, idx)
			} else {
				fmt.Fprintf(e.out.Writer, "fed %s to field %d (%d/3)\n",
					args[1], idx, res.Progress.Count)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceKind, "kind", "caterpillar", "source kind (caterpillar|butterfly)")
	return cmd
}
