package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdantloop/garden/internal/entity"
)

// NewFieldsCommand creates the fields command: the per-field read model.
func NewFieldsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "fields",
		Short:         "Show the state of every field",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(rootOpts, cmd, true)
			if err != nil {
				return err
			}
			defer e.close()

			states, err := e.svc.FieldStates(cmd.Context(), e.cfg.User)
			if err != nil {
				return e.commandError(err)
			}

			if rootOpts.Format == "json" {
				return e.out.Success(states)
			}
			for _, st := range states {
				fmt.Fprintln(e.out.Writer, formatFieldState(st))
			}
			return nil
		},
	}
}

// formatFieldState renders one field as a single text line.
func formatFieldState(st entity.FieldState) string {
	line := fmt.Sprintf("field %d (%s):", st.FieldIndex, st.FieldKind)

	if st.Occupant == nil && st.Bouquet == nil && st.Sun == nil {
		return line + " empty"
	}
	if st.Occupant != nil {
		line += fmt.Sprintf(" %s %s [%s]", st.Occupant.Rarity, st.Occupant.Name, st.Occupant.Kind)
		if st.Occupant.RemainingMS > 0 {
			line += fmt.Sprintf(" transitions in %s", msDuration(st.Occupant.RemainingMS))
		}
	}
	if st.Bouquet != nil {
		line += fmt.Sprintf(" | bouquet %s slot %d/4 next spawn in %s",
			st.Bouquet.Name, st.Bouquet.SpawnSlot, msDuration(st.Bouquet.NextSpawnMS))
	}
	if st.Sun != nil {
		line += fmt.Sprintf(" | sun(%d) expires in %s",
			st.Sun.Amount, msDuration(st.Sun.ExpiresInMS))
	}
	return line
}

func msDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
