package circuit

import (
	"github.com/spf13/cobra"
)

func NewCircuitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "circuit",
		Short: "commands about the derived reference circuit",
	}
	cmd.AddCommand(NewDeriveCmd())
	cmd.AddCommand(NewSectorsCmd())
	return cmd
}
