package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var subcktCmd = &cobra.Command{
	Use:   "subckt <netlist> [instance]",
	Short: "List subcircuit definitions or show one instance's definition",
	Long: `Without an instance, list the subcircuit definitions of the netlist.
With a subcircuit instance reference such as "X1", print the definition
that instance resolves to, whether it lives in the netlist or in an
included library file.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSubckt,
}

func runSubckt(cmd *cobra.Command, args []string) error {
	ed, err := openNetlist(cmd, args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 {
		for _, name := range ed.SubcircuitNames() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}
	sub, err := ed.GetSubcircuit(args[1])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), sub.String())
	return nil
}
