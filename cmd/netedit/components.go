package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var componentsCmd = &cobra.Command{
	Use:   "components [flags] <netlist>",
	Short: "List the components of a netlist",
	Long: `List the components found at the top level of a netlist, with their
current values. The --prefixes flag narrows the listing to the given
component families, e.g. "RC" for resistors and capacitors.`,
	Args: cobra.ExactArgs(1),
	RunE: runComponents,
}

func init() {
	componentsCmd.Flags().String("prefixes", "*", "component family prefixes to include")
}

var designatorColor = color.New(color.FgCyan, color.Bold)

func runComponents(cmd *cobra.Command, args []string) error {
	prefixes, err := cmd.Flags().GetString("prefixes")
	if err != nil {
		return fmt.Errorf("failed to get prefixes flag: %w", err)
	}
	ed, err := openNetlist(cmd, args[0])
	if err != nil {
		return err
	}
	for _, ref := range ed.Components(prefixes) {
		value, err := ed.GetComponentValue(ref)
		if err != nil {
			// Families without an editable value still get listed.
			fmt.Fprintln(cmd.OutOrStdout(), designatorColor.Sprint(ref))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", designatorColor.Sprint(ref), value)
	}
	return nil
}
