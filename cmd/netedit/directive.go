package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var directiveCmd = &cobra.Command{
	Use:   "directive [flags] <netlist> <text>",
	Short: "Add or remove simulation directives",
	Long: `Add a simulator directive such as ".tran 1m" to a netlist, or remove
directives with --remove / --remove-matching. Analysis directives (.AC,
.DC, .TRAN, .NOISE, .TF) are singletons: adding one replaces whichever
analysis the netlist already carries.`,
	Args: cobra.ExactArgs(2),
	RunE: runDirective,
}

func init() {
	directiveCmd.Flags().Bool("remove", false, "remove the directive matching the text exactly")
	directiveCmd.Flags().Bool("remove-matching", false, "treat the text as a regular expression and remove every matching directive")
	directiveCmd.Flags().StringP("output", "o", "", "write to this file instead of in place")
}

func runDirective(cmd *cobra.Command, args []string) error {
	remove, err := cmd.Flags().GetBool("remove")
	if err != nil {
		return fmt.Errorf("failed to get remove flag: %w", err)
	}
	removeMatching, err := cmd.Flags().GetBool("remove-matching")
	if err != nil {
		return fmt.Errorf("failed to get remove-matching flag: %w", err)
	}
	if remove && removeMatching {
		return fmt.Errorf("remove and remove-matching flags cannot be used together")
	}

	ed, err := openNetlist(cmd, args[0])
	if err != nil {
		return err
	}
	text := args[1]

	switch {
	case removeMatching:
		n, err := ed.RemoveInstructionsMatching(text)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("no directive matches %q", text)
		}
	case remove:
		if !ed.RemoveInstruction(text) {
			return fmt.Errorf("no directive equals %q", text)
		}
	default:
		if err := ed.AddInstruction(text); err != nil {
			return err
		}
	}
	return writeBack(cmd, ed, args[0])
}
