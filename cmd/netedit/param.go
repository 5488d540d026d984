package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var paramCmd = &cobra.Command{
	Use:   "param [flags] <netlist> [name] [value]",
	Short: "List, read or set .PARAM definitions",
	Long: `With only a netlist, list every parameter name. With a name, print
its value. With a name and a value, update the definition in place (or
add a new .PARAM directive) and write the netlist back. Parameter names
are unique per scope, so setting an existing name never duplicates it.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: runParam,
}

func init() {
	paramCmd.Flags().StringP("output", "o", "", "write to this file instead of in place")
}

func runParam(cmd *cobra.Command, args []string) error {
	ed, err := openNetlist(cmd, args[0])
	if err != nil {
		return err
	}
	switch len(args) {
	case 1:
		for _, name := range ed.ParameterNames() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	case 2:
		value, err := ed.GetParameter(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	default:
		if err := ed.SetParameter(args[1], args[2]); err != nil {
			return err
		}
		return writeBack(cmd, ed, args[0])
	}
}
