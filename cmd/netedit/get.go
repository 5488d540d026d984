package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [flags] <netlist> <reference>",
	Short: "Print a component's value, model, nodes or parameters",
	Long: `Print one attribute of a component. The reference may be
hierarchical: "X1:R1" reads R1 inside the subcircuit instance X1.`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func init() {
	getCmd.Flags().Bool("model", false, "print the model instead of the value")
	getCmd.Flags().Bool("nodes", false, "print the connected nodes")
	getCmd.Flags().Bool("params", false, "print the key=value parameters")
}

func runGet(cmd *cobra.Command, args []string) error {
	ed, err := openNetlist(cmd, args[0])
	if err != nil {
		return err
	}
	ref := args[1]

	if wantNodes, _ := cmd.Flags().GetBool("nodes"); wantNodes {
		nodes, err := ed.GetComponentNodes(ref)
		if err != nil {
			return err
		}
		for _, node := range nodes {
			fmt.Fprintln(cmd.OutOrStdout(), node)
		}
		return nil
	}
	if wantParams, _ := cmd.Flags().GetBool("params"); wantParams {
		params, err := ed.GetComponentParameters(ref)
		if err != nil {
			return err
		}
		for _, kv := range params {
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", kv.Key, kv.Value)
		}
		return nil
	}
	if wantModel, _ := cmd.Flags().GetBool("model"); wantModel {
		model, err := ed.GetComponentModel(ref)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), model)
		return nil
	}
	value, err := ed.GetComponentValue(ref)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}
