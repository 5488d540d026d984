package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes <netlist>",
	Short: "List the circuit nodes of a netlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runNodes,
}

func runNodes(cmd *cobra.Command, args []string) error {
	ed, err := openNetlist(cmd, args[0])
	if err != nil {
		return err
	}
	for _, node := range ed.AllNodes() {
		fmt.Fprintln(cmd.OutOrStdout(), node)
	}
	return nil
}
