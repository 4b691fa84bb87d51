package main

import (
	"fmt"

	"gocpd/domain/cost"

	"github.com/spf13/cobra"
)

func newFamiliesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "families",
		Short: "List supported distribution families and their marker patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := cost.Families()

			if jsonOutput {
				return printJSON(infos)
			}

			for _, info := range infos {
				fmt.Printf("%s (arity %s)\n", info.Family, info.Arity)
				for _, pattern := range info.Patterns {
					fmt.Printf("  %-20s %s\n", pattern.Markers, pattern.Kind.Label())
				}
				fmt.Println()
			}
			return nil
		},
	}

	return cmd
}
