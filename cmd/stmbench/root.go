package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolkov/stminst/internal/log"
	"github.com/kolkov/stminst/itm"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "stmbench",
		Short:        "stmbench runs transactional memory workloads through the barrier surface.",
		Version:      itm.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return log.Init(cmd.Flags())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			log.Flush()
		},
	}
	log.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newRunCommand(), newInfoCommand())
	return root
}

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show barrier surface and platform information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := itm.GetInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "itm %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  arch:       %s\n", info.Arch)
			fmt.Fprintf(cmd.OutOrStdout(), "  word size:  %d\n", info.WordSize)
			fmt.Fprintf(cmd.OutOrStdout(), "  big endian: %v\n", info.BigEndian)
			fmt.Fprintf(cmd.OutOrStdout(), "  avx:        %v\n", info.HasAVX)
		},
	}
}
