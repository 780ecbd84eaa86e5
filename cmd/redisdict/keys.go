package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys [key]",
	Short: "List the fields of a hash",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		d, done := openDict(ctx, cmd, args[0])
		defer done()

		fields, err := d.Keys(ctx)
		if err != nil {
			fatal("Error listing fields", err)
		}

		sort.Strings(fields)
		for _, f := range fields {
			fmt.Println(f)
		}
	},
}

var lenCmd = &cobra.Command{
	Use:   "len [key]",
	Short: "Print the number of fields of a hash",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		d, done := openDict(ctx, cmd, args[0])
		defer done()

		n, err := d.Len(ctx)
		if err != nil {
			fatal("Error counting fields", err)
		}

		fmt.Println(n)
	},
}

func init() {
	rootCmd.AddCommand(keysCmd, lenCmd)
}
