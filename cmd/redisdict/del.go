package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var delCmd = &cobra.Command{
	Use:   "del [key] [field...]",
	Short: "Delete fields",
	Long:  `Del removes fields from a hash and prints how many existed. Missing fields are ignored.`,
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		d, done := openDict(ctx, cmd, args[0])
		defer done()

		n, err := d.DeleteFields(ctx, args[1:]...)
		if err != nil {
			fatal("Error deleting fields", err)
		}

		fmt.Printf("Fields deleted: %d\n", n)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear [key]",
	Short: "Delete a whole hash",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		d, done := openDict(ctx, cmd, args[0])
		defer done()

		if err := d.Clear(ctx); err != nil {
			fatal("Error clearing hash", err)
		}

		fmt.Printf("Hash cleared: %s\n", d.Key())
	},
}

func init() {
	rootCmd.AddCommand(delCmd, clearCmd)
}
