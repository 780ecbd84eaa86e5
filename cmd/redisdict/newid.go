package main

import (
	"fmt"

	"redisdict"

	"github.com/spf13/cobra"
)

var newIDCmd = &cobra.Command{
	Use:   "new-id",
	Short: "Print a fresh hash key",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := redisdict.NewID()
		if err != nil {
			fatal("Error generating id", err)
		}

		fmt.Println(keyPrefix + id)
	},
}

func init() {
	rootCmd.AddCommand(newIDCmd)
}
