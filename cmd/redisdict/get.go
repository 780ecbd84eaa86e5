package main

import (
	"context"
	"fmt"
	"os"

	"redisdict"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [key] [field]",
	Short: "Print the value of a field",
	Long:  `Get prints the decoded value of a field in its tagged json form. It exits with status 2 when the field does not exist.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		d, done := openDict(ctx, cmd, args[0])
		defer done()

		v, err := d.Get(ctx, args[1])
		if errors.Is(err, redisdict.ErrFieldNotFound) {
			fmt.Fprintf(os.Stderr, "Field not found: %s\n", args[1])
			done()
			os.Exit(2)
		}
		if err != nil {
			fatal("Error reading field", err)
		}

		fmt.Println(v.String())
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
