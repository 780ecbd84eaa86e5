package main

import (
	"context"
	"fmt"

	"redisdict"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	setRaw bool
)

var setCmd = &cobra.Command{
	Use:   "set [key] [field] [value]",
	Short: "Write a field",
	Long: `Set writes a field. The value is read as tagged json, e.g. '"Alice"',
'[1,"a",true,null]' or '{" t":[1,2]}'; with --raw it is stored as text.`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		d, done := openDict(ctx, cmd, args[0])
		defer done()

		v, err := parseInput(d.Codec(), args[2], setRaw)
		if err != nil {
			fatal("Error reading value", err)
		}

		if err := d.Set(ctx, args[1], v); err != nil {
			fatal("Error writing field", err)
		}

		fmt.Printf("Field set: %s %s\n", d.Key(), args[1])
	},
}

// parseInput reads a command line value
func parseInput(c *redisdict.Codec, s string, raw bool) (redisdict.Value, error) {
	if raw {
		return redisdict.Text(s), nil
	}

	v, err := c.Decode(s)
	if err != nil {
		return v, errors.Wrap(err, "not tagged json, use --raw to store text")
	}
	return v, nil
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().BoolVar(&setRaw, "raw", false, "Store the value as text")
}
