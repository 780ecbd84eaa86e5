package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"redisdict"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dumpYAML bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump [key]",
	Short: "Print every field of a hash",
	Long:  `Dump prints one "field<TAB>value" line per field, values in tagged json. With --yaml the hash is printed as a yaml document instead.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		d, done := openDict(ctx, cmd, args[0])
		defer done()

		items, err := d.Items(ctx)
		if err != nil {
			fatal("Error reading hash", err)
		}

		if dumpYAML {
			doc := make(map[string]interface{}, len(items))
			for f, v := range items {
				doc[f] = plain(v)
			}

			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				fatal("Error encoding YAML", err)
			}
			enc.Close()
			return
		}

		fields := make([]string, 0, len(items))
		for f := range items {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		for _, f := range fields {
			fmt.Printf("%s\t%s\n", f, items[f].String())
		}
	},
}

// plain turns v into something yaml prints well, extended values are kept
// in their tagged json form
func plain(v redisdict.Value) interface{} {
	switch v.Kind() {
	case redisdict.KindSequence:
		seq, _ := v.AsSequence()
		res := make([]interface{}, len(seq))
		for i, e := range seq {
			res[i] = plain(e)
		}
		return res
	case redisdict.KindMapping:
		m, _ := v.AsMapping()
		res := make(map[string]interface{}, len(m))
		for k, e := range m {
			res[k] = plain(e)
		}
		return res
	case redisdict.KindExtended:
		return v.String()
	}
	return v.Interface()
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().BoolVar(&dumpYAML, "yaml", false, "Output in YAML format")
}
