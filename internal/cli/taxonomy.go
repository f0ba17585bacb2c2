package cli

import (
	"fmt"

	"github.com/ppiankov/paperdigest/internal/taxonomy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// taxonomyCmd prints the active labels in the order categorization scans them
var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print the active taxonomy in declared order",
	Long: `Print the labels of the configured taxonomy preset, in declared order.

Order matters: the substring strategy files a paper under the FIRST label
contained in the response, and digest sections follow the same order.
Uncategorized is always the last bucket.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		tax, err := taxonomy.FromConfig(cfg.Taxonomy)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "Taxonomy: %s (%d labels)\n\n", tax.Name(), len(tax.Labels()))
		for i, l := range tax.BucketLabels() {
			_, _ = fmt.Fprintf(out, "%3d. %s\n", i+1, l)
		}
		if dups := tax.Duplicates(); len(dups) > 0 {
			_, _ = fmt.Fprintf(out, "\nCollapsed duplicates: %v\n", dups)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)

	taxonomyCmd.Flags().String("taxonomy", "", "taxonomy preset (stat-ensemble-v1, stat-simple-v1, custom)")
}
