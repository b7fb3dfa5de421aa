package cmd

import (
	"github.com/gnames/gnlineage/pkg/config"
	"github.com/spf13/cobra"
)

type funcFlag func(cmd *cobra.Command) config.Option

func progressFlag(cmd *cobra.Command) config.Option {
	b, _ := cmd.Flags().GetBool("progress")
	return config.OptImportWithProgress(b)
}

func batchSizeFlag(cmd *cobra.Command) config.Option {
	if !cmd.Flags().Changed("batch-size") {
		return nil
	}
	i, _ := cmd.Flags().GetInt("batch-size")
	return config.OptImportBatchSize(i)
}

func metricsFileFlag(cmd *cobra.Command) config.Option {
	s, _ := cmd.Flags().GetString("metrics-file")
	if s == "" {
		return nil
	}
	return config.OptImportMetricsFile(s)
}

func cacheSizeFlag(cmd *cobra.Command) config.Option {
	if !cmd.Flags().Changed("cache-size") {
		return nil
	}
	i, _ := cmd.Flags().GetInt("cache-size")
	return config.OptLineageCacheSize(i)
}

// applyFlags converts set flags to options and updates the global
// configuration with them.
func applyFlags(cmd *cobra.Command, flags ...funcFlag) {
	var opts []config.Option
	for _, f := range flags {
		if opt := f(cmd); opt != nil {
			opts = append(opts, opt)
		}
	}
	cfg.Update(opts)
}
