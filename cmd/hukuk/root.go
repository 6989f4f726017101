package main

import (
	"github.com/hukukrehberi/calc-engine/config"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "./hukuk.toml"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hukuk",
		Short: "Turkish labour and criminal law calculators",
		Long: `hukuk serves the severance compensation and sentence execution
calculators over HTTP, with admin-editable statutory parameters and
jurisdiction presets. The calculators are also available offline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", defaultConfigPath, "Path to the TOML config file")

	root.AddCommand(
		newServeCmd(),
		newCompensationCmd(),
		newSentenceCmd(),
		newPresetsCmd(),
		newHashPasswordCmd(),
	)
	return root
}

// loadConfig reads the file named by --config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}
