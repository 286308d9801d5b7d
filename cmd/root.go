package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/stencil/internal/config"
	"github.com/papapumpkin/stencil/internal/output"
	"github.com/papapumpkin/stencil/internal/templater"
)

var rootCmd = &cobra.Command{
	Use:           "stencil",
	Short:         "Directory template manager",
	Long:          "Stencil captures directory trees as named templates and expands them into new projects, running each template's setup commands afterwards.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .stencil.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".stencil")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("STENCIL")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// loadConfig resolves the effective configuration and wires up logging.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
	output.SetupLogging(cfg.Verbose)
	return cfg
}

// newManager opens the template library for a subcommand invocation.
func newManager(cmd *cobra.Command) (*templater.Manager, error) {
	return templater.New(cmd.Context(), loadConfig(cmd))
}
