// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the shenlun CLI, a filler essay
// generator driven by a fragment data source.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/shenlun/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger writes diagnostics to stderr. It is replaced in PersistentPreRunE.
var logger = zap.NewNop()

// rootCmd is the base command for the shenlun CLI.
var rootCmd = &cobra.Command{
	Use:   "shenlun",
	Short: "Generate filler essays from a fragment data source",
	Long: `shenlun stitches an essay (title, opening, body, closing) together from
reusable text fragments. Templates in the data source carry placeholder
tokens (vn, v, n, ss, sp, p, xx) that are replaced with random verbs, nouns,
sentences, parallel sentences, phrases, and the chosen theme.

The output is deliberately low-effort filler text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", zap.String("path", f))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./shenlun.yaml or ~/.config/shenlun/shenlun.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug diagnostics to stderr")
	rootCmd.PersistentFlags().String("archive-dir", types.DefaultArchiveDir, "directory containing the essay archive")

	viper.BindPFlag("archive.dir", rootCmd.PersistentFlags().Lookup("archive-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("shenlun")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "shenlun"))
		}
	}

	viper.SetEnvPrefix("SHENLUN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("generator.theme", types.DefaultTheme)
	viper.SetDefault("archive.max_results", 20)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

// archiveConfig returns the archive settings merged from flags, env, and config.
func archiveConfig() types.ArchiveConfig {
	return types.ArchiveConfig{
		Dir:        viper.GetString("archive.dir"),
		MaxResults: viper.GetInt("archive.max_results"),
	}
}

// reportError prints a command failure the way the original tool did.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "错误: %v\n", err)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
