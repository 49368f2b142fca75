package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/tui"
)

// LoggerFunc returns the diagnostic logger configured by the root command.
type LoggerFunc func() *zap.Logger

func (f LoggerFunc) get() *zap.Logger {
	if f == nil {
		return zap.NewNop()
	}
	if logger := f(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

// NewRootCommand creates the root command. picker may be nil, in which case
// commands never prompt.
func NewRootCommand(fs filesystem.FileSystem, picker tui.ProjectPicker) *cobra.Command {
	var verbose bool
	var logger *zap.Logger
	getLogger := LoggerFunc(func() *zap.Logger { return logger })

	rootCmd := &cobra.Command{
		Use:   "slnchain",
		Short: "Move projects and their dependency chains between Visual Studio solutions",
		Long: `A CLI tool for merging projects between Visual Studio solutions.

slnchain follows ProjectReference edges from a root project, adds every
project of the chain to a target solution and copies the build
configuration mappings along with them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			config.Encoding = "console"
			config.OutputPaths = []string{"stderr"}
			config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}

			built, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = built
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")

	rootCmd.AddCommand(NewAddCommand(fs, picker, getLogger))
	rootCmd.AddCommand(NewApplyCommand(fs, getLogger))
	rootCmd.AddCommand(NewTreeCommand(fs, getLogger))
	rootCmd.AddCommand(NewListCommand(fs))
	rootCmd.AddCommand(NewCheckCommand(fs))
	rootCmd.AddCommand(NewRefCommand(fs))
	rootCmd.AddCommand(NewScanCommand(fs))

	return rootCmd
}

// Execute runs the root command against the OS filesystem.
func Execute() error {
	fs := filesystem.NewOSFileSystem()
	picker := tui.NewHuhPicker(os.Stdin, os.Stderr)

	rootCmd := NewRootCommand(fs, picker)

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
