package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/philipparndt/roomgeo/internal/app"
	"github.com/philipparndt/roomgeo/internal/config"
	"github.com/philipparndt/roomgeo/internal/logger"
	"github.com/philipparndt/roomgeo/pkg/extract"
	"github.com/philipparndt/roomgeo/version"
)

var (
	flags config.Flags
	cfg   *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "roomgeo",
	Short: "Extract room geometry from building models",
	Long: `roomgeo derives per-room measurements from a building manifest: bounding
dimensions, floor outline and area, enclosed volume, and the doors, windows
and walls located in each room. Results are written as JSON, as GeoJSON
outlines, or stored in a SQLite room database.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := flags.Load()
		if err != nil {
			return err
		}
		cfg = c
		return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	flags.Register(rootCmd.PersistentFlags())
}

func newApp() *app.App {
	return app.New(cfg, logger.Log)
}

// writeOutput writes to path, or stdout for "" and "-"
func writeOutput(path string, write func(w io.Writer) error) error {
	if path == "" || path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		if errors.Is(err, extract.ErrNoRooms) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
