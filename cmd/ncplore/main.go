// Command ncplore is a terminal explorer for NetCDF files and Zarr
// stores: browse the dataset tree, then slice, plot and map variables
// of any rank.
package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ncplore/ncplore"
	"github.com/ncplore/ncplore/internal/colormap"
	"github.com/ncplore/ncplore/internal/tui"
)

var (
	flagPalette  string
	flagDebugLog string
)

var rootCmd = &cobra.Command{
	Use:   "ncplore [path]",
	Short: "terminal explorer for NetCDF and Zarr datasets",
	Long: `ncplore opens a NetCDF file, a Zarr store directory or a blob URL
and lets you walk the group tree, inspect attributes and view any
variable as a table, a line plot or a color heatmap.

With a directory argument (or none) it starts a file browser instead.`,
	Args:    cobra.MaximumNArgs(1),
	Version: ncplore.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		pal, err := colormap.ParsePalette(flagPalette)
		if err != nil {
			return err
		}

		log := logrus.New()
		log.SetOutput(io.Discard)
		if flagDebugLog != "" {
			f, err := os.OpenFile(flagDebugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer f.Close()
			log.SetOutput(f)
			log.SetLevel(logrus.DebugLevel)
			log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}

		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		m, err := tui.New(path, pal, log)
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagPalette, "palette", "viridis",
		"initial heatmap palette (viridis, plasma, rainbow, bluered)")
	rootCmd.Flags().StringVar(&flagDebugLog, "debug-log", "",
		"append debug logs to this file")
	rootCmd.SilenceUsage = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
