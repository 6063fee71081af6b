package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agentic-research/gmextract/api"
	"github.com/agentic-research/gmextract/internal/assets"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var iconsCmd = &cobra.Command{
	Use:   "icons [set...]",
	Short: "Copy sprite payloads into flat icon directories (default: all sets)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		sets := cfg.Icons
		if len(args) > 0 {
			sets = nil
			for _, name := range args {
				s, ok := cfg.IconSet(name)
				if !ok {
					return fmt.Errorf("unknown icon set %q", name)
				}
				sets = append(sets, s)
			}
		}
		return runIcons(cmd.OutOrStdout(), cfg, sets)
	},
}

func init() {
	rootCmd.AddCommand(iconsCmd)
}

func runIcons(out io.Writer, cfg *api.Config, sets []api.IconSet) error {
	c := &assets.Copier{
		// Rooted at / so configured paths may point outside the working directory.
		FS:     osfs.New(string(filepath.Separator)),
		Logger: logger,
	}
	if cfg.Symbols != "" {
		syms, err := loadSymbols(cfg.Symbols)
		if err != nil {
			return err
		}
		c.Symbols = syms
	}

	for _, set := range sets {
		abs, err := absSet(set)
		if err != nil {
			return err
		}
		logger.Info("scanning", zap.String("set", set.Name), zap.String("source", abs.Source))
		rep, err := c.Copy(abs)
		if err != nil {
			return fmt.Errorf("icon set %s: %w", set.Name, err)
		}
		fmt.Fprintf(out, "Extracted %d icons to %s\n", rep.Copied, abs.Dest)
	}
	return nil
}

func absSet(set api.IconSet) (api.IconSet, error) {
	var err error
	if set.Source, err = filepath.Abs(set.Source); err != nil {
		return set, fmt.Errorf("resolve %s: %w", set.Source, err)
	}
	if set.Dest, err = filepath.Abs(set.Dest); err != nil {
		return set, fmt.Errorf("resolve %s: %w", set.Dest, err)
	}
	return set, nil
}

func loadSymbols(path string) (assets.Symbols, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open symbols: %w", err)
	}
	defer func() { _ = f.Close() }() // read-only
	return assets.ReadSymbols(f)
}
