// Package config loads the run configuration from an HCL file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/agentic-research/gmextract/api"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "gmextract.hcl"

// Default mirrors the layout of a decompiled game checkout with the shop
// viewer next to it.
func Default() *api.Config {
	return &api.Config{
		Source: "public/DB_GameMaster.json",
		Icons: []api.IconSet{
			{
				Name:      "weapons",
				Source:    "../Resources/Art2D/Icons/Weapons",
				Dest:      "public/icons",
				Recursive: true,
			},
			{
				Name:   "modifiers",
				Source: "../Resources/Art2D/Icons/Modifier/db_icons_modifier/sprites",
				Dest:   "public/icons",
				Prefix: "icon_modifier_",
			},
		},
	}
}

// Load decodes the file at path. A missing file yields the defaults unless
// required is set; unset fields in the file keep their defaults, and icon
// blocks in the file replace the default icon sets.
func Load(path string, required bool) (*api.Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("stat config: %w", err)
	}

	var file api.Config
	if err := hclsimple.DecodeFile(path, nil, &file); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if file.Source != "" {
		cfg.Source = file.Source
	}
	if file.Scope != "" {
		cfg.Scope = file.Scope
	}
	if file.ReportDB != "" {
		cfg.ReportDB = file.ReportDB
	}
	if file.Symbols != "" {
		cfg.Symbols = file.Symbols
	}
	if len(file.Icons) > 0 {
		cfg.Icons = file.Icons
	}
	return cfg, nil
}
