package api

// Config is the root configuration of an extraction run.
type Config struct {
	// Source is the game database document (JSON).
	Source string `hcl:"source,optional"`
	// Scope is an optional JSONPath selector narrowing every job's traversal root.
	Scope string `hcl:"scope,optional"`
	// ReportDB, when set, receives a SQLite copy of every job result.
	ReportDB string `hcl:"report_db,optional"`
	// Symbols is an optional "<id>;<name>" file naming bare-ID sprite folders.
	Symbols string `hcl:"symbols,optional"`
	// Icons are the sprite trees exported to flat icon directories.
	Icons []IconSet `hcl:"icons,block"`
}

// IconSet describes one decompiled sprite tree and where its icons go.
type IconSet struct {
	Name string `hcl:"name,label"`
	// Source is the root holding DefineSprite_<id>_<name> folders.
	Source string `hcl:"source"`
	// Dest is the flat output directory, created when missing.
	Dest string `hcl:"dest"`
	// Prefix restricts canonical names (e.g. "icon_modifier_").
	Prefix string `hcl:"prefix,optional"`
	// Recursive searches for sprite folders at any depth below Source.
	Recursive bool `hcl:"recursive,optional"`
}

// IconSet returns the set with the given name.
func (c *Config) IconSet(name string) (IconSet, bool) {
	for _, s := range c.Icons {
		if s.Name == name {
			return s, true
		}
	}
	return IconSet{}, false
}
