package assets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/gmextract/api"
	billy "github.com/go-git/go-billy/v5"
	"go.uber.org/zap"
)

// Report summarizes one icon set export.
type Report struct {
	Set       string
	Copied    int
	Skipped   int      // sprite folders whose name failed the grammar or prefix
	Artifacts []string // destination paths in copy order
	Warnings  []string

	Resolved *roaring.Bitmap // sprite ids copied
	Unnamed  *roaring.Bitmap // bare-ID sprite ids
	Missing  *roaring.Bitmap // sprite ids without a png payload
}

func newReport(set string) *Report {
	return &Report{
		Set:      set,
		Resolved: roaring.New(),
		Unnamed:  roaring.New(),
		Missing:  roaring.New(),
	}
}

func (r *Report) warn(log *zap.Logger, msg string, fields ...zap.Field) {
	r.Warnings = append(r.Warnings, msg)
	log.Warn(msg, fields...)
}

// Copier exports sprite payloads as <canonical name>.png files.
// Folders are visited in name order, so when two sprites share a canonical
// name the later folder's payload is the one left in the destination.
type Copier struct {
	FS      billy.Filesystem
	Symbols SymbolTable // optional
	Logger  *zap.Logger
}

func (c *Copier) log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Copy exports one icon set. Only an unreadable source root or an
// uncreatable destination fail the call; per-folder problems become warnings.
func (c *Copier) Copy(set api.IconSet) (*Report, error) {
	rep := newReport(set.Name)

	if err := c.FS.MkdirAll(set.Dest, 0o755); err != nil {
		return nil, fmt.Errorf("create destination %s: %w", set.Dest, err)
	}
	if err := c.scan(set, set.Source, rep); err != nil {
		return nil, err
	}

	c.log().Info("icons exported",
		zap.String("set", set.Name),
		zap.Int("copied", rep.Copied),
		zap.Int("skipped", rep.Skipped),
		zap.Uint64("unnamed", rep.Unnamed.GetCardinality()),
		zap.Uint64("missing", rep.Missing.GetCardinality()),
	)
	return rep, nil
}

func (c *Copier) scan(set api.IconSet, dir string, rep *Report) error {
	infos, err := readDirSorted(c.FS, dir)
	if err != nil {
		return err
	}

	for _, fi := range infos {
		if !fi.IsDir() {
			continue
		}
		p := c.FS.Join(dir, fi.Name())
		if strings.HasPrefix(fi.Name(), spritePrefix) {
			c.export(set, p, fi.Name(), rep)
		}
		if set.Recursive {
			if err := c.scan(set, p, rep); err != nil {
				rep.warn(c.log(), fmt.Sprintf("Warning: cannot scan %s: %v", p, err))
			}
		}
	}
	return nil
}

func (c *Copier) export(set api.IconSet, dir, folder string, rep *Report) {
	log := c.log()

	sp, err := ParseSprite(folder)
	if err != nil {
		rep.Skipped++
		log.Debug("skip folder", zap.String("folder", folder), zap.Error(err))
		return
	}

	if !sp.HasID {
		log.Debug("sprite id out of range, not tracked", zap.String("folder", folder))
	}

	name := sp.Name
	if name == "" {
		rep.Unnamed.Add(sp.ID)
		if c.Symbols == nil {
			log.Debug("skip unnamed sprite", zap.Uint32("id", sp.ID))
			return
		}
		var ok bool
		if name, ok = c.Symbols.Lookup(sp.ID); !ok {
			log.Debug("no symbol for sprite", zap.Uint32("id", sp.ID))
			return
		}
	}

	if set.Prefix != "" && !strings.HasPrefix(name, set.Prefix) {
		rep.Skipped++
		return
	}

	payload, err := SelectPayload(c.FS, dir)
	if err != nil {
		if sp.HasID {
			rep.Missing.Add(sp.ID)
		}
		if errors.Is(err, ErrNoPayload) {
			rep.warn(log, fmt.Sprintf("Warning: No PNG found for %s in %s", name, dir),
				zap.String("icon", name), zap.String("folder", dir))
		} else {
			rep.warn(log, fmt.Sprintf("Warning: cannot read %s: %v", dir, err), zap.Error(err))
		}
		return
	}

	target := c.FS.Join(set.Dest, name+".png")
	info, err := copyFile(c.FS, payload, target)
	if err != nil {
		rep.warn(log, fmt.Sprintf("Warning: copy %s failed: %v", name, err), zap.Error(err))
		return
	}
	if err := preserveMetadata(c.FS, target, info); err != nil {
		log.Debug("metadata not preserved", zap.String("target", target), zap.Error(err))
	}

	if sp.HasID {
		rep.Resolved.Add(sp.ID)
	}
	rep.Copied++
	rep.Artifacts = append(rep.Artifacts, target)
	log.Debug("copied icon", zap.String("icon", name), zap.String("from", payload))
}
