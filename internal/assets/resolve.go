// Package assets maps decompiled sprite folders to canonical icon names
// and copies their image payloads into a flat icon directory.
package assets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrNoMatch means a folder name does not follow the sprite grammar.
	ErrNoMatch = errors.New("folder name does not match sprite grammar")
	// ErrNoPayload means a sprite folder holds no png image.
	ErrNoPayload = errors.New("no png payload")
)

const spritePrefix = "DefineSprite_"

var (
	namedSpriteRe = regexp.MustCompile(`^DefineSprite_(\d+)_(.+)$`)
	bareSpriteRe  = regexp.MustCompile(`^DefineSprite_(\d+)$`)
)

// Sprite is the parsed form of an asset folder name.
type Sprite struct {
	ID    uint32
	HasID bool   // false when the numeric id does not fit in 32 bits
	Name  string // canonical name, empty for bare-ID folders
}

// Resolve extracts the canonical name from a folder named
// DefineSprite_<digits>_<name>. The suffix is returned verbatim.
func Resolve(folder string) (string, error) {
	m := namedSpriteRe.FindStringSubmatch(folder)
	if m == nil {
		return "", ErrNoMatch
	}
	return m[2], nil
}

// ParseSprite parses both named and bare-ID sprite folders. The name of a
// named folder always comes from Resolve; an id too large for 32 bits only
// clears HasID. Bare folders need a usable id and otherwise report ErrNoMatch.
func ParseSprite(folder string) (Sprite, error) {
	if name, err := Resolve(folder); err == nil {
		sp := Sprite{Name: name}
		digits := namedSpriteRe.FindStringSubmatch(folder)[1]
		if id, err := parseID(digits); err == nil {
			sp.ID, sp.HasID = id, true
		}
		return sp, nil
	}
	if m := bareSpriteRe.FindStringSubmatch(folder); m != nil {
		id, err := parseID(m[1])
		if err != nil {
			return Sprite{}, err
		}
		return Sprite{ID: id, HasID: true}, nil
	}
	return Sprite{}, ErrNoMatch
}

func parseID(digits string) (uint32, error) {
	id, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: sprite id %s", ErrNoMatch, digits)
	}
	return uint32(id), nil
}

// SymbolTable names bare-ID sprites. It is an optional collaborator; without
// one, bare-ID folders are skipped.
type SymbolTable interface {
	Lookup(id uint32) (string, bool)
}

// Symbols is a SymbolTable loaded from an exported symbol list.
type Symbols map[uint32]string

func (s Symbols) Lookup(id uint32) (string, bool) {
	name, ok := s[id]
	return name, ok && name != ""
}

// ReadSymbols parses "<id>;<name>" lines. Rows whose id is not numeric
// (headers included) are ignored.
func ReadSymbols(r io.Reader) (Symbols, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	syms := make(Symbols)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return syms, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read symbols: %w", err)
		}
		if len(rec) < 2 {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSpace(rec[0]), 10, 32)
		if err != nil {
			continue
		}
		syms[uint32(id)] = strings.TrimSpace(rec[1])
	}
}
