package tree

import "sort"

// TextSet collects distinct strings.
type TextSet struct {
	seen map[string]struct{}
}

func NewTextSet() *TextSet {
	return &TextSet{seen: make(map[string]struct{})}
}

func (s *TextSet) Add(v string) {
	s.seen[v] = struct{}{}
}

func (s *TextSet) Len() int { return len(s.seen) }

// Sorted returns the members in byte order.
func (s *TextSet) Sorted() []string {
	out := make([]string, 0, len(s.seen))
	for v := range s.seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Entry is the {Name, Description} projection of a record.
type Entry struct {
	Name        string
	Description string
}

// EntryList keeps every projection in traversal order.
type EntryList struct {
	items []Entry
}

func NewEntryList() *EntryList { return &EntryList{} }

func (l *EntryList) Add(e Entry) { l.items = append(l.items, e) }

func (l *EntryList) Len() int { return len(l.items) }

// FirstByName sorts by name (stable, so ties keep traversal order) and keeps
// the first entry of each name.
func (l *EntryList) FirstByName() []Entry {
	sorted := make([]Entry, len(l.items))
	copy(sorted, l.items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	out := make([]Entry, 0, len(sorted))
	for _, e := range sorted {
		if len(out) > 0 && out[len(out)-1].Name == e.Name {
			continue
		}
		out = append(out, e)
	}
	return out
}

// EntryIndex keys projections by name; a later entry replaces an earlier one.
type EntryIndex struct {
	byName map[string]Entry
}

func NewEntryIndex() *EntryIndex {
	return &EntryIndex{byName: make(map[string]Entry)}
}

func (x *EntryIndex) Add(e Entry) { x.byName[e.Name] = e }

func (x *EntryIndex) Len() int { return len(x.byName) }

// Sorted returns the surviving entries ordered by name.
func (x *EntryIndex) Sorted() []Entry {
	out := make([]Entry, 0, len(x.byName))
	for _, e := range x.byName {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
