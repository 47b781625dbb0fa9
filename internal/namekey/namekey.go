// Package namekey maps symbolic names from data files to compact integer keys.
package namekey

// Key identifies a symbolic name. The zero value is Invalid.
type Key uint32

// Invalid is never returned for a real name.
const Invalid Key = 0

// Generator hands out stable keys per name.
// Not safe for concurrent use: names are interned during data load.
type Generator struct {
	keys  map[string]Key
	names []string // index = key
}

// NewGenerator creates an empty generator.
func NewGenerator() *Generator {
	return &Generator{
		keys:  make(map[string]Key, 64),
		names: []string{""},
	}
}

// NameToKey returns the key for name, creating it on first use.
// The empty name maps to Invalid.
func (g *Generator) NameToKey(name string) Key {
	if name == "" {
		return Invalid
	}
	if k, ok := g.keys[name]; ok {
		return k
	}
	k := Key(len(g.names))
	g.names = append(g.names, name)
	g.keys[name] = k
	return k
}

// Lookup returns the key for name without creating it.
func (g *Generator) Lookup(name string) (Key, bool) {
	k, ok := g.keys[name]
	return k, ok
}

// KeyToName returns the name for k, or "" if k is unknown.
func (g *Generator) KeyToName(k Key) string {
	if int(k) >= len(g.names) {
		return ""
	}
	return g.names[k]
}

// Len returns the number of interned names.
func (g *Generator) Len() int {
	return len(g.names) - 1
}
