package locomotor

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/udisondev/rtsloco/internal/ini"
	"github.com/udisondev/rtsloco/internal/namekey"
)

var (
	// ErrNoStore is returned when a definition is parsed before InitStore.
	ErrNoStore = errors.New("locomotor store is not initialized")
	// ErrNilTemplate is returned when an override target does not exist.
	ErrNilTemplate = errors.New("nil locomotor template")
)

// BlockKeyword is the data-file keyword of a template definition.
const BlockKeyword = "Locomotor"

// Store owns every locomotor template, keyed by name.
//
// Not safe for concurrent use: loading, overriding and resetting happen
// between simulation ticks on the simulation goroutine.
type Store struct {
	templates map[namekey.Key]*Template
	names     *namekey.Generator
	svc       Services
}

// NewStore creates an empty store. Locomotors it creates use svc.
func NewStore(names *namekey.Generator, svc Services) *Store {
	return &Store{
		templates: make(map[namekey.Key]*Template, 64),
		names:     names,
		svc:       svc,
	}
}

// Services returns the collaborators handed to new locomotors.
func (s *Store) Services() Services { return s.svc }

// FindTemplate returns the template registered for key, or nil.
func (s *Store) FindTemplate(key namekey.Key) *Template {
	if key == namekey.Invalid {
		return nil
	}
	return s.templates[key]
}

// FindTemplateByName returns the template registered for name, or nil.
func (s *Store) FindTemplateByName(name string) *Template {
	key, ok := s.names.Lookup(name)
	if !ok {
		return nil
	}
	return s.FindTemplate(key)
}

// NewLocomotor creates a runtime controller bound to t.
func (s *Store) NewLocomotor(t *Template) *Locomotor {
	return newLocomotor(t, s.svc)
}

// NewOverride layers a copy of t on top of it and returns the copy.
// Returns nil for a nil template.
func (s *Store) NewOverride(t *Template) *Template {
	if t == nil {
		return nil
	}
	o := t.clone()
	o.allocated = true
	linkOverride(t, o)
	return o
}

func linkOverride(under, o *Template) {
	under.next = o
	o.prev = under
}

// Reset discards every override layer. Templates that were themselves
// created while loading overrides are removed.
func (s *Store) Reset() {
	for key, t := range s.templates {
		if t.deleteOverrides() == nil {
			delete(s.templates, key)
		}
	}
}

// ParseDefinition reads one Locomotor block.
//
// An existing template is overwritten in place, unless the block is loaded in
// create-overrides mode: then a new layer is put on top of its final override.
func (s *Store) ParseDefinition(b *ini.Block) error {
	name, err := b.NextToken()
	if err != nil {
		return err
	}
	key := s.names.NameToKey(name)

	// under is the layer a new override goes on top of once it validates.
	var under *Template
	found := false
	t := s.FindTemplate(key)
	if t != nil {
		if b.LoadType == ini.LoadCreateOverrides {
			under = t.FinalOverride()
			t = under.clone()
			t.allocated = true
		}
		found = true
	} else {
		t = NewTemplate()
		if b.LoadType == ini.LoadCreateOverrides {
			t.allocated = true
		}
	}

	t.name = name
	if err := ini.InitFrom(b, t, TemplateFields); err != nil {
		return fmt.Errorf("locomotor %s: %w", name, err)
	}
	if err := t.Validate(); err != nil {
		return err
	}

	if under != nil {
		linkOverride(under, t)
	}
	if !found {
		s.templates[key] = t
	}
	slog.Debug("locomotor template parsed",
		"template", name,
		"appearance", t.appearance,
		"override", t.allocated,
		"load_type", b.LoadType)
	return nil
}

// Count returns the number of registered templates.
func (s *Store) Count() int { return len(s.templates) }

// Names returns the sorted names of registered templates.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.templates))
	for _, t := range s.templates {
		names = append(names, t.name)
	}
	slices.Sort(names)
	return names
}

// theStore is the process-wide store, valid between InitStore and ShutdownStore.
var theStore *Store

// InitStore creates the process-wide store.
func InitStore(names *namekey.Generator, svc Services) *Store {
	theStore = NewStore(names, svc)
	return theStore
}

// TheStore returns the process-wide store, or nil outside its lifetime.
func TheStore() *Store { return theStore }

// ShutdownStore drops the process-wide store and every template it owns.
func ShutdownStore() {
	if theStore == nil {
		return
	}
	slog.Info("locomotor store shut down", "templates", theStore.Count())
	theStore = nil
}

// ParseTemplateDefinition is the ini block parser for the process-wide store.
func ParseTemplateDefinition(b *ini.Block) error {
	if theStore == nil {
		return ErrNoStore
	}
	return theStore.ParseDefinition(b)
}

// Register binds the Locomotor keyword to the process-wide store.
func Register(l *ini.Loader) {
	l.Register(BlockKeyword, ParseTemplateDefinition)
}

// NewLocomotorByName creates a locomotor bound to the newest layer of the named template.
func (s *Store) NewLocomotorByName(name string) (*Locomotor, error) {
	t := s.FindTemplateByName(name)
	if t == nil {
		return nil, fmt.Errorf("locomotor template %q: %w", name, ErrNilTemplate)
	}
	return s.NewLocomotor(t.FinalOverride()), nil
}
