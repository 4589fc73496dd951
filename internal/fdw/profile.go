package fdw

import (
	"fmt"
	"sort"
	"sync"
)

// ── Profile ────────────────────────────────────────────────
// A Profile is the capability set that adapts the generic scan pipeline
// to one remote service: how the request is addressed, how the response
// envelope is unwrapped, how cells are located and which coercions exist.
// Implementations live in fdw/profiles/, one file per remote service.

// OptionField describes a single option a profile understands.
type OptionField struct {
	Key      string `json:"key"`
	Scope    string `json:"scope"` // "server" | "table"
	Required bool   `json:"required"`
	Default  string `json:"default,omitempty"`
	Help     string `json:"help,omitempty"`
}

// Profile parameterizes a Connector for one remote service.
type Profile struct {
	Name           string
	Label          string
	DefaultBaseURL string
	Options        []OptionField

	// BaseURLAliases are older server option names accepted in place of base_url.
	BaseURLAliases []string

	// BuildRequest makes the single scan request. server always carries base_url.
	BuildRequest func(server, table Options) (*Request, error)

	// Unwrap validates the response envelope and returns the record array.
	Unwrap func(table Options, body []byte) ([]any, error)

	// Locate finds the source cell for a column; nil means LocateAuto.
	Locate func(record any, col Column) (any, bool)

	// Coercions lists the target types this profile can produce.
	Coercions Coercions
}

// locate resolves a cell through the profile's locator.
func (p *Profile) locate(record any, col Column) (any, bool) {
	if p.Locate != nil {
		return p.Locate(record, col)
	}
	return LocateAuto(record, col)
}

// ── Profile Registry ───────────────────────────────────────
// Compile-time registration via init() in each profile file.

var (
	registryMu sync.RWMutex
	registry   = map[string]*Profile{}
)

// RegisterProfile registers a profile by name.
// Called from init() in each profile implementation file.
func RegisterProfile(p *Profile) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[p.Name] = p
}

// GetProfile returns a registered profile by name.
func GetProfile(name string) (*Profile, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := registry[name]
	if !ok {
		return nil, &UnknownProfileError{Name: name, Available: listNamesLocked()}
	}
	return p, nil
}

// ListProfiles returns all registered profiles sorted by name.
func ListProfiles() []*Profile {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]*Profile, 0, len(registry))
	for _, p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func listNamesLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownProfileError is returned when an unregistered profile is requested.
type UnknownProfileError struct {
	Name      string
	Available []string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("unknown profile %q (available: %v)", e.Name, e.Available)
}

func (e *UnknownProfileError) Is(target error) bool { return target == ErrConfig }
