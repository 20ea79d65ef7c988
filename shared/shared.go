// Package shared keeps the registry of host-provided modules.
//
// A shared module is never bundled: the bundle reads it at run time from an
// object the host installs on globalThis under the registry's instance key.
// The registry is an explicit handle; two registries never see each other's
// modules.
package shared

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Wildcard registers every one-segment subpath of a module: "pkg/*"
// matches "pkg/a" but neither "pkg" nor "pkg/a/b".
const Wildcard = "/*"

// Module is one registered shared module.
type Module struct {
	ID      string
	Exports []string
}

// Registry maps module ids to their statically known export names.
type Registry struct {
	key     string
	mu      sync.RWMutex
	modules map[string]*Module
}

// NewRegistry creates a registry with a fresh instance key.
func NewRegistry() *Registry {
	buf := make([]byte, 8)
	lo.Must(rand.Read(buf))
	return NewRegistryWithKey("__vbuild_shared_" + hex.EncodeToString(buf))
}

// NewRegistryWithKey creates a registry bound to an explicit instance key.
func NewRegistryWithKey(key string) *Registry {
	return &Registry{key: key, modules: make(map[string]*Module)}
}

// Key is the globalThis property the host must install the module values under.
func (r *Registry) Key() string {
	return r.key
}

// Register adds or replaces a module with the given export names. Names
// that cannot be bound as a named export are dropped.
func (r *Registry) Register(id string, exports ...string) *Module {
	names := lo.Uniq(lo.Filter(exports, func(name string, _ int) bool {
		return IsExportName(name)
	}))
	sort.Strings(names)

	m := &Module{ID: id, Exports: names}
	r.mu.Lock()
	r.modules[id] = m
	r.mu.Unlock()
	return m
}

// RegisterValue registers id, discovering export names from value: the
// string keys of a map or the exported fields of a struct (json tag names
// win over field names, "-" skips the field).
func (r *Registry) RegisterValue(id string, value any) *Module {
	return r.Register(id, discoverExports(value)...)
}

// Unregister removes id and reports whether it was present.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.modules[id]
	delete(r.modules, id)
	return ok
}

// Get returns the module registered under exactly id.
func (r *Registry) Get(id string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[id]
	return m, ok
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := lo.Keys(r.modules)
	sort.Strings(ids)
	return ids
}

// Match reports whether specifier is served by the registry. A plain
// registration matches only the identical specifier; "pkg/*" matches
// specifiers extending "pkg" by exactly one segment.
func (r *Registry) Match(specifier string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.modules[specifier]; ok {
		return true
	}

	i := strings.LastIndexByte(specifier, '/')
	if i <= 0 || i == len(specifier)-1 {
		return false
	}
	_, ok := r.modules[specifier[:i]+Wildcard]
	return ok
}

// Exports returns the known export names for specifier, or nil when only
// the default export is available.
func (r *Registry) Exports(specifier string) []string {
	if m, ok := r.Get(specifier); ok {
		return m.Exports
	}
	return nil
}

func discoverExports(value any) []string {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		return lo.Map(v.MapKeys(), func(k reflect.Value, _ int) string {
			return k.String()
		})
	case reflect.Struct:
		var names []string
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name := field.Name
			tag, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			switch tag {
			case "-":
				continue
			case "":
			default:
				name = tag
			}
			names = append(names, name)
		}
		return names
	default:
		return nil
	}
}

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

var reserved = lo.SliceToMap(strings.Fields(`
	await break case catch class const continue debugger default delete do else enum
	export extends false finally for function if implements import in instanceof
	interface let new null package private protected public return static super
	switch this throw true try typeof var void while with yield arguments eval
`), func(s string) (string, struct{}) { return s, struct{}{} })

// IsExportName reports whether name can be bound as a named ES export.
func IsExportName(name string) bool {
	if !identifier.MatchString(name) {
		return false
	}
	_, bad := reserved[name]
	return !bad
}

// String implements fmt.Stringer.
func (m *Module) String() string {
	return fmt.Sprintf("%s (%d exports)", m.ID, len(m.Exports))
}
