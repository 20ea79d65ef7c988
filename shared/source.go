package shared

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

const moduleTemplate = `const registry = globalThis[{{ js .Key }}];
if (registry === undefined || registry === null) {
  throw new Error({{ js .Missing }});
}
if (!Object.prototype.hasOwnProperty.call(registry, {{ js .ID }})) {
  throw new Error({{ js .Unregistered }});
}
const mod = registry[{{ js .ID }}];
export default mod;
{{- range .Exports }}
export const {{ . }} = mod[{{ js . }}];
{{- end }}
`

var moduleSource = template.Must(template.New("shared").Funcs(template.FuncMap{
	"js": func(s string) string {
		b, _ := json.Marshal(s)
		return string(b)
	},
}).Parse(moduleTemplate))

// ModuleSource generates the ES module that re-exports a shared module from
// the host. The module throws on evaluation when the host has not installed
// the registry object or the module in it.
func (r *Registry) ModuleSource(specifier string) (string, error) {
	if !r.Match(specifier) {
		return "", fmt.Errorf("shared: %q is not registered", specifier)
	}

	var b strings.Builder
	err := moduleSource.Execute(&b, struct {
		Key, ID, Missing, Unregistered string
		Exports                        []string
	}{
		Key:          r.key,
		ID:           specifier,
		Missing:      fmt.Sprintf("shared module registry %q is not installed on globalThis", r.key),
		Unregistered: fmt.Sprintf("shared module %q is not provided by the host", specifier),
		Exports:      r.Exports(specifier),
	})
	if err != nil {
		return "", fmt.Errorf("shared: %w", err)
	}
	return b.String(), nil
}
