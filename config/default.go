package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vbuild-dev/vbuild/color"
	"github.com/vbuild-dev/vbuild/constant"
	"github.com/vbuild-dev/vbuild/key"
	"github.com/vbuild-dev/vbuild/style"
)

// Field is one configuration key with its default and help text.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Env is the environment variable overriding the field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.App + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Type names the Go type of the default value.
func (f *Field) Type() string {
	return fmt.Sprintf("%T", f.Value)
}

// Pretty renders the field for `config info`.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"key":         f.Key,
		"env":         f.Env(),
		"value":       viper.Get(f.Key),
		"default":     f.Value,
		"type":        f.Type(),
		"description": f.Description,
	})
}

// Default holds every known field by key.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

func register(k string, v any, description ...string) {
	if _, exists := Default[k]; exists {
		panic("config: duplicate key " + k)
	}
	Default[k] = Field{Key: k, Value: v, Description: strings.Join(description, "\n")}
	EnvExposed = append(EnvExposed, k)
}

func init() {
	register(key.VFSMaxSize, "50MB",
		"Byte budget of the in-memory project filesystem.",
		"Accepts sizes such as 512KB, 50MB or 1GiB. 0 disables the cap")

	register(key.ResolverCDNURL, "https://esm.sh",
		"Base URL bare package imports are rewritten to")
	register(key.ResolverAllowRemoteBundling, false,
		"Fetch and bundle remote URL imports at build time",
		"instead of leaving them external")

	register(key.TypesTryTypesPackages, true,
		"Fall back to @types/<name> when a package ships no declarations")
	register(key.TypesCacheTTL, "168h",
		"How long fetched type definitions stay cached on disk")
	register(key.TypesCacheDisk, true,
		"Persist fetched type definitions in the cache directory")

	register(key.NetworkFingerprint, false,
		"Present a browser TLS fingerprint to the CDN")
	register(key.NetworkTimeout, "1m",
		"Timeout of a single CDN request")

	register(key.ManifestPath, constant.ManifestPath,
		"Location of package.json inside the project filesystem")

	register(key.BuildFormat, "esm",
		"Output format of bundles.",
		"Available options are: esm, iife, cjs")
	register(key.BuildMinify, false,
		"Minify bundles")

	register(key.LogsWrite, false,
		"Write logs to the logs directory")
	register(key.LogsLevel, "info",
		"Available options are (from less to most verbose):",
		"panic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false,
		"Use json format for logs")

	register(key.CliColored, true,
		"Enable colored help output")
	register(key.CliVersionCheck, true,
		"Check for new releases when showing help or version")
	register(key.IconsVariant, "plain",
		"Icons variant.",
		"Available options are: emoji, nerd, plain, squares")
}

var prettyTemplate = lo.Must(template.New("field").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"key":    style.Fg(color.Purple),
	"label":  style.Fg(color.Blue),
	"value":  func(k string) string { return highlight(viper.Get(k)) },
	"render": highlight,
}).Parse(`{{ faint .Description }}
{{ label "Key:" }}     {{ key .Key }}
{{ label "Env:" }}     {{ .Env }}
{{ label "Value:" }}   {{ value .Key }}
{{ label "Default:" }} {{ render .Value }}
{{ label "Type:" }}    {{ .Type }}`))

func highlight(v any) string {
	switch v := v.(type) {
	case bool:
		if v {
			return style.Fg(color.Green)("true")
		}
		return style.Fg(color.Red)("false")
	case string:
		return style.Fg(color.Yellow)(v)
	default:
		return fmt.Sprint(v)
	}
}
