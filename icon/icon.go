// Package icon renders status and entry symbols in the configured variant.
package icon

import (
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vbuild-dev/vbuild/key"
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	squares string
}

var variants = map[string]func(*iconDef) string{
	"emoji":   func(d *iconDef) string { return d.emoji },
	"nerd":    func(d *iconDef) string { return d.nerd },
	"plain":   func(d *iconDef) string { return d.plain },
	"squares": func(d *iconDef) string { return d.squares },
}

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return []string{"emoji", "nerd", "plain", "squares"}
}

// Get renders i in the configured variant. Unknown variants render nothing.
func Get(i Icon) string {
	pick, ok := variants[viper.GetString(key.IconsVariant)]
	if !ok {
		return ""
	}
	return pick(lo.ValueOr(icons, i, &iconDef{}))
}
