package project

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/vbuild-dev/vbuild/constant"
	"github.com/vbuild-dev/vbuild/vfs"
)

var manifestTemplate = lo.Must(template.New("manifest").Parse(constant.ManifestTemplate))

// Scaffold writes a starter manifest and entry into fs. Existing files are
// kept unless force is set. manifestPath defaults to constant.ManifestPath.
func Scaffold(fs *vfs.FS, manifestPath, name string, force bool) error {
	if manifestPath == "" {
		manifestPath = constant.ManifestPath
	}

	if force || !fs.Exists(manifestPath) {
		var b strings.Builder
		if err := manifestTemplate.Execute(&b, struct{ Name, Main string }{name, constant.EntryPath}); err != nil {
			return err
		}
		if !json.Valid([]byte(b.String())) {
			return fmt.Errorf("scaffold: invalid project name %q", name)
		}
		if err := fs.WriteString(manifestPath, b.String()); err != nil {
			return err
		}
	}

	if force || !fs.Exists(constant.EntryPath) {
		return fs.WriteString(constant.EntryPath, constant.EntryTemplate)
	}
	return nil
}
