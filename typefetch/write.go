package typefetch

import (
	"encoding/json"
	"sort"

	"github.com/samber/lo"
	"github.com/vbuild-dev/vbuild/vfs"
	"github.com/vbuild-dev/vbuild/vpath"
)

// ModulesDir is the root of installed package trees in the project filesystem.
const ModulesDir = "/node_modules"

// PackageDir is where the declarations of name are written.
func PackageDir(name string) string {
	return vpath.Join(ModulesDir, name)
}

// WriteToFS writes the declarations under PackageDir(types.PackageName)
// together with a package.json pointing the type checker at the entry.
// Files stay inside the package directory and are written in sorted
// order; the first failure stops the write.
func WriteToFS(fs *vfs.FS, types *Types) error {
	dir := PackageDir(types.PackageName)

	paths := lo.Keys(types.Files)
	sort.Strings(paths)
	for _, p := range paths {
		if err := fs.WriteString(vpath.Join(dir, vpath.Normalize(p)), types.Files[p]); err != nil {
			return err
		}
	}

	pkg, err := json.MarshalIndent(map[string]string{
		"name":    types.PackageName,
		"version": types.Version,
		"types":   types.Entry,
	}, "", "  ")
	if err != nil {
		return err
	}
	return fs.WriteFile(vpath.Join(dir, "package.json"), pkg)
}
