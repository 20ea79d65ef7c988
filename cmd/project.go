package cmd

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vbuild-dev/vbuild/log"
	"github.com/vbuild-dev/vbuild/manifest"
	"github.com/vbuild-dev/vbuild/project"
	"github.com/vbuild-dev/vbuild/where"
)

func projectPath(cmd *cobra.Command) string {
	if p := lo.Must(cmd.Flags().GetString("project")); p != "" {
		return p
	}
	return where.Project()
}

// openProject loads the persisted project snapshot.
func openProject(cmd *cobra.Command) *project.Project {
	fsOpts, err := project.FSOptionsFromConfig()
	handleErr(err)

	path := projectPath(cmd)
	fs, err := project.Load(path, fsOpts...)
	handleErr(err)
	log.Debugf("loaded project %s (%d bytes)", path, fs.Size())

	p, err := project.New(fs, project.OptionsFromConfig())
	handleErr(err)

	// Packages installed as shared are assumed to be provided by the page that runs the bundle.
	for name, version := range p.Manifest.Dependencies() {
		if version == manifest.SharedVersion {
			p.Shared.Register(name)
		}
	}
	return p
}

// saveProject persists the project snapshot.
func saveProject(cmd *cobra.Command, p *project.Project) {
	handleErr(project.Save(p.FS, projectPath(cmd)))
}
