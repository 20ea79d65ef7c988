package constant

// Scaffold paths written by "vbuild init".
const (
	ManifestPath = "/package.json"
	EntryPath    = "/src/index.ts"
)

// EntryTemplate is the source written to EntryPath for a fresh project.
const EntryTemplate = `export function greet(name: string): string {
	return "Hello, " + name + "!";
}

console.log(greet("vbuild"));
`

// ManifestTemplate is the initial manifest for a fresh project.
const ManifestTemplate = `{
  "name": {{ printf "%q" .Name }},
  "main": {{ printf "%q" .Main }},
  "dependencies": {}
}
`
