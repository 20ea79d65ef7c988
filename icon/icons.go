package icon

// Icon identifies a symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Warn
	Progress
	File
	Folder
	Link
	Package
	Shared
	Types
	Build
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "✓",
		squares: "🟩",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "✗",
		squares: "🟥",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "!",
		squares: "🟨",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		squares: "🟦",
	},
	File: {
		emoji:   "📄",
		nerd:    "",
		plain:   "-",
		squares: "⬜",
	},
	Folder: {
		emoji:   "📁",
		nerd:    "",
		plain:   "+",
		squares: "🟫",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "~",
		squares: "🟪",
	},
	Package: {
		emoji:   "📦",
		nerd:    "",
		plain:   "pkg",
		squares: "🟧",
	},
	Shared: {
		emoji:   "🤝",
		nerd:    "",
		plain:   "shared",
		squares: "🟪",
	},
	Types: {
		emoji:   "📘",
		nerd:    "",
		plain:   "d.ts",
		squares: "🟦",
	},
	Build: {
		emoji:   "🏗️",
		nerd:    "",
		plain:   ">",
		squares: "🟩",
	},
}
