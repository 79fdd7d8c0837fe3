// Command shadertypes checks type compatibility and cast queries written in
// YAML type tables.
//
// Usage:
//
//	shadertypes check [flags] <table.yaml>...
//	shadertypes matrix [flags] <table.yaml>
//	shadertypes version
//
// Config file:
//
//	shadertypes looks for shadertypes.json or .shadertypesrc in the
//	directory of the first table and its parents. Config file options are
//	overridden by CLI flags.
//
// Example shadertypes.json:
//
//	{
//	    "checkSymmetry": true,
//	    "format": "text",
//	    "diagnostics": {"cyclic_alias": "warning"}
//	}
package main

import "github.com/HugoDaniel/shadertypes/cmd/shadertypes/commands"

func main() {
	commands.Execute()
}
