// Package main hosts the extrafiles CLI entrypoint and command graph.
//
// The Cobra command tree reads the beets library, builds the plugin from
// configuration and fires host events at it: once for a command run, or
// continuously while watching the library for imports. Configuration and
// logger setup are resolved once per invocation in commandContext so
// subcommands stay declarative.
package main
