// Package imgstrip provides the command-line interface for imgstrip. It wires
// the extract, encode, tui and config subcommands to the internal packages.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/redactyl/imgstrip/cmd/imgstrip"
//	func main() { imgstrip.Execute() }
package imgstrip
