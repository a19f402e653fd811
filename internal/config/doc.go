// Package config loads imgstrip configuration from local and global YAML files
// with precedence rules. It is internal; CLI code maps flags and files into
// pipeline options.
package config
