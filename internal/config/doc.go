// Package config loads splice settings.
//
// Settings come from, in increasing precedence:
//   - Built-in defaults
//   - A YAML config file (.splice.yaml in the working directory or
//     $HOME/.config/splice, or an explicit path)
//   - SPLICE_ prefixed environment variables (SPLICE_SNAP_TOLERANCE, ...)
package config
