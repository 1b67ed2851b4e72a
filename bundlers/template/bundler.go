// Package template provides a copyable skeleton for writing new bundlers.
package template

import "github.com/go-resave/resave/bundlers"

//
// Usage: copy this directory to bundlers/<key>/ and replace the pieces.
// - Implement resave.Bundler on your own type; compile output is what gets
//   saved and served, so return the final bytes.
// - Call bundlers.MustRegister from init() with your key and description.
// - Add the package to the daemon's blank-import list so configs can name
//   the key.
//
// This file only demonstrates the registration shape and registers nothing.
var _ = bundlers.Registration{}
