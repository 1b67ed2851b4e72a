// Package bundlers aggregates the compile backends available to the resave
// daemon and provides the single registration entry point.
//
// Bundler authors need to:
//  1. implement resave.Bundler in a bundlers/<key>/ directory;
//  2. register it through MustRegister from the package init();
//  3. add the package to the blank-import list the daemon config uses, so
//     the key resolves when it appears in a config file.
//
// The package also answers discovery queries for the diagnostics endpoints.
package bundlers
