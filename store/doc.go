// Package store defines the disk-backed persistence for compiled bundle
// output, mapping request routes onto SavePath/<route> files. Writes go
// through a temp file followed by an atomic rename so that a crash mid-write
// never leaves a half-written bundle where a web server could pick it up.
// The resave middleware depends on this package to persist compiled content
// before serving it; reading the files back is deliberately left to whatever
// static file layer sits in front of the middleware.
package store
