package resave

import "fmt"

// CompileError reports that the bundler failed for a route. Its message is
// exactly the line handed to the instance Logger, so upstream error handlers
// can surface it verbatim.
type CompileError struct {
	// Route is the request path that selected the bundle.
	Route string
	// Source is the resolved source path the bundler was given.
	Source string
	// Err is the error returned by the bundler.
	Err error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("Bundle %q failed to compile: %v", e.Route, e.Err)
}

// Unwrap returns the underlying bundler error.
func (e *CompileError) Unwrap() error { return e.Err }

// SaveError reports that persisting a compiled bundle failed. The compile
// step succeeded; nothing was served.
type SaveError struct {
	// Route is the request path that selected the bundle.
	Route string
	// Err is the error returned by the store.
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("Bundle %q failed to save: %v", e.Route, e.Err)
}

// Unwrap returns the underlying store error.
func (e *SaveError) Unwrap() error { return e.Err }
