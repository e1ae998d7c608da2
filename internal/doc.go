// Package internal holds shared plumbing for the flash module.
//
// This package is internal and should not be used directly. It currently
// provides the ResponseWriter wrapper used by the flash and session
// middlewares to defer persistence work until just before the first byte
// of the response is written.
package internal
