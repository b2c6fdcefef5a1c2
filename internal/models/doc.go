// Package models defines the records produced by a library capture.
//
//   - [Song] : one song discovered on the library page or in a feed payload
//
// Songs carry their identifier for deduplication only; it is never exported.
package models
