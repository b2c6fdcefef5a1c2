// Package capture implements a library capture session: it collects songs from the rendered library page and from
// the paginated feed responses the page receives while the operator pages through it, then exports them.
//
// # Sources
//
// Records come from two producers, always in this order:
//
//  1. [Session.ScanVisibleRows] : a single pass over the rows of the initially rendered page
//     - rows are elements whose data-testid matches the configured row id
//     - a row without a song link is not a song and is skipped
//     - titles go through [CleanTitle], versions through [ExtractVersion]
//
//  2. [Session.Observe] : every feed response seen by a registered [Tap]
//     - bodies are decoded as {clips: [...]}; anything else is ignored
//     - versions fall back from the song row badge to major_model_version to nil
//
// Both paths keep their own version strategy. A song first seen in the page keeps the version read from its row
// text even if the feed would have labelled it differently.
//
// # Interception
//
// A [Tap] is a detachable hook that feeds response bodies to the session. [ClientTap] wraps an [http.Client]
// transport with an [Interceptor]; the browser package provides a tap backed by DevTools network events.
// Observation never changes what the host receives: the interceptor returns the original response and error, and
// duplicates the body as the host reads it. Nothing on the observation path returns an error or panics into the host.
//
// # Lifecycle
//
// A session starts in [Capturing] and ends in [Stopped] through [Session.Export] or [Session.Stop], which detach
// every tap. The collection is append-only; export reads a snapshot and never clears it.
package capture
