// Package tasks runs long operations against the library with real-time progress reporting.
//
// # Replay
//
// [ReplayEngine.Run] walks the paginated feed one page at a time through a [FeedFetcher]:
//
//  1. Fetches page Start, Start+1, ... with the copied browser request
//  2. Waits for the capture tap to finish with each body
//  3. Reports the collection size after every page
//
// It stops at the first page with no clips, after MaxPages pages, or when the context ends. There is no retry and
// no pacing; a failed request ends the run with the pages fetched so far.
//
// # Progress Reporting
//
// Operations emit [capture.Progress] values on an optional channel. Sends never block: updates are dropped when
// the channel is full.
package tasks
