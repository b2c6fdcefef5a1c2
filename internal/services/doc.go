// Package services talks to the library's HTTP API directly, outside a browser.
//
// # Feed Client
//
// [FeedClient] replays the paginated feed request copied from browser DevTools ("Copy as cURL"). The copied
// headers and cookie carry the user's browser session, so no separate authentication exists. Each call to
// [FeedClient.Page] swaps the page query parameter, reads the whole body and reports how many clips it held.
//
// The client does not extract songs itself. Its [http.Client] is expected to carry a capture tap, which sees
// every body as it is read.
//
// # Error Handling
//
//   - [shared.ErrNoCurlURL] : the copied command had no request URL
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
package services
