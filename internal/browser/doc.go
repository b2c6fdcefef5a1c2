// package browser drives a Chrome instance over the DevTools protocol so songs can be captured from the live
// library page: it opens the page, hands its rendered HTML to the row scanner and taps the page's network
// traffic for feed responses.
package browser
