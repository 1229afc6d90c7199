// Package timing measures labelled scopes with the monotonic clock and hands
// the finished records to a Reporter.
package timing
