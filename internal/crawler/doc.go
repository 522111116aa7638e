// Package crawler provides concurrent site crawling with text search.
//
// # Architecture
//
// The package is designed around the Scheduler type, which coordinates a
// fixed pool of workers over a shared URL queue. Workers pop URLs, claim
// them against a shared frontier so every page is processed exactly once,
// fetch and parse the page, test its text against the query, and push
// newly discovered in-scope links back onto the queue. The crawl ends when
// the queue drains: no URLs remain and no worker is mid-page.
//
// Design decision: We use one shared worker pool rather than spawning
// goroutines per page because:
//  1. Concurrency stays bounded regardless of how link-dense a site is
//  2. Termination is a simple drain condition instead of recursive joins
//  3. A single frontier claim is the only dedup point, so two workers can
//     never fetch the same URL
//
// # Components
//
//   - Scheduler: coordinates workers, the queue, and result collection
//   - Frontier: atomic claim set over normalized URLs
//   - Fetcher: HTTP retrieval with politeness and body-size limits
//   - Extractor: HTML parser producing visible text and in-scope links
//   - Matcher: case-insensitive query test over page text
//   - Aggregator: thread-safe collection of matches and failures
//
// # Politeness
//
// The crawler is designed to be polite:
//   - Optional requests-per-second rate limit shared by all workers
//   - Bounded worker count caps simultaneous connections
//   - Response bodies are read up to a size limit
//   - Crawling never leaves the start site
//
// # Usage
//
//	sched := crawler.NewScheduler(httpClient, crawler.WithWorkers(8))
//	matches, err := sched.Run(ctx, "http://example.com", "contact")
package crawler
