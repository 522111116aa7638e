// Package main provides the entry point for the sitegrep CLI.
//
// sitegrep recursively crawls a site starting from its homepage and reports
// every page whose text contains a search query. The search is case
// insensitive and stays within the site: only links under the start URL
// are followed.
//
// Usage:
//
//	sitegrep <start-url> <query>
//	sitegrep history --seed <start-url>
//
// See --help for all available options.
package main

// main is the entry point for sitegrep.
func main() {
	Execute()
}
