// Package main provides the storytracker CLI: archive live pages, render
// archived ones through a headless browser, and export link data as CSV.
package main

func main() {
	Execute()
}
