// barcut plans how to cut a list of lengths from stock bars with as little
// waste as possible.
//
// Build:
//
//	go build -o barcut ./cmd/barcut
//
// Run the HTTP service:
//
//	barcut serve --addr :8080
package main

import "github.com/piwi3910/barcut/internal/cli"

func main() {
	cli.Execute()
}
