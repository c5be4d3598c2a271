// Package schemas holds the JSON Schema documents describing the ranker's
// request and response payloads.
package schemas

import "embed"

// Files contains every *.schema.json document in this directory.
//
//go:embed *.schema.json
var Files embed.FS

const (
	// RankRequest is the file name of the request schema.
	RankRequest = "rank_request.schema.json"
	// RankResponse is the file name of the response schema.
	RankResponse = "rank_response.schema.json"
)

// Read returns the raw contents of the named schema.
func Read(name string) ([]byte, error) {
	return Files.ReadFile(name)
}
