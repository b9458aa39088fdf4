// Package transcript exposes the transcript extraction pipeline over HTTP.
// The envelope and its status code vocabulary are a fixed public contract,
// consumed by the notes app and by browser clients directly.
package transcript

import (
	"github.com/notetube/notetube/internal/integrations/transcript"
)

type Service struct {
	client *transcript.Client
}

// New creates the transcript HTTP service around a pipeline client
func New(client *transcript.Client) *Service {
	return &Service{client: client}
}
