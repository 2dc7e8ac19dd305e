package ports

import "context"

// GuideProvider serves the player-facing markdown guides shipped with the server.
type GuideProvider interface {
	File(ctx context.Context, path string) ([]byte, error)
}
