package ports

import "resurgent/internal/domain/city"

// SnapshotCodec turns a WorldState into a portable save file and back.
type SnapshotCodec interface {
	Encode(state city.WorldState) ([]byte, error)
	Decode(data []byte) (city.WorldState, error)
}
