// Package snapshotfile encodes games as zstd-compressed, schema-checked JSON.
package snapshotfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"resurgent/internal/app/ports"
	"resurgent/internal/domain/city"
)

const FormatVersion = 1

// Maximum decompressed size accepted on import.
const maxDecodedSize = 16 << 20

var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

//go:embed snapshot.schema.json
var schemaJSON []byte

const schemaURL = "snapshot.schema.json"

type envelope struct {
	Version int             `json:"version"`
	State   city.WorldState `json:"state"`
}

// Codec implements ports.SnapshotCodec. The zero value is ready to use.
type Codec struct {
	// Raw skips compression on Encode. Decode accepts both forms.
	Raw bool
}

var _ ports.SnapshotCodec = Codec{}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

func (c Codec) Encode(state city.WorldState) ([]byte, error) {
	// Identity and bookkeeping belong to the server holding the game.
	state.GameID = ""
	state.Version = 0
	raw, err := json.Marshal(envelope{Version: FormatVersion, State: state})
	if err != nil {
		return nil, err
	}
	if c.Raw {
		return raw, nil
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

func (c Codec) Decode(data []byte) (city.WorldState, error) {
	raw := data
	if isZstd(data) {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecodedSize))
		if err != nil {
			return city.WorldState{}, err
		}
		defer dec.Close()
		raw, err = dec.DecodeAll(data, nil)
		if err != nil {
			return city.WorldState{}, fmt.Errorf("decompress: %w", err)
		}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return city.WorldState{}, fmt.Errorf("parse: %w", err)
	}
	if obj, ok := doc.(map[string]any); ok {
		if v, ok := obj["version"].(float64); ok && int(v) != FormatVersion {
			return city.WorldState{}, fmt.Errorf("%w: %v", ErrUnsupportedVersion, v)
		}
	}
	s, err := compiledSchema()
	if err != nil {
		return city.WorldState{}, err
	}
	if err := s.Validate(doc); err != nil {
		return city.WorldState{}, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return city.WorldState{}, fmt.Errorf("decode: %w", err)
	}
	return env.State, nil
}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func isZstd(b []byte) bool {
	return bytes.HasPrefix(b, zstdMagic)
}
