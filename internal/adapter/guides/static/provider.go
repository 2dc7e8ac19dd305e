// Package staticguides serves the markdown guides from a directory on disk.
package staticguides

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"resurgent/internal/app/ports"
)

var ErrInvalidGuidePath = errors.New("invalid guide filepath")

type Provider struct {
	Root string
}

var _ ports.GuideProvider = Provider{}

func (p Provider) File(_ context.Context, path string) ([]byte, error) {
	safePath, err := secureJoin(p.Root, path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(safePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ports.ErrNotFound
	}
	return b, err
}

func secureJoin(root, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" || filepath.IsAbs(rel) {
		return "", ErrInvalidGuidePath
	}
	if filepath.Ext(rel) != ".md" {
		return "", ErrInvalidGuidePath
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	target := filepath.Clean(filepath.Join(rootAbs, rel))
	if !strings.HasPrefix(target, rootAbs+string(filepath.Separator)) {
		return "", ErrInvalidGuidePath
	}
	return target, nil
}
