// Package filestore keeps uploaded avatars on the local filesystem.
package filestore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/Overland-East-Bay/itinerary-planner/internal/ports/out/avatarstore"
)

var allowedExt = map[string]string{
	".png":  ".png",
	".jpg":  ".jpg",
	".jpeg": ".jpg",
	".gif":  ".gif",
	".webp": ".webp",
}

// Avatars implements avatarstore.Store. Files are named avatar-<nanoid><ext>
// and published under baseURL.
type Avatars struct {
	dir     string
	baseURL string
}

func NewAvatars(dir, baseURL string) (*Avatars, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &Avatars{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (a *Avatars) Put(ctx context.Context, ext string, r io.Reader) (string, error) {
	ext, ok := allowedExt[strings.ToLower(ext)]
	if !ok {
		return "", avatarstore.ErrUnsupportedType
	}
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate avatar name: %w", err)
	}
	name := "avatar-" + id + ext

	tmp, err := os.CreateTemp(a.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, contextReader{ctx: ctx, r: r}); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write avatar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close avatar: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(a.dir, name)); err != nil {
		return "", fmt.Errorf("publish avatar: %w", err)
	}
	return a.baseURL + "/" + name, nil
}

// Handler serves stored avatars by file name.
func (a *Avatars) Handler() http.Handler {
	return http.FileServer(http.Dir(a.dir))
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

var _ avatarstore.Store = (*Avatars)(nil)
