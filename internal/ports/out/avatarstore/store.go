package avatarstore

import (
	"context"
	"errors"
	"io"
)

// ErrUnsupportedType indicates the upload is not an image format we store.
var ErrUnsupportedType = errors.New("unsupported avatar type")

// Store keeps uploaded avatar images and returns their public URL.
type Store interface {
	Put(ctx context.Context, ext string, r io.Reader) (url string, err error)
}
