package profileapi

import (
	"context"
	"io"
)

// API updates the server-side profile of the signed-in user.
type API interface {
	UpdateProfile(ctx context.Context, email, name string) error
	// UploadAvatar streams the image as multipart form data and returns its public URL.
	UploadAvatar(ctx context.Context, email, filename string, r io.Reader) (string, error)
}
