package uploads

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"

	"github.com/localizy/localizy-backend/pkg/config"
	apperrors "github.com/localizy/localizy-backend/pkg/errors"
)

// allowedExtensions is the closed set of accepted upload types.
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// StoredFile describes a persisted upload.
type StoredFile struct {
	// FileName is the generated blob name, e.g. "3f1c...c2.png".
	FileName string
	// Key is the bucket-relative key, "{folder}/{FileName}".
	Key string
	// URL is the public path clients fetch the file from.
	URL string
	// Size is the stored byte count.
	Size int64
}

// Client persists uploads into a fileblob bucket and hands out public URLs.
type Client struct {
	bucket     *blob.Bucket
	publicBase string
	maxBytes   int64
}

// New opens the bucket rooted at cfg.Dir, creating the directory when missing.
func New(cfg config.UploadsConfig) (*Client, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("uploads dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir %q: %w", cfg.Dir, err)
	}

	abs, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads dir %q: %w", cfg.Dir, err)
	}

	bucket, err := fileblob.OpenBucket(abs, &fileblob.Options{CreateDir: true})
	if err != nil {
		return nil, fmt.Errorf("open fileblob bucket: %w", err)
	}

	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 5
	}

	return &Client{
		bucket:     bucket,
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
		maxBytes:   int64(maxMB) * 1024 * 1024,
	}, nil
}

// Close releases the bucket handle.
func (c *Client) Close() error {
	if c == nil || c.bucket == nil {
		return nil
	}
	return c.bucket.Close()
}

// MaxBytes reports the per-file size cap.
func (c *Client) MaxBytes() int64 {
	return c.maxBytes
}

// SaveMultipart validates and stores one multipart file under folder. The
// stored name is a fresh UUID plus the original extension so client-supplied
// names never reach the filesystem.
func (c *Client) SaveMultipart(ctx context.Context, folder string, header *multipart.FileHeader) (*StoredFile, error) {
	if header == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "no file provided")
	}
	if header.Size > c.maxBytes {
		return nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("file exceeds the %d MB limit", c.maxBytes/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return nil, apperrors.New(apperrors.CodeValidation,
			"unsupported file type, allowed: jpg, jpeg, png, gif, webp")
	}

	src, err := header.Open()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "opening uploaded file")
	}
	defer src.Close()

	return c.save(ctx, folder, ext, contentType, io.LimitReader(src, c.maxBytes))
}

func (c *Client) save(ctx context.Context, folder, ext, contentType string, src io.Reader) (*StoredFile, error) {
	folder = sanitizeFolder(folder)
	fileName := uuid.NewString() + ext
	key := path.Join(folder, fileName)

	w, err := c.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "opening blob writer")
	}

	size, err := io.Copy(w, src)
	if err != nil {
		w.Close()
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "writing uploaded file")
	}
	if err := w.Close(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "finalizing uploaded file")
	}

	return &StoredFile{
		FileName: fileName,
		Key:      key,
		URL:      c.publicBase + "/" + key,
		Size:     size,
	}, nil
}

// Delete removes a stored file. A missing blob is not an error, replacement
// flows call this best-effort.
func (c *Client) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	err := c.bucket.Delete(ctx, key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting uploaded file")
	}
	return nil
}

// URLFor returns the public URL for a bucket key.
func (c *Client) URLFor(key string) string {
	if key == "" {
		return ""
	}
	return c.publicBase + "/" + key
}

// KeyFromURL maps a public URL back to the bucket key, or "" when the URL is
// not under the public base.
func (c *Client) KeyFromURL(url string) string {
	prefix := c.publicBase + "/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}

func sanitizeFolder(folder string) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" || folder == "." {
		return "misc"
	}
	return folder
}
