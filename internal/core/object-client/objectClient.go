package objectclient

import (
	"bytes"
	"context"
	"mime"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/markdave123-py/askdoc/internal/core"
)

var (
	_ core.UploadStore = (*LocalStore)(nil)
	_ core.UploadStore = (*ArchivingStore)(nil)
)

// LocalStore writes uploads into a directory under their (already sanitized)
// names. Files are never removed and same-name uploads overwrite each other.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Save implements core.UploadStore.
func (s *LocalStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", eris.Wrap(err, "upload: save cancelled")
	}
	if filename == "" || filename != filepath.Base(filename) {
		return "", eris.Errorf("upload: invalid filename %q", filename)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "upload: create dir %s", s.dir)
	}

	p := filepath.Join(s.dir, filename)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "upload: write %s", p)
	}
	return p, nil
}

// ArchivingStore mirrors each upload to object storage, then saves it locally.
// Extraction always reads the local copy. If the local write fails the
// archived object is removed again.
type ArchivingStore struct {
	local  core.UploadStore
	obj    core.ObjectClient
	bucket string
	prefix string
	now    func() time.Time
}

func NewArchivingStore(local core.UploadStore, obj core.ObjectClient, bucket, prefix string) *ArchivingStore {
	return &ArchivingStore{local: local, obj: obj, bucket: bucket, prefix: prefix, now: time.Now}
}

// Save implements core.UploadStore.
func (s *ArchivingStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	key := s.objectKey(filename)
	url, err := s.obj.UploadFile(ctx, s.bucket, key, bytes.NewReader(data), contentTypeFor(filename))
	if err != nil {
		return "", eris.Wrapf(err, "upload: archive %s", filename)
	}
	zap.L().Debug("upload archived", zap.String("file", filename), zap.String("url", url))

	p, err := s.local.Save(ctx, filename, data)
	if err != nil {
		if derr := s.obj.DeleteFile(context.WithoutCancel(ctx), s.bucket, key); derr != nil {
			zap.L().Warn("orphaned archive object", zap.String("key", key), zap.Error(derr))
		}
		return "", err
	}
	return p, nil
}

// objectKey creates a consistent key layout: <prefix>/<yyyy-mm-dd>/<filename>.
func (s *ArchivingStore) objectKey(filename string) string {
	return path.Join(s.prefix, s.now().UTC().Format("2006-01-02"), filename)
}

func contentTypeFor(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
