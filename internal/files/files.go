// Package files stores task attachments on local disk or in MinIO.
package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store saves an attachment under key and returns a reference to it.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// Key builds the object key for a task attachment:
// <owner>/task_<number>/<filename>. Directory parts of filename are dropped.
func Key(owner string, taskNumber int, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		name = "attachment"
	}
	return path.Join(cleanSegment(owner), fmt.Sprintf("task_%d", taskNumber), name)
}

func cleanSegment(s string) string {
	s = strings.NewReplacer("/", "_", `\`, "_", "..", "_").Replace(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return s
}

// Config selects the attachment backend.
type Config struct {
	Backend string // "local" or "minio"
	Dir     string
	Minio   MinioConfig
}

// DefaultConfig stores attachments under ./uploads.
func DefaultConfig() Config {
	return Config{Backend: "local", Dir: "uploads", Minio: MinioConfig{Bucket: "learnpath-uploads"}}
}

// ConfigFromEnv reads LEARNPATH_UPLOAD_* and LEARNPATH_MINIO_* variables.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	overrides := []struct {
		env string
		dst *string
	}{
		{"LEARNPATH_UPLOAD_BACKEND", &cfg.Backend},
		{"LEARNPATH_UPLOAD_DIR", &cfg.Dir},
		{"LEARNPATH_MINIO_ENDPOINT", &cfg.Minio.Endpoint},
		{"LEARNPATH_MINIO_ACCESS_KEY", &cfg.Minio.AccessKey},
		{"LEARNPATH_MINIO_SECRET_KEY", &cfg.Minio.SecretKey},
		{"LEARNPATH_MINIO_BUCKET", &cfg.Minio.Bucket},
		{"LEARNPATH_MINIO_REGION", &cfg.Minio.Region},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
	cfg.Minio.UseSSL = os.Getenv("LEARNPATH_MINIO_USE_SSL") == "true"
	return cfg
}

// New opens the configured backend.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStore(cfg.Dir)
	case "minio":
		return NewMinioStore(ctx, cfg.Minio)
	default:
		return nil, fmt.Errorf("unknown upload backend: %q", cfg.Backend)
	}
}

// LocalStore writes attachments below a root directory.
type LocalStore struct {
	root string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload dir must not be empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

// Put writes r to root/key and returns the file path.
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if !strings.HasPrefix(dst, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes upload dir", key)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", dst, err)
	}
	return dst, nil
}
