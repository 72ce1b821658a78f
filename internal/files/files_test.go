package files

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		owner, filename string
		n               int
		want            string
	}{
		{"ada@example.com", "solution.py", 1, "ada@example.com/task_1/solution.py"},
		{"ada@example.com", "dir/nested/report.pdf", 3, "ada@example.com/task_3/report.pdf"},
		{"ada@example.com", `C:\work\notes.txt`, 2, "ada@example.com/task_2/notes.txt"},
		{"../evil", "x.txt", 1, "__evil/task_1/x.txt"},
		{"", "..", 4, "unknown/task_4/attachment"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.owner, tt.n, tt.filename))
		})
	}
}

func TestLocalStore_Put(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	ref, err := s.Put(context.Background(), Key("ada@example.com", 1, "main.py"), strings.NewReader("print('hi')"), -1, "text/x-python")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ada@example.com", "task_1", "main.py"), ref)

	b, err := os.ReadFile(ref)
	require.NoError(t, err)
	assert.Equal(t, "print('hi')", string(b))

	_, err = s.Put(context.Background(), "../outside.txt", strings.NewReader("x"), 1, "")
	assert.ErrorContains(t, err, "escapes")
}

func TestNew(t *testing.T) {
	s, err := New(context.Background(), Config{Backend: "local", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	_, err = New(context.Background(), Config{Backend: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{Backend: "minio"})
	assert.ErrorContains(t, err, "required")
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LEARNPATH_UPLOAD_BACKEND", "minio")
	t.Setenv("LEARNPATH_MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("LEARNPATH_MINIO_USE_SSL", "true")

	cfg := ConfigFromEnv()
	assert.Equal(t, "minio", cfg.Backend)
	assert.Equal(t, "localhost:9000", cfg.Minio.Endpoint)
	assert.Equal(t, "learnpath-uploads", cfg.Minio.Bucket)
	assert.True(t, cfg.Minio.UseSSL)
}
