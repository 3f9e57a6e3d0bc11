package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/flowdoc/pkg/cache"
	"github.com/matzehuels/flowdoc/pkg/errors"
)

func TestCacheClearRemovesEntries(t *testing.T) {
	root := sandbox(t)
	dir := filepath.Join(root, "cache", "flowdoc", "render")

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		if err := fc.Set(ctx, key, []byte("<svg/>"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	out, _, err := execute(t, "", "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared 3 cached entries") {
		t.Errorf("clear output = %q", out)
	}
	if _, ok, _ := fc.Get(ctx, "a"); ok {
		t.Error("entry survived clear")
	}
}

func TestCacheClearNeedsFileBackend(t *testing.T) {
	sandbox(t)
	t.Setenv("FLOWDOC_CACHE_BACKEND", "none")

	_, _, err := execute(t, "", "cache", "clear")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}

func TestCachePathHonorsConfig(t *testing.T) {
	sandbox(t)
	dir := t.TempDir()
	t.Setenv("FLOWDOC_CACHE_DIR", dir)

	out, _, err := execute(t, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", out, dir)
	}
}
