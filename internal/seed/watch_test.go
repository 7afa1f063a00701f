package seed

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const watchedYAML = `seeds:
  - id: s1
    triggers: [stress]
    response: Het klinkt alsof je veel spanning voelt.
    label: ReflectiveQuestion
    weight: 1
`

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "seeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(watchedYAML), 0644))

	cat := NewCatalogue(nil)
	var reloads atomic.Int32
	w := &Watcher{
		Path:     path,
		Debounce: 20 * time.Millisecond,
		Reload: func() error {
			seeds, err := LoadYAML(path)
			if err != nil {
				return err
			}
			cat.Swap(seeds)
			reloads.Add(1)
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// unrelated files in the directory are ignored
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644)
		_ = os.WriteFile(path, []byte(watchedYAML), 0644)
		return reloads.Load() > 0
	}, 5*time.Second, 100*time.Millisecond)
	assert.Equal(t, 1, cat.Len())

	cancel()
	require.NoError(t, <-done)
}

func TestWatchedYAML_Parses(t *testing.T) {
	seeds, err := ParseYAML([]byte(watchedYAML))
	require.NoError(t, err)
	require.Len(t, seeds, 1)
	assert.Equal(t, "s1", seeds[0].ID)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := &Watcher{Path: filepath.Join(t.TempDir(), "nope", "seeds.yaml"), Reload: func() error { return nil }}
	assert.Error(t, w.Run(context.Background()))
}
