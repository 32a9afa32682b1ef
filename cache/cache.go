package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nabinked/kcl-bootstrap/common"
	"github.com/nabinked/kcl-bootstrap/event"
	"github.com/nabinked/kcl-bootstrap/maven"
)

const (
	// DefaultTimeout bounds a single jar download.
	DefaultTimeout = 2 * time.Minute

	// Fan-out limit for downloads against the remote repository.
	maxParallelFetches = 4
)

type Cache struct {
	client *http.Client
}

func New(timeout time.Duration) *Cache {
	return &Cache{client: &http.Client{Timeout: timeout}}
}

// Ensure makes folder contain every manifest jar, fetching missing ones
// from the remote repository, and returns the classpath pattern covering
// the whole folder. Jars already present are never fetched again. A failed
// fetch fails the whole call: the daemon never starts on a partial
// classpath. Progress events are fired on bus while Ensure runs; the bus
// is closed before returning.
func (c *Cache) Ensure(folder string, packages []common.Artifact, bus *event.Bus) (string, error) {
	defer bus.Close()
	bus.Fire(event.FetchStarted, "")
	missing := missingArtifacts(folder, packages)
	if len(missing) > 0 {
		if err := os.MkdirAll(folder, 0755); err != nil {
			return "", fmt.Errorf("failed to create jar folder %s: %v", folder, err)
		}
		wg, ctx := errgroup.WithContext(context.Background())
		wg.SetLimit(maxParallelFetches)
		for _, pkg := range missing {
			pkg := pkg
			wg.Go(func() error {
				url := maven.URL(pkg)
				destination := filepath.Join(folder, pkg.FileName())
				bus.Fire(event.JarFetching, fmt.Sprintf("%s --> %s", url, destination))
				return c.fetch(ctx, url, destination)
			})
		}
		if err := wg.Wait(); err != nil {
			return "", err
		}
	}
	bus.Fire(event.FetchFinished, "")
	return filepath.Join(folder, "*"), nil
}

// missingArtifacts keeps manifest order and drops artifacts whose jar is
// already on disk. Interchangeable duplicates are queued once so that no
// two fetches share a destination path.
func missingArtifacts(folder string, packages []common.Artifact) []common.Artifact {
	var missing []common.Artifact
	queued := make(map[string]bool)
	for _, pkg := range packages {
		fileName := pkg.FileName()
		if queued[fileName] || fileExists(filepath.Join(folder, fileName)) {
			continue
		}
		queued[fileName] = true
		missing = append(missing, pkg)
	}
	return missing
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// fetch downloads one jar and moves it into place only when completely
// written, so an interrupted bootstrap never leaves a truncated jar that
// a later run would skip.
func (c *Cache) fetch(ctx context.Context, url string, destination string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %v", url, err)
	}
	rsp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %v", url, err)
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch %s: %s", url, rsp.Status)
	}
	tmp, err := os.CreateTemp(filepath.Dir(destination), filepath.Base(destination)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", destination, err)
	}
	if _, err := io.Copy(tmp, rsp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %v", destination, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %v", destination, err)
	}
	if err := os.Rename(tmp.Name(), destination); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %v", destination, err)
	}
	return nil
}
