package cache

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/aandryashin/matchers"
	"github.com/nabinked/kcl-bootstrap/common"
	"github.com/nabinked/kcl-bootstrap/event"
	"github.com/nabinked/kcl-bootstrap/maven"
)

var testManifest = []common.Artifact{
	{GroupId: "g1", Id: "a1", Version: "1.0"},
	{GroupId: "g1.sub", Id: "a2", Version: "2.0"},
}

// fakeCentral points the package at a local repository fake and returns
// a restore function.
func fakeCentral(handler http.Handler) func() {
	srv := httptest.NewServer(handler)
	previous := maven.Central
	maven.Central = srv.URL + "/remotecontent?filepath="
	return func() {
		maven.Central = previous
		srv.Close()
	}
}

// drain consumes bus until Ensure closes it and hands back every event.
func drain(bus *event.Bus) <-chan []event.Event {
	collected := make(chan []event.Event, 1)
	go func() {
		var events []event.Event
		for evt := range bus.Events() {
			events = append(events, evt)
		}
		collected <- events
	}()
	return collected
}

func ensure(c *Cache, folder string, packages []common.Artifact) (string, []event.Event, error) {
	bus := event.NewBus()
	events := drain(bus)
	classpath, err := c.Ensure(folder, packages, bus)
	return classpath, <-events, err
}

func TestEnsureFetchesMissingJarOnce(t *testing.T) {
	var requests int64
	restore := fakeCentral(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.Write([]byte("jar-bytes"))
	}))
	defer restore()
	folder := filepath.Join(t.TempDir(), "jars")
	manifest := []common.Artifact{{GroupId: "g1", Id: "a1", Version: "1.0"}}

	classpath, _, err := ensure(New(DefaultTimeout), folder, manifest)
	AssertThat(t, err, Is{V: nil})
	AssertThat(t, classpath, EqualTo{V: filepath.Join(folder, "*")})
	AssertThat(t, atomic.LoadInt64(&requests), EqualTo{V: int64(1)})

	_, _, err = ensure(New(DefaultTimeout), folder, manifest)
	AssertThat(t, err, Is{V: nil})
	AssertThat(t, atomic.LoadInt64(&requests), EqualTo{V: int64(1)})
}

func TestEnsureMaterializesEveryJarVerbatim(t *testing.T) {
	restore := fakeCentral(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Query().Get("filepath")))
	}))
	defer restore()
	folder := filepath.Join(t.TempDir(), "jars")

	_, _, err := ensure(New(DefaultTimeout), folder, testManifest)
	AssertThat(t, err, Is{V: nil})
	data, err := os.ReadFile(filepath.Join(folder, "a1-1.0.jar"))
	AssertThat(t, err, Is{V: nil})
	AssertThat(t, string(data), EqualTo{V: "g1/a1/1.0/a1-1.0.jar"})
	data, err = os.ReadFile(filepath.Join(folder, "a2-2.0.jar"))
	AssertThat(t, err, Is{V: nil})
	AssertThat(t, string(data), EqualTo{V: "g1/sub/a2/2.0/a2-2.0.jar"})
}

func TestEnsureFetchesOnlyMissingJars(t *testing.T) {
	var requests int64
	restore := fakeCentral(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.Write([]byte("jar-bytes"))
	}))
	defer restore()
	folder := t.TempDir()
	err := os.WriteFile(filepath.Join(folder, "a1-1.0.jar"), []byte("already-present"), 0644)
	AssertThat(t, err, Is{V: nil})

	_, _, err = ensure(New(DefaultTimeout), folder, testManifest)
	AssertThat(t, err, Is{V: nil})
	AssertThat(t, atomic.LoadInt64(&requests), EqualTo{V: int64(1)})
	data, err := os.ReadFile(filepath.Join(folder, "a1-1.0.jar"))
	AssertThat(t, err, Is{V: nil})
	AssertThat(t, string(data), EqualTo{V: "already-present"})
}

func TestEnsureFailsWhenJarMissingRemotely(t *testing.T) {
	restore := fakeCentral(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("filepath"), "a2") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("jar-bytes"))
	}))
	defer restore()
	folder := filepath.Join(t.TempDir(), "jars")

	_, _, err := ensure(New(DefaultTimeout), folder, testManifest)
	AssertThat(t, err, Is{V: Not{V: nil}})
	_, statErr := os.Stat(filepath.Join(folder, "a2-2.0.jar"))
	AssertThat(t, os.IsNotExist(statErr), Is{V: true})
}

func TestEnsureReportsProgress(t *testing.T) {
	restore := fakeCentral(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("jar-bytes"))
	}))
	defer restore()
	folder := filepath.Join(t.TempDir(), "jars")

	_, events, err := ensure(New(DefaultTimeout), folder, testManifest)
	AssertThat(t, err, Is{V: nil})
	AssertThat(t, events[0].Type, EqualTo{V: event.FetchStarted})
	AssertThat(t, events[len(events)-1].Type, EqualTo{V: event.FetchFinished})
	fetching := 0
	for _, evt := range events {
		if evt.Type == event.JarFetching {
			fetching++
			AssertThat(t, strings.Contains(evt.Detail, " --> "), Is{V: true})
		}
	}
	AssertThat(t, fetching, EqualTo{V: 2})
}

func TestEnsureTimesOutOnStalledDownload(t *testing.T) {
	restore := fakeCentral(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte("jar-bytes"))
	}))
	defer restore()
	folder := filepath.Join(t.TempDir(), "jars")
	manifest := []common.Artifact{{GroupId: "g1", Id: "a1", Version: "1.0"}}

	_, _, err := ensure(New(10*time.Millisecond), folder, manifest)
	AssertThat(t, err, Is{V: Not{V: nil}})
}
