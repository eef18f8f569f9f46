package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case e := <-w.Events():
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for event")
		return Event{}
	}
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "WRITE", OpWrite.String())
	assert.Equal(t, "CREATE|WRITE", (OpCreate | OpWrite).String())
	assert.Equal(t, "UNKNOWN", Op(0).String())
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "main.go")
	other := filepath.Join(dir, "other.go")
	writeFile(t, watched, "package main\n")
	writeFile(t, other, "package main\n")

	w, err := New([]string{watched}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	writeFile(t, other, "// MARK: ignored\n")
	writeFile(t, watched, "// MARK: First\n")
	writeFile(t, watched, "// MARK: Second\n")

	e := waitEvent(t, w)
	abs, err := filepath.Abs(watched)
	require.NoError(t, err)
	assert.Equal(t, abs, e.Path)
	assert.True(t, e.Op.Has(OpWrite))

	select {
	case e := <-w.Events():
		t.Fatalf("unexpected event %v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherReportsReplace(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "main.go")
	writeFile(t, watched, "package main\n")

	w, err := New([]string{watched}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	tmp := filepath.Join(dir, "main.go.tmp")
	writeFile(t, tmp, "// MARK: Replaced\n")
	require.NoError(t, os.Rename(tmp, watched))

	e := waitEvent(t, w)
	assert.Equal(t, "main.go", filepath.Base(e.Path))
}

func TestWatcherAddErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := New([]string{filepath.Join(dir, "missing.go")})
	assert.ErrorIs(t, err, ErrPathNotExist)

	_, err = New([]string{dir})
	assert.ErrorIs(t, err, ErrNotAFile)

	w, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	file := filepath.Join(dir, "a.go")
	writeFile(t, file, "")
	assert.ErrorIs(t, w.Add(file), ErrWatcherClosed)
}

func TestWatcherFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.go")
	b := filepath.Join(dir, "b.go")
	writeFile(t, a, "")
	writeFile(t, b, "")

	w, err := New([]string{a, b, a})
	require.NoError(t, err)
	defer w.Close()

	assert.Len(t, w.Files(), 2)
}

func TestWatcherRun(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "main.go")
	writeFile(t, watched, "")

	w, err := New([]string{watched}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan Event, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(e Event) {
			select {
			case got <- e:
			default:
			}
			cancel()
		})
	}()

	writeFile(t, watched, "// MARK: Run\n")

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Len(t, got, 1)
}

func TestWatcherRunStopsOnClose(t *testing.T) {
	w, err := New(nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- w.Run(context.Background(), func(Event) {})
	}()

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}
