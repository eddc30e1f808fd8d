package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/nodemutation/pkg/fsutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	return string(got)
}

func TestRead(t *testing.T) {
	t.Parallel()

	t.Run("records snapshot", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "main.go")
		writeFile(t, path, "package main\n")

		content, snap, err := fsutil.Read(context.Background(), path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if string(content) != "package main\n" {
			t.Errorf("content = %q", content)
		}
		if snap.Size != int64(len(content)) {
			t.Errorf("Size = %d, want %d", snap.Size, len(content))
		}
		if snap.Mode.Perm() != 0o644 {
			t.Errorf("Mode = %v, want 0644", snap.Mode.Perm())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.Read(context.Background(), filepath.Join(t.TempDir(), "nope.go"))
		if !errors.Is(err, fsutil.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.Read(context.Background(), t.TempDir())
		if !errors.Is(err, fsutil.ErrIsDirectory) {
			t.Errorf("error = %v, want ErrIsDirectory", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := fsutil.Read(ctx, filepath.Join(t.TempDir(), "x.go"))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestCommit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	noBackup := fsutil.BackupConfig{}

	t.Run("writes new content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.js")
		writeFile(t, path, "foo.substring(1)\n")

		_, snap, err := fsutil.Read(ctx, path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		written, err := fsutil.Commit(ctx, snap, []byte("foo.slice(1)\n"), noBackup)
		if err != nil {
			t.Fatalf("Commit() error = %v", err)
		}
		if !written {
			t.Error("Commit() = false, want true")
		}
		if got := readFile(t, path); got != "foo.slice(1)\n" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("unchanged content is not written", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.js")
		writeFile(t, path, "run()\n")

		content, snap, err := fsutil.Read(ctx, path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		written, err := fsutil.Commit(ctx, snap, content, fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar})
		if err != nil {
			t.Fatalf("Commit() error = %v", err)
		}
		if written {
			t.Error("Commit() = true, want false")
		}
		if _, err := os.Stat(path + fsutil.BackupSuffix); !os.IsNotExist(err) {
			t.Errorf("backup created for unchanged file: %v", err)
		}
	})

	t.Run("stale file is rejected", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.js")
		writeFile(t, path, "run()\n")

		_, snap, err := fsutil.Read(ctx, path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		writeFile(t, path, "run(); stop()\n")

		_, err = fsutil.Commit(ctx, snap, []byte("go()\n"), noBackup)
		if !errors.Is(err, fsutil.ErrStale) {
			t.Fatalf("error = %v, want ErrStale", err)
		}
		if got := readFile(t, path); got != "run(); stop()\n" {
			t.Errorf("stale file overwritten: %q", got)
		}
	})

	t.Run("backup keeps original", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "README.md")
		writeFile(t, path, "# Title\n")

		_, snap, err := fsutil.Read(ctx, path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		backup := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}
		if _, err := fsutil.Commit(ctx, snap, []byte("## Title\n"), backup); err != nil {
			t.Fatalf("Commit() error = %v", err)
		}

		if got := readFile(t, path+fsutil.BackupSuffix); got != "# Title\n" {
			t.Errorf("backup = %q, want original", got)
		}
		if got := readFile(t, path); got != "## Title\n" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("preserves mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "run.sh")
		if err := os.WriteFile(path, []byte("echo a\n"), 0o755); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.Chmod(path, 0o755); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, snap, err := fsutil.Read(ctx, path)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if _, err := fsutil.Commit(ctx, snap, []byte("echo b\n"), noBackup); err != nil {
			t.Fatalf("Commit() error = %v", err)
		}

		stat, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if stat.Mode().Perm() != 0o755 {
			t.Errorf("mode = %v, want 0755", stat.Mode().Perm())
		}
	})
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name string
		cfg  fsutil.BackupConfig
		want bool
	}{
		{name: "disabled", cfg: fsutil.BackupConfig{Enabled: false, Mode: fsutil.BackupModeSidecar}, want: false},
		{name: "mode none", cfg: fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeNone}, want: false},
		{name: "sidecar", cfg: fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "a.go")
			writeFile(t, path, "package a\n")

			got, err := fsutil.CreateBackup(ctx, path, tt.cfg)
			if err != nil {
				t.Fatalf("CreateBackup() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CreateBackup() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("existing backup is kept", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "a.go")
		writeFile(t, path, "package b\n")
		writeFile(t, path+fsutil.BackupSuffix, "package a\n")

		got, err := fsutil.CreateBackup(ctx, path, fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar})
		if err != nil {
			t.Fatalf("CreateBackup() error = %v", err)
		}
		if got {
			t.Error("CreateBackup() = true, want false")
		}
		if content := readFile(t, path+fsutil.BackupSuffix); content != "package a\n" {
			t.Errorf("backup overwritten: %q", content)
		}
	})

	t.Run("missing original", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "gone.go")
		got, err := fsutil.CreateBackup(ctx, path, fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar})
		if err != nil || got {
			t.Errorf("CreateBackup() = %v, %v; want false, nil", got, err)
		}
	})
}

func TestBackupPath(t *testing.T) {
	t.Parallel()

	if got := fsutil.BackupPath("/tmp/a.go", fsutil.BackupModeSidecar); got != "/tmp/a.go.nodemutation.bak" {
		t.Errorf("BackupPath(sidecar) = %q", got)
	}
	if got := fsutil.BackupPath("/tmp/a.go", fsutil.BackupModeNone); got != "" {
		t.Errorf("BackupPath(none) = %q, want empty", got)
	}
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("default mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "new.txt")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		stat, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if stat.Mode().Perm() != fsutil.DefaultFileMode {
			t.Errorf("mode = %v, want %v", stat.Mode().Perm(), fsutil.DefaultFileMode)
		}
	})

	t.Run("keeps existing mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "run.sh")
		if err := os.WriteFile(path, []byte("old"), 0o755); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := os.Chmod(path, 0o755); err != nil {
			t.Fatalf("chmod: %v", err)
		}
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		stat, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if stat.Mode().Perm() != 0o755 {
			t.Errorf("mode = %v, want 0755", stat.Mode().Perm())
		}
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "a.txt")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("readdir: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("dir has %d entries, want 1", len(entries))
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "no", "such", "a.txt")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0o644); err == nil {
			t.Error("WriteAtomic() error = nil, want error")
		}
	})
}
