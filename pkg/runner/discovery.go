package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/nodemutation/pkg/langdetect"
)

// skippedDirs are never descended into when walking a directory.
//
//nolint:gochecknoglobals // Read-only lookup table.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
}

// Discover expands opts.Paths into a sorted, de-duplicated list of absolute
// file paths. Directories are walked for files in a supported language;
// files named explicitly are always kept unless excluded.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	excludes, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	w := &walker{
		ctx: ctx, workDir: workDir, excludes: excludes, opts: opts,
		seen: map[string]bool{}, visited: map[string]bool{},
	}
	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if info.IsDir() {
			if err := w.walk(abs); err != nil {
				return nil, err
			}
			continue
		}
		if !w.excluded(abs, false) {
			w.add(abs)
		}
	}

	sort.Strings(w.files)
	return w.files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

type walker struct {
	ctx      context.Context
	workDir  string
	excludes []glob.Glob
	opts     Options
	seen     map[string]bool
	visited  map[string]bool
	files    []string
}

func (w *walker) add(path string) {
	if !w.seen[path] {
		w.seen[path] = true
		w.files = append(w.files, path)
	}
}

// excluded matches the path relative to the working directory, and its base
// name, against every exclude pattern. Directories also match "dir/**".
func (w *walker) excluded(path string, isDir bool) bool {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, g := range w.excludes {
		if g.Match(rel) || g.Match(base) || (isDir && g.Match(rel+"/")) {
			return true
		}
	}
	return false
}

func (w *walker) supported(path string) bool {
	lang := langdetect.Detect(path, nil)
	if lang == langdetect.Unknown {
		return false
	}
	return w.opts.Language == langdetect.Unknown || w.opts.Language == lang
}

func (w *walker) walk(root string) error {
	if real, err := filepath.EvalSymlinks(root); err == nil {
		if w.visited[real] {
			return nil
		}
		w.visited[real] = true
	}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if path != root && (hidden || skippedDirs[entry.Name()] || w.excluded(path, true)) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !w.opts.FollowSymlinks {
					return nil
				}
				return w.walk(target)
			}
		}

		if !hidden && w.supported(path) && !w.excluded(path, false) {
			w.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}
