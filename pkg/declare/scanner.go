package declare

import (
	"context"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/fiktools/calctree/pkg/errors"
	"github.com/fiktools/calctree/pkg/fsutil"
)

// Scanner parses every matching script under a directory.
type Scanner struct {
	// Dir is the directory holding the calculation scripts.
	Dir string
	// Pattern filters file names. It is anchored at the start of the name.
	Pattern string
	// Recursive also searches subdirectories.
	Recursive bool
	// Concurrency caps parallel parses. Zero uses GOMAXPROCS.
	Concurrency int
}

// Files lists the sources the scanner would read, sorted.
func (s *Scanner) Files() ([]string, error) {
	info, err := os.Stat(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scripts directory %s", s.Dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", s.Dir)
	}

	var files []string
	if s.Recursive {
		files, err = fsutil.FilesRecursive(s.Dir, s.Pattern)
	} else {
		files, err = fsutil.Files(s.Dir, s.Pattern)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "list scripts in %s", s.Dir)
	}
	return fsutil.SortedUnique(files), nil
}

// Scan parses all sources and merges them in sorted path order, so the
// result does not depend on which parse finishes first.
func (s *Scanner) Scan(ctx context.Context) (*Set, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	parsed := make([]*File, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := ParseFile(path)
			if err != nil {
				return err
			}
			parsed[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Merge(parsed...), nil
}
