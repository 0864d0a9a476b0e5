package parser

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/pable/go-cricket-metrics/internal/logging"
)

// FileError is a file that could not be decoded.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return e.Path + ": " + e.Err.Error() }

// DirResult collects the outcome of decoding a directory.
type DirResult struct {
	Matches  []*Parsed
	Failures []FileError
	Report   Report
}

// ListJSON returns the *.json files directly under dir, sorted.
func ListJSON(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, crerr.Wrap(err, "read match directory")
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// ParseDir decodes every *.json file in dir on a pool of workers. A file
// that fails to decode is recorded in Failures and logged; it never stops
// the others. Matches come back ordered by id.
func ParseDir(ctx context.Context, dir string, workers int) (DirResult, error) {
	paths, err := ListJSON(dir)
	if err != nil {
		return DirResult{}, err
	}
	return ParseFiles(ctx, paths, workers)
}

// ParseFiles is ParseDir over an explicit file list.
func ParseFiles(ctx context.Context, paths []string, workers int) (DirResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return DirResult{}, crerr.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	log := logging.Default()
	var (
		mu  sync.Mutex
		res DirResult
		wg  sync.WaitGroup
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return res, crerr.Wrap(err, "parse directory")
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			p, err := ParseFile(path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("skipping match file", "path", path, "err", err)
				res.Failures = append(res.Failures, FileError{Path: path, Err: err})
				return
			}
			if p.Report.Malformed() > 0 || p.Report.MultiWicket > 0 {
				log.Debug("malformed deliveries", "match", p.Match.ID, "report", p.Report)
			}
			res.Report.Add(p.Report)
			res.Matches = append(res.Matches, p)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return res, crerr.Wrap(err, "submit parse task")
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return res, crerr.Wrap(err, "parse directory")
	}
	sort.Slice(res.Matches, func(i, j int) bool { return res.Matches[i].Match.ID < res.Matches[j].Match.ID })
	sort.Slice(res.Failures, func(i, j int) bool { return res.Failures[i].Path < res.Failures[j].Path })
	return res, nil
}
