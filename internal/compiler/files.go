package compiler

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// CompileFile reads and compiles one file in a fresh Context.
func CompileFile(path string, opts Options) (*Result, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	c, err := NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	r := c.Compile(path, string(text))
	if err := c.Close(); err != nil {
		return r, fmt.Errorf("compile %s: %w", path, err)
	}
	return r, nil
}

// CompileFiles compiles independent files in parallel, one Context each,
// with at most jobs files in flight. jobs <= 0 means no limit. Results are
// returned in the order of paths.
//
// The first I/O error cancels the remaining files and is returned. Source
// errors are not I/O errors: they are reported in each Result.
func CompileFiles(ctx context.Context, paths []string, opts Options, jobs int) ([]*Result, error) {
	results := make([]*Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := CompileFile(path, opts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
