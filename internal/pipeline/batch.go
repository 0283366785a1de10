package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dgallion1/lawgest/internal/parser"
	"golang.org/x/sync/errgroup"
)

// ListInputs returns the supported files directly under dir, sorted by name.
func ListInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if parser.IsSupportedExtension(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// RunBatch converts files with up to concurrency documents in flight, then
// writes them one at a time in sorted path order so slug collisions resolve
// the same way on every run. A failing document never stops the batch; only
// ctx cancellation does. Cancellation during the write phase returns the
// outcomes written so far along with ctx's error.
func RunBatch(ctx context.Context, w *Worker, files []string, concurrency int) ([]Outcome, error) {
	paths := slices.Clone(files)
	slices.Sort(paths)

	type converted struct {
		res Result
		err error
	}
	results := make([]converted, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				results[i].err = fmt.Errorf("%w: %w", ErrExtraction, err)
				return nil
			}
			results[i].res, results[i].err = w.Convert(gctx, filepath.Base(path), data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		out := w.Complete(ctx, filepath.Base(path), results[i].res, results[i].err)
		out.Source = path
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// Summary counts outcomes by status.
type Summary struct {
	Documents int `json:"documents"`
	OK        int `json:"ok"`
	Warnings  int `json:"warnings"`
	Failed    int `json:"failed"`
	Records   int `json:"records"`
}

func Summarize(outcomes []Outcome) Summary {
	s := Summary{Documents: len(outcomes)}
	for _, o := range outcomes {
		switch o.Status {
		case OutcomeOK:
			s.OK++
		case OutcomeWarning:
			s.Warnings++
		case OutcomeFailed:
			s.Failed++
		}
		s.Records += o.Records
	}
	return s
}
