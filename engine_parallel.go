package circle

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/jward/circle/internal/sections"
)

// SectionsFiles parses several files concurrently with a bounded worker
// pool. Documents are returned in the order of paths; the first error (in
// path order) is returned along with whatever parsed successfully.
func (e *Engine) SectionsFiles(ctx context.Context, paths []string) ([]*Document, error) {
	docs := make([]*Document, len(paths))
	if len(paths) == 0 {
		return docs, nil
	}

	numWorkers := min(runtime.NumCPU(), len(paths))

	workCh := make(chan int, len(paths))
	for i := range paths {
		workCh <- i
	}
	close(workCh)

	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				docs[i], errs[i] = sections.ParseFile(ctx, paths[i], e.secOpts)
			}
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return docs, fmt.Errorf("circle: sections %s: %w", paths[i], err)
		}
	}
	return docs, nil
}
