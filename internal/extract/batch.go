package extract

import (
	"context"
	"runtime"
	"sync"

	"github.com/overlaykit/text-overlay-mcp/internal/ocr"
)

// BatchItem is the outcome of one image in a batch extraction. Exactly one of
// Result and Err is set.
type BatchItem struct {
	Path   string      `json:"path"`
	Result *ocr.Result `json:"result,omitempty"`
	Err    error       `json:"-"`
}

// ExtractBatch extracts text lines from several images concurrently.
//
// Images are independent, so up to workers extractions run in parallel
// (workers <= 0 means one per CPU). A failing image records its error in the
// corresponding BatchItem without affecting the others. Results are returned
// in input order. When ctx is cancelled, images not yet started are marked
// with the context error.
func (e *Extractor) ExtractBatch(ctx context.Context, paths []string, languages string, workers int) []BatchItem {
	items := make([]BatchItem, len(paths))
	if len(paths) == 0 {
		return items
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				items[i].Path = paths[i]
				if err := ctx.Err(); err != nil {
					items[i].Err = err
					continue
				}
				items[i].Result, items[i].Err = e.ExtractFile(ctx, paths[i], languages)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return items
}
