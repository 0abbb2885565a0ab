package ingest

import (
	"context"
	"log"
	"os"

	"valxml/internal/pipeline"
)

// NewHandler runs the processor over a dispatched file and removes the file
// afterward. Removal happens on every outcome so the intake directory does
// not accumulate documents that already produced a notification.
func NewHandler(proc *pipeline.Processor, logger *log.Logger) HandleFunc {
	return func(ctx context.Context, path string) {
		result := proc.ProcessFile(ctx, path)
		if result.Status == pipeline.StatusSuccess {
			logger.Printf("processed %s: document %s accepted", path, result.DocumentID)
		} else {
			logger.Printf("processed %s: document %s rejected: %v", path, result.DocumentID, result.Errors)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Printf("remove %s: %v", path, err)
		}
	}
}
