// Package storage provides connection to the snapshot storage
package storage

import (
	"fmt"
	"log"
	"time"

	"github.com/UnendingLoop/FaceRecognizer/internal/storage/miniostorage"
	"github.com/wb-go/wbf/config"
)

// NewSnapshotStorage returns nil when MINIO_CONTAINER_NAME is not set: archiving is optional
func NewSnapshotStorage(cfg *config.Config, attempts int, delay time.Duration) (*miniostorage.MinioSnapshotStorage, error) {
	if cfg.GetString("MINIO_CONTAINER_NAME") == "" {
		log.Println("MINIO_CONTAINER_NAME is empty. Snapshot archiving disabled.")
		return nil, nil
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		log.Printf("Connecting to snapshot-storage, try #%d...", i+1)
		client, err := miniostorage.NewMinioClient(cfg)
		if err == nil {
			log.Println("Successfully connected snapshot-storage!")
			return client, nil
		}
		lastErr = err
		log.Printf("Failed to init connection to snapshot-storage: %v\nNext retry in %v...", err, delay)
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("snapshot-storage unavailable after %d tries: %w", attempts, lastErr)
}
