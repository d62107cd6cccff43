package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"bling-sync/core/cache"
	"bling-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ArchiveReport is the result of an archive check.
type ArchiveReport struct {
	Bucket  string   `json:"bucket"`
	Checked int      `json:"checked"`
	Missing []string `json:"missing"`
}

// CheckArchive verifies that the payloads of entries were mirrored to bucket.
func CheckArchive(ctx context.Context, client storage.Client, bucket string, entries []cache.Entry) (*ArchiveReport, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	report := &ArchiveReport{Bucket: bucket}
	for _, e := range entries {
		name := cache.ObjectName(e.Kind, e.OriginalID)
		report.Checked++
		if !objectExists(ctx, client, bucket, name) {
			report.Missing = append(report.Missing, name)
		}
	}
	return report, nil
}

// objectExists reads the first byte; minio reports a missing key on read.
func objectExists(ctx context.Context, client storage.Client, bucket, name string) bool {
	obj, err := client.GetObject(ctx, bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return false
	}
	defer obj.Close()

	buf := make([]byte, 1)
	_, err = obj.Read(buf)
	return err == nil || errors.Is(err, io.EOF)
}

// FixArchive uploads the payloads of entries whose object is listed in missing.
func FixArchive(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger, entries []cache.Entry, missing []string) (int, error) {
	want := make(map[string]struct{}, len(missing))
	for _, name := range missing {
		want[name] = struct{}{}
	}

	fixed := 0
	for _, e := range entries {
		name := cache.ObjectName(e.Kind, e.OriginalID)
		if _, ok := want[name]; !ok {
			continue
		}
		_, err := client.PutObject(ctx, bucket, name, bytes.NewReader([]byte(e.Payload)), int64(len(e.Payload)),
			minio.PutObjectOptions{ContentType: "application/json"})
		if err != nil {
			logger.Error("Failed to archive payload", zap.String("object", name), zap.Error(err))
			return fixed, err
		}
		logger.Info("Archived missing payload", zap.String("object", name))
		fixed++
	}
	return fixed, nil
}
