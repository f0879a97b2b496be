package restore

// Put a corpus back the way it was: copy every '.backup' sibling over its
// original so a batch can be re-run from pristine data (or the rescale
// simply undone).

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Rhovasti/go-eno-coordinates/common"
	"github.com/Rhovasti/go-eno-coordinates/operations/batch"
	"gocloud.dev/blob"
)

// Restore walks 'bucket' under 'prefix' and copies each backup artifact
// over the document it backs up. Per-document failures are logged and
// skipped. It returns the number of documents restored.
func Restore(ctx context.Context, bucket *blob.Bucket, prefix string) (int, error) {

	logger := slog.Default()

	iter := bucket.List(&blob.ListOptions{
		Prefix: prefix,
	})

	restored := 0

	for {

		select {
		case <-ctx.Done():
			return restored, ctx.Err()
		default:
			// pass
		}

		obj, err := iter.Next(ctx)

		if err == io.EOF {
			break
		}

		if err != nil {
			return restored, fmt.Errorf("Failed to walk bucket, %w", err)
		}

		if obj.IsDir {
			continue
		}

		if !strings.HasSuffix(obj.Key, batch.BackupSuffix) {
			continue
		}

		doc_path := strings.TrimSuffix(obj.Key, batch.BackupSuffix)

		err = common.CopyKey(ctx, bucket, obj.Key, doc_path)

		if err != nil {
			logger.Error("Failed to restore document, skipping", "path", doc_path, "error", err)
			continue
		}

		logger.Info("Restored document", "path", doc_path)
		restored += 1
	}

	return restored, nil
}
