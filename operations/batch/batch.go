package batch

// Orchestrate idempotent, in-place transformation over a list of GeoJSON
// documents. Each document gets a pristine '.backup' sibling the first time
// it is touched; later runs restore from that backup before transforming so
// the rescale is never applied twice.

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/Rhovasti/go-eno-coordinates/common"
	"github.com/Rhovasti/go-eno-coordinates/operations/transform"
	"gocloud.dev/blob"
)

// BackupSuffix is appended to a document's key to name its backup sibling.
const BackupSuffix string = ".backup"

// type Failure records a single document the batch could not process.
type Failure struct {
	// The key of the document that failed.
	Path string `json:"path"`
	// The reason it failed.
	Error string `json:"error"`
}

// type Report tallies a batch run.
type Report struct {
	// The number of documents transformed successfully.
	Succeeded int `json:"succeeded"`
	// The number of documents that failed.
	Failed int `json:"failed"`
	// The total number of documents attempted.
	Total int `json:"total"`
	// Per-document failure details.
	Failures []Failure `json:"failures,omitempty"`
}

// type Driver processes documents one at a time, start to finish, against a
// single bucket. There is no shared state between documents so nothing here
// needs locking.
type Driver struct {
	// The bucket documents are read from and written back to.
	Bucket *blob.Bucket
	// An optional distinct bucket to write transformed documents to. When
	// nil, documents are rewritten in place under the backup protocol.
	Output *blob.Bucket
	// Options passed to transform.TransformDocument for every document.
	Options *transform.TransformDocumentOptions
}

// Discover walks 'bucket' under 'prefix' and returns the keys of every
// '.geojson' and '.json' document, in lexicographic order so batch runs are
// reproducible. Backup artifacts are excluded.
func Discover(ctx context.Context, bucket *blob.Bucket, prefix string) ([]string, error) {

	paths := make([]string, 0)

	var list func(context.Context, *blob.Bucket, string) error

	list = func(ctx context.Context, b *blob.Bucket, prefix string) error {

		iter := b.List(&blob.ListOptions{
			Delimiter: "/",
			Prefix:    prefix,
		})

		for {

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				// pass
			}

			obj, err := iter.Next(ctx)

			if err == io.EOF {
				break
			}

			if err != nil {
				return err
			}

			if obj.IsDir {

				err := list(ctx, b, obj.Key)

				if err != nil {
					return err
				}

				continue
			}

			if strings.HasSuffix(obj.Key, BackupSuffix) {
				continue
			}

			switch path.Ext(obj.Key) {
			case ".geojson", ".json":
				paths = append(paths, obj.Key)
			default:
				// pass
			}
		}

		return nil
	}

	err := list(ctx, bucket, prefix)

	if err != nil {
		return nil, fmt.Errorf("Failed to walk bucket, %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// ProcessPath transforms the document at 'doc_path', restoring it from its
// backup sibling first if one exists and creating the backup if it doesn't.
// This is what makes repeated runs idempotent: the transform always starts
// from the pristine original.
func (d *Driver) ProcessPath(ctx context.Context, doc_path string) error {

	backup_path := doc_path + BackupSuffix

	if d.Output == nil {

		exists, err := d.Bucket.Exists(ctx, backup_path)

		if err != nil {
			return fmt.Errorf("Failed to determine whether backup exists for '%s', %w", doc_path, err)
		}

		if exists {

			err := common.CopyKey(ctx, d.Bucket, backup_path, doc_path)

			if err != nil {
				return fmt.Errorf("Failed to restore '%s' from backup, %w", doc_path, err)
			}

		} else {

			err := common.CopyKey(ctx, d.Bucket, doc_path, backup_path)

			if err != nil {
				return fmt.Errorf("Failed to create backup for '%s', %w", doc_path, err)
			}
		}
	}

	body, err := common.ReadDocument(ctx, d.Bucket, doc_path)

	if err != nil {
		return err
	}

	new_body, err := transform.TransformDocument(ctx, body, d.Options)

	if err != nil {
		return err
	}

	target := d.Bucket

	if d.Output != nil {
		target = d.Output
	}

	return common.WriteDocument(ctx, target, doc_path, new_body)
}

// ProcessPaths transforms each of 'paths' in order. Per-document failures
// are logged and tallied but never abort the batch; every document in the
// list gets its attempt. The returned error is reserved for the batch
// itself being cancelled.
func (d *Driver) ProcessPaths(ctx context.Context, paths ...string) (*Report, error) {

	logger := slog.Default()

	report := &Report{
		Total:    len(paths),
		Failures: make([]Failure, 0),
	}

	for _, doc_path := range paths {

		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
			// pass
		}

		err := d.ProcessPath(ctx, doc_path)

		if err != nil {

			logger.Error("Failed to process document", "path", doc_path, "error", err)

			report.Failed += 1
			report.Failures = append(report.Failures, Failure{
				Path:  doc_path,
				Error: err.Error(),
			})

			continue
		}

		logger.Info("Transformed document", "path", doc_path)
		report.Succeeded += 1
	}

	return report, nil
}
