package clamp

// The gentler alternative to a full rescale: leave longitudes where they are
// and clamp latitudes to the mercator-safe range, for corpora whose
// longitudes already fit the viewer. Documents previously rescaled in place
// are restored from their backup sibling first.

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rhovasti/go-eno-coordinates/common"
	"github.com/Rhovasti/go-eno-coordinates/coordinates"
	"github.com/Rhovasti/go-eno-coordinates/operations/batch"
	"github.com/Rhovasti/go-eno-coordinates/operations/transform"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gocloud.dev/blob"
)

// type Clamper clamps document latitudes in place, one document at a time.
type Clamper struct {
	// The bucket documents are read from and written back to.
	Bucket *blob.Bucket
	// The envelope whose latitude range documents are clamped to.
	Target coordinates.Envelope
	// Now returns the timestamp recorded in metadata. A nil value means
	// time.Now.
	Now func() time.Time
}

// ClampPath clamps the latitudes of the document at 'doc_path' to the
// target envelope's latitude range, restoring the document from its backup
// sibling first if one exists. The count of features actually changed is
// recorded in the document's metadata.
func (c *Clamper) ClampPath(ctx context.Context, doc_path string) error {

	backup_path := doc_path + batch.BackupSuffix

	exists, err := c.Bucket.Exists(ctx, backup_path)

	if err != nil {
		return fmt.Errorf("Failed to determine whether backup exists for '%s', %w", doc_path, err)
	}

	if exists {

		err := common.CopyKey(ctx, c.Bucket, backup_path, doc_path)

		if err != nil {
			return fmt.Errorf("Failed to restore '%s' from backup, %w", doc_path, err)
		}
	}

	body, err := common.ReadDocument(ctx, c.Bucket, doc_path)

	if err != nil {
		return err
	}

	new_body, err := c.ClampDocument(ctx, body)

	if err != nil {
		return err
	}

	return common.WriteDocument(ctx, c.Bucket, doc_path, new_body)
}

// ClampDocument clamps the latitudes of a FeatureCollection body and stamps
// clamp metadata, returning the updated document pretty-printed.
func (c *Clamper) ClampDocument(ctx context.Context, body []byte) ([]byte, error) {

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("Failed to parse document, %w", transform.ErrInvalidGeoJSON)
	}

	features_rsp := gjson.GetBytes(body, "features")

	if !features_rsp.IsArray() {
		return nil, fmt.Errorf("Document is missing a features list, %w", transform.ErrInvalidGeoJSON)
	}

	clamped_features := 0

	for i, f := range features_rsp.Array() {

		coords_rsp := f.Get("geometry.coordinates")

		if !coords_rsp.Exists() {
			continue
		}

		var node interface{}

		err := json.Unmarshal([]byte(coords_rsp.Raw), &node)

		if err != nil {
			return nil, fmt.Errorf("Failed to decode coordinates for feature %d, %w", i, err)
		}

		clamped, count := coordinates.ClampNode(node, c.Target)

		if count == 0 {
			continue
		}

		path := fmt.Sprintf("features.%d.geometry.coordinates", i)
		body, err = sjson.SetBytes(body, path, clamped)

		if err != nil {
			return nil, fmt.Errorf("Failed to assign coordinates for feature %d, %w", i, err)
		}

		clamped_features += 1
	}

	now_func := c.Now

	if now_func == nil {
		now_func = time.Now
	}

	now := now_func().UTC().Format(time.RFC3339)
	lat_range := fmt.Sprintf("[%g, %g]", c.Target.LatMin, c.Target.LatMax)

	// stable key order, same reasoning as the transform metadata stamp

	updates := []struct {
		path  string
		value interface{}
	}{
		{"metadata.coordinate_system", "geographic_clamped"},
		{"metadata.clamped_features", clamped_features},
		{"metadata.processing_date", now},
		{"metadata.latitude_range", lat_range},
	}

	var err error

	for _, u := range updates {

		body, err = sjson.SetBytes(body, u.path, u.value)

		if err != nil {
			return nil, fmt.Errorf("Failed to update %s for document, %w", u.path, err)
		}
	}

	return pretty.Pretty(body), nil
}

// ClampPaths clamps each of 'paths' in order, fail-soft, and returns a
// tally of the run.
func (c *Clamper) ClampPaths(ctx context.Context, paths ...string) (*batch.Report, error) {

	logger := slog.Default()

	report := &batch.Report{
		Total:    len(paths),
		Failures: make([]batch.Failure, 0),
	}

	for _, doc_path := range paths {

		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
			// pass
		}

		err := c.ClampPath(ctx, doc_path)

		if err != nil {

			logger.Error("Failed to clamp document", "path", doc_path, "error", err)

			report.Failed += 1
			report.Failures = append(report.Failures, batch.Failure{
				Path:  doc_path,
				Error: err.Error(),
			})

			continue
		}

		logger.Info("Clamped document", "path", doc_path)
		report.Succeeded += 1
	}

	return report, nil
}
