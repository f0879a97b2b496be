package batch

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Rhovasti/go-eno-coordinates/common"
	"github.com/Rhovasti/go-eno-coordinates/operations/calibrate"
	"github.com/Rhovasti/go-eno-coordinates/operations/transform"
	"github.com/google/go-cmp/cmp"
	"gocloud.dev/blob/fileblob"
)

const testDocument string = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "corner"},
      "geometry": {"type": "Point", "coordinates": [-72.72, -84.0]}
    }
  ]
}`

func testDriverOptions() *transform.TransformDocumentOptions {

	opts := transform.DefaultTransformDocumentOptions(calibrate.EnoEnvelope())

	opts.Now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}

	return opts
}

func TestDiscover(t *testing.T) {

	ctx := context.Background()

	bucket, err := fileblob.OpenBucket(t.TempDir(), nil)

	if err != nil {
		t.Fatalf("Failed to open bucket, %v", err)
	}

	defer bucket.Close()

	documents := map[string]string{
		"cities.geojson":         testDocument,
		"vector/rivers.json":     testDocument,
		"vector/borders.geojson": testDocument,
		"notes.txt":              "not geo data",
		"cities.geojson.backup":  testDocument,
	}

	for key, body := range documents {

		err := common.WriteDocument(ctx, bucket, key, []byte(body))

		if err != nil {
			t.Fatalf("Failed to write '%s', %v", key, err)
		}
	}

	paths, err := Discover(ctx, bucket, "")

	if err != nil {
		t.Fatalf("Failed to discover documents, %v", err)
	}

	expected := []string{
		"cities.geojson",
		"vector/borders.geojson",
		"vector/rivers.json",
	}

	if diff := cmp.Diff(expected, paths); diff != "" {
		t.Fatalf("Unexpected discovery results (-want +got):\n%s", diff)
	}
}

func TestProcessPathsFailSoft(t *testing.T) {

	ctx := context.Background()

	bucket, err := fileblob.OpenBucket(t.TempDir(), nil)

	if err != nil {
		t.Fatalf("Failed to open bucket, %v", err)
	}

	defer bucket.Close()

	documents := map[string]string{
		"cities.geojson": testDocument,
		"broken.geojson": "so, not JSON",
		"rivers.json":    testDocument,
	}

	for key, body := range documents {

		err := common.WriteDocument(ctx, bucket, key, []byte(body))

		if err != nil {
			t.Fatalf("Failed to write '%s', %v", key, err)
		}
	}

	d := &Driver{
		Bucket:  bucket,
		Options: testDriverOptions(),
	}

	report, err := d.ProcessPaths(ctx, "broken.geojson", "cities.geojson", "rivers.json")

	if err != nil {
		t.Fatalf("Failed to process documents, %v", err)
	}

	if report.Succeeded != 2 || report.Failed != 1 || report.Total != 3 {
		t.Fatalf("Unexpected tally %+v", report)
	}

	if len(report.Failures) != 1 || report.Failures[0].Path != "broken.geojson" {
		t.Fatalf("Unexpected failures %+v", report.Failures)
	}
}

func TestProcessPathIdempotent(t *testing.T) {

	ctx := context.Background()

	bucket, err := fileblob.OpenBucket(t.TempDir(), nil)

	if err != nil {
		t.Fatalf("Failed to open bucket, %v", err)
	}

	defer bucket.Close()

	err = common.WriteDocument(ctx, bucket, "cities.geojson", []byte(testDocument))

	if err != nil {
		t.Fatalf("Failed to write document, %v", err)
	}

	d := &Driver{
		Bucket:  bucket,
		Options: testDriverOptions(),
	}

	err = d.ProcessPath(ctx, "cities.geojson")

	if err != nil {
		t.Fatalf("Failed to process document, %v", err)
	}

	backup, err := common.ReadDocument(ctx, bucket, "cities.geojson.backup")

	if err != nil {
		t.Fatalf("Failed to read backup, %v", err)
	}

	if !bytes.Equal(backup, []byte(testDocument)) {
		t.Fatalf("Expected backup to be a byte copy of the original")
	}

	first, err := common.ReadDocument(ctx, bucket, "cities.geojson")

	if err != nil {
		t.Fatalf("Failed to read document, %v", err)
	}

	// a second run restores from the backup before transforming, so the
	// rescale is never applied twice

	err = d.ProcessPath(ctx, "cities.geojson")

	if err != nil {
		t.Fatalf("Failed to process document again, %v", err)
	}

	second, err := common.ReadDocument(ctx, bucket, "cities.geojson")

	if err != nil {
		t.Fatalf("Failed to read document, %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Fatalf("Expected repeated runs to produce byte-identical output")
	}
}

func TestProcessPathOutputBucket(t *testing.T) {

	ctx := context.Background()

	bucket, err := fileblob.OpenBucket(t.TempDir(), nil)

	if err != nil {
		t.Fatalf("Failed to open bucket, %v", err)
	}

	defer bucket.Close()

	output, err := fileblob.OpenBucket(t.TempDir(), nil)

	if err != nil {
		t.Fatalf("Failed to open output bucket, %v", err)
	}

	defer output.Close()

	err = common.WriteDocument(ctx, bucket, "cities.geojson", []byte(testDocument))

	if err != nil {
		t.Fatalf("Failed to write document, %v", err)
	}

	d := &Driver{
		Bucket:  bucket,
		Output:  output,
		Options: testDriverOptions(),
	}

	err = d.ProcessPath(ctx, "cities.geojson")

	if err != nil {
		t.Fatalf("Failed to process document, %v", err)
	}

	// the original is untouched and no backup is created when writing
	// somewhere else

	original, err := common.ReadDocument(ctx, bucket, "cities.geojson")

	if err != nil {
		t.Fatalf("Failed to read original, %v", err)
	}

	if !bytes.Equal(original, []byte(testDocument)) {
		t.Fatalf("Expected original document to be untouched")
	}

	exists, err := bucket.Exists(ctx, "cities.geojson.backup")

	if err != nil {
		t.Fatalf("Failed to check for backup, %v", err)
	}

	if exists {
		t.Fatalf("Expected no backup when writing to a distinct bucket")
	}

	exists, err = output.Exists(ctx, "cities.geojson")

	if err != nil {
		t.Fatalf("Failed to check output bucket, %v", err)
	}

	if !exists {
		t.Fatalf("Expected transformed document in the output bucket")
	}
}
