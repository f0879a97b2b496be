package clamp

import (
	"context"
	"testing"
	"time"

	"github.com/Rhovasti/go-eno-coordinates/common"
	"github.com/Rhovasti/go-eno-coordinates/coordinates"
	"github.com/tidwall/gjson"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
)

const testDocument string = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "too far north"},
      "geometry": {"type": "Point", "coordinates": [30.0, 90.56]}
    },
    {
      "type": "Feature",
      "properties": {"name": "fine where it is"},
      "geometry": {"type": "Point", "coordinates": [30.0, 45.0]}
    }
  ]
}`

func testClamper(bucket *blob.Bucket) *Clamper {

	return &Clamper{
		Bucket: bucket,
		Target: coordinates.NormalizedEnvelope(),
		Now: func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		},
	}
}

func TestClampDocument(t *testing.T) {

	ctx := context.Background()

	c := testClamper(nil)

	body, err := c.ClampDocument(ctx, []byte(testDocument))

	if err != nil {
		t.Fatalf("Failed to clamp document, %v", err)
	}

	first := gjson.GetBytes(body, "features.0.geometry.coordinates").Array()

	if first[0].Float() != 30.0 {
		t.Fatalf("Expected longitude to be left alone, got %f", first[0].Float())
	}

	if first[1].Float() != 85.0 {
		t.Fatalf("Expected latitude to clamp to 85, got %f", first[1].Float())
	}

	second := gjson.GetBytes(body, "features.1.geometry.coordinates").Array()

	if second[1].Float() != 45.0 {
		t.Fatalf("Expected in-range latitude to be untouched, got %f", second[1].Float())
	}

	metadata := gjson.GetBytes(body, "metadata")

	if metadata.Get("coordinate_system").String() != "geographic_clamped" {
		t.Fatalf("Unexpected coordinate_system '%s'", metadata.Get("coordinate_system").String())
	}

	if metadata.Get("clamped_features").Int() != 1 {
		t.Fatalf("Expected 1 clamped feature, got %d", metadata.Get("clamped_features").Int())
	}

	if metadata.Get("latitude_range").String() != "[-85, 85]" {
		t.Fatalf("Unexpected latitude_range '%s'", metadata.Get("latitude_range").String())
	}
}

func TestClampPathRestoresBackup(t *testing.T) {

	ctx := context.Background()

	bucket, err := fileblob.OpenBucket(t.TempDir(), nil)

	if err != nil {
		t.Fatalf("Failed to open bucket, %v", err)
	}

	defer bucket.Close()

	// the live document carries a stale rescale; the backup holds the
	// original. ClampPath has to start from the backup.

	stale := `{"type": "FeatureCollection", "features": [{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [-180.0, -85.0]}}]}`

	err = common.WriteDocument(ctx, bucket, "cities.geojson", []byte(stale))

	if err != nil {
		t.Fatalf("Failed to write document, %v", err)
	}

	err = common.WriteDocument(ctx, bucket, "cities.geojson.backup", []byte(testDocument))

	if err != nil {
		t.Fatalf("Failed to write backup, %v", err)
	}

	c := testClamper(bucket)

	err = c.ClampPath(ctx, "cities.geojson")

	if err != nil {
		t.Fatalf("Failed to clamp document, %v", err)
	}

	body, err := common.ReadDocument(ctx, bucket, "cities.geojson")

	if err != nil {
		t.Fatalf("Failed to read document, %v", err)
	}

	coords := gjson.GetBytes(body, "features.0.geometry.coordinates").Array()

	if coords[0].Float() != 30.0 || coords[1].Float() != 85.0 {
		t.Fatalf("Expected clamp to run against the backup, got %s", gjson.GetBytes(body, "features.0.geometry.coordinates").Raw)
	}
}
