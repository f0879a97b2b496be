package calibrate

import (
	"context"
	"testing"

	"github.com/Rhovasti/go-eno-coordinates/common"
	"github.com/Rhovasti/go-eno-coordinates/coordinates"
	"gocloud.dev/blob/fileblob"
)

func TestEnoEnvelope(t *testing.T) {

	env := EnoEnvelope()

	expected := coordinates.Envelope{
		LonMin: -72.720,
		LonMax: 117.243,
		LatMin: -84.000,
		LatMax: 90.560,
	}

	if env != expected {
		t.Fatalf("Unexpected Eno envelope %+v", env)
	}

	err := env.Validate()

	if err != nil {
		t.Fatalf("Expected Eno envelope to validate, %v", err)
	}
}

func TestScan(t *testing.T) {

	ctx := context.Background()

	bucket, err := fileblob.OpenBucket(t.TempDir(), nil)

	if err != nil {
		t.Fatalf("Failed to open bucket, %v", err)
	}

	defer bucket.Close()

	documents := map[string]string{
		"cities.geojson": `{
			"type": "FeatureCollection",
			"features": [
				{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [-72.72, 12.0]}},
				{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [30.0, 90.56]}}
			]
		}`,
		"rivers.geojson": `{
			"type": "Feature",
			"properties": {},
			"geometry": {"type": "LineString", "coordinates": [[117.243, -84.0], [0.0, 0.0]]}
		}`,
		"broken.geojson": "so, not JSON",
	}

	for key, body := range documents {

		err := common.WriteDocument(ctx, bucket, key, []byte(body))

		if err != nil {
			t.Fatalf("Failed to write '%s', %v", key, err)
		}
	}

	// broken.geojson gets logged and skipped, the rest still count

	env, count, err := Scan(ctx, bucket, "cities.geojson", "rivers.geojson", "broken.geojson")

	if err != nil {
		t.Fatalf("Failed to scan, %v", err)
	}

	if count != 4 {
		t.Fatalf("Expected 4 coordinates, got %d", count)
	}

	expected := coordinates.Envelope{
		LonMin: -72.72,
		LonMax: 117.243,
		LatMin: -84.0,
		LatMax: 90.56,
	}

	if env != expected {
		t.Fatalf("Unexpected envelope %+v", env)
	}
}

func TestScanEmpty(t *testing.T) {

	ctx := context.Background()

	bucket, err := fileblob.OpenBucket(t.TempDir(), nil)

	if err != nil {
		t.Fatalf("Failed to open bucket, %v", err)
	}

	defer bucket.Close()

	env, count, err := Scan(ctx, bucket)

	if err != nil {
		t.Fatalf("Failed to scan, %v", err)
	}

	if count != 0 {
		t.Fatalf("Expected no coordinates, got %d", count)
	}

	if env != coordinates.WorldEnvelope() {
		t.Fatalf("Expected the full world envelope fallback, got %+v", env)
	}
}
