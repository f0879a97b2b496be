package calibrate

// Determine the envelope the source data actually occupies, either from the
// constant calibrated once from the Eno vector corpus or by scanning a
// corpus of GeoJSON documents for coordinate extrema.

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/Rhovasti/go-eno-coordinates/common"
	"github.com/Rhovasti/go-eno-coordinates/coordinates"
	"github.com/tidwall/gjson"
	"gocloud.dev/blob"
)

// EnoEnvelope returns the envelope of the Eno world's vector data,
// calibrated from a full scan of the corpus. Production batch runs use this
// rather than re-scanning every time.
func EnoEnvelope() coordinates.Envelope {

	return coordinates.Envelope{
		LonMin: -72.720,
		LonMax: 117.243,
		LatMin: -84.000,
		LatMax: 90.560,
	}
}

// Scan reads each of 'paths' from 'bucket' as GeoJSON and folds every
// coordinate leaf in to a running min/max envelope. Malformed or unreadable
// documents are logged and skipped so one bad file doesn't block the rest.
// It returns the envelope, the number of coordinate leaves seen, and an
// error only if the scan itself could not run. If no leaves were seen at
// all the envelope falls back to coordinates.WorldEnvelope.
func Scan(ctx context.Context, bucket *blob.Bucket, paths ...string) (coordinates.Envelope, int, error) {

	logger := slog.Default()

	env := coordinates.Envelope{
		LonMin: math.Inf(1),
		LonMax: math.Inf(-1),
		LatMin: math.Inf(1),
		LatMax: math.Inf(-1),
	}

	count := 0

	for _, path := range paths {

		select {
		case <-ctx.Done():
			return coordinates.Envelope{}, 0, ctx.Err()
		default:
			// pass
		}

		n, err := scanPath(ctx, bucket, path, &env)

		if err != nil {
			logger.Error("Failed to scan document, skipping", "path", path, "error", err)
			continue
		}

		count += n
	}

	if count == 0 {
		return coordinates.WorldEnvelope(), 0, nil
	}

	return env, count, nil
}

func scanPath(ctx context.Context, bucket *blob.Bucket, path string, env *coordinates.Envelope) (int, error) {

	body, err := common.ReadDocument(ctx, bucket, path)

	if err != nil {
		return 0, err
	}

	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("Failed to parse '%s', not valid JSON", path)
	}

	coords := make([]gjson.Result, 0)

	switch gjson.GetBytes(body, "type").String() {

	case "FeatureCollection":

		features_rsp := gjson.GetBytes(body, "features")

		if !features_rsp.IsArray() {
			return 0, fmt.Errorf("FeatureCollection '%s' is missing a features list", path)
		}

		for _, f := range features_rsp.Array() {

			c := f.Get("geometry.coordinates")

			if c.Exists() {
				coords = append(coords, c)
			}
		}

	case "Feature":

		c := gjson.GetBytes(body, "geometry.coordinates")

		if c.Exists() {
			coords = append(coords, c)
		}

	default:

		c := gjson.GetBytes(body, "coordinates")

		if !c.Exists() {
			return 0, fmt.Errorf("Document '%s' has neither features nor coordinates", path)
		}

		coords = append(coords, c)
	}

	count := 0

	for _, c := range coords {

		var node interface{}

		err := json.Unmarshal([]byte(c.Raw), &node)

		if err != nil {
			return 0, fmt.Errorf("Failed to decode coordinates in '%s', %w", path, err)
		}

		coordinates.Walk(node, func(lon float64, lat float64) {
			env.Extend(lon, lat)
			count += 1
		})
	}

	return count, nil
}
