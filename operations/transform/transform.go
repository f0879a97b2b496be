package transform

// Rescale the coordinates of a GeoJSON document from the Eno coordinate
// system on to the envelope a web-mercator viewer expects, and stamp the
// document with provenance metadata describing the run.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Rhovasti/go-eno-coordinates/coordinates"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ErrInvalidGeoJSON is returned when a document is not valid JSON or lacks
// the minimal GeoJSON shape (a 'type' member with 'features' or
// 'coordinates' to match).
var ErrInvalidGeoJSON = errors.New("invalid GeoJSON document")

// type TransformDocumentOptions holds everything a single transform run
// needs. Envelopes are injected here at call time; there are no default
// envelopes baked in to the transform itself.
type TransformDocumentOptions struct {
	// The envelope the document's coordinates actually occupy.
	Source coordinates.Envelope
	// The envelope the document's coordinates are rescaled on to.
	Target coordinates.Envelope
	// Options passed through to coordinates.TransformNode. A nil value
	// means coordinates.DefaultTransformOptions.
	TransformOptions *coordinates.TransformOptions
	// The coordinate-system tag recorded in the document's metadata block.
	CoordinateSystem string
	// The tag recorded in metadata describing what the document was
	// transformed from.
	TransformedFrom string
	// Now returns the timestamp recorded in metadata. A nil value means
	// time.Now.
	Now func() time.Time
}

// DefaultTransformDocumentOptions returns options describing the canonical
// Eno batch run: the calibrated Eno envelope rescaled on to the normalized
// (mercator-safe) envelope.
func DefaultTransformDocumentOptions(source coordinates.Envelope) *TransformDocumentOptions {

	return &TransformDocumentOptions{
		Source:           source,
		Target:           coordinates.NormalizedEnvelope(),
		CoordinateSystem: "normalized_geographic",
		TransformedFrom:  "eno_fantasy_world",
	}
}

// TransformDocument rescales every coordinate in 'body' per 'opts' and
// returns the transformed document, pretty-printed. 'body' may be a
// FeatureCollection, a bare Feature or a bare geometry. This is the
// fail-fast single-document mode: the first problem is returned immediately.
func TransformDocument(ctx context.Context, body []byte, opts *TransformDocumentOptions) ([]byte, error) {

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("Failed to parse document, %w", ErrInvalidGeoJSON)
	}

	err := opts.Source.Validate()

	if err != nil {
		return nil, fmt.Errorf("Invalid source envelope, %w", err)
	}

	err = opts.Target.Validate()

	if err != nil {
		return nil, fmt.Errorf("Invalid target envelope, %w", err)
	}

	type_rsp := gjson.GetBytes(body, "type")

	switch type_rsp.String() {

	case "FeatureCollection":

		features_rsp := gjson.GetBytes(body, "features")

		if !features_rsp.IsArray() {
			return nil, fmt.Errorf("FeatureCollection is missing a features list, %w", ErrInvalidGeoJSON)
		}

		count := len(features_rsp.Array())

		for i := 0; i < count; i++ {

			path := fmt.Sprintf("features.%d.geometry.coordinates", i)
			body, err = transformPath(body, path, opts)

			if err != nil {
				return nil, fmt.Errorf("Failed to transform feature %d, %w", i, err)
			}
		}

	case "Feature":

		body, err = transformPath(body, "geometry.coordinates", opts)

		if err != nil {
			return nil, fmt.Errorf("Failed to transform feature, %w", err)
		}

	default:

		if !gjson.GetBytes(body, "coordinates").Exists() {
			return nil, fmt.Errorf("Document has neither features nor coordinates, %w", ErrInvalidGeoJSON)
		}

		body, err = transformPath(body, "coordinates", opts)

		if err != nil {
			return nil, fmt.Errorf("Failed to transform geometry, %w", err)
		}
	}

	body, err = stampMetadata(body, opts)

	if err != nil {
		return nil, fmt.Errorf("Failed to stamp metadata, %w", err)
	}

	return pretty.Pretty(body), nil
}

// transformPath rewrites the coordinates value at 'path' in 'body', in
// place. A missing path (null geometry, geometry without coordinates) is
// left alone.
func transformPath(body []byte, path string, opts *TransformDocumentOptions) ([]byte, error) {

	coords_rsp := gjson.GetBytes(body, path)

	if !coords_rsp.Exists() {
		return body, nil
	}

	var node interface{}

	err := json.Unmarshal([]byte(coords_rsp.Raw), &node)

	if err != nil {
		return nil, fmt.Errorf("Failed to decode coordinates at %s, %w", path, err)
	}

	transformed, err := coordinates.TransformNode(node, opts.Source, opts.Target, opts.TransformOptions)

	if err != nil {
		return nil, err
	}

	body, err = sjson.SetBytes(body, path, transformed)

	if err != nil {
		return nil, fmt.Errorf("Failed to assign coordinates at %s, %w", path, err)
	}

	return body, nil
}

// stampMetadata records the run's provenance under the document's metadata
// block. Keys are set one by one so anything already in metadata survives.
func stampMetadata(body []byte, opts *TransformDocumentOptions) ([]byte, error) {

	now_func := opts.Now

	if now_func == nil {
		now_func = time.Now
	}

	now := now_func().UTC().Format(time.RFC3339)

	// a slice rather than a map: key order has to be stable so repeated
	// runs produce byte-identical documents

	updates := []struct {
		path  string
		value interface{}
	}{
		{"metadata.coordinate_system", opts.CoordinateSystem},
		{"metadata.transformed_from", opts.TransformedFrom},
		{"metadata.transformation_date", now},
		{"metadata.original_bounds", opts.Source},
		{"metadata.normalized_bounds", opts.Target},
	}

	var err error

	for _, u := range updates {

		body, err = sjson.SetBytes(body, u.path, u.value)

		if err != nil {
			return nil, fmt.Errorf("Failed to update %s for document, %w", u.path, err)
		}
	}

	return body, nil
}
