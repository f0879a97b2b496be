package coordinates

import (
	"fmt"
)

// type TransformOptions holds the knobs for transforming a geometry tree.
type TransformOptions struct {
	// StripElevation controls what happens to [lon, lat, elevation]
	// triples: when true (the default) the elevation is dropped before the
	// pair is transformed; when false it is carried through untouched. The
	// elevation value itself is never rescaled.
	StripElevation bool
}

// DefaultTransformOptions returns the options used when a caller passes nil.
func DefaultTransformOptions() *TransformOptions {

	return &TransformOptions{
		StripElevation: true,
	}
}

// TransformValue rescales 'value' on axis 'a' from the 'source' envelope on
// to the 'target' envelope. This is a plain linear (min-max) rescale, not a
// cartographic reprojection: the source envelope's corners map exactly on to
// the target's corners and everything else is interpolated.
func TransformValue(value float64, a Axis, source Envelope, target Envelope) (float64, error) {

	source_min := source.Min(a)
	source_max := source.Max(a)

	if source_max == source_min {
		return 0, fmt.Errorf("Source envelope %s axis is zero-width, %w", a, ErrDegenerateEnvelope)
	}

	target_min := target.Min(a)
	target_max := target.Max(a)

	if target_max == target_min {
		return 0, fmt.Errorf("Target envelope %s axis is zero-width, %w", a, ErrDegenerateEnvelope)
	}

	normalized := (value - source_min) / (source_max - source_min)
	return normalized*(target_max-target_min) + target_min, nil
}

// TransformNode rescales every coordinate leaf under 'node' from 'source' on
// to 'target', preserving the tree's shape. 'node' is a value decoded from a
// GeoJSON 'coordinates' member. A nil 'opts' means DefaultTransformOptions.
func TransformNode(node interface{}, source Envelope, target Envelope, opts *TransformOptions) (interface{}, error) {

	if opts == nil {
		opts = DefaultTransformOptions()
	}

	switch Classify(node) {

	case Leaf2D:

		arr := node.([]interface{})
		return transformLeaf(toFloat(arr[0]), toFloat(arr[1]), nil, source, target)

	case Leaf3D:

		arr := node.([]interface{})

		if opts.StripElevation {
			return transformLeaf(toFloat(arr[0]), toFloat(arr[1]), nil, source, target)
		}

		return transformLeaf(toFloat(arr[0]), toFloat(arr[1]), arr[2], source, target)

	case Container:

		arr := node.([]interface{})
		transformed := make([]interface{}, len(arr))

		for i, child := range arr {

			t, err := TransformNode(child, source, target, opts)

			if err != nil {
				return nil, err
			}

			transformed[i] = t
		}

		return transformed, nil

	default:
		return node, nil
	}
}

// ClampLatitude clamps 'lat' to the mercator-safe range of 'target'.
func ClampLatitude(lat float64, target Envelope) float64 {

	if lat < target.LatMin {
		return target.LatMin
	}

	if lat > target.LatMax {
		return target.LatMax
	}

	return lat
}

// ClampNode clamps every coordinate leaf's latitude under 'node' to the
// latitude range of 'target', leaving longitudes untouched. It returns the
// clamped tree and the number of leaves that were actually changed.
func ClampNode(node interface{}, target Envelope) (interface{}, int) {

	switch Classify(node) {

	case Leaf2D, Leaf3D:

		arr := node.([]interface{})
		lat := toFloat(arr[1])
		clamped := ClampLatitude(lat, target)

		if clamped == lat {
			return node, 0
		}

		out := make([]interface{}, len(arr))
		copy(out, arr)
		out[1] = clamped

		return out, 1

	case Container:

		arr := node.([]interface{})
		out := make([]interface{}, len(arr))

		count := 0

		for i, child := range arr {

			c, n := ClampNode(child, target)
			out[i] = c
			count += n
		}

		return out, count

	default:
		return node, 0
	}
}

func transformLeaf(lon float64, lat float64, elevation interface{}, source Envelope, target Envelope) (interface{}, error) {

	new_lon, err := TransformValue(lon, Longitude, source, target)

	if err != nil {
		return nil, fmt.Errorf("Failed to transform longitude %f, %w", lon, err)
	}

	new_lat, err := TransformValue(lat, Latitude, source, target)

	if err != nil {
		return nil, fmt.Errorf("Failed to transform latitude %f, %w", lat, err)
	}

	if elevation != nil {
		return []interface{}{new_lon, new_lat, elevation}, nil
	}

	return []interface{}{new_lon, new_lat}, nil
}
