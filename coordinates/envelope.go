package coordinates

import (
	"errors"
	"fmt"
)

// ErrDegenerateEnvelope is returned when an envelope has zero width on the
// axis being transformed. A zero-width axis would make the linear rescale
// divide by zero.
var ErrDegenerateEnvelope = errors.New("degenerate envelope, axis has zero width")

// type Axis labels the two transformable axes of a coordinate pair.
type Axis int

const (
	// Longitude is the first element of a coordinate pair.
	Longitude Axis = iota
	// Latitude is the second element of a coordinate pair.
	Latitude
)

func (a Axis) String() string {

	switch a {
	case Longitude:
		return "lon"
	default:
		return "lat"
	}
}

// type Envelope stores a rectangular coordinate range. Envelopes are always
// passed explicitly to the things that need them; nothing in this package
// keeps a package-level envelope.
type Envelope struct {
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
}

// NormalizedEnvelope returns the envelope a web-mercator viewer expects:
// the full longitude range and the mercator-safe latitude range (±85, not
// ±90).
func NormalizedEnvelope() Envelope {

	return Envelope{
		LonMin: -180.0,
		LonMax: 180.0,
		LatMin: -85.0,
		LatMax: 85.0,
	}
}

// WorldEnvelope returns the full geographic envelope (±180 lon, ±90 lat).
// It is the fallback when a scan finds no coordinates to calibrate from.
func WorldEnvelope() Envelope {

	return Envelope{
		LonMin: -180.0,
		LonMax: 180.0,
		LatMin: -90.0,
		LatMax: 90.0,
	}
}

// Min returns the envelope's lower bound on axis 'a'.
func (e Envelope) Min(a Axis) float64 {

	if a == Longitude {
		return e.LonMin
	}

	return e.LatMin
}

// Max returns the envelope's upper bound on axis 'a'.
func (e Envelope) Max(a Axis) float64 {

	if a == Longitude {
		return e.LonMax
	}

	return e.LatMax
}

// Validate returns an error if either axis of 'e' is zero-width or inverted.
func (e Envelope) Validate() error {

	if e.LonMin >= e.LonMax {
		return fmt.Errorf("Invalid lon range [%f, %f], %w", e.LonMin, e.LonMax, ErrDegenerateEnvelope)
	}

	if e.LatMin >= e.LatMax {
		return fmt.Errorf("Invalid lat range [%f, %f], %w", e.LatMin, e.LatMax, ErrDegenerateEnvelope)
	}

	return nil
}

// Extend grows 'e' to include the coordinate (lon, lat). It is the min/max
// fold used when calibrating an envelope from data.
func (e *Envelope) Extend(lon float64, lat float64) {

	if lon < e.LonMin {
		e.LonMin = lon
	}

	if lon > e.LonMax {
		e.LonMax = lon
	}

	if lat < e.LatMin {
		e.LatMin = lat
	}

	if lat > e.LatMax {
		e.LatMax = lat
	}
}
