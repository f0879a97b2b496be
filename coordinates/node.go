package coordinates

// type NodeKind tags what a decoded GeoJSON coordinates value actually is,
// so callers can branch on an explicit classification rather than a
// duck-typed "two element list of numbers" check.
type NodeKind int

const (
	// Scalar is a bare number (or any other non-sequence value).
	Scalar NodeKind = iota
	// Leaf2D is a [lon, lat] coordinate pair.
	Leaf2D
	// Leaf3D is a [lon, lat, elevation] coordinate triple.
	Leaf3D
	// Container is any other sequence, to be recursed into element-wise.
	Container
)

// Classify reports the NodeKind of 'node', a value decoded from a GeoJSON
// 'coordinates' member with encoding/json.
func Classify(node interface{}) NodeKind {

	arr, ok := node.([]interface{})

	if !ok {
		return Scalar
	}

	switch len(arr) {
	case 2:

		if isNumber(arr[0]) && isNumber(arr[1]) {
			return Leaf2D
		}

	case 3:

		if isNumber(arr[0]) && isNumber(arr[1]) && isNumber(arr[2]) {
			return Leaf3D
		}

	default:
		// pass
	}

	return Container
}

// StripElevation returns a copy of 'node' with every Leaf3D truncated to a
// Leaf2D. It is the explicit preprocessing pass for documents that carry
// elevation values the transform should not see.
func StripElevation(node interface{}) interface{} {

	switch Classify(node) {

	case Leaf3D:

		arr := node.([]interface{})
		return []interface{}{arr[0], arr[1]}

	case Container:

		arr := node.([]interface{})
		stripped := make([]interface{}, len(arr))

		for i, child := range arr {
			stripped[i] = StripElevation(child)
		}

		return stripped

	default:
		return node
	}
}

// Walk visits every coordinate leaf under 'node' in document order, invoking
// 'cb' with the leaf's longitude and latitude.
func Walk(node interface{}, cb func(lon float64, lat float64)) {

	switch Classify(node) {

	case Leaf2D, Leaf3D:

		arr := node.([]interface{})
		cb(toFloat(arr[0]), toFloat(arr[1]))

	case Container:

		arr := node.([]interface{})

		for _, child := range arr {
			Walk(child, cb)
		}

	default:
		// pass
	}
}

func isNumber(v interface{}) bool {

	switch v.(type) {
	case float64, int, int64:
		return true
	default:
		return false
	}
}

func toFloat(v interface{}) float64 {

	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
