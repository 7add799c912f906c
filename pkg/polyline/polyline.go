// Package polyline provides encoding and decoding for Google's polyline
// algorithm plus spatial operations (length, along-line interpolation,
// fixed-interval sampling) over decoded geometries.
// The encoding is documented at:
// https://developers.google.com/maps/documentation/utilities/polylinealgorithm
package polyline

import (
	"math"
	"sort"
)

// Coordinate represents a geographic point with latitude and longitude.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Decode decodes a polyline-encoded string into a slice of coordinates.
// The polyline format uses precision of 5 decimal places (standard Google format).
func Decode(encoded string) []Coordinate {
	if encoded == "" {
		return nil
	}

	var coords []Coordinate
	index := 0
	lat := 0
	lon := 0

	for index < len(encoded) {
		latDelta, newIndex := decodeValue(encoded, index)
		index = newIndex
		lat += latDelta

		lonDelta, newIndex := decodeValue(encoded, index)
		index = newIndex
		lon += lonDelta

		coords = append(coords, Coordinate{
			Lat: float64(lat) / 1e5,
			Lon: float64(lon) / 1e5,
		})
	}

	return coords
}

// decodeValue decodes a single delta value starting at index.
// Returns the decoded delta and the new index position.
func decodeValue(encoded string, index int) (int, int) {
	shift := 0
	result := 0

	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	// Two's complement for negative values
	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}

// Encode encodes a slice of coordinates into a polyline-encoded string
// at the standard precision of 5 decimal places.
func Encode(coords []Coordinate) string {
	if len(coords) == 0 {
		return ""
	}

	encoded := make([]byte, 0, len(coords)*4)
	prevLat := 0
	prevLon := 0

	for _, coord := range coords {
		lat := int(math.Round(coord.Lat * 1e5))
		lon := int(math.Round(coord.Lon * 1e5))

		encoded = encodeValue(encoded, lat-prevLat)
		encoded = encodeValue(encoded, lon-prevLon)

		prevLat = lat
		prevLon = lon
	}

	return string(encoded)
}

// encodeValue encodes a single integer delta using the polyline algorithm.
func encodeValue(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	buf = append(buf, byte(value)+63)

	return buf
}

// Line is a polyline geometry prepared for spatial queries. Raw coordinate
// slices must be wrapped with NewLine before length or along-line
// interpolation is possible; the constructor precomputes cumulative segment
// distances, so the conversion step cannot be skipped at a call site.
type Line struct {
	coords []Coordinate
	cum    []float64 // cumulative distance in meters up to coords[i]
}

// NewLine wraps a decoded geometry as a Line. An empty or single-point
// geometry yields a zero-length line.
func NewLine(coords []Coordinate) *Line {
	cum := make([]float64, len(coords))
	for i := 1; i < len(coords); i++ {
		cum[i] = cum[i-1] + haversineDistance(coords[i-1], coords[i])
	}
	return &Line{coords: coords, cum: cum}
}

// LengthMeters returns the total length of the line in meters.
func (l *Line) LengthMeters() float64 {
	if len(l.cum) == 0 {
		return 0
	}
	return l.cum[len(l.cum)-1]
}

// Coords returns the underlying coordinates of the line.
func (l *Line) Coords() []Coordinate {
	return l.coords
}

// PointAt returns the point at the given distance along the line.
// Distances beyond the line's length clamp to the final coordinate.
func (l *Line) PointAt(distanceMeters float64) Coordinate {
	if len(l.coords) == 0 {
		return Coordinate{}
	}
	if distanceMeters <= 0 || len(l.coords) == 1 {
		return l.coords[0]
	}
	if distanceMeters >= l.LengthMeters() {
		return l.coords[len(l.coords)-1]
	}

	// First vertex at or beyond the target distance.
	i := sort.SearchFloat64s(l.cum, distanceMeters)
	if l.cum[i] == distanceMeters {
		return l.coords[i]
	}

	segStart := l.cum[i-1]
	segLen := l.cum[i] - segStart
	fraction := (distanceMeters - segStart) / segLen

	a := l.coords[i-1]
	b := l.coords[i]
	return Coordinate{
		Lat: a.Lat + fraction*(b.Lat-a.Lat),
		Lon: a.Lon + fraction*(b.Lon-a.Lon),
	}
}

// SampleEvery returns points sampled at distances 0, step, 2*step, ... along
// the line, for every distance not exceeding the line's length. The sample at
// distance 0 is always included; the line's terminal endpoint is only part of
// the result when the length is an exact multiple of the step. A zero-length
// line yields exactly one sample.
func SampleEvery(l *Line, stepMeters float64) []Coordinate {
	if len(l.coords) == 0 {
		return nil
	}
	if stepMeters <= 0 {
		return []Coordinate{l.coords[0]}
	}

	length := l.LengthMeters()
	samples := make([]Coordinate, 0, int(length/stepMeters)+1)
	for d := 0.0; d <= length; d += stepMeters {
		samples = append(samples, l.PointAt(d))
	}
	return samples
}

const earthRadiusMeters = 6371000

// haversineDistance calculates the distance between two coordinates in meters.
func haversineDistance(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
