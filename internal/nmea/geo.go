package nmea

import "math"

// Great-circle helpers on a sphere of radius 6372795 m. Earth is not a
// perfect sphere, so results can be off by up to 0.5%.

const earthRadiusM = 6372795.0

func radians(deg float64) float64 { return deg * math.Pi / 180.0 }
func degrees(rad float64) float64 { return rad * 180.0 / math.Pi }

// DistanceBetween returns the great-circle distance in meters between two
// positions given as signed decimal degrees.
func DistanceBetween(lat1, long1, lat2, long2 float64) float64 {
	delta := radians(long1 - long2)
	sdLong := math.Sin(delta)
	cdLong := math.Cos(delta)
	lat1 = radians(lat1)
	lat2 = radians(lat2)
	slat1 := math.Sin(lat1)
	clat1 := math.Cos(lat1)
	slat2 := math.Sin(lat2)
	clat2 := math.Cos(lat2)
	delta = clat1*slat2 - slat1*clat2*cdLong
	delta = delta * delta
	delta += (clat2 * sdLong) * (clat2 * sdLong)
	delta = math.Sqrt(delta)
	denom := slat1*slat2 + clat1*clat2*cdLong
	return math.Atan2(delta, denom) * earthRadiusM
}

// CourseTo returns the initial bearing in degrees (north=0, clockwise
// through 360) from position 1 to position 2.
func CourseTo(lat1, long1, lat2, long2 float64) float64 {
	dLon := radians(long2 - long1)
	lat1 = radians(lat1)
	lat2 = radians(lat2)
	a1 := math.Sin(dLon) * math.Cos(lat2)
	a2 := math.Sin(lat1) * math.Cos(lat2) * math.Cos(dLon)
	a2 = math.Cos(lat1)*math.Sin(lat2) - a2
	a2 = math.Atan2(a1, a2)
	if a2 < 0 {
		a2 += 2 * math.Pi
	}
	return degrees(a2)
}

var cardinals = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Cardinal returns the nearest 16-point compass label for a course in
// degrees.
func Cardinal(course float64) string {
	direction := int((course+11.25)/22.5) % 16
	if direction < 0 {
		direction += 16
	}
	return cardinals[direction]
}
