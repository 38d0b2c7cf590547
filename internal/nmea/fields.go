package nmea

import (
	"math"
	"time"
)

// AgeNever is returned by Age() on a field that has never committed.
const AgeNever = time.Duration(math.MaxInt64)

// Unit conversion factors.
const (
	mphPerKnot    = 1.15077945
	mpsPerKnot    = 0.51444444
	kmphPerKnot   = 1.852
	milesPerMeter = 0.00062137112
	kmPerMeter    = 0.001
	feetPerMeter  = 3.2808399
)

// RawDegrees holds one NMEA angle: whole degrees plus billionths of a
// degree, with the sign carried separately. Degrees and Billionths are
// always non-negative; the hemisphere letter arrives as its own field, so
// "negative zero" must stay representable between the two.
type RawDegrees struct {
	Deg        uint16
	Billionths uint32
	Negative   bool
}

// Location is latitude/longitude with the staged/committed protocol: setters
// fill a staged pair, commit() publishes it after the sentence checksum
// passes. Hemisphere letters flip only the staged sign, never the committed
// one.
type Location struct {
	valid      bool
	updated    bool
	lat, lng   RawDegrees
	stagedLat  RawDegrees
	stagedLng  RawDegrees
	lastCommit time.Time
}

func (l *Location) IsValid() bool   { return l.valid }
func (l *Location) IsUpdated() bool { return l.updated }

func (l *Location) Age() time.Duration {
	if !l.valid {
		return AgeNever
	}
	return time.Since(l.lastCommit)
}

// RawLat returns the committed latitude and clears the updated flag.
func (l *Location) RawLat() RawDegrees {
	l.updated = false
	return l.lat
}

// RawLng returns the committed longitude and clears the updated flag.
func (l *Location) RawLng() RawDegrees {
	l.updated = false
	return l.lng
}

// Lat returns the committed latitude in signed decimal degrees.
func (l *Location) Lat() float64 {
	l.updated = false
	ret := float64(l.lat.Deg) + float64(l.lat.Billionths)/1000000000.0
	if l.lat.Negative {
		return -ret
	}
	return ret
}

// Lng returns the committed longitude in signed decimal degrees.
func (l *Location) Lng() float64 {
	l.updated = false
	ret := float64(l.lng.Deg) + float64(l.lng.Billionths)/1000000000.0
	if l.lng.Negative {
		return -ret
	}
	return ret
}

func (l *Location) setLatitude(term []byte)  { parseDegrees(term, &l.stagedLat) }
func (l *Location) setLongitude(term []byte) { parseDegrees(term, &l.stagedLng) }

func (l *Location) setLatitudeNegative(negative bool)  { l.stagedLat.Negative = negative }
func (l *Location) setLongitudeNegative(negative bool) { l.stagedLng.Negative = negative }

func (l *Location) commit() {
	l.lat, l.lng = l.stagedLat, l.stagedLng
	l.lastCommit = time.Now()
	l.valid, l.updated = true, true
}

// Date holds the UTC date as the raw ddmmyy integer from RMC.
type Date struct {
	valid      bool
	updated    bool
	date       uint32
	staged     uint32
	lastCommit time.Time
}

func (d *Date) IsValid() bool   { return d.valid }
func (d *Date) IsUpdated() bool { return d.updated }

func (d *Date) Age() time.Duration {
	if !d.valid {
		return AgeNever
	}
	return time.Since(d.lastCommit)
}

// Value returns the raw ddmmyy date and clears the updated flag.
func (d *Date) Value() uint32 {
	d.updated = false
	return d.date
}

func (d *Date) Year() int {
	d.updated = false
	return int(d.date%100) + 2000
}

func (d *Date) Month() int {
	d.updated = false
	return int(d.date/100) % 100
}

func (d *Date) Day() int {
	d.updated = false
	return int(d.date / 10000)
}

func (d *Date) setDate(term []byte) { d.staged = parseUint(term) }

func (d *Date) commit() {
	d.date = d.staged
	d.lastCommit = time.Now()
	d.valid, d.updated = true, true
}

// Time holds the UTC time of day as the raw hhmmsscc integer.
type Time struct {
	valid      bool
	updated    bool
	time       uint32
	staged     uint32
	lastCommit time.Time
}

func (t *Time) IsValid() bool   { return t.valid }
func (t *Time) IsUpdated() bool { return t.updated }

func (t *Time) Age() time.Duration {
	if !t.valid {
		return AgeNever
	}
	return time.Since(t.lastCommit)
}

// Value returns the raw hhmmsscc time and clears the updated flag.
func (t *Time) Value() uint32 {
	t.updated = false
	return t.time
}

func (t *Time) Hour() int {
	t.updated = false
	return int(t.time / 1000000)
}

func (t *Time) Minute() int {
	t.updated = false
	return int(t.time/10000) % 100
}

func (t *Time) Second() int {
	t.updated = false
	return int(t.time/100) % 100
}

func (t *Time) Centisecond() int {
	t.updated = false
	return int(t.time % 100)
}

func (t *Time) setTime(term []byte) { t.staged = uint32(parseDecimal(term)) }

func (t *Time) commit() {
	t.time = t.staged
	t.lastCommit = time.Now()
	t.valid, t.updated = true, true
}

// Decimal is the generic fixed-point container: the committed value is 100x
// the decoded number, so 1234.56 is stored as 123456.
type Decimal struct {
	valid      bool
	updated    bool
	val        int32
	staged     int32
	lastCommit time.Time
}

func (d *Decimal) IsValid() bool   { return d.valid }
func (d *Decimal) IsUpdated() bool { return d.updated }

func (d *Decimal) Age() time.Duration {
	if !d.valid {
		return AgeNever
	}
	return time.Since(d.lastCommit)
}

// Value returns the x100 scaled value and clears the updated flag.
func (d *Decimal) Value() int32 {
	d.updated = false
	return d.val
}

func (d *Decimal) set(term []byte) { d.staged = parseDecimal(term) }

func (d *Decimal) commit() {
	d.val = d.staged
	d.lastCommit = time.Now()
	d.valid, d.updated = true, true
}

// Integer is the generic unsigned integer container.
type Integer struct {
	valid      bool
	updated    bool
	val        uint32
	staged     uint32
	lastCommit time.Time
}

func (n *Integer) IsValid() bool   { return n.valid }
func (n *Integer) IsUpdated() bool { return n.updated }

func (n *Integer) Age() time.Duration {
	if !n.valid {
		return AgeNever
	}
	return time.Since(n.lastCommit)
}

// Value returns the integer and clears the updated flag.
func (n *Integer) Value() uint32 {
	n.updated = false
	return n.val
}

func (n *Integer) set(term []byte) { n.staged = parseUint(term) }

func (n *Integer) commit() {
	n.val = n.staged
	n.lastCommit = time.Now()
	n.valid, n.updated = true, true
}

// Speed is ground speed; the wire unit is knots.
type Speed struct{ Decimal }

func (s *Speed) Knots() float64 { return float64(s.Value()) / 100.0 }
func (s *Speed) MPH() float64   { return mphPerKnot * float64(s.Value()) / 100.0 }
func (s *Speed) MPS() float64   { return mpsPerKnot * float64(s.Value()) / 100.0 }
func (s *Speed) KMPH() float64  { return kmphPerKnot * float64(s.Value()) / 100.0 }

// Course is degrees clockwise from true north.
type Course struct{ Decimal }

func (c *Course) Deg() float64 { return float64(c.Value()) / 100.0 }

// Altitude is height above mean sea level; the wire unit is meters.
type Altitude struct{ Decimal }

func (a *Altitude) Meters() float64     { return float64(a.Value()) / 100.0 }
func (a *Altitude) Miles() float64      { return milesPerMeter * float64(a.Value()) / 100.0 }
func (a *Altitude) Kilometers() float64 { return kmPerMeter * float64(a.Value()) / 100.0 }
func (a *Altitude) Feet() float64       { return feetPerMeter * float64(a.Value()) / 100.0 }

// HDOP is horizontal dilution of precision.
type HDOP struct{ Decimal }

func (h *HDOP) HDOP() float64 { return float64(h.Value()) / 100.0 }
