package nmea

import "time"

// Custom taps one field of one sentence type that the parser does not decode
// natively, identified by sentence name (e.g. "GPGSA") and 1-based field
// index. It follows the same staged/commit protocol as the native fields:
// the staged text becomes visible only after the sentence checksum passes.
// Field text longer than the term buffer is truncated.
type Custom struct {
	sentence string
	term     int

	valid      bool
	updated    bool
	lastCommit time.Time

	staged    [maxTermLen]byte
	stagedLen uint8
	buf       [maxTermLen]byte
	bufLen    uint8
}

func (c *Custom) IsValid() bool   { return c.valid }
func (c *Custom) IsUpdated() bool { return c.updated }

func (c *Custom) Age() time.Duration {
	if !c.valid {
		return AgeNever
	}
	return time.Since(c.lastCommit)
}

// Value returns the committed field text and clears the updated flag.
func (c *Custom) Value() string {
	c.updated = false
	return string(c.buf[:c.bufLen])
}

func (c *Custom) set(term []byte) {
	c.stagedLen = uint8(copy(c.staged[:], term))
}

func (c *Custom) commit() {
	c.buf, c.bufLen = c.staged, c.stagedLen
	c.lastCommit = time.Now()
	c.valid, c.updated = true, true
}

// RegisterCustom adds a tap for the given sentence name and field index and
// returns its handle. Registration keeps the tap list ordered by name, then
// by field index, so the per-sentence candidate run is contiguous. Register
// taps before feeding data; registration is not safe mid-sentence.
func (p *Parser) RegisterCustom(sentence string, term int) *Custom {
	c := &Custom{sentence: sentence, term: term}

	i := 0
	for ; i < len(p.custom); i++ {
		e := p.custom[i]
		if sentence < e.sentence || (sentence == e.sentence && term < e.term) {
			break
		}
	}
	p.custom = append(p.custom, nil)
	copy(p.custom[i+1:], p.custom[i:])
	p.custom[i] = c
	return c
}

// candidateRun returns the contiguous slice of taps registered for the named
// sentence, or an empty slice. The tap list is sorted, so a single forward
// scan finds the run without allocating.
func (p *Parser) candidateRun(name []byte) []*Custom {
	i := 0
	for i < len(p.custom) && cmpBytesString(name, p.custom[i].sentence) > 0 {
		i++
	}
	j := i
	for j < len(p.custom) && cmpBytesString(name, p.custom[j].sentence) == 0 {
		j++
	}
	return p.custom[i:j]
}

// cmpBytesString is bytes.Compare against a string, avoiding the []byte
// conversion that would allocate on the hot path.
func cmpBytesString(b []byte, s string) int {
	n := len(b)
	if len(s) < n {
		n = len(s)
	}
	for i := 0; i < n; i++ {
		if b[i] != s[i] {
			if b[i] < s[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(b) < len(s):
		return -1
	case len(b) > len(s):
		return 1
	}
	return 0
}
