package nmea

// maxTermLen caps one field's text. NMEA fields are short; anything longer
// is truncated, never an error.
const maxTermLen = 15

type sentenceKind uint8

const (
	sentenceOther sentenceKind = iota
	sentenceRMC                // position/velocity: $xxRMC
	sentenceGGA                // fix data: $xxGGA
)

// Parser is the streaming tokenizer. Feed it one character at a time with
// Encode; the exported fields expose the last checksum-validated values.
//
// A Parser is not safe for concurrent use. One goroutine feeds characters;
// readers must examine fields between Encode calls, not during them.
// Independent streams need independent Parser instances.
type Parser struct {
	Location   Location
	Date       Date
	Time       Time
	Speed      Speed
	Course     Course
	Altitude   Altitude
	Satellites Integer
	HDOP       HDOP

	// Transient per-sentence state, reset on '$'.
	parity         byte
	isChecksumTerm bool
	term           [maxTermLen]byte
	termLen        int
	termNum        int
	kind           sentenceKind
	sentenceHasFix bool

	custom     []*Custom
	candidates []*Custom // taps for the current sentence's name

	encodedChars     uint32
	sentencesWithFix uint32
	passedChecksum   uint32
	failedChecksum   uint32
}

// NewParser returns a ready parser. The zero value is also usable.
func NewParser() *Parser { return &Parser{} }

// Encode processes one character from the receiver. It returns true exactly
// on the character that completes the checksum field of a sentence whose
// checksum validates; false for every other character, including a failed
// checksum. It never blocks and allocates nothing.
func (p *Parser) Encode(c byte) bool {
	p.encodedChars++

	switch c {
	case ',': // the separator itself is part of checksum coverage
		p.parity ^= c
		fallthrough
	case '\r', '\n', '*': // term terminators
		valid := p.endOfTermHandler()
		p.termNum++
		p.termLen = 0
		p.isChecksumTerm = c == '*'
		return valid

	case '$': // sentence begin: reset all transient state
		p.termNum, p.termLen = 0, 0
		p.parity = 0
		p.kind = sentenceOther
		p.isChecksumTerm = false
		p.sentenceHasFix = false
		p.candidates = nil
		return false

	default: // ordinary characters
		if p.termLen < len(p.term) {
			p.term[p.termLen] = c
			p.termLen++
		}
		if !p.isChecksumTerm {
			p.parity ^= c
		}
		return false
	}
}

// EncodeBytes feeds a buffer and reports whether any sentence inside it
// validated.
func (p *Parser) EncodeBytes(buf []byte) bool {
	valid := false
	for _, c := range buf {
		if p.Encode(c) {
			valid = true
		}
	}
	return valid
}

// endOfTermHandler processes a just-completed term. It returns true when the
// term was the checksum of a sentence that validated, which is the moment
// all staged values for that sentence commit.
func (p *Parser) endOfTermHandler() bool {
	term := p.term[:p.termLen]

	if p.isChecksumTerm {
		if len(term) < 2 || fromHex(term[0])*16+fromHex(term[1]) != p.parity {
			p.failedChecksum++
			return false
		}

		p.passedChecksum++
		if p.sentenceHasFix {
			p.sentencesWithFix++
		}

		switch p.kind {
		case sentenceRMC:
			p.Date.commit()
			p.Time.commit()
			if p.sentenceHasFix {
				p.Location.commit()
				p.Speed.commit()
				p.Course.commit()
			}
		case sentenceGGA:
			p.Time.commit()
			if p.sentenceHasFix {
				p.Location.commit()
				p.Altitude.commit()
			}
			p.Satellites.commit()
			p.HDOP.commit()
		}

		for _, tap := range p.candidates {
			tap.commit()
		}
		return true
	}

	// Term 0 names the sentence.
	if p.termNum == 0 {
		switch string(term) {
		case "GPRMC", "GNRMC":
			p.kind = sentenceRMC
		case "GPGGA", "GNGGA":
			p.kind = sentenceGGA
		default:
			p.kind = sentenceOther
		}
		p.candidates = p.candidateRun(term)
		return false
	}

	if p.kind != sentenceOther && len(term) > 0 {
		switch p.kind {
		case sentenceRMC:
			switch p.termNum {
			case 1:
				p.Time.setTime(term)
			case 2: // A=active, V=void
				p.sentenceHasFix = term[0] == 'A'
			case 3:
				p.Location.setLatitude(term)
			case 4:
				p.Location.setLatitudeNegative(term[0] == 'S')
			case 5:
				p.Location.setLongitude(term)
			case 6:
				p.Location.setLongitudeNegative(term[0] == 'W')
			case 7:
				p.Speed.set(term)
			case 8:
				p.Course.set(term)
			case 9:
				p.Date.setDate(term)
			}
		case sentenceGGA:
			switch p.termNum {
			case 1:
				p.Time.setTime(term)
			case 2:
				p.Location.setLatitude(term)
			case 3:
				p.Location.setLatitudeNegative(term[0] == 'S')
			case 4:
				p.Location.setLongitude(term)
			case 5:
				p.Location.setLongitudeNegative(term[0] == 'W')
			case 6: // fix quality, 0=invalid
				p.sentenceHasFix = term[0] > '0'
			case 7:
				p.Satellites.set(term)
			case 8:
				p.HDOP.set(term)
			case 9:
				p.Altitude.set(term)
			}
		}
	}

	// Stage any taps listening on this field index.
	for _, tap := range p.candidates {
		if tap.term > p.termNum {
			break
		}
		if tap.term == p.termNum {
			tap.set(term)
		}
	}
	return false
}

// AnyUpdated reports whether any native field changed since it was last
// individually read.
func (p *Parser) AnyUpdated() bool {
	return p.Location.IsUpdated() || p.Date.IsUpdated() || p.Time.IsUpdated() ||
		p.Speed.IsUpdated() || p.Course.IsUpdated() || p.Altitude.IsUpdated() ||
		p.Satellites.IsUpdated() || p.HDOP.IsUpdated()
}

// CharsProcessed is the total number of characters fed so far.
func (p *Parser) CharsProcessed() uint32 { return p.encodedChars }

// SentencesWithFix counts validated sentences that indicated a position fix.
func (p *Parser) SentencesWithFix() uint32 { return p.sentencesWithFix }

// PassedChecksum counts sentences whose checksum validated.
func (p *Parser) PassedChecksum() uint32 { return p.passedChecksum }

// FailedChecksum counts sentences whose checksum did not validate.
func (p *Parser) FailedChecksum() uint32 { return p.failedChecksum }
