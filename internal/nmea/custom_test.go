package nmea

import "testing"

const gsaPayload = "GPGSA,A,3,04,05,,09,12,,,24,,,,,2.5,1.3,2.1"

func TestRegisterCustom_TapsUnknownSentence(t *testing.T) {
	p := NewParser()
	fixMode := p.RegisterCustom("GPGSA", 2)
	pdop := p.RegisterCustom("GPGSA", 15)

	if hits := feed(p, nmeaLine(gsaPayload)); len(hits) != 1 {
		t.Fatalf("GSA sentence did not validate")
	}

	if !fixMode.IsValid() || !fixMode.IsUpdated() {
		t.Fatalf("tap not committed")
	}
	if got := fixMode.Value(); got != "3" {
		t.Fatalf("fix mode=%q want %q", got, "3")
	}
	if fixMode.IsUpdated() {
		t.Fatalf("updated flag not cleared by Value()")
	}
	if got := pdop.Value(); got != "2.5" {
		t.Fatalf("pdop=%q want %q", got, "2.5")
	}
}

func TestRegisterCustom_OrderIndependent(t *testing.T) {
	p := NewParser()
	// Register out of order across two names; each must still see its own
	// field.
	third := p.RegisterCustom("GPGSV", 3)
	first := p.RegisterCustom("GPGSA", 1)
	second := p.RegisterCustom("GPGSA", 3)

	feed(p, nmeaLine(gsaPayload))
	feed(p, nmeaLine("GPGSV,3,1,11,03,03,111,00,04,15,270,00,06,01,010,00,13,06,292,00"))

	if got := first.Value(); got != "A" {
		t.Errorf("GPGSA[1]=%q want %q", got, "A")
	}
	if got := second.Value(); got != "04" {
		t.Errorf("GPGSA[3]=%q want %q", got, "04")
	}
	if got := third.Value(); got != "11" {
		t.Errorf("GPGSV[3]=%q want %q", got, "11")
	}
}

func TestRegisterCustom_NoCommitOnOtherSentences(t *testing.T) {
	p := NewParser()
	tap := p.RegisterCustom("GPGSA", 2)

	feed(p, nmeaLine(rmcPayload))
	if tap.IsValid() || tap.IsUpdated() {
		t.Fatalf("tap committed by unrelated sentence")
	}
	if age := tap.Age(); age != AgeNever {
		t.Fatalf("age=%v want AgeNever", age)
	}
}

func TestRegisterCustom_FailedChecksumDiscardsStagedText(t *testing.T) {
	p := NewParser()
	tap := p.RegisterCustom("GPGSA", 2)

	feed(p, nmeaLine(gsaPayload))
	if got := tap.Value(); got != "3" {
		t.Fatalf("value=%q want %q", got, "3")
	}

	// Same sentence with mode 2 but a broken checksum: the committed text
	// must survive.
	good := nmeaLine("GPGSA,A,2,04,05,,09,12,,,24,,,,,2.5,1.3,2.1")
	bad := good[:len(good)-3] + "0\r\n"
	if bad == good {
		bad = good[:len(good)-3] + "1\r\n"
	}
	feed(p, bad)

	if tap.IsUpdated() {
		t.Fatalf("tap updated by failed checksum")
	}
	if got := tap.Value(); got != "3" {
		t.Fatalf("value=%q want committed %q", got, "3")
	}
}

func TestCandidateRunOrdering(t *testing.T) {
	p := NewParser()
	p.RegisterCustom("GPGSV", 1)
	p.RegisterCustom("GPGSA", 3)
	p.RegisterCustom("GPGSA", 1)
	p.RegisterCustom("AAMWV", 2)

	run := p.candidateRun([]byte("GPGSA"))
	if len(run) != 2 {
		t.Fatalf("run length=%d want 2", len(run))
	}
	if run[0].term != 1 || run[1].term != 3 {
		t.Fatalf("run terms=%d,%d want 1,3", run[0].term, run[1].term)
	}

	if run := p.candidateRun([]byte("GPZDA")); len(run) != 0 {
		t.Fatalf("unexpected candidates for unregistered name: %d", len(run))
	}
}
