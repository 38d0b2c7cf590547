package gps

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gpstap/internal/nmea"
)

// Config controls the GPS feed.
//
// Device may be empty to auto-detect the first /dev/ttyACM* or /dev/ttyUSB*.
// Addr is host:port of a raw NMEA TCP stream (ser2net, gpsd raw mode) when
// Source=="tcp".
type Config struct {
	Enable bool

	// Source selects the byte source: "serial" (default) or "tcp".
	Source string

	Device string
	Baud   int

	Addr string
}

// Snapshot is the read surface published after every validated sentence.
// Pointer fields are nil until the corresponding container has committed at
// least once.
type Snapshot struct {
	Enabled bool `json:"enabled"`
	Valid   bool `json:"valid"`

	Source string `json:"source,omitempty"`
	Device string `json:"device,omitempty"`
	Baud   int    `json:"baud,omitempty"`
	Addr   string `json:"addr,omitempty"`

	LatDeg     float64  `json:"lat_deg,omitempty"`
	LonDeg     float64  `json:"lon_deg,omitempty"`
	AltMeters  *float64 `json:"alt_m,omitempty"`
	SpeedKt    *float64 `json:"speed_kt,omitempty"`
	CourseDeg  *float64 `json:"course_deg,omitempty"`
	Satellites *int     `json:"satellites,omitempty"`
	HDOP       *float64 `json:"hdop,omitempty"`
	UTC        string   `json:"utc,omitempty"`

	CharsProcessed   uint32 `json:"chars_processed"`
	SentencesWithFix uint32 `json:"sentences_with_fix"`
	PassedChecksum   uint32 `json:"passed_checksum"`
	FailedChecksum   uint32 `json:"failed_checksum"`

	LastFixUTC string `json:"last_fix_utc,omitempty"`
	LastError  string `json:"last_error,omitempty"`
}

type Service struct {
	cfg Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	last atomic.Value // Snapshot

	mu     sync.Mutex
	closer io.Closer
}

func New(cfg Config) *Service {
	s := &Service{cfg: cfg}
	src := strings.ToLower(strings.TrimSpace(cfg.Source))
	if src == "" {
		src = "serial"
	}
	s.last.Store(Snapshot{Enabled: cfg.Enable, Source: src, Device: cfg.Device, Baud: cfg.Baud, Addr: strings.TrimSpace(cfg.Addr)})
	return s
}

func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("gps service is nil")
	}
	if !s.cfg.Enable {
		return nil
	}
	if ctx == nil {
		return fmt.Errorf("ctx is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}

	src := strings.ToLower(strings.TrimSpace(s.cfg.Source))
	if src == "tcp" {
		return s.startTCPLocked(ctx)
	}
	return s.startSerialLocked(ctx)
}

func (s *Service) startSerialLocked(ctx context.Context) error {
	device := strings.TrimSpace(s.cfg.Device)
	if device == "" {
		device = autoDetectDevice()
		if device == "" {
			s.setErrorLocked("gps auto-detect failed: no /dev/ttyACM* or /dev/ttyUSB* found")
			return fmt.Errorf("gps auto-detect failed")
		}
	}

	baud := s.cfg.Baud
	if baud == 0 {
		baud = 9600
	}

	f, err := openSerial(device, baud)
	if err != nil {
		s.setErrorLocked(fmt.Sprintf("gps open failed device=%s baud=%d: %v", device, baud, err))
		return err
	}
	s.closer = f

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() { _ = f.Close() }()

		log.Printf("gps enabled source=serial device=%s baud=%d", device, baud)
		s.feedLoop(childCtx, f, Snapshot{Enabled: true, Source: "serial", Device: device, Baud: baud})
	}()

	s.last.Store(Snapshot{Enabled: true, Source: "serial", Device: device, Baud: baud})
	return nil
}

// feedLoop drives one parser from r until the context ends or the read
// fails. It is the only goroutine touching the parser.
func (s *Service) feedLoop(ctx context.Context, r io.Reader, base Snapshot) {
	p := nmea.NewParser()
	buf := make([]byte, 512)
	var lastFix time.Time
	prevFixCount := uint32(0)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			if p.EncodeBytes(buf[:n]) {
				if p.SentencesWithFix() > prevFixCount {
					prevFixCount = p.SentencesWithFix()
					lastFix = time.Now().UTC()
				}
				s.last.Store(s.snapshotFrom(p, base, lastFix))
			}
		}
		if err != nil {
			s.setError(fmt.Sprintf("gps read stopped: %v", err))
			return
		}
	}
}

// snapshotFrom builds the published view from the parser's committed state.
// Reading values clears the parser's per-field updated flags; that is fine
// here because the snapshot itself carries freshness to consumers.
func (s *Service) snapshotFrom(p *nmea.Parser, base Snapshot, lastFix time.Time) Snapshot {
	out := base
	out.Valid = p.Location.IsValid()
	out.CharsProcessed = p.CharsProcessed()
	out.SentencesWithFix = p.SentencesWithFix()
	out.PassedChecksum = p.PassedChecksum()
	out.FailedChecksum = p.FailedChecksum()

	if p.Location.IsValid() {
		out.LatDeg = p.Location.Lat()
		out.LonDeg = p.Location.Lng()
	}
	if p.Altitude.IsValid() {
		v := p.Altitude.Meters()
		out.AltMeters = &v
	}
	if p.Speed.IsValid() {
		v := p.Speed.Knots()
		out.SpeedKt = &v
	}
	if p.Course.IsValid() {
		v := p.Course.Deg()
		out.CourseDeg = &v
	}
	if p.Satellites.IsValid() {
		v := int(p.Satellites.Value())
		out.Satellites = &v
	}
	if p.HDOP.IsValid() {
		v := p.HDOP.HDOP()
		out.HDOP = &v
	}
	if p.Date.IsValid() && p.Time.IsValid() {
		out.UTC = fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02dZ",
			p.Date.Year(), p.Date.Month(), p.Date.Day(),
			p.Time.Hour(), p.Time.Minute(), p.Time.Second())
	}
	if !lastFix.IsZero() {
		out.LastFixUTC = lastFix.Format(time.RFC3339Nano)
	}
	return out
}

func (s *Service) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	closer := s.closer
	s.cancel = nil
	s.closer = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if closer != nil {
		_ = closer.Close()
	}
	s.wg.Wait()
}

func (s *Service) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	v := s.last.Load()
	if v == nil {
		return Snapshot{}
	}
	return v.(Snapshot)
}

func (s *Service) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErrorLocked(msg)
}

func (s *Service) setErrorLocked(msg string) {
	cur := s.Snapshot()
	cur.LastError = msg
	// Transient read issues should not flip validity.
	s.last.Store(cur)
}

func autoDetectDevice() string {
	candidates := []string{}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyACM%d", i))
	}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, fmt.Sprintf("/dev/ttyUSB%d", i))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
