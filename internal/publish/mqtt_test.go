package publish

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"gpstap/internal/gps"
)

type fakeToken struct {
	err  error
	done chan struct{}
}

func newFakeToken(err error) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic    string
	retained bool
	payload  []byte
}

type fakeClient struct {
	pubs       []published
	publishErr error
}

func (c *fakeClient) Connect() mqtt.Token { return newFakeToken(nil) }

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	if c.publishErr != nil {
		return newFakeToken(c.publishErr)
	}
	c.pubs = append(c.pubs, published{topic: topic, retained: retained, payload: payload.([]byte)})
	return newFakeToken(nil)
}

func (c *fakeClient) Disconnect(uint) {}

func validSnapshot(passed uint32) gps.Snapshot {
	alt := 545.4
	return gps.Snapshot{
		Valid:          true,
		LatDeg:         48.1173,
		LonDeg:         11.5167,
		AltMeters:      &alt,
		UTC:            "2094-03-23T12:35:19Z",
		PassedChecksum: passed,
	}
}

func runBriefly(t *testing.T, p *Publisher, snapshot func() gps.Snapshot, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	if err := p.Run(ctx, snapshot); err != context.DeadlineExceeded {
		t.Fatalf("Run() err=%v want deadline exceeded", err)
	}
}

func TestRun_PublishesNewFixOnce(t *testing.T) {
	fc := &fakeClient{}
	p := &Publisher{cfg: Config{Topic: "gpstap/fix", Interval: 5 * time.Millisecond}, client: fc}

	// The snapshot never advances past one validated sentence, so exactly
	// one fix must go out no matter how many ticks elapse.
	runBriefly(t, p, func() gps.Snapshot { return validSnapshot(1) }, 60*time.Millisecond)

	if len(fc.pubs) != 1 {
		t.Fatalf("publishes=%d want 1", len(fc.pubs))
	}
	pub := fc.pubs[0]
	if pub.topic != "gpstap/fix" || !pub.retained {
		t.Fatalf("published topic=%q retained=%v want gpstap/fix retained", pub.topic, pub.retained)
	}

	var fix Fix
	if err := json.Unmarshal(pub.payload, &fix); err != nil {
		t.Fatalf("payload unmarshal: %v", err)
	}
	if fix.LatDeg != 48.1173 || fix.UTC != "2094-03-23T12:35:19Z" {
		t.Fatalf("fix=%+v want lat 48.1173 utc 2094-03-23T12:35:19Z", fix)
	}
	if fix.AltMeters == nil || *fix.AltMeters != 545.4 {
		t.Fatalf("alt=%v want 545.4", fix.AltMeters)
	}
}

func TestRun_SkipsInvalidSnapshot(t *testing.T) {
	fc := &fakeClient{}
	p := &Publisher{cfg: Config{Topic: "t", Interval: 5 * time.Millisecond}, client: fc}

	runBriefly(t, p, func() gps.Snapshot { return gps.Snapshot{} }, 30*time.Millisecond)

	if len(fc.pubs) != 0 {
		t.Fatalf("publishes=%d want 0 for invalid snapshot", len(fc.pubs))
	}
}

func TestRun_PublishesAgainWhenCounterAdvances(t *testing.T) {
	fc := &fakeClient{}
	p := &Publisher{cfg: Config{Topic: "t", Interval: 5 * time.Millisecond}, client: fc}

	var passed uint32
	runBriefly(t, p, func() gps.Snapshot {
		passed++
		return validSnapshot(passed)
	}, 60*time.Millisecond)

	if len(fc.pubs) < 2 {
		t.Fatalf("publishes=%d want >=2 while counter advances", len(fc.pubs))
	}
}

func TestConnect_WaitsOnToken(t *testing.T) {
	p := &Publisher{cfg: Config{}, client: &fakeClient{}}
	if err := p.Connect(); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
}
