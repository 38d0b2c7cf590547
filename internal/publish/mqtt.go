// Package publish pushes validated GPS fixes to an MQTT broker as retained
// JSON messages, so late subscribers immediately see the last known
// position.
package publish

import (
	"context"
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"gpstap/internal/gps"
)

type Config struct {
	Broker   string
	Topic    string
	ClientID string
	Interval time.Duration
}

// Fix is the published payload: the position-relevant subset of a snapshot.
type Fix struct {
	UTC       string   `json:"utc,omitempty"`
	LatDeg    float64  `json:"lat_deg"`
	LonDeg    float64  `json:"lon_deg"`
	AltMeters *float64 `json:"alt_m,omitempty"`
	SpeedKt   *float64 `json:"speed_kt,omitempty"`
	CourseDeg *float64 `json:"course_deg,omitempty"`
	HDOP      *float64 `json:"hdop,omitempty"`
}

// mqttClient is the subset of mqtt.Client the publisher uses; it is the
// seam for tests.
type mqttClient interface {
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

type Publisher struct {
	cfg    Config
	client mqttClient
}

func New(cfg Config) *Publisher {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true)
	return &Publisher{cfg: cfg, client: mqtt.NewClient(opts)}
}

func (p *Publisher) Connect() error {
	token := p.client.Connect()
	token.Wait()
	return token.Error()
}

// Run publishes a fix whenever the feed has validated new sentences since
// the last publish, checked once per interval. It returns when ctx ends.
func (p *Publisher) Run(ctx context.Context, snapshot func() gps.Snapshot) error {
	interval := p.cfg.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastPassed uint32
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			snap := snapshot()
			if !snap.Valid || snap.PassedChecksum == lastPassed {
				continue
			}
			payload, err := json.Marshal(fixFrom(snap))
			if err != nil {
				log.Printf("mqtt fix marshal failed: %v", err)
				continue
			}
			token := p.client.Publish(p.cfg.Topic, 0, true, payload)
			token.Wait()
			if token.Error() != nil {
				log.Printf("mqtt publish failed topic=%s: %v", p.cfg.Topic, token.Error())
				continue
			}
			lastPassed = snap.PassedChecksum
		}
	}
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

func fixFrom(snap gps.Snapshot) Fix {
	return Fix{
		UTC:       snap.UTC,
		LatDeg:    snap.LatDeg,
		LonDeg:    snap.LonDeg,
		AltMeters: snap.AltMeters,
		SpeedKt:   snap.SpeedKt,
		CourseDeg: snap.CourseDeg,
		HDOP:      snap.HDOP,
	}
}
