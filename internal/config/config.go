package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GPS  GPSConfig  `yaml:"gps"`
	Web  WebConfig  `yaml:"web"`
	UDP  UDPConfig  `yaml:"udp"`
	MQTT MQTTConfig `yaml:"mqtt"`
}

type GPSConfig struct {
	Enable bool   `yaml:"enable"`
	Source string `yaml:"source"`
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
	Addr   string `yaml:"addr"`
}

type WebConfig struct {
	Enable bool   `yaml:"enable"`
	Listen string `yaml:"listen"`

	// PushInterval paces websocket position pushes.
	PushInterval time.Duration `yaml:"push_interval"`
}

type UDPConfig struct {
	Enable   bool          `yaml:"enable"`
	Dest     string        `yaml:"dest"`
	Interval time.Duration `yaml:"interval"`
}

type MQTTConfig struct {
	Enable   bool          `yaml:"enable"`
	Broker   string        `yaml:"broker"`
	Topic    string        `yaml:"topic"`
	ClientID string        `yaml:"client_id"`
	Interval time.Duration `yaml:"interval"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	switch strings.ToLower(strings.TrimSpace(cfg.GPS.Source)) {
	case "", "serial", "tcp":
	default:
		return Config{}, fmt.Errorf("gps.source must be \"serial\" or \"tcp\"")
	}
	if strings.EqualFold(strings.TrimSpace(cfg.GPS.Source), "tcp") && strings.TrimSpace(cfg.GPS.Addr) == "" {
		return Config{}, fmt.Errorf("gps.addr is required when gps.source is tcp")
	}
	if cfg.GPS.Baud == 0 {
		cfg.GPS.Baud = 9600
	}

	if cfg.Web.Enable && cfg.Web.Listen == "" {
		cfg.Web.Listen = ":8080"
	}
	if cfg.Web.PushInterval <= 0 {
		cfg.Web.PushInterval = 1 * time.Second
	}

	if cfg.UDP.Enable {
		if cfg.UDP.Dest == "" {
			return Config{}, fmt.Errorf("udp.dest is required when udp.enable is true")
		}
		if cfg.UDP.Interval <= 0 {
			cfg.UDP.Interval = 1 * time.Second
		}
	}

	if cfg.MQTT.Enable {
		if cfg.MQTT.Broker == "" {
			return Config{}, fmt.Errorf("mqtt.broker is required when mqtt.enable is true")
		}
		if cfg.MQTT.Topic == "" {
			cfg.MQTT.Topic = "gpstap/fix"
		}
		if cfg.MQTT.ClientID == "" {
			cfg.MQTT.ClientID = "gpstap"
		}
		if cfg.MQTT.Interval <= 0 {
			cfg.MQTT.Interval = 1 * time.Second
		}
	}

	return cfg, nil
}
