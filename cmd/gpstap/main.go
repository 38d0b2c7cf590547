package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gpstap/internal/config"
	"gpstap/internal/gps"
	"gpstap/internal/publish"
	"gpstap/internal/udp"
	"gpstap/internal/web"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./gpstap.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("gpstap starting")

	svc := gps.New(gps.Config{
		Enable: cfg.GPS.Enable,
		Source: cfg.GPS.Source,
		Device: cfg.GPS.Device,
		Baud:   cfg.GPS.Baud,
		Addr:   cfg.GPS.Addr,
	})
	if err := svc.Start(ctx); err != nil {
		log.Printf("gps start failed: %v", err)
	}
	defer svc.Close()

	if cfg.Web.Enable {
		srv := &http.Server{
			Addr:    cfg.Web.Listen,
			Handler: web.Handler(svc, time.Now().UTC(), cfg.Web.PushInterval),
		}
		go func() {
			log.Printf("web listening on %s", cfg.Web.Listen)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("web server stopped: %v", err)
				cancel()
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if cfg.UDP.Enable {
		broadcaster, err := udp.NewBroadcaster(cfg.UDP.Dest)
		if err != nil {
			log.Fatalf("udp broadcaster init failed: %v", err)
		}
		defer broadcaster.Close()

		log.Printf("udp fix broadcast dest=%s interval=%s", cfg.UDP.Dest, cfg.UDP.Interval)
		go func() {
			err := broadcaster.Run(ctx, cfg.UDP.Interval, func() []byte {
				snap := svc.Snapshot()
				if !snap.Valid {
					return nil
				}
				b, err := json.Marshal(snap)
				if err != nil {
					return nil
				}
				return b
			})
			if err != nil && ctx.Err() == nil {
				log.Printf("udp broadcaster stopped: %v", err)
				cancel()
			}
		}()
	}

	if cfg.MQTT.Enable {
		pub := publish.New(publish.Config{
			Broker:   cfg.MQTT.Broker,
			Topic:    cfg.MQTT.Topic,
			ClientID: cfg.MQTT.ClientID,
			Interval: cfg.MQTT.Interval,
		})
		if err := pub.Connect(); err != nil {
			log.Fatalf("mqtt connect failed broker=%s: %v", cfg.MQTT.Broker, err)
		}
		defer pub.Close()

		log.Printf("mqtt publishing broker=%s topic=%s", cfg.MQTT.Broker, cfg.MQTT.Topic)
		go func() {
			err := pub.Run(ctx, svc.Snapshot)
			if err != nil && ctx.Err() == nil {
				log.Printf("mqtt publisher stopped: %v", err)
				cancel()
			}
		}()
	}

	<-ctx.Done()
	log.Printf("gpstap stopping")
}
