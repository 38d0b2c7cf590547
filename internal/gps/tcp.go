package gps

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"time"
)

const tcpDefaultAddr = "127.0.0.1:2000"

// dialNMEA connects to a raw NMEA TCP stream.
func dialNMEA(ctx context.Context, addr string) (net.Conn, error) {
	if strings.TrimSpace(addr) == "" {
		addr = tcpDefaultAddr
	}
	d := &net.Dialer{Timeout: 2 * time.Second}
	if ctx == nil {
		return d.Dial("tcp", addr)
	}
	return d.DialContext(ctx, "tcp", addr)
}

func (s *Service) startTCPLocked(ctx context.Context) error {
	addr := strings.TrimSpace(s.cfg.Addr)
	if addr == "" {
		addr = tcpDefaultAddr
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		log.Printf("gps enabled source=tcp addr=%s", addr)
		backoff := 250 * time.Millisecond
		maxBackoff := 10 * time.Second

		for {
			select {
			case <-childCtx.Done():
				return
			default:
			}

			conn, err := dialNMEA(childCtx, addr)
			if err != nil {
				s.setError(fmt.Sprintf("gps tcp dial failed addr=%s: %v", addr, err))
				t := backoff
				if t > maxBackoff {
					t = maxBackoff
				}
				select {
				case <-childCtx.Done():
					return
				case <-time.After(t):
				}
				if backoff < maxBackoff {
					backoff *= 2
				}
				continue
			}

			// Reset backoff after a successful connection.
			backoff = 250 * time.Millisecond

			s.mu.Lock()
			// Swap the closer so Close() can interrupt an active connection.
			s.closer = conn
			s.mu.Unlock()

			func() {
				defer func() { _ = conn.Close() }()
				s.feedLoop(childCtx, conn, Snapshot{Enabled: true, Source: "tcp", Addr: addr})
			}()
			// Loop and reconnect; the parser state restarts with the
			// connection, which matches the per-sentence commit model.
		}
	}()

	s.last.Store(Snapshot{Enabled: true, Valid: false, Source: "tcp", Addr: addr})
	return nil
}
