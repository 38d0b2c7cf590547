// Package gps feeds a serial or TCP NMEA byte stream into one nmea.Parser
// and publishes the latest checksum-validated state as an immutable
// snapshot.
//
// A single goroutine owns the parser; readers only ever see the atomically
// swapped snapshot, never the parser itself.
package gps
