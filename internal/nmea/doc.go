// Package nmea implements an incremental NMEA 0183 parser for GNSS
// receivers that deliver characters one at a time.
//
// The parser never buffers more than a single sentence and performs no
// allocation while encoding. Values become visible only after the owning
// sentence's checksum validates; a garbled sentence leaves previously
// committed data untouched. RMC and GGA (under GP and GN talker IDs) are
// decoded natively; any other field can be tapped through RegisterCustom.
package nmea
