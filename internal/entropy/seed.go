// Package entropy derives the master seed for a simulation session.
// An explicit seed gives a fully reproducible session; seed zero draws a
// fresh one from crypto/rand.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
)

// ResolveSeed returns the seed to run with. A non-zero requested seed is
// used as-is so sessions can be replayed; zero requests a random one.
func ResolveSeed(requested int64) int64 {
	if requested != 0 {
		return requested
	}
	seed := cryptoSeed()
	slog.Info("random seed drawn", "seed", seed)
	return seed
}

// cryptoSeed draws 63 bits from crypto/rand.
func cryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is effectively unreachable; a fixed seed
		// keeps the session runnable.
		slog.Warn("crypto/rand unavailable, using fixed seed", "error", err)
		return 1
	}
	n := binary.LittleEndian.Uint64(buf[:]) >> 1
	if n == 0 {
		n = 1
	}
	return int64(n)
}

// SubSeed derives a stream-specific seed from the master seed, so each
// consumer (spawner, planner, terrain) gets an independent sequence that
// is still reproducible from the one master value.
func SubSeed(master int64, stream uint64) int64 {
	// splitmix64 finalizer over master xor stream.
	x := uint64(master) ^ (stream * 0x9E3779B97F4A7C15)
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return int64(x >> 1)
}
