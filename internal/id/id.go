// Package id generates identifiers that correlate log records.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// SessionPrefix prefixes trace session identifiers.
const SessionPrefix = "trace"

// Generate returns <prefix>_<8 hex chars> from 4 random bytes.
func Generate(prefix string) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		s := strconv.FormatInt(time.Now().UnixNano()&0xffffffff, 16)
		for len(s) < 8 {
			s = "0" + s
		}
		return prefix + "_" + s
	}
	return prefix + "_" + hex.EncodeToString(b)
}

// Session returns a new trace session identifier, e.g. "trace_3f9a01c2".
func Session() string {
	return Generate(SessionPrefix)
}
