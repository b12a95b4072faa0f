// Package refcode generates internal identifiers and the human-facing
// reference codes derived from them.
package refcode

import (
	"encoding/base32"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultLength is the encoded part of a reference code (e.g. FAC-XXXXXXXX).
const DefaultLength = 8

// Crockford alphabet: no I, L, O, U, so codes survive being read out loud.
var encoding = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

// tailBytes of the key feed the reference code. The tail is where NewID puts
// its randomness; the head is a shared timestamp prefix.
const tailBytes = 10

// NewID returns a unique opaque identifier: a base36 millisecond timestamp
// followed by a random suffix. Not cryptographically secure; collision
// probability is negligible for this workload.
func NewID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	u := uuid.New()
	suffix := strings.ToLower(encoding.EncodeToString(u[:]))[:13]
	return ts + suffix
}

// ReferenceCode deterministically encodes key into a fixed-length alphanumeric
// code under the given 3-letter prefix. The same key and prefix always yield
// the same code, so numbering survives re-derivation from stored ids; codes
// are not monotonically increasing by creation order.
func ReferenceCode(prefix, key string, length int) string {
	if length <= 0 {
		length = DefaultLength
	}

	tail := key
	if len(tail) > tailBytes {
		tail = tail[len(tail)-tailBytes:]
	}
	enc := encoding.EncodeToString([]byte(tail))
	if len(enc) >= length {
		enc = enc[:length]
	} else {
		enc += strings.Repeat("0", length-len(enc))
	}
	return prefix + "-" + enc
}
