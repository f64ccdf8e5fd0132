package driftpad

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomBase64 returns a random URL-safe base64 string of n characters.
// Used for the per-page id seed and for generated account secrets.
func RandomBase64(n int) string {
	buf := make([]byte, (n*6+7)/8+1)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:n]
}
