package test

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomPassword returns a password of exactly n printable characters.
func RandomPassword(n int) string {
	rngMu.Lock()
	defer rngMu.Unlock()
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = passwordAlphabet[rng.Intn(len(passwordAlphabet))]
	}
	return string(buf)
}

// RandomEmail returns a unique-looking buyer address with mixed case,
// so callers also exercise normalisation.
func RandomEmail() string {
	rngMu.Lock()
	defer rngMu.Unlock()
	return fmt.Sprintf("Reader.%d@Example.COM", rng.Int63())
}
