package utils

import (
	"math/rand"
	"sync"
	"time"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMu     sync.Mutex
)

// RandomCode returns n random uppercase alphanumeric characters.
func RandomCode(n int) string {
	randMu.Lock()
	defer randMu.Unlock()

	b := make([]byte, n)
	for i := range b {
		b[i] = codeAlphabet[seededRand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
