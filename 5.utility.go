package main

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// ============================================================================
// Randomness
// ============================================================================

// RandSource is every random decision the bot makes: reply chance, member
// pick and fallback line pick. Tests swap in a seeded source.
type RandSource interface {
	Float64() float64
	IntN(n int) int
}

// lockedRand makes a *rand.Rand safe to share between event goroutines.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewRandSource(seed1, seed2 uint64) RandSource {
	return &lockedRand{r: rand.New(rand.NewPCG(seed1, seed2))}
}

func NewTimeSeededRand() RandSource {
	now := uint64(time.Now().UnixNano())
	return NewRandSource(now, now>>1^0x9e3779b97f4a7c15)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// ============================================================================
// Text Helpers
// ============================================================================

// Discord rejects message content over this many characters.
const MaxMessageLength = 2000

// truncateMessage cuts s to the Discord limit without splitting a rune.
func truncateMessage(s string) string {
	if utf8.RuneCountInString(s) <= MaxMessageLength {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:MaxMessageLength-1])) + "…"
}
