package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateMessage(t *testing.T) {
	short := "hello"
	if got := truncateMessage(short); got != short {
		t.Fatalf("short message changed: %q", got)
	}

	long := strings.Repeat("😜", MaxMessageLength+50)
	got := truncateMessage(long)
	if n := utf8.RuneCountInString(got); n > MaxMessageLength {
		t.Fatalf("truncated to %d runes, limit %d", n, MaxMessageLength)
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation split a rune")
	}
}

func TestRandSourceDeterministic(t *testing.T) {
	a, b := NewRandSource(9, 9), NewRandSource(9, 9)
	for range 50 {
		if a.Float64() != b.Float64() || a.IntN(10) != b.IntN(10) {
			t.Fatal("same seeds should produce the same sequence")
		}
	}
}
