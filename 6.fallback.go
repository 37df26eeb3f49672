package main

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

//go:embed fallback/*.txt
var embeddedFallbacks embed.FS

// Tone names a partition of the fallback corpus.
type Tone string

const (
	ToneFlirty Tone = "flirty"
	ToneFunny  Tone = "funny"
	ToneAngry  Tone = "angry"
	ToneRoast  Tone = "roast"
	ToneNormal Tone = "normal"
)

// Tones is the fixed order used when merging the corpus.
var Tones = []Tone{ToneFlirty, ToneFunny, ToneAngry, ToneRoast, ToneNormal}

// FallbackCorpus holds the static replies used when every provider fails.
// It is never mutated after LoadFallbackCorpus returns.
type FallbackCorpus struct {
	tones map[Tone][]string
	all   []string
}

// FallbackFS returns the corpus source: dir on disk when set, else the
// copy embedded in the binary.
func FallbackFS(dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}
	return fs.Sub(embeddedFallbacks, "fallback")
}

// LoadFallbackCorpus reads fallback_<tone>.txt for every tone. Any missing
// or unreadable file fails the whole load.
func LoadFallbackCorpus(fsys fs.FS) (*FallbackCorpus, error) {
	c := &FallbackCorpus{tones: make(map[Tone][]string, len(Tones))}
	for _, tone := range Tones {
		lines, err := loadLines(fsys, "fallback_"+string(tone)+".txt")
		if err != nil {
			return nil, fmt.Errorf("tone %s: %w", tone, err)
		}
		c.tones[tone] = lines
		c.all = append(c.all, lines...)
	}
	if len(c.all) == 0 {
		return nil, fmt.Errorf(MsgFallbackSourceEmpty)
	}
	return c, nil
}

func loadLines(fsys fs.FS, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (c *FallbackCorpus) Tone(t Tone) []string {
	return c.tones[t]
}

func (c *FallbackCorpus) All() []string {
	return c.all
}

// Pick returns one line of the merged pool, chosen uniformly with replacement.
func (c *FallbackCorpus) Pick(r RandSource) string {
	return c.all[r.IntN(len(c.all))]
}

// Summary lists per-tone counts for the startup log line.
func (c *FallbackCorpus) Summary() string {
	parts := make([]string, 0, len(Tones))
	for _, t := range Tones {
		parts = append(parts, fmt.Sprintf("%s=%d", t, len(c.tones[t])))
	}
	return strings.Join(parts, " ")
}
