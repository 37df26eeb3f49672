package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Persona conditions every remote reply.
const Persona = "You are a funny, flirty, human-like chatbot that talks like a best friend."

// Replier is what the dispatcher and the ambient talker need from the
// reply provider.
type Replier interface {
	Generate(ctx context.Context, prompt, persona string) string
}

// replyOutcome never leaves this file; callers only see Text.
type replyOutcome struct {
	Text     string
	Source   string
	Fallback bool
}

// ReplyGenerator tries each provider once, in order, and falls back to the
// static corpus when all of them fail.
type ReplyGenerator struct {
	providers []Provider
	corpus    *FallbackCorpus
	rand      RandSource
	metrics   *Metrics
}

func NewReplyGenerator(providers []Provider, corpus *FallbackCorpus, r RandSource, m *Metrics) *ReplyGenerator {
	return &ReplyGenerator{
		providers: providers,
		corpus:    corpus,
		rand:      r,
		metrics:   m,
	}
}

// Generate always returns a non-empty reply.
func (g *ReplyGenerator) Generate(ctx context.Context, prompt, persona string) string {
	return g.resolve(ctx, ReplyRequest{Prompt: prompt, Persona: persona}).Text
}

func (g *ReplyGenerator) resolve(ctx context.Context, req ReplyRequest) replyOutcome {
	reqID := uuid.NewString()[:8]

	for _, p := range g.providers {
		text, err := g.attempt(ctx, p, req)
		if err != nil {
			g.metrics.ReplyAttempts.WithLabelValues(p.Name(), "failure").Inc()
			LogAIWarn(MsgReplyTierFailed, reqID, p.Name(), err)
			continue
		}
		g.metrics.ReplyAttempts.WithLabelValues(p.Name(), "success").Inc()
		LogDebug(MsgReplyTierSuccess, reqID, p.Name(), len(text))
		return replyOutcome{Text: text, Source: p.Name()}
	}

	g.metrics.ReplyFallbacks.Inc()
	LogAIWarn(MsgReplyFallbackUsed, reqID)
	return replyOutcome{Text: g.corpus.Pick(g.rand), Source: "fallback", Fallback: true}
}

func (g *ReplyGenerator) attempt(ctx context.Context, p Provider, req ReplyRequest) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf(MsgReplyTierPanic, r)
		}
	}()

	text, err = p.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// Tiers names the configured providers plus the fallback, in order.
func (g *ReplyGenerator) Tiers() string {
	names := make([]string, 0, len(g.providers)+1)
	for _, p := range g.providers {
		names = append(names, p.Name())
	}
	return strings.Join(append(names, "fallback"), " → ")
}
