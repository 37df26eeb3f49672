package main

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/time/rate"
)

// AmbientTalker greets a random member in one enabled channel per guild on
// a fixed period.
type AmbientTalker struct {
	platform ChatPlatform
	registry *ChannelRegistry
	replier  Replier
	rand     RandSource
	metrics  *Metrics
	interval time.Duration
	limiter  *rate.Limiter
}

func NewAmbientTalker(platform ChatPlatform, registry *ChannelRegistry, replier Replier, r RandSource, m *Metrics, interval time.Duration) *AmbientTalker {
	return &AmbientTalker{
		platform: platform,
		registry: registry,
		replier:  replier,
		rand:     r,
		metrics:  m,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// Start matches the daemon starter signature used by RegisterDaemon.
func (t *AmbientTalker) Start(ctx context.Context) (bool, func(), func()) {
	return true, func() {
			ticker := time.NewTicker(t.interval)
			defer ticker.Stop()
			LogTalker(MsgTalkerNextTick, t.interval)
			for {
				select {
				case <-ticker.C:
					t.Tick(ctx)
				case <-ctx.Done():
					return
				}
			}
		}, func() {
			LogTalker(MsgTalkerShutdown)
		}
}

// Tick runs one ambient round and returns how many greetings were sent.
// Only the first enabled, sendable channel of each guild is considered.
func (t *AmbientTalker) Tick(ctx context.Context) int {
	guilds := t.platform.Guilds()
	slices.Sort(guilds)

	sent := 0
	for _, guildID := range guilds {
		for _, ch := range t.platform.TextChannels(guildID) {
			if !ch.CanSend || !t.registry.IsEnabled(ch.ID) {
				continue
			}
			if t.greet(ctx, guildID, ch) {
				sent++
			}
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	return sent
}

func (t *AmbientTalker) greet(ctx context.Context, guildID snowflake.ID, ch TextChannel) bool {
	members := t.platform.HumanMembers(guildID)
	if len(members) == 0 {
		LogDebug(MsgTalkerNoMembers, guildID)
		return false
	}
	name := members[t.rand.IntN(len(members))].DisplayName

	if err := t.limiter.Wait(ctx); err != nil {
		return false
	}

	reply := t.replier.Generate(ctx, fmt.Sprintf(PromptAmbient, name), Persona)
	if err := t.platform.Send(ctx, ch.ID, fmt.Sprintf(MsgChatGreeting, name, reply)); err != nil {
		LogTalker(MsgTalkerSendFail, ch.ID, err)
		return false
	}
	t.metrics.AmbientGreetings.Inc()
	LogTalker(MsgTalkerGreeted, name, ch.ID, guildID)
	return true
}
