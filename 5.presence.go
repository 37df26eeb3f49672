package main

import (
	"context"
	"fmt"
	"time"
)

// PresenceSetter updates the bot's visible activity line.
type PresenceSetter interface {
	SetActivity(ctx context.Context, text string) error
}

// PresenceRotator cycles the activity line through live bot stats.
type PresenceRotator struct {
	setter   PresenceSetter
	registry *ChannelRegistry
	rand     RandSource
	started  time.Time
	last     string
}

func NewPresenceRotator(setter PresenceSetter, registry *ChannelRegistry, r RandSource) *PresenceRotator {
	return &PresenceRotator{
		setter:   setter,
		registry: registry,
		rand:     r,
		started:  StartupTime,
	}
}

// nextInterval is 15-60s so updates stay well under the gateway presence limit.
func (p *PresenceRotator) nextInterval() time.Duration {
	return time.Duration(15+p.rand.IntN(46)) * time.Second
}

// Start matches the daemon starter signature used by RegisterDaemon.
func (p *PresenceRotator) Start(ctx context.Context) (bool, func(), func()) {
	return true, func() {
			next := p.nextInterval()
			p.Rotate(ctx)
			for {
				select {
				case <-time.After(next):
					next = p.nextInterval()
					p.Rotate(ctx)
				case <-ctx.Done():
					return
				}
			}
		}, func() {
			LogBot(MsgPresenceShutdown)
		}
}

func (p *PresenceRotator) statuses() []string {
	uptime := time.Since(p.started)
	out := []string{
		fmt.Sprintf("Uptime: %dh %dm", int(uptime.Hours()), int(uptime.Minutes())%60),
	}
	if n := p.registry.Len(); n > 0 {
		out = append(out, fmt.Sprintf("Vibing in %d channels", n))
	} else {
		out = append(out, "with your feelings")
	}
	return out
}

// Rotate picks a status different from the previous one when possible.
func (p *PresenceRotator) Rotate(ctx context.Context) string {
	available := p.statuses()

	var choices []string
	for _, s := range available {
		if s != p.last {
			choices = append(choices, s)
		}
	}
	selected := available[0]
	if len(choices) > 0 {
		selected = choices[p.rand.IntN(len(choices))]
	}

	if err := p.setter.SetActivity(ctx, selected); err != nil {
		LogBot(MsgPresenceUpdateFail, err)
		return ""
	}
	p.last = selected
	LogDebug(MsgPresenceRotated, selected)
	return selected
}
