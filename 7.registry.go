package main

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// ChannelRegistry is the set of channels where the bot is active.
// It lives in memory only and starts empty on every boot.
type ChannelRegistry struct {
	mu       sync.RWMutex
	channels map[snowflake.ID]struct{}
}

func NewChannelRegistry() *ChannelRegistry {
	return &ChannelRegistry{channels: make(map[snowflake.ID]struct{})}
}

func (r *ChannelRegistry) Enable(channelID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[channelID] = struct{}{}
}

func (r *ChannelRegistry) Disable(channelID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.channels, channelID)
}

func (r *ChannelRegistry) IsEnabled(channelID snowflake.ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.channels[channelID]
	return ok
}

func (r *ChannelRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}
