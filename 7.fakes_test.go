package main

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

type sentMessage struct {
	ChannelID snowflake.ID
	Content   string
}

type fakePlatform struct {
	mu sync.Mutex

	self  snowflake.ID
	sends []sentMessage

	purgeCount int
	purgeErr   error
	purgeCalls int
	purgeLimit int

	guilds   []snowflake.ID
	channels map[snowflake.ID][]TextChannel
	members  map[snowflake.ID][]GuildMember
}

func newFakePlatform(self snowflake.ID) *fakePlatform {
	return &fakePlatform{
		self:     self,
		channels: make(map[snowflake.ID][]TextChannel),
		members:  make(map[snowflake.ID][]GuildMember),
	}
}

func (f *fakePlatform) SelfID() snowflake.ID { return f.self }

func (f *fakePlatform) Send(_ context.Context, channelID snowflake.ID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, sentMessage{ChannelID: channelID, Content: content})
	return nil
}

func (f *fakePlatform) PurgeRecent(_ context.Context, _ snowflake.ID, limit int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purgeCalls++
	f.purgeLimit = limit
	if f.purgeErr != nil {
		return 0, f.purgeErr
	}
	return min(f.purgeCount, limit), nil
}

func (f *fakePlatform) Guilds() []snowflake.ID {
	return append([]snowflake.ID(nil), f.guilds...)
}

func (f *fakePlatform) TextChannels(guildID snowflake.ID) []TextChannel {
	return f.channels[guildID]
}

func (f *fakePlatform) HumanMembers(guildID snowflake.ID) []GuildMember {
	return f.members[guildID]
}

func (f *fakePlatform) sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sends...)
}

type fakeReplier struct {
	mu      sync.Mutex
	reply   string
	prompts []string
	persona []string
}

func (f *fakeReplier) Generate(_ context.Context, prompt, persona string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.persona = append(f.persona, persona)
	return f.reply
}

func (f *fakeReplier) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// fixedRand always returns the same values; IntN is clamped to n-1.
type fixedRand struct {
	f float64
	i int
}

func (r fixedRand) Float64() float64 { return r.f }

func (r fixedRand) IntN(n int) int { return min(r.i, n-1) }

func guildPtr(id snowflake.ID) *snowflake.ID { return &id }
