package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// ErrMissingPermission marks a Discord 403 so callers can answer with a
// friendly message instead of the raw error.
var ErrMissingPermission = errors.New("missing permission")

// Discord refuses to bulk delete messages older than two weeks.
const bulkDeleteMaxAge = 14*24*time.Hour - time.Minute

type TextChannel struct {
	ID       snowflake.ID
	Position int
	CanSend  bool
}

type GuildMember struct {
	ID          snowflake.ID
	DisplayName string
}

// ChatPlatform is the slice of Discord the dispatcher and the talker use.
type ChatPlatform interface {
	SelfID() snowflake.ID
	Send(ctx context.Context, channelID snowflake.ID, content string) error
	PurgeRecent(ctx context.Context, channelID snowflake.ID, limit int) (int, error)
	Guilds() []snowflake.ID
	TextChannels(guildID snowflake.ID) []TextChannel
	HumanMembers(guildID snowflake.ID) []GuildMember
}

// DiscordPlatform implements ChatPlatform on a disgo client and its caches.
type DiscordPlatform struct {
	client *bot.Client
	rest   rest.Rest
}

func NewDiscordPlatform(client *bot.Client) *DiscordPlatform {
	return &DiscordPlatform{client: client, rest: client.Rest}
}

func (p *DiscordPlatform) SelfID() snowflake.ID {
	return p.client.ID()
}

// SetActivity shows text as the bot's "Playing" line.
func (p *DiscordPlatform) SetActivity(ctx context.Context, text string) error {
	return p.client.SetPresence(ctx,
		gateway.WithOnlineStatus(discord.OnlineStatusOnline),
		gateway.WithPlayingActivity(text),
	)
}

func (p *DiscordPlatform) Send(ctx context.Context, channelID snowflake.ID, content string) error {
	_, err := p.rest.CreateMessage(channelID,
		discord.NewMessageCreate().WithContent(truncateMessage(content)),
		rest.WithCtx(ctx),
	)
	return classifyRestError(err)
}

// PurgeRecent deletes up to limit of the newest messages. Messages young
// enough go out in one bulk request; the rest are deleted one by one.
func (p *DiscordPlatform) PurgeRecent(ctx context.Context, channelID snowflake.ID, limit int) (int, error) {
	messages, err := p.rest.GetMessages(channelID, 0, 0, 0, limit, rest.WithCtx(ctx))
	if err != nil {
		return 0, classifyRestError(err)
	}

	cutoff := time.Now().Add(-bulkDeleteMaxAge)
	var recent, old []snowflake.ID
	for _, m := range messages {
		if m.ID.Time().After(cutoff) {
			recent = append(recent, m.ID)
		} else {
			old = append(old, m.ID)
		}
	}

	deleted := 0
	if len(recent) >= 2 {
		if err := p.rest.BulkDeleteMessages(channelID, recent, rest.WithCtx(ctx)); err != nil {
			return 0, classifyRestError(err)
		}
		deleted += len(recent)
	} else {
		old = append(recent, old...)
	}

	for _, id := range old {
		if err := p.rest.DeleteMessage(channelID, id, rest.WithCtx(ctx)); err != nil {
			return deleted, classifyRestError(err)
		}
		deleted++
	}
	return deleted, nil
}

func (p *DiscordPlatform) Guilds() []snowflake.ID {
	var ids []snowflake.ID
	for g := range p.client.Caches.Guilds() {
		ids = append(ids, g.ID)
	}
	return ids
}

// TextChannels lists the guild's text channels in sidebar order.
func (p *DiscordPlatform) TextChannels(guildID snowflake.ID) []TextChannel {
	self, hasSelf := p.client.Caches.Member(guildID, p.client.ID())

	var channels []TextChannel
	for ch := range p.client.Caches.Channels() {
		if ch.GuildID() != guildID {
			continue
		}
		textCh, ok := ch.(discord.GuildTextChannel)
		if !ok {
			continue
		}
		canSend := false
		if hasSelf {
			perms := p.channelPermissions(textCh, self)
			canSend = perms.Has(discord.PermissionViewChannel) && perms.Has(discord.PermissionSendMessages)
		}
		channels = append(channels, TextChannel{ID: textCh.ID(), Position: textCh.Position(), CanSend: canSend})
	}

	slices.SortFunc(channels, func(a, b TextChannel) int {
		if a.Position != b.Position {
			return cmp.Compare(a.Position, b.Position)
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return channels
}

func (p *DiscordPlatform) HumanMembers(guildID snowflake.ID) []GuildMember {
	var members []GuildMember
	for m := range p.client.Caches.Members(guildID) {
		if m.User.Bot {
			continue
		}
		members = append(members, GuildMember{ID: m.User.ID, DisplayName: memberDisplayName(m.Nick, m.User)})
	}
	return members
}

// channelPermissions resolves member's effective permissions in channel:
// base roles, then @everyone, role and member overwrites.
func (p *DiscordPlatform) channelPermissions(channel discord.GuildChannel, member discord.Member) discord.Permissions {
	guild, ok := p.client.Caches.Guild(channel.GuildID())
	if !ok {
		return 0
	}
	if guild.OwnerID == member.User.ID {
		return discord.PermissionsAll
	}

	var perms discord.Permissions
	if everyone, ok := p.client.Caches.Role(guild.ID, guild.ID); ok {
		perms |= everyone.Permissions
	}
	for _, roleID := range member.RoleIDs {
		if role, ok := p.client.Caches.Role(guild.ID, roleID); ok {
			perms |= role.Permissions
		}
	}
	if perms.Has(discord.PermissionAdministrator) {
		return discord.PermissionsAll
	}

	overwrites := channel.PermissionOverwrites()
	for _, o := range overwrites {
		if ro, ok := o.(discord.RolePermissionOverwrite); ok && o.ID() == guild.ID {
			perms &^= ro.Deny
			perms |= ro.Allow
			break
		}
	}

	var roleAllow, roleDeny discord.Permissions
	for _, o := range overwrites {
		ro, ok := o.(discord.RolePermissionOverwrite)
		if !ok || !slices.Contains(member.RoleIDs, o.ID()) {
			continue
		}
		roleDeny |= ro.Deny
		roleAllow |= ro.Allow
	}
	perms &^= roleDeny
	perms |= roleAllow

	for _, o := range overwrites {
		if mo, ok := o.(discord.MemberPermissionOverwrite); ok && o.ID() == member.User.ID {
			perms &^= mo.Deny
			perms |= mo.Allow
			break
		}
	}
	return perms
}

// --- Helpers ---

func classifyRestError(err error) error {
	if err == nil {
		return nil
	}
	var restErr *rest.Error
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %v", ErrMissingPermission, err)
	}
	return err
}

// memberDisplayName resolves nickname, then global name, then username.
func memberDisplayName(nick *string, user discord.User) string {
	if nick != nil && *nick != "" {
		return *nick
	}
	if user.GlobalName != nil && *user.GlobalName != "" {
		return *user.GlobalName
	}
	return user.Username
}

// inboundFromEvent flattens a gateway message into what the dispatcher needs.
func inboundFromEvent(event *events.MessageCreate) InboundMessage {
	msg := event.Message

	mentions := make([]snowflake.ID, 0, len(msg.Mentions))
	for _, u := range msg.Mentions {
		mentions = append(mentions, u.ID)
	}

	var nick *string
	if msg.Member != nil {
		nick = msg.Member.Nick
	}

	return InboundMessage{
		AuthorID:      msg.Author.ID,
		AuthorName:    memberDisplayName(nick, msg.Author),
		AuthorMention: msg.Author.Mention(),
		Content:       msg.Content,
		ChannelID:     event.ChannelID,
		GuildID:       event.GuildID,
		Mentions:      mentions,
	}
}
