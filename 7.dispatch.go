package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/disgoorg/snowflake/v2"
)

// ============================================================================
// Chat Surface Constants
// ============================================================================

const (
	CommandEnable  = "!jarvis on"
	CommandDisable = "!jarvis off"
	CommandPurge   = "jarvis delete"

	PurgeLimit  = 100
	ReplyChance = 0.4

	PromptChat    = "%s said: %s. Reply casually like a friend."
	PromptAmbient = "Say something fun or random to %s, like a friend."
)

// TriggerWords are matched as case-insensitive substrings, so "hi" also
// fires inside "this" or "nothing".
var TriggerWords = []string{"hi", "hello", "bored", "single", "miss me", "talk", "love", "lonely"}

// ============================================================================
// Classification
// ============================================================================

// InboundMessage is the part of a gateway message the dispatcher looks at.
type InboundMessage struct {
	AuthorID      snowflake.ID
	AuthorName    string
	AuthorMention string
	Content       string
	ChannelID     snowflake.ID
	GuildID       *snowflake.ID
	Mentions      []snowflake.ID
}

type Action int

const (
	ActionIgnore Action = iota
	ActionEnable
	ActionDisable
	ActionGated
	ActionPurge
	ActionTrigger
	ActionNone
)

func (a Action) String() string {
	switch a {
	case ActionIgnore:
		return "ignore"
	case ActionEnable:
		return "enable"
	case ActionDisable:
		return "disable"
	case ActionGated:
		return "gated"
	case ActionPurge:
		return "purge"
	case ActionTrigger:
		return "trigger"
	default:
		return "none"
	}
}

type Classification struct {
	Action    Action
	Mentioned bool
}

// Classify decides what a message asks for. Toggle commands are the only
// actions that bypass the enabled-channel gate.
func Classify(msg InboundMessage, selfID snowflake.ID, enabled bool) Classification {
	if msg.AuthorID == selfID || msg.GuildID == nil {
		return Classification{Action: ActionIgnore}
	}

	content := strings.ToLower(msg.Content)
	switch content {
	case CommandEnable:
		return Classification{Action: ActionEnable}
	case CommandDisable:
		return Classification{Action: ActionDisable}
	}

	if !enabled {
		return Classification{Action: ActionGated}
	}

	if content == CommandPurge {
		return Classification{Action: ActionPurge}
	}

	mentioned := slices.Contains(msg.Mentions, selfID)
	if mentioned || containsTrigger(content) {
		return Classification{Action: ActionTrigger, Mentioned: mentioned}
	}
	return Classification{Action: ActionNone}
}

func containsTrigger(lowered string) bool {
	for _, word := range TriggerWords {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}

// ============================================================================
// Dispatcher
// ============================================================================

type Dispatcher struct {
	platform ChatPlatform
	registry *ChannelRegistry
	replier  Replier
	rand     RandSource
	metrics  *Metrics
}

func NewDispatcher(platform ChatPlatform, registry *ChannelRegistry, replier Replier, r RandSource, m *Metrics) *Dispatcher {
	return &Dispatcher{
		platform: platform,
		registry: registry,
		replier:  replier,
		rand:     r,
		metrics:  m,
	}
}

// Dispatch routes msg and runs its follow-up inline.
func (d *Dispatcher) Dispatch(ctx context.Context, msg InboundMessage) {
	if work := d.Route(msg); work != nil {
		work(ctx)
	}
}

// Route classifies msg and applies any toggle before returning, so callers
// that route messages in arrival order see toggles in that order. The
// returned follow-up holds the network calls (send, purge, generate) and
// may run on another goroutine; it is nil when there is nothing to do.
func (d *Dispatcher) Route(msg InboundMessage) func(context.Context) {
	c := Classify(msg, d.platform.SelfID(), d.registry.IsEnabled(msg.ChannelID))
	d.metrics.DispatchActions.WithLabelValues(c.Action.String()).Inc()

	switch c.Action {
	case ActionEnable, ActionDisable:
		confirmation := d.SetChannelEnabled(msg.ChannelID, msg.AuthorName, c.Action == ActionEnable)
		return func(ctx context.Context) { d.send(ctx, msg.ChannelID, confirmation) }

	case ActionPurge:
		return func(ctx context.Context) { d.purge(ctx, msg) }

	case ActionTrigger:
		if !c.Mentioned && d.rand.Float64() >= ReplyChance {
			LogDebug(MsgDispatchReplyRolled, msg.ChannelID)
			return nil
		}
		prompt := fmt.Sprintf(PromptChat, msg.AuthorName, msg.Content)
		return func(ctx context.Context) {
			d.send(ctx, msg.ChannelID, d.replier.Generate(ctx, prompt, Persona))
		}
	}
	return nil
}

// SetChannelEnabled is the one toggle path for text commands and /jarvis.
// It returns the confirmation to post.
func (d *Dispatcher) SetChannelEnabled(channelID snowflake.ID, by string, enabled bool) string {
	if enabled {
		d.registry.Enable(channelID)
	} else {
		d.registry.Disable(channelID)
	}
	d.metrics.EnabledChannels.Set(float64(d.registry.Len()))

	if enabled {
		LogDispatch(MsgDispatchEnabled, channelID, by)
		return MsgChatEnabled
	}
	LogDispatch(MsgDispatchDisabled, channelID, by)
	return MsgChatDisabled
}

func (d *Dispatcher) purge(ctx context.Context, msg InboundMessage) {
	deleted, err := d.platform.PurgeRecent(ctx, msg.ChannelID, PurgeLimit)
	switch {
	case errors.Is(err, ErrMissingPermission):
		d.send(ctx, msg.ChannelID, MsgChatPurgeNoPerm)
	case err != nil:
		LogDispatchError(MsgDispatchPurgeFail, msg.ChannelID, err)
		d.send(ctx, msg.ChannelID, MsgChatPurgeFailed)
	default:
		LogDispatch(MsgDispatchPurged, deleted, msg.ChannelID, msg.AuthorName)
		d.send(ctx, msg.ChannelID, fmt.Sprintf(MsgChatPurged, deleted, msg.AuthorMention))
	}
}

func (d *Dispatcher) send(ctx context.Context, channelID snowflake.ID, content string) {
	if err := d.platform.Send(ctx, channelID, content); err != nil {
		LogDispatchError(MsgDispatchSendFail, channelID, err)
	}
}
