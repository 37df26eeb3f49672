package main

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"
	"github.com/disgoorg/snowflake/v2"
)

// registerSlashCommands adds /jarvis, a moderator-facing mirror of the text
// toggles plus a status view.
func (a *App) registerSlashCommands() {
	managePerm := discord.PermissionManageChannels
	RegisterCommand(discord.SlashCommandCreate{
		Name:                     "jarvis",
		Description:              "Control JARVIS in this channel",
		DefaultMemberPermissions: omit.New(&managePerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "on",
				Description: "Activate JARVIS in this channel",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "off",
				Description: "Deactivate JARVIS in this channel",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "status",
				Description: "Show where JARVIS is active and which reply tiers are configured",
			},
		},
	}, a.handleJarvis)
}

func (a *App) handleJarvis(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	if data.SubCommandName == nil {
		return
	}
	if event.GuildID() == nil {
		_ = event.CreateMessage(discord.NewMessageCreate().WithContent(MsgChatServerOnly).WithEphemeral(true))
		return
	}

	content, ephemeral := a.jarvisSubcommand(*data.SubCommandName, event.Channel().ID(), event.User().Username)
	if content == "" {
		return
	}
	_ = event.CreateMessage(discord.NewMessageCreate().WithContent(content).WithEphemeral(ephemeral))
}

// jarvisSubcommand applies a /jarvis subcommand and returns the response.
func (a *App) jarvisSubcommand(name string, channelID snowflake.ID, by string) (string, bool) {
	switch name {
	case "on":
		return a.dispatcher.SetChannelEnabled(channelID, by, true), false
	case "off":
		return a.dispatcher.SetChannelEnabled(channelID, by, false), false
	case "status":
		return a.statusText(a.registry.IsEnabled(channelID)), true
	}
	return "", false
}

func (a *App) statusText(channelEnabled bool) string {
	state := MsgChatStatusIdle
	if channelEnabled {
		state = MsgChatStatusActive
	}

	var sb strings.Builder
	sb.WriteString(MsgChatStatusHeader)
	sb.WriteString(fmt.Sprintf(MsgChatStatusChannel, state))
	sb.WriteString(fmt.Sprintf(MsgChatStatusCount, a.registry.Len()))
	sb.WriteString(fmt.Sprintf(MsgChatStatusTiers, a.replies.Tiers()))
	return sb.String()
}
