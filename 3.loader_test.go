package main

import (
	"context"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
)

func newEventApp() (*App, *fakePlatform, *fakeReplier) {
	platform := newFakePlatform(testSelfID)
	replier := &fakeReplier{reply: "hey bestie"}
	app := &App{
		ctx:      context.Background(),
		registry: NewChannelRegistry(),
		metrics:  NewMetrics(),
		rand:     fixedRand{f: 0.99},
	}
	app.dispatcher = NewDispatcher(platform, app.registry, replier, app.rand, app.metrics)
	return app, platform, replier
}

func messageEvent(content string, mentions ...snowflake.ID) *events.MessageCreate {
	guildID := testGuildID
	users := make([]discord.User, 0, len(mentions))
	for _, id := range mentions {
		users = append(users, discord.User{ID: id})
	}
	return &events.MessageCreate{GenericMessage: &events.GenericMessage{
		GenericEvent: events.NewGenericEvent(nil, 0, 0),
		ChannelID:    testChannelID,
		GuildID:      &guildID,
		Message: discord.Message{
			Author:   discord.User{ID: testAuthorID, Username: "alice"},
			Content:  content,
			Mentions: users,
		},
	}}
}

func waitForSends(t *testing.T, platform *fakePlatform, n int) []sentMessage {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sent := platform.sent(); len(sent) >= n {
			return sent
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("expected %d sends, got %d", n, len(platform.sent()))
	return nil
}

func TestMessageEventsToggleInArrivalOrder(t *testing.T) {
	for range 200 {
		app, platform, replier := newEventApp()

		app.onMessageCreate(messageEvent("!jarvis on"))
		app.onMessageCreate(messageEvent("<@1000> hey", testSelfID))

		sent := waitForSends(t, platform, 2)
		if replier.calls() != 1 {
			t.Fatalf("mention after enable should be answered, replier calls = %d", replier.calls())
		}
		contents := map[string]bool{sent[0].Content: true, sent[1].Content: true}
		if !contents[MsgChatEnabled] || !contents["hey bestie"] {
			t.Fatalf("unexpected sends %+v", sent)
		}
	}
}

func TestMessageEventsDisableStopsNextReply(t *testing.T) {
	for range 200 {
		app, platform, replier := newEventApp()
		app.registry.Enable(testChannelID)

		app.onMessageCreate(messageEvent("!jarvis off"))
		app.onMessageCreate(messageEvent("<@1000> hey", testSelfID))

		sent := waitForSends(t, platform, 1)
		time.Sleep(2 * time.Millisecond)
		if app.registry.IsEnabled(testChannelID) {
			t.Fatal("channel should be disabled")
		}
		if len(platform.sent()) != 1 || sent[0].Content != MsgChatDisabled || replier.calls() != 0 {
			t.Fatalf("no reply may follow a disable, got %+v", platform.sent())
		}
	}
}

func TestRouteAppliesToggleBeforeFollowUp(t *testing.T) {
	app, platform, _ := newEventApp()

	work := app.dispatcher.Route(userMessage("!jarvis on"))
	if !app.registry.IsEnabled(testChannelID) {
		t.Fatal("toggle must be applied during routing")
	}
	if len(platform.sent()) != 0 {
		t.Fatal("routing must not perform network calls")
	}
	if work == nil {
		t.Fatal("enable should return a confirmation follow-up")
	}
	work(context.Background())
	if sent := platform.sent(); len(sent) != 1 || sent[0].Content != MsgChatEnabled {
		t.Fatalf("unexpected sends %+v", sent)
	}

	if work := app.dispatcher.Route(userMessage("good morning")); work != nil {
		t.Fatal("a message with no action should have no follow-up")
	}
}
