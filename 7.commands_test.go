package main

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStatusText(t *testing.T) {
	g, _, m := newTestGenerator(t, &stubProvider{name: "openrouter"})
	app := &App{registry: NewChannelRegistry(), replies: g, metrics: m}
	app.registry.Enable(testChannelID)
	app.registry.Enable(testChannelID + 1)

	active := app.statusText(true)
	for _, want := range []string{MsgChatStatusActive, "`2`", "openrouter → fallback"} {
		if !strings.Contains(active, want) {
			t.Errorf("status missing %q:\n%s", want, active)
		}
	}
	if idle := app.statusText(false); !strings.Contains(idle, MsgChatStatusIdle) {
		t.Errorf("idle status missing marker:\n%s", idle)
	}
}

func newCommandApp(t *testing.T) (*App, *fakePlatform) {
	t.Helper()
	g, _, m := newTestGenerator(t, &stubProvider{name: "openrouter"})
	platform := newFakePlatform(testSelfID)
	app := &App{registry: NewChannelRegistry(), replies: g, metrics: m, rand: fixedRand{}}
	app.dispatcher = NewDispatcher(platform, app.registry, g, app.rand, m)
	return app, platform
}

func TestJarvisSubcommandToggles(t *testing.T) {
	app, platform := newCommandApp(t)

	content, ephemeral := app.jarvisSubcommand("on", testChannelID, "mod")
	if content != MsgChatEnabled || ephemeral {
		t.Fatalf("on = %q, ephemeral %v", content, ephemeral)
	}
	if !app.registry.IsEnabled(testChannelID) {
		t.Fatal("on should enable the channel")
	}
	if v := testutil.ToFloat64(app.metrics.EnabledChannels); v != 1 {
		t.Fatalf("enabled gauge = %v after on", v)
	}

	content, _ = app.jarvisSubcommand("off", testChannelID, "mod")
	if content != MsgChatDisabled || app.registry.IsEnabled(testChannelID) {
		t.Fatalf("off = %q, enabled %v", content, app.registry.IsEnabled(testChannelID))
	}
	if v := testutil.ToFloat64(app.metrics.EnabledChannels); v != 0 {
		t.Fatalf("enabled gauge = %v after off", v)
	}

	if len(platform.sent()) != 0 {
		t.Fatal("slash toggles answer through the interaction, not a channel message")
	}
}

func TestJarvisSubcommandStatus(t *testing.T) {
	app, _ := newCommandApp(t)
	app.jarvisSubcommand("on", testChannelID, "mod")

	content, ephemeral := app.jarvisSubcommand("status", testChannelID, "mod")
	if !ephemeral || !strings.Contains(content, MsgChatStatusActive) {
		t.Fatalf("status = %q, ephemeral %v", content, ephemeral)
	}

	if content, _ := app.jarvisSubcommand("dance", testChannelID, "mod"); content != "" {
		t.Fatalf("unknown subcommand answered %q", content)
	}
}

func TestSlashAndTextTogglesShareState(t *testing.T) {
	app, platform := newCommandApp(t)

	app.jarvisSubcommand("on", testChannelID, "mod")
	app.dispatcher.Dispatch(context.Background(), userMessage("!jarvis off"))

	if app.registry.IsEnabled(testChannelID) {
		t.Fatal("text off should undo slash on")
	}
	if v := testutil.ToFloat64(app.metrics.EnabledChannels); v != 0 {
		t.Fatalf("enabled gauge = %v", v)
	}
	if sent := platform.sent(); len(sent) != 1 || sent[0].Content != MsgChatDisabled {
		t.Fatalf("unexpected sends %+v", sent)
	}
}
