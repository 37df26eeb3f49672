package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/disgoorg/disgo/bot"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 0. Recover from panics (LogFatal uses panic to ensure defers run)
	defer func() {
		if r := recover(); r != nil {
			if msg, ok := r.(string); ok {
				fmt.Fprintf(os.Stderr, "\n[FATAL] %s\n", msg)
				os.Exit(1)
			}
			panic(r)
		}
	}()

	silent := flag.Bool("silent", false, "Disable all log output")
	skipReg := flag.Bool("skip-reg", false, "Skip slash command registration")
	flag.Parse()

	// 1. Initialize Logger (handle flags); .env first so DEBUG applies
	loadDotEnv()
	InitLogger(*silent, true)

	// 2. Load configuration; a missing token stops here
	cfg, err := LoadConfig()
	if err != nil {
		LogFatal(MsgConfigFailedToLoad, err)
	}

	LogInfo(MsgBotStarting, GetProjectName())

	// 3. Run bot and liveness server (blocks until shutdown signal)
	if err := run(cfg, *silent, *skipReg); err != nil {
		LogFatal(MsgGenericError, err)
	}
}

// App is the process-wide bot state, built once and handed to every
// handler instead of living in package globals.
type App struct {
	ctx        context.Context
	cfg        *Config
	registry   *ChannelRegistry
	replies    *ReplyGenerator
	metrics    *Metrics
	rand       RandSource
	dispatcher *Dispatcher
	talker     *AmbientTalker
}

// NewApp loads the fallback corpus and builds the reply tiers. The chat
// platform is attached later, once the client exists.
func NewApp(cfg *Config) (*App, error) {
	fsys, err := FallbackFS(cfg.FallbackDir)
	if err != nil {
		return nil, fmt.Errorf(MsgFallbackLoadFail, err)
	}
	corpus, err := LoadFallbackCorpus(fsys)
	if err != nil {
		return nil, fmt.Errorf(MsgFallbackLoadFail, err)
	}
	LogAI(MsgFallbackLoaded, len(corpus.All()), corpus.Summary())

	metrics := NewMetrics()
	r := NewTimeSeededRand()
	replies := NewReplyGenerator(BuildProviders(cfg), corpus, r, metrics)
	LogAI(MsgReplyTiersActive, replies.Tiers())

	return &App{
		ctx:      context.Background(),
		cfg:      cfg,
		registry: NewChannelRegistry(),
		replies:  replies,
		metrics:  metrics,
		rand:     r,
	}, nil
}

// Attach wires the dispatcher and the ambient talker to a chat platform.
func (a *App) Attach(platform ChatPlatform) {
	a.dispatcher = NewDispatcher(platform, a.registry, a.replies, a.rand, a.metrics)
	a.talker = NewAmbientTalker(platform, a.registry, a.replies, a.rand, a.metrics, a.cfg.AmbientInterval)
}

func run(cfg *Config, silent bool, skipReg bool) error {
	// 1. Setup global context that responds to shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	// 2. Build bot state
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	app.registerSlashCommands()

	// 3. Create disgo client
	client, err := CreateClient(ctx, cfg, app)
	if err != nil {
		return fmt.Errorf("failed to create Discord client: %w", err)
	}
	defer client.Close(context.Background())

	platform := NewDiscordPlatform(client)
	app.Attach(platform)
	RegisterDaemon(LogTalker, app.talker.Start)
	RegisterDaemon(LogBot, NewPresenceRotator(platform, app.registry, app.rand).Start)

	// 4. Command Registration
	if !skipReg {
		if err := RegisterCommands(client, cfg.GuildID); err != nil {
			LogError(MsgBotRegisterFail, err)
		}
	} else {
		LogInfo("Skipping command registration as requested.")
	}

	// 5. Liveness server and gateway run side by side; either failing stops both
	g, gctx := errgroup.WithContext(ctx)
	app.ctx = gctx

	g.Go(func() error {
		return ServeLiveness(gctx, cfg.ListenAddr(), NewLivenessRouter(app.metrics))
	})
	g.Go(func() error {
		return runGateway(gctx, client)
	})

	err = g.Wait()
	if !silent {
		fmt.Println()
	}

	if botUser, ok := client.Caches.SelfUser(); ok {
		LogInfo(MsgBotShutdown, botUser.Username)
	} else {
		LogInfo(MsgBotShutdown, GetProjectName())
	}
	return err
}

func runGateway(ctx context.Context, client *bot.Client) error {
	if err := client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	<-ctx.Done()

	LogInfo("Shutting down all daemons...")
	ShutdownDaemons()
	return nil
}
