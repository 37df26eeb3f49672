package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// --- Globals & Styles ---

var (
	// Level colors
	infoColor  = color.New()
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
	fatalColor = color.New(color.FgRed, color.Bold)

	// Component colors
	aiColor       = color.New(color.FgMagenta)
	dispatchColor = color.New(color.FgCyan)
	talkerColor   = color.New(color.FgMagenta)
	livenessColor = color.New(color.FgGreen)
	botColor      = color.New(color.FgBlue)

	// Global state
	DefaultTimeFormat = "15:04:05"
	IsSilent          = false
	LogToFile         = false
	Logger            *slog.Logger

	// Internal state
	logFile *os.File
	logMu   sync.Mutex
)

// --- Initialization ---

func init() {
	InitLogger(false, false)
}

// InitLogger initializes the global structured logger
func InitLogger(silent bool, saveToFile bool) {
	logMu.Lock()
	defer logMu.Unlock()

	IsSilent = silent
	LogToFile = saveToFile
	level := slog.LevelInfo
	if strings.ToLower(os.Getenv("DEBUG")) == "true" {
		level = slog.LevelDebug
	}

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writer io.Writer = os.Stdout
	var err error

	if LogToFile {
		exePath, exeErr := os.Executable()
		logName := GetProjectName() + ".log"
		if exeErr == nil {
			logName = filepath.Base(exePath) + ".log"
		}

		logFile, err = os.OpenFile(logName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", logName, err)
		} else {
			writer = io.MultiWriter(os.Stdout, NewStripANSIWriter(logFile))
		}
	}

	handler := NewBotLogHandler(writer, &BotLogHandlerOptions{
		Silent: IsSilent,
		Level:  level,
	})
	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

func SetSilentMode(silent bool) {
	InitLogger(silent, LogToFile)
}

// --- Public Logging API ---

func LogInfo(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}

func LogWarn(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...))
}

func LogError(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...))
}

// LogFatal logs and panics so deferred cleanup still runs; main recovers it.
func LogFatal(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	slog.Log(context.Background(), slog.LevelError+4, msg)
	panic(msg)
}

func LogDebug(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...))
}

// Component Loggers

func LogAI(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "ai"))
}

func LogAIWarn(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...), slog.String("component", "ai"))
}

func LogDispatch(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "dispatch"))
}

func LogDispatchError(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...), slog.String("component", "dispatch"))
}

func LogTalker(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "talker"))
}

func LogLiveness(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "liveness"))
}

func LogBot(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "bot"))
}

// --- Log Handler Implementation ---

type BotLogHandlerOptions struct {
	Silent bool
	Level  slog.Leveler
}

type BotLogHandler struct {
	w    io.Writer
	opts *BotLogHandlerOptions
	mu   *sync.Mutex
}

func NewBotLogHandler(w io.Writer, opts *BotLogHandlerOptions) *BotLogHandler {
	if opts == nil {
		opts = &BotLogHandlerOptions{Level: slog.LevelInfo}
	}
	return &BotLogHandler{
		w:    w,
		opts: opts,
		mu:   &sync.Mutex{},
	}
}

func (h *BotLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.opts.Silent {
		return false
	}
	return level >= h.opts.Level.Level()
}

func (h *BotLogHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.opts.Silent {
		return nil
	}

	timeStr := time.Now().Format(DefaultTimeFormat)
	levelStr := "DEBUG"
	levelColor := infoColor

	switch {
	case r.Level >= slog.LevelError+4:
		levelStr = "FATAL"
		levelColor = fatalColor
	case r.Level >= slog.LevelError:
		levelStr = "ERROR"
		levelColor = errorColor
	case r.Level >= slog.LevelWarn:
		levelStr = "WARN"
		levelColor = warnColor
	case r.Level >= slog.LevelInfo:
		levelStr = "INFO"
		levelColor = infoColor
	}

	component := ""
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			component = strings.ToUpper(a.Value.String())
			return false
		}
		return true
	})

	fmt.Fprintf(h.w, "%s", timeStr)

	if component != "" {
		if levelStr != "INFO" {
			fmt.Fprintf(h.w, " %s", levelColor.Sprintf("[%s]", levelStr))
		}
		compColor := getComponentColor(component)
		fmt.Fprintf(h.w, " %s\n", compColor.Sprintf("[%s] %s", component, r.Message))
	} else {
		fmt.Fprintf(h.w, " %s\n", levelColor.Sprintf("[%s] %s", levelStr, r.Message))
	}

	return nil
}

func (h *BotLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h *BotLogHandler) WithGroup(name string) slog.Handler       { return h }

// --- Formatting Helpers ---

func getComponentColor(name string) *color.Color {
	switch name {
	case "AI":
		return aiColor
	case "DISPATCH":
		return dispatchColor
	case "TALKER":
		return talkerColor
	case "LIVENESS":
		return livenessColor
	case "BOT":
		return botColor
	default:
		return color.New(color.FgCyan)
	}
}

// --- ANSI Stripper ---

type StripANSIWriter struct {
	w  io.Writer
	re *regexp.Regexp
}

func NewStripANSIWriter(w io.Writer) *StripANSIWriter {
	return &StripANSIWriter{
		w:  w,
		re: regexp.MustCompile(`\x1b\[[0-9;]*m`),
	}
}

func (s *StripANSIWriter) Write(p []byte) (n int, err error) {
	clean := s.re.ReplaceAll(p, []byte(""))
	_, err = s.w.Write(clean)
	return len(p), err
}

// --- Message Constants ---

const (
	// --- Infrastructure & Lifecycle ---
	MsgConfigFailedToLoad   = "Failed to load config: %v"
	MsgConfigMissingToken   = "DISCORD_BOT_TOKEN is not set"
	MsgConfigInvalidPort    = "invalid PORT %q: must be 1-65535"
	MsgConfigInvalidGuildID = "invalid GUILD_ID: must be a valid Snowflake"
	MsgConfigInvalidDur     = "invalid %s %q: %w"
	MsgDaemonStarting       = "Starting..."
	MsgBotStarting          = "Starting %s..."
	MsgBotReady             = "%s is ready! (ID: %s) (PID: %d) (Took: %dms)"
	MsgBotShutdown          = "Shutting down %s..."
	MsgBotRegisterFail      = "Command registration failed: %v"
	MsgGenericError         = "%v"
	MsgLoaderPanicRecovered = "Panic recovered in handler: %v"
	MsgLoaderDevRegistered  = "[DEV] Registered: %s"
	MsgLoaderProdRegistered = "[PROD] Registered: %s"

	// --- Fallback Corpus ---
	MsgFallbackLoaded      = "Loaded %d fallback replies (%s)"
	MsgFallbackLoadFail    = "Failed to load fallback corpus: %v"
	MsgFallbackSourceEmpty = "fallback corpus has no usable lines"

	// --- Reply Provider ---
	MsgReplyTierFailed   = "[%s] %s failed: %v"
	MsgReplyTierSuccess  = "[%s] %s replied (%d chars)"
	MsgReplyFallbackUsed = "[%s] All providers failed, using fallback reply"
	MsgReplyTierPanic    = "provider panicked: %v"
	MsgReplyTiersActive  = "Reply tiers: %s"

	// --- Dispatcher ---
	MsgDispatchEnabled     = "Enabled in channel %s by %s"
	MsgDispatchDisabled    = "Disabled in channel %s by %s"
	MsgDispatchPurged      = "Purged %d messages in channel %s for %s"
	MsgDispatchPurgeFail   = "Purge failed in channel %s: %v"
	MsgDispatchSendFail    = "Failed to send to channel %s: %v"
	MsgDispatchReplyRolled = "Trigger in channel %s skipped by chance"

	// --- Ambient Talker ---
	MsgTalkerShutdown  = "Shutting down Ambient Talker..."
	MsgTalkerGreeted   = "Greeted %s in channel %s (guild %s)"
	MsgTalkerNoMembers = "No human members in guild %s, skipping"
	MsgTalkerSendFail  = "Failed to greet in channel %s: %v"
	MsgTalkerNextTick  = "Next ambient round in %v"

	// --- Liveness ---
	MsgLivenessListening = "Listening on %s"
	MsgLivenessShutdown  = "Shutting down liveness server..."

	// --- Presence ---
	MsgPresenceRotated    = "Presence set to %q"
	MsgPresenceUpdateFail = "Failed to update presence: %v"
	MsgPresenceShutdown   = "Shutting down Presence Rotator..."

	// --- User-facing chat text ---
	MsgChatEnabled       = "🟢 JARVIS is now active in this channel!"
	MsgChatDisabled      = "🔴 JARVIS is now inactive in this channel!"
	MsgChatPurged        = "🧹 %d messages cleaned by %s"
	MsgChatPurgeNoPerm   = "❌ I need `Manage Messages` permission to delete messages."
	MsgChatPurgeFailed   = "❌ I couldn't clean up this channel right now."
	MsgChatGreeting      = "Hey %s 😜\n%s"
	MsgChatAlive         = "JARVIS is alive ✅"
	MsgChatServerOnly    = "This command can only be used in a server."
	MsgChatStatusHeader  = "**JARVIS Status**\n"
	MsgChatStatusChannel = "> This channel: %s\n"
	MsgChatStatusCount   = "> Active channels: `%d`\n"
	MsgChatStatusTiers   = "> Reply tiers: `%s`\n"
	MsgChatStatusActive  = "🟢 active"
	MsgChatStatusIdle    = "🔴 inactive"
)
