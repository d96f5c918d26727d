package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-account/pkg/config"
	"github.com/tendant/simple-account/pkg/mail"
	"github.com/tendant/simple-account/pkg/session"
	"github.com/tendant/simple-account/pkg/user"
)

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, sub := range []string{"serve", "worker", "migrate"} {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	configFile = ""
	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"--config=/etc/accountd.env", "--help"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "/etc/accountd.env", configFile)
	configFile = ""
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewLogHandler(t *testing.T) {
	_, isJSON := newLogHandler(config.LogConfig{Format: "json", Level: "info"}).(*slog.JSONHandler)
	assert.True(t, isJSON)
	_, isText := newLogHandler(config.LogConfig{Format: "text", Level: "info"}).(*slog.TextHandler)
	assert.True(t, isText)
}

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Persistence.Type = "memory"
	cfg.Redis.Addr = ""
	cfg.Email.Mode = config.MailModeLog
	return cfg
}

func TestBuildDeps_Memory(t *testing.T) {
	ctx := context.Background()
	d, err := buildDeps(ctx, memoryConfig(t))
	require.NoError(t, err)

	assert.IsType(t, &user.InMemRepository{}, d.repo)
	assert.IsType(t, &session.MemoryRevoker{}, d.revoker)
	assert.IsType(t, mail.LogSender{}, d.sender)
	assert.NoError(t, d.healthCheck(ctx))

	assert.IsType(t, &mail.AsyncDispatcher{}, d.newDispatcher())
	assert.NoError(t, d.Close(ctx))
}

func TestBuildDeps_File(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Persistence.Type = "file"
	cfg.Persistence.DataDir = t.TempDir()

	d, err := buildDeps(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &user.FileRepository{}, d.repo)
	assert.NoError(t, d.Close(context.Background()))
}

func TestBuildDeps_UnknownPersistence(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Persistence.Type = "cassandra"
	_, err := buildDeps(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewRouterConfig(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig(t)
	d, err := buildDeps(ctx, cfg)
	require.NoError(t, err)
	defer d.Close(ctx)

	rc, err := newRouterConfig(cfg, d)
	require.NoError(t, err)
	assert.NotNil(t, rc.Codec)
	tok, err := rc.Codec.Issue(ctx, uuid.New())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(cfg.Session.TTL.Std()), tok.ExpiresAt, 5*time.Second)
	assert.Equal(t, "token", rc.Cookies.Name)
	assert.False(t, rc.Production)

	cfg.Security.PasswordHasher = "md5"
	_, err = newRouterConfig(cfg, d)
	assert.Error(t, err)
}

func TestRunServe_WorkerNeedsQueueMode(t *testing.T) {
	err := runServe(context.Background(), memoryConfig(t), true)
	assert.ErrorContains(t, err, "MAIL_MODE=queue")
}

func TestRunWorker_NeedsRedis(t *testing.T) {
	err := runWorker(context.Background(), memoryConfig(t))
	assert.ErrorContains(t, err, "REDIS_ADDR")
}
