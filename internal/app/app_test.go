package app

import (
	"net/http/httptest"
	"testing"

	"social-publisher/internal/delivery/http/handlers"
	"social-publisher/internal/infrastructure/storage"
	"social-publisher/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestDependencyGraphs(t *testing.T) {
	require.NoError(t, fx.ValidateApp(Server))
	require.NoError(t, fx.ValidateApp(Worker))
}

func TestNewStorageLocal(t *testing.T) {
	cfg := config.LoadConfig()
	cfg.Storage.Type = "local"
	cfg.Storage.PublicBaseURL = ""
	cfg.Server.Host = "localhost"
	cfg.Server.Port = "3000"

	res, err := NewStorage(cfg)
	require.NoError(t, err)
	local, ok := res.Objects.(*storage.LocalStorage)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:3000/static/social/b/0.jpg", local.PublicURL("social/b/0.jpg"))
	assert.Same(t, res.Objects, res.Source)
}

func TestNewStorageUnknownType(t *testing.T) {
	cfg := config.LoadConfig()
	cfg.Storage.Type = "ftp"

	_, err := NewStorage(cfg)
	assert.Error(t, err)
}

func TestFiberAppHealth(t *testing.T) {
	cfg := config.LoadConfig()
	app := NewFiberApp(cfg, handlers.NewPublishHandler(nil, nil, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
