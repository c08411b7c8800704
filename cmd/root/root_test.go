package root_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/expense-audit/cmd/root"
	"fjacquet/expense-audit/internal/config"
	"fjacquet/expense-audit/internal/container"
	"fjacquet/expense-audit/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	root.Init()
	os.Exit(m.Run())
}

func resetGlobals(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		root.AppConfig = nil
		root.AppContainer = nil
		root.ContainerOptions = nil
	})
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "expense-audit", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "categorize expenses")
	assert.Contains(t, root.Cmd.Long, "CSV of transactions")
	assert.True(t, root.Cmd.SilenceUsage)
	assert.NotNil(t, root.Cmd.RunE)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{"input", "i"},
		{"output", "o"},
		{"config", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestGetContainer_NoConfig(t *testing.T) {
	resetGlobals(t)

	c, err := root.GetContainer(context.Background())
	assert.Nil(t, c)
	assert.ErrorContains(t, err, "configuration not loaded")
}

func TestGetContainer_BuildsOnce(t *testing.T) {
	resetGlobals(t)

	cfg := &config.Config{}
	cfg.Categories.File = filepath.Join(t.TempDir(), "categories.yaml")
	root.AppConfig = cfg
	root.ContainerOptions = []container.Option{
		container.WithLogger(logging.NewMockLogger()),
		container.WithClassifier(nil),
	}

	first, err := root.GetContainer(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Nil(t, first.GetClassifier())

	second, err := root.GetContainer(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)

	root.Cmd.PersistentPostRun(root.Cmd, nil)
	assert.Nil(t, root.AppContainer)
}

func TestPersistentPostRun_NoContainer(t *testing.T) {
	resetGlobals(t)

	assert.NotPanics(t, func() { root.Cmd.PersistentPostRun(root.Cmd, nil) })
}

func TestGetConfig(t *testing.T) {
	resetGlobals(t)

	cfg := &config.Config{}
	root.AppConfig = cfg
	assert.Same(t, cfg, root.GetConfig())
}
