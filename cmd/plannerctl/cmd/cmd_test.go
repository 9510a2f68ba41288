package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/NomadCrew/nomad-crew-planner/config"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestCommandTree(t *testing.T) {
	root := NewRootCmd()

	for _, path := range [][]string{{"migrate", "up"}, {"migrate", "down"}, {"migrate", "version"}, {"seed"}} {
		found, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}

	down, _, err := root.Find([]string{"migrate", "down"})
	require.NoError(t, err)
	steps, err := down.Flags().GetInt("steps")
	require.NoError(t, err)
	assert.Equal(t, 1, steps)
}

func TestConfigErrorsSurface(t *testing.T) {
	orig := configLoader
	t.Cleanup(func() { configLoader = orig })
	configLoader = func() (*config.Config, error) { return nil, errors.New("JWT secret key is required") }

	for _, args := range [][]string{{"migrate", "up"}, {"migrate", "version"}, {"seed"}} {
		root := NewRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(args)

		err := root.Execute()
		assert.EqualError(t, err, "JWT secret key is required", args)
	}
}

func TestSeedRejectsBadFixtureFileBeforeConnecting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users: [{ref: a, shoe_size: 42}]\n"), 0o600))

	orig := configLoader
	t.Cleanup(func() {
		configLoader = orig
		fixturesPath = ""
	})
	configLoader = func() (*config.Config, error) {
		t.Fatal("config must not be loaded for an invalid fixture file")
		return nil, nil
	}

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"seed", "--file", path})

	err := root.Execute()
	assert.ErrorContains(t, err, "failed to decode fixtures")
}

func TestLoadFixturesDefault(t *testing.T) {
	fx, err := loadFixtures("")
	require.NoError(t, err)
	assert.NotEmpty(t, fx.Trips)
}
