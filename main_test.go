package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/miketth/kbswitch/pkg/kbswitch"
	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeHyprctlScript = `#!/bin/sh
echo "$@" >> '%LOG%'
case "$1 $2" in
"getoption input:kb_layout")
  echo '{"option": "input:kb_layout", "str": "us,ru,de,fr", "set": true}'
  ;;
"getoption input:kb_variant")
  echo '{"option": "input:kb_variant", "str": ",,,", "set": true}'
  ;;
"devices -j")
  echo '{"keyboards": [{"name": "keychron-k3", "layout": "us,ru,de,fr", "variant": ",,,", "active_keymap": "English (US)", "main": true}]}'
  ;;
switchxkblayout*)
  echo ok
  ;;
*)
  exit 1
  ;;
esac
`

type testEnv struct {
	dir        string
	dataHome   string
	configPath string
	callLog    string
}

func newTestEnv(t *testing.T, extraConfig string) *testEnv {
	t.Helper()
	dir := t.TempDir()

	env := &testEnv{
		dir:        dir,
		dataHome:   filepath.Join(dir, "data"),
		configPath: filepath.Join(dir, "config", "kbswitch", "config.toml"),
		callLog:    filepath.Join(dir, "calls.log"),
	}

	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_DATA_HOME", env.dataHome)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	xdg.Reload()

	hyprctl := filepath.Join(dir, "hyprctl")
	script := strings.ReplaceAll(fakeHyprctlScript, "%LOG%", env.callLog)
	require.NoError(t, os.WriteFile(hyprctl, []byte(script), 0755))

	config := "hyprctl = \"" + hyprctl + "\"\n" +
		"evdev_xml = \"" + filepath.Join(dir, "missing-evdev.xml") + "\"\n" +
		"journal = false\n" + extraConfig
	require.NoError(t, os.MkdirAll(filepath.Dir(env.configPath), 0755))
	require.NoError(t, os.WriteFile(env.configPath, []byte(config), 0644))

	return env
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()
	return out.String() + errOut.String(), err
}

func (e *testEnv) statePath() string {
	return filepath.Join(e.dataHome, "kbswitch", "state.json")
}

func (e *testEnv) state(t *testing.T) kbswitch.State {
	t.Helper()
	data, err := os.ReadFile(e.statePath())
	require.NoError(t, err)

	var state kbswitch.State
	require.NoError(t, json.Unmarshal(data, &state))
	return state
}

func (e *testEnv) calls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.callLog)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestInitThenSwitch(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "initialized with 4 layouts")

	state := env.state(t)
	assert.Equal(t, []int{0, 1, 2, 3}, state.Layouts)
	assert.Zero(t, state.CurFreq)
	assert.Zero(t, state.CurAll)
	assert.Zero(t, state.Counter)
	assert.Zero(t, state.SumTime)

	_, err = env.run(t, "switch", "keychron-k3")
	require.NoError(t, err)

	assert.Equal(t, 1, env.state(t).CurFreq)
	assert.Contains(t, env.calls(t), "switchxkblayout keychron-k3 1")
}

func TestSwitchWithoutDevice(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "switch")
	assert.ErrorIs(t, err, kbswitch.ErrUsage)
	assert.Contains(t, out, "Usage:")

	assert.NoFileExists(t, env.statePath())
	assert.Empty(t, env.calls(t))
}

func TestSwitchLeavesStateAloneOnUsageError(t *testing.T) {
	env := newTestEnv(t, "")
	_, err := env.run(t, "init")
	require.NoError(t, err)

	before, err := os.ReadFile(env.statePath())
	require.NoError(t, err)

	_, err = env.run(t, "switch", "a", "b")
	assert.ErrorIs(t, err, kbswitch.ErrUsage)

	after, err := os.ReadFile(env.statePath())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSwitchBeforeInit(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "switch", "keychron-k3")
	assert.ErrorIs(t, err, kbswitch.ErrNotInitialized)
	assert.NotContains(t, out, "Usage:")
	assert.Empty(t, env.calls(t))
}

func TestUnknownCommand(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "frobnicate")
	require.Error(t, err)
	assert.Contains(t, out, "unknown command")
}

func TestNoCommand(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t)
	assert.ErrorIs(t, err, kbswitch.ErrUsage)
	assert.Contains(t, out, "Usage:")
}

func TestKeypressDuration(t *testing.T) {
	env := newTestEnv(t, "")
	_, err := env.run(t, "init")
	require.NoError(t, err)

	out, err := env.run(t, "keypress-duration")
	require.NoError(t, err)
	assert.Contains(t, out, "current keypress duration: 0.5s")

	_, err = env.run(t, "keypress-duration", "0.3")
	require.NoError(t, err)
	assert.Equal(t, 0.3, env.state(t).MaxDuration)

	out, err = env.run(t, "keypress-duration")
	require.NoError(t, err)
	assert.Contains(t, out, "current keypress duration: 0.3s")

	_, err = env.run(t, "keypress-duration", "5")
	assert.ErrorIs(t, err, kbswitch.ErrUsage)

	_, err = env.run(t, "keypress-duration", "fast")
	assert.ErrorIs(t, err, kbswitch.ErrUsage)

	assert.Equal(t, 0.3, env.state(t).MaxDuration)
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t, "")
	_, err := env.run(t, "init")
	require.NoError(t, err)

	out, err := env.run(t, "status")
	require.NoError(t, err)

	assert.Contains(t, out, "keypress duration: 0.5s")
	assert.Contains(t, out, "  * 0: us [us]")
	assert.Contains(t, out, "  + 1: ru [ru]")
	assert.Contains(t, out, "    3: fr [fr]")
}

func TestUpdateLayouts(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.run(t, "update-layouts")
	assert.ErrorIs(t, err, kbswitch.ErrStateCorruption)

	_, err = env.run(t, "init")
	require.NoError(t, err)

	out, err := env.run(t, "update-layouts")
	require.NoError(t, err)
	assert.Contains(t, out, "now switching between 4 layouts")
}

func TestDevices(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "devices")
	require.NoError(t, err)
	assert.Contains(t, out, "keychron-k3 (main)")
	assert.Contains(t, out, "layouts: us,ru,de,fr")
}

func TestSQLiteBackend(t *testing.T) {
	env := newTestEnv(t, "backend = \"sqlite\"\n")

	_, err := env.run(t, "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(env.dataHome, "kbswitch", "state.db"))
	assert.NoFileExists(t, env.statePath())

	_, err = env.run(t, "switch", "keychron-k3")
	require.NoError(t, err)
	assert.Contains(t, env.calls(t), "switchxkblayout keychron-k3 1")
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t, "backend = \"redis\"\n")

	_, err := env.run(t, "init")
	assert.Error(t, err)
	assert.NoFileExists(t, env.statePath())
}
