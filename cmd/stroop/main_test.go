package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stroop/config"
	"stroop/results"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.Save(path, config.DefaultConfig()))

	out, err := execute(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, path+": ok")
	assert.Contains(t, out, "training    12 trials (4 congruent, 4 incongruent, 4 control)")
	assert.Contains(t, out, "experiment  2 blocks x 60 trials")
	assert.Contains(t, out, "yellow=z red=x blue=n green=m, exit f7")
}

func TestCheck_Invalid(t *testing.T) {
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.ExpBlocks = 0
	path := filepath.Join(dir, "blocks.yaml")
	require.NoError(t, config.Save(path, cfg))
	_, err := execute(t, "check", path)
	assert.ErrorContains(t, err, "EXP_NO_BLOCKS")

	cfg = config.DefaultConfig()
	cfg.TextColor = "ochre"
	path = filepath.Join(dir, "colour.yaml")
	require.NoError(t, config.Save(path, cfg))
	_, err = execute(t, "check", path)
	assert.ErrorContains(t, err, "ochre")

	cfg = config.DefaultConfig()
	cfg.Triggers = map[string]string{"congruet": "1"}
	path = filepath.Join(dir, "triggers.yaml")
	require.NoError(t, config.Save(path, cfg))
	_, err = execute(t, "check", path)
	assert.ErrorContains(t, err, "congruet")

	_, err = execute(t, "check", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p01M20_beh.csv")
	table := results.NewTable()
	table.Append(results.Row{ParticipantID: "p01M20", Block: "1", Trial: 1, Key: "z", RT: 0.5, Correctness: results.CodeCorrect, Word: "zolty", Type: "congruent", Color: "yellow"})
	table.Append(results.Row{ParticipantID: "p01M20", Block: "1", Trial: 2, Key: "x", RT: 0.7, Correctness: results.CodeCorrect, Word: "zolty", Type: "incongruent", Color: "red"})
	require.NoError(t, table.Save(path))

	out, err := execute(t, "summary", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Stroop results: p01M20")
	assert.Contains(t, out, "stroop effect")

	_, err = execute(t, "summary")
	assert.Error(t, err)
}
