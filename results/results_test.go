package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleTable() *Table {
	t := NewTable()
	t.Append(Row{ParticipantID: "p01M20", Block: TrainingBlock, Trial: 1, Key: "z", RT: 0.5234, Correctness: CodeCorrect, Word: "zolty", Type: "congruent", Color: "yellow"})
	t.Append(Row{ParticipantID: "p01M20", Block: "1", Trial: 1, Key: "no_key", RT: -1, Correctness: CodeNoResponse, Word: "stol", Type: "control", Color: "red"})
	t.Append(Row{ParticipantID: "p01M20", Block: "1", Trial: 2, Key: "x", RT: 0.61, Correctness: CodeIncorrect, Word: "czerwony", Type: "incongruent", Color: "blue"})
	return t
}

func TestSave_Golden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "p01M20_beh.csv")
	require.NoError(t, sampleTable().Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "results_csv", data)
}

func TestSave_EmptyTableWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, NewTable().Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(Header, ",")+"\n", string(data))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beh.csv")
	want := sampleTable()
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want.Len(), got.Len())
	assert.Equal(t, want.Rows()[2], got.Rows()[2])
	assert.True(t, got.Rows()[0].Training())
}

func TestLoad_ShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.csv")
	content := strings.Join(Header, ",") + "\np01,0,3,z,0.4,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, Row{ParticipantID: "p01", Block: "0", Trial: 3, Key: "z", RT: 0.4, Correctness: 1}, got.Rows()[0])
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"noheader.csv": "p01,1,1,z,0.4,1\n",
		"badrt.csv":    strings.Join(Header, ",") + "\np01,1,1,z,fast,1\n",
		"short.csv":    strings.Join(Header, ",") + "\np01,1,1\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	path := BehPath(dir, "p01M20")
	now := time.Date(2026, 10, 19, 14, 30, 5, 0, time.UTC)

	assert.Equal(t, path, UniquePath(path, now))

	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.Equal(t, filepath.Join(dir, "p01M20_beh_20261019-143005.csv"), UniquePath(path, now))
}

func TestSummarize(t *testing.T) {
	rows := []Row{
		{Block: TrainingBlock, Type: "congruent", Correctness: CodeIncorrect, RT: 9},
		{Block: "1", Type: "congruent", Correctness: CodeCorrect, RT: 0.5},
		{Block: "1", Type: "congruent", Correctness: CodeCorrect, RT: 0.7},
		{Block: "1", Type: "incongruent", Correctness: CodeCorrect, RT: 0.8},
		{Block: "2", Type: "incongruent", Correctness: CodeIncorrect, RT: 0.3},
		{Block: "2", Type: "control", Correctness: CodeNoResponse, RT: -1},
	}

	s := Summarize(rows)

	assert.Equal(t, 5, s.Overall.Trials)
	assert.Equal(t, 3, s.Overall.Correct)
	assert.Equal(t, 1, s.Overall.Errors)
	assert.Equal(t, 1, s.Overall.Misses)
	assert.InDelta(t, 0.6, s.Overall.Accuracy, 1e-9)
	assert.InDelta(t, (0.5+0.7+0.8)/3, s.Overall.MeanRT, 1e-9)

	con := s.Conditions["congruent"]
	assert.Equal(t, 2, con.Trials)
	assert.InDelta(t, 0.6, con.MeanRT, 1e-9)

	inc := s.Conditions["incongruent"]
	assert.InDelta(t, 0.5, inc.Accuracy, 1e-9)
	assert.InDelta(t, 0.8, inc.MeanRT, 1e-9)

	ctl := s.Conditions["control"]
	assert.Equal(t, 0.0, ctl.MeanRT)

	require.NotNil(t, s.StroopEffect)
	assert.InDelta(t, 0.2, *s.StroopEffect, 1e-9)
}

func TestSummarize_NoEffectWithoutBothConditions(t *testing.T) {
	s := Summarize([]Row{{Block: "1", Type: "congruent", Correctness: CodeCorrect, RT: 0.5}})
	assert.Nil(t, s.StroopEffect)
}

func TestSessionInfo(t *testing.T) {
	started := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	info := NewSessionInfo("p01M20", "config.yaml", started)
	assert.Len(t, info.ID, 36)

	info.Finish(sampleTable(), started.Add(10*time.Minute), assert.AnError)
	assert.True(t, info.Aborted)
	assert.Equal(t, 3, info.Trials)

	path := SummaryPath(t.TempDir(), "p01M20")
	require.NoError(t, info.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var loaded SessionInfo
	require.NoError(t, yaml.Unmarshal(data, &loaded))
	assert.Equal(t, info.ID, loaded.ID)
	assert.Equal(t, "p01M20", loaded.Participant)
	assert.True(t, loaded.Aborted)
	assert.Equal(t, 2, loaded.Summary.Overall.Trials)
}

func TestReport(t *testing.T) {
	table := sampleTable()
	table.Append(Row{ParticipantID: "p01M20", Block: "2", Trial: 1, Key: "z", RT: 0.45, Correctness: CodeCorrect, Type: "congruent"})
	table.Append(Row{ParticipantID: "p01M20", Block: "2", Trial: 2, Key: "n", RT: 0.72, Correctness: CodeCorrect, Type: "incongruent"})

	out := Report("p01M20", Summarize(table.Rows()), table.Rows())

	assert.Contains(t, out, "p01M20")
	assert.Contains(t, out, "incongruent")
	assert.Contains(t, out, "stroop effect")
	assert.Contains(t, out, "270 ms")
	assert.Contains(t, out, "reaction time of correct trials")
}
