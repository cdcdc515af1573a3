package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"learnassist/app/config"
	"learnassist/app/service/graph"
	"learnassist/app/util/geom"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(0, "Loops", nil, nil))
	require.NoError(t, g.AddNode(1, "Recursion, again", nil, nil))
	require.NoError(t, g.AddEdge(0, 1))
	require.NoError(t, g.AddEdge(0, 1))
	require.NoError(t, g.ToggleTag(0))

	payload := Payload{
		Graph:  g.Snapshot(),
		Layout: map[int]geom.Point{0: geom.Pt(-4, 12), 1: geom.Pt(30, 0)},
	}

	path := filepath.Join(t.TempDir(), "a.graph")
	s := NewWithChoosers(FixedChooser(path), FixedChooser(""))

	require.NoError(t, s.Serialize(path, payload))

	loaded, err := s.Deserialize(path)
	require.NoError(t, err)
	assert.Equal(t, payload, loaded)

	restored := graph.New()
	require.NoError(t, restored.Restore(loaded.Graph))
	assert.Equal(t, g.Nodes(), restored.Nodes())
	assert.True(t, restored.Tagged(0))
}

func TestDeserializeErrors(t *testing.T) {
	s := NewWithChoosers(FixedChooser(""), FixedChooser(""))
	dir := t.TempDir()

	_, err := s.Deserialize(filepath.Join(dir, "missing.graph"))
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.graph")
	require.NoError(t, os.WriteFile(garbage, []byte("not json\n"), 0644))
	_, err = s.Deserialize(garbage)
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.graph")
	require.NoError(t, os.WriteFile(unknown, []byte(`{"kind":"colour"}`+"\n"), 0644))
	_, err = s.Deserialize(unknown)
	assert.Error(t, err)
}

func TestImportScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "algorithms.txt")
	require.NoError(t, os.WriteFile(path, []byte("/addnode Arrays\n/addnode Sorting\n/addedge Arrays,Sorting\n"), 0644))

	s := NewWithChoosers(FixedChooser(""), FixedChooser(path))
	g := graph.New()

	require.NoError(t, s.ImportScript(path, g))
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []graph.Edge{{From: 0, To: 1}}, g.Edges())

	require.Error(t, s.ImportScript(filepath.Join(t.TempDir(), "missing.txt"), g))
}

func TestNewCreatesDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := &config.Config{}
	cfg.Files.SavesDir = filepath.Join(root, "saves")
	cfg.Files.BuilderDir = filepath.Join(root, "saves", "graph_builder")

	di := do.New()
	do.ProvideValue(di, cfg)

	s, err := New(di)
	require.NoError(t, err)

	assert.DirExists(t, cfg.Files.SavesDir)
	assert.DirExists(t, cfg.Files.BuilderDir)

	_, ok, err := s.Saves().OpenTarget()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirChooser(t *testing.T) {
	dir := t.TempDir()
	c := NewDirChooser(dir, SaveExt)
	c.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }

	handle, ok, err := c.SaveTarget()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "graph-20260301-093000.graph"), handle)

	_, ok, err = c.OpenTarget()
	require.NoError(t, err)
	assert.False(t, ok)

	older := filepath.Join(dir, "old.graph")
	newer := filepath.Join(dir, "new.graph")
	require.NoError(t, os.WriteFile(older, nil, 0644))
	require.NoError(t, os.WriteFile(newer, nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))
	require.NoError(t, os.Chtimes(older, time.Now().Add(-time.Hour), time.Now().Add(-time.Hour)))

	handle, ok, err = c.OpenTarget()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, newer, handle)
}

func TestFixedChooser(t *testing.T) {
	_, ok, err := FixedChooser("").OpenTarget()
	require.NoError(t, err)
	assert.False(t, ok)

	handle, ok, _ := FixedChooser("x.graph").SaveTarget()
	assert.True(t, ok)
	assert.Equal(t, "x.graph", handle)
}
