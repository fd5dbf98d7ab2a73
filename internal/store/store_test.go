package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/storyreel/internal/domain"
)

func openStores(t *testing.T) map[string]*ProjectStore {
	t.Helper()
	disk, err := NewProjectStore(t.TempDir(), "http://localhost:5000")
	require.NoError(t, err)
	mem, err := NewProjectStore("", "")
	require.NoError(t, err)
	t.Cleanup(func() {
		disk.Close()
		mem.Close()
	})
	return map[string]*ProjectStore{"bolt": disk, "memory": mem}
}

func TestProjects(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok := s.GetProject("missing")
			assert.False(t, ok)

			for _, n := range []string{"zebra", "Apple", "mango"} {
				require.NoError(t, s.SaveProject(&domain.Project{Name: n, Scenes: domain.NewScenes([]string{"x."})}))
			}

			p, ok := s.GetProject("mango")
			require.True(t, ok)
			require.Len(t, p.Scenes, 1)
			assert.Equal(t, "scene_1", p.Scenes[0].ID)

			list, err := s.ListProjects()
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, "Apple", list[0].Name)
			assert.Equal(t, "mango", list[1].Name)
			assert.Equal(t, "zebra", list[2].Name)

			require.NoError(t, s.DeleteProject("zebra"))
			_, ok = s.GetProject("zebra")
			assert.False(t, ok)
			assert.ErrorIs(t, s.DeleteProject("zebra"), domain.ErrProjectNotFound)

			assert.ErrorIs(t, s.SaveProject(&domain.Project{Name: "  "}), domain.ErrInvalidProject)
		})
	}
}

func TestRenders(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SaveProject(&domain.Project{Name: "demo"}))
			require.NoError(t, s.SaveRender(domain.RenderRecord{ID: "a", Project: "demo", StartedAt: base}))
			require.NoError(t, s.SaveRender(domain.RenderRecord{ID: "b", Project: "demo", StartedAt: base.Add(time.Minute)}))
			require.NoError(t, s.SaveRender(domain.RenderRecord{ID: "c", Project: "other", StartedAt: base}))

			recs, err := s.ListRenders("demo")
			require.NoError(t, err)
			require.Len(t, recs, 2)
			assert.Equal(t, "b", recs[0].ID)
			assert.Equal(t, "a", recs[1].ID)

			// Updating a record replaces it
			recs[0].LocalFile = "/tmp/demo.mp4"
			require.NoError(t, s.SaveRender(recs[0]))
			recs, err = s.ListRenders("demo")
			require.NoError(t, err)
			assert.Equal(t, "/tmp/demo.mp4", recs[0].LocalFile)

			// Deleting a project drops its history
			require.NoError(t, s.DeleteProject("demo"))
			recs, err = s.ListRenders("demo")
			require.NoError(t, err)
			assert.Empty(t, recs)

			others, err := s.ListRenders("other")
			require.NoError(t, err)
			assert.Len(t, others, 1)

			assert.Error(t, s.SaveRender(domain.RenderRecord{Project: "demo"}))
		})
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewProjectStore(dir, "http://render.local/")
	require.NoError(t, err)
	require.NoError(t, s.SaveProject(&domain.Project{Name: "kept", Script: "Hello."}))
	require.NoError(t, s.Close())

	s, err = NewProjectStore(dir, "HTTP://render.local")
	require.NoError(t, err)
	defer s.Close()

	p, ok := s.GetProject("kept")
	require.True(t, ok)
	assert.Equal(t, "Hello.", p.Script)
}

func TestBackendsAreIsolated(t *testing.T) {
	dir := t.TempDir()
	a, err := NewProjectStore(dir, "http://a.local")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewProjectStore(dir, "http://b.local")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.SaveProject(&domain.Project{Name: "only-a"}))
	list, err := b.ListProjects()
	require.NoError(t, err)
	assert.Empty(t, list)
}
