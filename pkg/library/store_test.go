package library

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atelier-studio/atelier/pkg/agent"
	"github.com/atelier-studio/atelier/pkg/conversation"
)

func assistantTurn(ts int64, imageURL string) conversation.Turn {
	return conversation.Turn{
		Role:      conversation.RoleAssistant,
		Content:   "Here is your design",
		ImageURL:  imageURL,
		Specs:     &agent.DesignSpecification{BrandName: "Acme", Colors: []string{"orange"}},
		Timestamp: ts,
	}
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s := NewStore(NewFileRecord(dir))
	s.Load()
	return s, dir
}

func TestSave_RejectsTurnWithoutImage(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Save(assistantTurn(1000, ""), "prompt")
	require.ErrorIs(t, err, ErrNoImage)
	require.Equal(t, 0, s.Len())
}

func TestSave_InsertsAtHead(t *testing.T) {
	s, _ := newTestStore(t)
	first, err := s.Save(assistantTurn(1000, "http://x/1.png"), "first prompt")
	require.NoError(t, err)
	second, err := s.Save(assistantTurn(2000, "http://x/2.png"), "second prompt")
	require.NoError(t, err)

	designs := s.Designs()
	require.Len(t, designs, 2)
	require.Equal(t, second.ID, designs[0].ID)
	require.Equal(t, first.ID, designs[1].ID)
}

func TestSave_SnapshotsByValue(t *testing.T) {
	s, _ := newTestStore(t)
	turn := assistantTurn(1000, "http://x/1.png")
	design, err := s.Save(turn, "prompt")
	require.NoError(t, err)

	// mutating the source specs must not leak into the saved design
	turn.Specs.BrandName = "Changed"
	turn.Specs.Colors[0] = "blue"
	got, ok := s.Get(design.ID)
	require.True(t, ok)
	require.Equal(t, "Acme", got.Specs.BrandName)
	require.Equal(t, []string{"orange"}, got.Specs.Colors)
}

func TestSave_UniqueIDsForSameTimestamp(t *testing.T) {
	s, _ := newTestStore(t)
	a, err := s.Save(assistantTurn(1000, "http://x/1.png"), "p")
	require.NoError(t, err)
	b, err := s.Save(assistantTurn(1000, "http://x/2.png"), "p")
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)
	require.True(t, strings.HasPrefix(a.ID, "design_1000_"))
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	design, err := s.Save(assistantTurn(1000, "http://x/1.png"), "prompt")
	require.NoError(t, err)

	require.False(t, s.Delete("missing"))
	require.Equal(t, 1, s.Len())
	require.True(t, s.Delete(design.ID))
	require.Equal(t, 0, s.Len())
}

func TestFilter(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Save(assistantTurn(1000, "http://x/1.png"), "a modern coffee shop post")
	require.NoError(t, err)
	_, err = s.Save(assistantTurn(2000, "http://x/2.png"), "a vintage travel poster")
	require.NoError(t, err)

	all := s.Filter("")
	require.Len(t, all, 2)
	require.Equal(t, "a vintage travel poster", all[0].Prompt)

	matched := s.Filter("COFFEE")
	require.Len(t, matched, 1)
	require.Equal(t, "a modern coffee shop post", matched[0].Prompt)

	require.Empty(t, s.Filter("skyline"))
}

func TestPersistence_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(NewFileRecord(dir))
	s.Load()
	first, err := s.Save(assistantTurn(1000, "http://x/1.png"), "first prompt")
	require.NoError(t, err)
	second, err := s.Save(assistantTurn(2000, "http://x/2.png"), "second prompt")
	require.NoError(t, err)

	reloaded := NewStore(NewFileRecord(dir))
	reloaded.Load()
	designs := reloaded.Designs()
	require.Len(t, designs, 2)
	require.Equal(t, second, designs[0])
	require.Equal(t, first, designs[1])
}

func TestPersistence_RecordIsOneJSONArray(t *testing.T) {
	s, dir := newTestStore(t)
	_, err := s.Save(assistantTurn(1000, "http://x/1.png"), "prompt")
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, StorageKey))
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	require.Len(t, raw, 1)
	require.Equal(t, "http://x/1.png", raw[0]["imageUrl"])
}

func TestPersistence_DeletingLastDesignPersistsEmpty(t *testing.T) {
	s, dir := newTestStore(t)
	design, err := s.Save(assistantTurn(1000, "http://x/1.png"), "prompt")
	require.NoError(t, err)
	require.True(t, s.Delete(design.ID))

	reloaded := NewStore(NewFileRecord(dir))
	reloaded.Load()
	require.Equal(t, 0, reloaded.Len())
}

func TestLoad_MalformedRecordRecoversEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StorageKey), []byte("{not json"), 0o644))

	s := NewStore(NewFileRecord(dir))
	s.Load()
	require.Equal(t, 0, s.Len())

	// the store stays usable after a recovered load
	_, err := s.Save(assistantTurn(1000, "http://x/1.png"), "prompt")
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
}
