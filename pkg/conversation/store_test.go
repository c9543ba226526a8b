package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atelier-studio/atelier/pkg/agent"
)

// tickingClock returns a clock that advances one millisecond per call.
func tickingClock() func() time.Time {
	base := time.UnixMilli(1_700_000_000_000)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Millisecond)
	}
}

func TestAppendUserTurn_TrimsAndRejectsEmpty(t *testing.T) {
	s := NewStore()

	_, ok := s.AppendUserTurn("   ")
	require.False(t, ok)
	require.Equal(t, 0, s.Len())

	turn, ok := s.AppendUserTurn("  a minimal poster  ")
	require.True(t, ok)
	require.Equal(t, RoleUser, turn.Role)
	require.Equal(t, "a minimal poster", turn.Content)
	require.Equal(t, 1, s.Len())
}

func TestAppendUserTurn_RejectedWhileGenerating(t *testing.T) {
	s := NewStore()
	require.True(t, s.BeginGeneration())

	_, ok := s.AppendUserTurn("another prompt")
	require.False(t, ok)
	require.Equal(t, 0, s.Len())

	// a second generation must not start either
	require.False(t, s.BeginGeneration())

	s.EndGeneration()
	_, ok = s.AppendUserTurn("another prompt")
	require.True(t, ok)
}

func TestBeginSubmission(t *testing.T) {
	s := NewStore()

	_, ok := s.BeginSubmission("  ")
	require.False(t, ok)
	require.False(t, s.Generating())

	turn, ok := s.BeginSubmission(" make a poster ")
	require.True(t, ok)
	require.Equal(t, "make a poster", turn.Content)
	require.True(t, s.Generating())

	// in flight: no extra turn, no second generation
	_, ok = s.BeginSubmission("another")
	require.False(t, ok)
	require.Equal(t, 1, s.Len())

	s.EndGeneration()
	_, ok = s.BeginSubmission("another")
	require.True(t, ok)
	require.Equal(t, 2, s.Len())
}

func TestGenerationStateMachine(t *testing.T) {
	s := NewStore()
	require.False(t, s.Generating())
	require.True(t, s.BeginGeneration())
	require.True(t, s.Generating())
	s.EndGeneration()
	require.False(t, s.Generating())
	require.True(t, s.BeginGeneration())
}

func TestAppendOrder_UserThenAssistant(t *testing.T) {
	s := NewStoreWithClock(tickingClock())
	_, ok := s.AppendUserTurn("make a logo")
	require.True(t, ok)
	s.AppendAssistantTurn("Here you go", "http://x/logo.png", &agent.DesignSpecification{BrandName: "Acme"})

	turns := s.Turns()
	require.Len(t, turns, 2)
	require.Equal(t, RoleUser, turns[0].Role)
	require.Equal(t, RoleAssistant, turns[1].Role)
	require.Greater(t, turns[1].Timestamp, turns[0].Timestamp)
	require.True(t, turns[1].HasImage())
	require.Equal(t, "Acme", turns[1].Specs.BrandName)
}

func TestAppendErrorTurn_OnlyContent(t *testing.T) {
	s := NewStore()
	turn := s.AppendErrorTurn(FailureMessage)
	require.Equal(t, RoleAssistant, turn.Role)
	require.Equal(t, FailureMessage, turn.Content)
	require.False(t, turn.HasImage())
	require.Nil(t, turn.Specs)
}

func TestPromptBefore(t *testing.T) {
	s := NewStoreWithClock(tickingClock())
	assistant0 := s.AppendAssistantTurn("hello", "", nil)
	require.Equal(t, "", s.PromptBefore(assistant0.Timestamp))

	first, _ := s.AppendUserTurn("first prompt")
	s.AppendAssistantTurn("one", "http://x/1.png", nil)
	second, _ := s.AppendUserTurn("second prompt")
	assistant := s.AppendAssistantTurn("two", "http://x/2.png", nil)

	require.Equal(t, "second prompt", s.PromptBefore(assistant.Timestamp))
	require.Equal(t, "first prompt", s.PromptBefore(second.Timestamp))
	require.Equal(t, "", s.PromptBefore(first.Timestamp))
}

func TestFindAssistant(t *testing.T) {
	s := NewStoreWithClock(tickingClock())
	s.AppendUserTurn("prompt")
	turn := s.AppendAssistantTurn("done", "http://x/i.png", nil)

	got, ok := s.FindAssistant(turn.Timestamp)
	require.True(t, ok)
	require.Equal(t, turn, got)

	_, ok = s.FindAssistant(turn.Timestamp + 100)
	require.False(t, ok)
}
