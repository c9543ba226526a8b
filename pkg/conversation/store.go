package conversation

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/atelier-studio/atelier/pkg/agent"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Fixed user-facing messages for the two failure paths. Both surface as
// ordinary assistant turns so a failed generation and a failed transport look
// the same in the transcript.
const (
	FailureMessage          = "Failed to generate design. Please try again."
	TransportFailureMessage = "An error occurred while generating your design."
)

// Turn is one entry in the conversation log. Turns are immutable once
// appended; the timestamp (unix milliseconds) doubles as the correlation key
// between an assistant turn and the prompt that produced it.
type Turn struct {
	Role      Role                       `json:"role"`
	Content   string                     `json:"content"`
	ImageURL  string                     `json:"imageUrl,omitempty"`
	Specs     *agent.DesignSpecification `json:"specs,omitempty"`
	Timestamp int64                      `json:"timestamp"`
}

// HasImage reports whether the turn carries a generated image.
func (t Turn) HasImage() bool { return t.ImageURL != "" }

// Store is an append-only log of conversation turns plus the
// idle/generating state machine. Only one generation may be in flight at a
// time; user submissions while generating are rejected, not queued.
type Store struct {
	mu         sync.Mutex
	turns      []Turn
	generating bool

	now func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// NewStoreWithClock builds a store with an injected clock. Turn timestamps
// come from the clock verbatim, so tests can force distinct milliseconds.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

// AppendUserTurn appends a user turn with the trimmed prompt text. It
// returns false without appending when the text is empty after trimming or
// while a generation is in flight.
func (s *Store) AppendUserTurn(text string) (Turn, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Turn{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating {
		log.Debug().Msg("submission rejected, generation in flight")
		return Turn{}, false
	}
	turn := Turn{Role: RoleUser, Content: trimmed, Timestamp: s.now().UnixMilli()}
	s.turns = append(s.turns, turn)
	return turn, true
}

// BeginSubmission atomically appends a user turn and marks the generation
// as in flight. It fails without side effects when the trimmed text is empty
// or a generation is already running, so a rejected submission never leaves
// a dangling user turn and never lets a second request out.
func (s *Store) BeginSubmission(text string) (Turn, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Turn{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating {
		log.Debug().Msg("submission rejected, generation in flight")
		return Turn{}, false
	}
	turn := Turn{Role: RoleUser, Content: trimmed, Timestamp: s.now().UnixMilli()}
	s.turns = append(s.turns, turn)
	s.generating = true
	return turn, true
}

// BeginGeneration marks a generation as in flight. It returns false when one
// is already running, in which case the caller must not issue a request.
func (s *Store) BeginGeneration() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating {
		return false
	}
	s.generating = true
	return true
}

func (s *Store) EndGeneration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
}

func (s *Store) Generating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

// AppendAssistantTurn appends a successful agent response.
func (s *Store) AppendAssistantTurn(explanation, imageURL string, specs *agent.DesignSpecification) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turn := Turn{
		Role:      RoleAssistant,
		Content:   explanation,
		ImageURL:  imageURL,
		Specs:     specs,
		Timestamp: s.now().UnixMilli(),
	}
	s.turns = append(s.turns, turn)
	return turn
}

// AppendErrorTurn appends an assistant turn carrying only the given message.
// Reported agent failures and transport failures both go through here.
func (s *Store) AppendErrorTurn(message string) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turn := Turn{Role: RoleAssistant, Content: message, Timestamp: s.now().UnixMilli()}
	s.turns = append(s.turns, turn)
	return turn
}

// Turns returns a copy of the conversation log in append order.
func (s *Store) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// PromptBefore returns the content of the latest user turn whose timestamp
// is strictly earlier than ts, or "" when there is none.
func (s *Store) PromptBefore(ts int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.turns) - 1; i >= 0; i-- {
		if s.turns[i].Role == RoleUser && s.turns[i].Timestamp < ts {
			return s.turns[i].Content
		}
	}
	return ""
}

// FindAssistant returns the assistant turn with the given timestamp.
func (s *Store) FindAssistant(ts int64) (Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.turns) - 1; i >= 0; i-- {
		if s.turns[i].Role == RoleAssistant && s.turns[i].Timestamp == ts {
			return s.turns[i], true
		}
	}
	return Turn{}, false
}
