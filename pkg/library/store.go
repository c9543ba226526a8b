package library

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/atelier-studio/atelier/pkg/agent"
	"github.com/atelier-studio/atelier/pkg/conversation"
)

// SavedDesign is a point-in-time snapshot of an assistant turn and the
// prompt that produced it. It keeps no live link back to the conversation.
type SavedDesign struct {
	ID          string                     `json:"id"`
	ImageURL    string                     `json:"imageUrl"`
	Prompt      string                     `json:"prompt"`
	Timestamp   int64                      `json:"timestamp"`
	Specs       *agent.DesignSpecification `json:"specs,omitempty"`
	Explanation string                     `json:"explanation,omitempty"`
}

// ErrNoImage is returned when saving a turn that carries no image.
var ErrNoImage = errors.New("turn has no image")

// Store is the durable collection of saved designs. The in-memory slice is
// head-first (most recent first); every successful mutation rewrites the
// persisted record, including mutations that empty the collection.
type Store struct {
	mu      sync.Mutex
	designs []SavedDesign
	record  Record
}

func NewStore(record Record) *Store {
	return &Store{record: record}
}

// Load reads the persisted record. Malformed or unreadable data is logged
// and treated as an empty library; Load never fails outward.
func (s *Store) Load() {
	designs, err := s.record.Read()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load saved designs, starting with empty library")
		designs = nil
	}
	s.mu.Lock()
	s.designs = designs
	s.mu.Unlock()
	log.Debug().Int("count", len(designs)).Msg("library loaded")
}

// Save snapshots an assistant turn into the library and inserts it at the
// head. The prompt is the caller-resolved text of the nearest preceding user
// turn (empty when none was found). Turns without an image are rejected.
func (s *Store) Save(turn conversation.Turn, prompt string) (SavedDesign, error) {
	if !turn.HasImage() {
		return SavedDesign{}, ErrNoImage
	}
	design := SavedDesign{
		ID:          newDesignID(turn.Timestamp),
		ImageURL:    turn.ImageURL,
		Prompt:      prompt,
		Timestamp:   turn.Timestamp,
		Specs:       copySpecs(turn.Specs),
		Explanation: turn.Content,
	}
	s.mu.Lock()
	s.designs = append([]SavedDesign{design}, s.designs...)
	s.persistLocked()
	s.mu.Unlock()
	log.Info().Str("id", design.ID).Str("image_url", design.ImageURL).Msg("design saved to library")
	return design, nil
}

// Delete removes the design with the given id and reports whether anything
// was removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.designs {
		if d.ID == id {
			s.designs = append(s.designs[:i], s.designs[i+1:]...)
			s.persistLocked()
			log.Info().Str("id", id).Msg("design deleted from library")
			return true
		}
	}
	return false
}

// Filter returns the designs whose prompt contains query case-insensitively,
// preserving stored (most-recent-first) order. An empty query returns the
// whole collection.
func (s *Store) Filter(query string) []SavedDesign {
	s.mu.Lock()
	defer s.mu.Unlock()
	if query == "" {
		out := make([]SavedDesign, len(s.designs))
		copy(out, s.designs)
		return out
	}
	q := strings.ToLower(query)
	var out []SavedDesign
	for _, d := range s.designs {
		if strings.Contains(strings.ToLower(d.Prompt), q) {
			out = append(out, d)
		}
	}
	return out
}

// Designs returns a copy of the full collection, head-first.
func (s *Store) Designs() []SavedDesign {
	return s.Filter("")
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.designs)
}

// Get returns the design with the given id.
func (s *Store) Get(id string) (SavedDesign, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.designs {
		if d.ID == id {
			return d, true
		}
	}
	return SavedDesign{}, false
}

// persistLocked rewrites the whole record. Write failures are logged and
// swallowed; the in-memory collection stays authoritative for the session.
func (s *Store) persistLocked() {
	designs := make([]SavedDesign, len(s.designs))
	copy(designs, s.designs)
	if err := s.record.Write(designs); err != nil {
		log.Error().Err(err).Msg("failed to persist library record")
	}
}

// newDesignID combines the source turn's timestamp with a random suffix so
// two designs saved within the same clock tick cannot collide. The timestamp
// field on SavedDesign stays a pure display/sort key.
func newDesignID(ts int64) string {
	return fmt.Sprintf("design_%d_%s", ts, uuid.NewString()[:8])
}

func copySpecs(specs *agent.DesignSpecification) *agent.DesignSpecification {
	if specs == nil {
		return nil
	}
	out := *specs
	out.Colors = append([]string(nil), specs.Colors...)
	out.GeometricElements = append([]string(nil), specs.GeometricElements...)
	out.LogoPlacement = append([]string(nil), specs.LogoPlacement...)
	return &out
}
