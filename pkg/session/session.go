package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/atelier-studio/atelier/pkg/agent"
	"github.com/atelier-studio/atelier/pkg/conversation"
	"github.com/atelier-studio/atelier/pkg/history"
	"github.com/atelier-studio/atelier/pkg/library"
	"github.com/atelier-studio/atelier/pkg/view"
)

// Session wires the agent client and the three state containers together.
// The terminal UI and the web server both drive their interactions through
// it, so the single-writer invariant per store holds regardless of front end.
type Session struct {
	client  *agent.Client
	agentID string

	Conversation *conversation.Store
	Library      *library.Store
	View         *view.Coordinator

	hist *history.SQLiteHistory
}

func New(client *agent.Client, agentID string, conv *conversation.Store, lib *library.Store, coord *view.Coordinator, hist *history.SQLiteHistory) *Session {
	return &Session{
		client:       client,
		agentID:      agentID,
		Conversation: conv,
		Library:      lib,
		View:         coord,
		hist:         hist,
	}
}

// Generate runs one prompt through the agent: append the user turn, call
// out, append exactly one assistant turn (success or error). It returns the
// assistant turn, or false when the submission was rejected (empty prompt or
// a generation already in flight) — in that case no request went out.
func (s *Session) Generate(ctx context.Context, prompt string) (conversation.Turn, bool) {
	userTurn, ok := s.Begin(prompt)
	if !ok {
		return conversation.Turn{}, false
	}
	return s.Finish(ctx, userTurn), true
}

// Begin atomically validates the prompt, appends the user turn and flips the
// conversation into generating. A caller that must answer the submitter
// before the agent round-trip completes (the web server) uses Begin to decide
// accept-vs-reject, then runs Finish asynchronously.
func (s *Session) Begin(prompt string) (conversation.Turn, bool) {
	userTurn, ok := s.Conversation.BeginSubmission(prompt)
	if !ok {
		log.Debug().Msg("submission rejected, no request sent")
		return conversation.Turn{}, false
	}
	return userTurn, true
}

// Finish completes a submission started with Begin: it calls the agent and
// appends exactly one assistant turn, success or error, releasing the
// generating state when done.
func (s *Session) Finish(ctx context.Context, userTurn conversation.Turn) conversation.Turn {
	defer s.Conversation.EndGeneration()

	start := time.Now()
	result, err := s.client.Submit(ctx, userTurn.Content, s.agentID)
	if err != nil {
		log.Error().Err(err).Msg("agent request failed")
		turn := s.Conversation.AppendErrorTurn(conversation.TransportFailureMessage)
		s.hist.Record(ctx, history.Generation{
			AgentID:  s.agentID,
			Prompt:   userTurn.Content,
			Outcome:  history.OutcomeTransport,
			Err:      err.Error(),
			Duration: time.Since(start),
		})
		return turn
	}
	if !result.Success {
		log.Warn().Msg("agent reported failure")
		turn := s.Conversation.AppendErrorTurn(conversation.FailureMessage)
		s.hist.Record(ctx, history.Generation{
			AgentID:  s.agentID,
			Prompt:   userTurn.Content,
			Outcome:  history.OutcomeFailure,
			Duration: time.Since(start),
		})
		return turn
	}

	g := agent.Normalize(result)
	var specs *agent.DesignSpecification
	if !g.Specs.IsZero() {
		sp := g.Specs
		specs = &sp
	}
	turn := s.Conversation.AppendAssistantTurn(g.Explanation, g.ImageURL, specs)
	s.hist.Record(ctx, history.Generation{
		AgentID:     s.agentID,
		Prompt:      userTurn.Content,
		Outcome:     history.OutcomeSuccess,
		ImageURL:    g.ImageURL,
		Explanation: g.Explanation,
		Duration:    time.Since(start),
	})
	return turn
}

// SaveDesign promotes an assistant turn into the library, correlating it
// with the nearest preceding user prompt.
func (s *Session) SaveDesign(turn conversation.Turn) (library.SavedDesign, error) {
	prompt := s.Conversation.PromptBefore(turn.Timestamp)
	return s.Library.Save(turn, prompt)
}

// ErrNoSuchTurn is returned when saving by a timestamp that matches no
// assistant turn.
var ErrNoSuchTurn = errors.New("no assistant turn at timestamp")

// SaveDesignAt promotes the assistant turn with the given timestamp.
func (s *Session) SaveDesignAt(ts int64) (library.SavedDesign, error) {
	turn, ok := s.Conversation.FindAssistant(ts)
	if !ok {
		return library.SavedDesign{}, ErrNoSuchTurn
	}
	return s.SaveDesign(turn)
}

// DeleteDesign removes a saved design and clears the inspection selection
// when the deleted design was under inspection.
func (s *Session) DeleteDesign(id string) bool {
	if !s.Library.Delete(id) {
		return false
	}
	s.View.HandleDeleted(id)
	return true
}
