// internal/assistant/view.go
package assistant

import (
	"github.com/anatraveneta/escoba/engine"
	"github.com/google/uuid"
)

// SideView is one side's captured pile and running score.
type SideView struct {
	Captured []engine.Card    `json:"captured"`
	Sweeps   int              `json:"sweeps"`
	Score    engine.Breakdown `json:"score"`
}

// View is a JSON-ready snapshot of the session, safe to hand to a renderer.
type View struct {
	SessionID    uuid.UUID     `json:"sessionId"`
	RoundID      uuid.UUID     `json:"roundId,omitempty"`
	Started      bool          `json:"started"`
	Finished     bool          `json:"finished"`
	UserStarts   bool          `json:"userStarts"`
	Table        []engine.Card `json:"table"`
	Hand         []engine.Card `json:"hand"`
	UnseenCount  int           `json:"unseenCount"`
	NextDeal     int           `json:"nextDeal"`
	LastCapturer string        `json:"lastCapturer,omitempty"`
	Plays        []engine.Play `json:"plays"`
	Sides        [2]SideView   `json:"sides"`
	Standing     *Standing     `json:"standing,omitempty"`
}

// View builds a snapshot of the session. The returned slices are copies.
func (s *Session) View() View {
	st := s.Standing()

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.Round
	v := View{
		SessionID:   s.ID,
		RoundID:     s.RoundID,
		Started:     s.started,
		Finished:    r.Finished,
		UserStarts:  s.UserStarts,
		Table:       append([]engine.Card{}, r.Table...),
		Hand:        append([]engine.Card{}, r.Hand...),
		UnseenCount: len(r.Deck),
		NextDeal:    r.NextDealSize(),
		Plays:       append([]engine.Play{}, r.History...),
	}
	if r.LastCapturer != engine.NoPlayer {
		v.LastCapturer = r.LastCapturer.String()
	}
	scores := r.Standing()
	for p := range v.Sides {
		v.Sides[p] = SideView{
			Captured: append([]engine.Card{}, r.Captured[p]...),
			Sweeps:   r.Sweeps[p],
			Score:    scores[p],
		}
	}
	if s.started && !r.Finished {
		v.Standing = &st
	}
	return v
}
