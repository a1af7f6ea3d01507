package desk

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrIntakeNotStarted is returned when an intake operation arrives for a
	// user with no session. The caller prompts the user to restart.
	ErrIntakeNotStarted = errors.New("intake not started")

	// ErrInvalidTransition is returned when an intake operation is attempted
	// outside its required state.
	ErrInvalidTransition = errors.New("invalid intake transition")
)

// Store owns the three coordination maps: user sessions, pending claims and
// active pairings. All three are guarded by one mutex — the claim protocol
// needs queue and pairing table read-then-written as a single atomic step,
// and routing decisions must not observe a half-applied transition.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*UserSession
	pending  map[string]*PendingClaim
	pairings map[string]string // user→agent and agent→user

	now func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*UserSession),
		pending:  make(map[string]*PendingClaim),
		pairings: make(map[string]string),
		now:      time.Now,
	}
}

// StartIntake (re)creates the user's session in the welcome state. Always
// succeeds; any prior intake progress and any pending claim for the user are
// abandoned. An active pairing is not touched — relay takes precedence over
// intake, so routing never lets a paired user reach this.
func (s *Store) StartIntake(userID, displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[userID] = &UserSession{State: StateWelcome, DisplayName: displayName}
	delete(s.pending, userID)
}

// ChooseScreenshotPath moves the user from welcome to waiting_screenshot.
func (s *Store) ChooseScreenshotPath(userID string) error {
	return s.transition(userID, StateWelcome, StateWaitingScreenshot)
}

// ChooseHumanHelpPath moves the user from welcome to waiting_description.
func (s *Store) ChooseHumanHelpPath(userID string) error {
	return s.transition(userID, StateWelcome, StateWaitingDescription)
}

func (s *Store) transition(userID string, from, to IntakeState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return ErrIntakeNotStarted
	}
	if sess.State != from {
		return ErrInvalidTransition
	}
	sess.State = to
	return nil
}

// SubmitScreenshot completes a screenshot intake: valid only from
// waiting_screenshot. On success the user's pending claim is created and
// returned for announcement.
func (s *Store) SubmitScreenshot(userID string) (PendingClaim, error) {
	return s.submit(userID, StateWaitingScreenshot, StateScreenshotReceived, RequestScreenshot, "")
}

// SubmitDescription completes a human-help intake: valid only from
// waiting_description.
func (s *Store) SubmitDescription(userID, text string) (PendingClaim, error) {
	return s.submit(userID, StateWaitingDescription, StateDescriptionReceived, RequestHumanHelp, text)
}

func (s *Store) submit(userID string, from, to IntakeState, typ RequestType, description string) (PendingClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return PendingClaim{}, ErrIntakeNotStarted
	}
	if sess.State != from {
		return PendingClaim{}, ErrInvalidTransition
	}

	sess.State = to
	claim := &PendingClaim{
		ID:          uuid.New(),
		UserID:      userID,
		DisplayName: sess.DisplayName,
		Type:        typ,
		Description: description,
		CreatedAt:   s.now(),
	}
	s.pending[userID] = claim
	return *claim, nil
}

// Claim attempts to assign the pending request of requestUserID to agentID.
// First committer wins: the pending entry is removed and both pairing
// directions are inserted in one critical section, so concurrent claims for
// the same request resolve to exactly one ClaimAccepted. An agent already in
// a pairing is refused too — each side participates in at most one pairing,
// and an overwrite would leave the agent's previous partner relaying into a
// dead link.
func (s *Store) Claim(requestUserID, agentID string) (ClaimOutcome, PendingClaim) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, paired := s.pairings[requestUserID]; paired {
		return ClaimAlreadyTaken, PendingClaim{}
	}
	if _, busy := s.pairings[agentID]; busy {
		return ClaimAlreadyTaken, PendingClaim{}
	}
	claim, ok := s.pending[requestUserID]
	if !ok {
		return ClaimAlreadyTaken, PendingClaim{}
	}

	delete(s.pending, requestUserID)
	s.pairings[requestUserID] = agentID
	s.pairings[agentID] = requestUserID
	return ClaimAccepted, *claim
}

// Partner returns the chat partner of id if id is part of an active pairing.
func (s *Store) Partner(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	partner, ok := s.pairings[id]
	return partner, ok
}

// EndPairing tears down the pairing id participates in, removing both
// directional entries. Returns the former partner.
func (s *Store) EndPairing(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	partner, ok := s.pairings[id]
	if !ok {
		return "", false
	}
	delete(s.pairings, id)
	delete(s.pairings, partner)
	return partner, true
}

// Session returns a copy of the user's session.
func (s *Store) Session(userID string) (UserSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return UserSession{}, false
	}
	return *sess, true
}

// PendingSnapshot returns copies of all pending claims. The reminder sweep
// iterates this snapshot so a claim accepted mid-sweep is never re-notified
// and outbound sends happen without holding the store lock.
func (s *Store) PendingSnapshot() []PendingClaim {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PendingClaim, 0, len(s.pending))
	for _, c := range s.pending {
		out = append(out, *c)
	}
	return out
}
