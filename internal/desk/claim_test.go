package desk

import (
	"fmt"
	"sync"
	"testing"
)

func submitHumanHelp(t *testing.T, s *Store, userID, name, issue string) PendingClaim {
	t.Helper()
	s.StartIntake(userID, name)
	if err := s.ChooseHumanHelpPath(userID); err != nil {
		t.Fatalf("choose: %v", err)
	}
	claim, err := s.SubmitDescription(userID, issue)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return claim
}

func TestClaimFirstCommitterWins(t *testing.T) {
	s := NewStore()
	submitHumanHelp(t, s, "u1", "Alice", "issue")

	outcome, claim := s.Claim("u1", "a1")
	if outcome != ClaimAccepted {
		t.Fatalf("first claim outcome = %v, want accepted", outcome)
	}
	if claim.UserID != "u1" || claim.Type != RequestHumanHelp {
		t.Errorf("claim payload = %+v", claim)
	}

	if outcome, _ := s.Claim("u1", "a2"); outcome != ClaimAlreadyTaken {
		t.Errorf("second claim outcome = %v, want already_taken", outcome)
	}

	if partner, _ := s.Partner("u1"); partner != "a1" {
		t.Errorf("u1 partner = %q, want a1", partner)
	}
	if partner, _ := s.Partner("a1"); partner != "u1" {
		t.Errorf("a1 partner = %q, want u1", partner)
	}
	if got := len(s.PendingSnapshot()); got != 0 {
		t.Errorf("pending claims = %d, want 0", got)
	}
}

func TestClaimWithoutPending(t *testing.T) {
	s := NewStore()
	if outcome, _ := s.Claim("nobody", "a1"); outcome != ClaimAlreadyTaken {
		t.Errorf("outcome = %v, want already_taken", outcome)
	}
	if _, ok := s.Partner("a1"); ok {
		t.Error("pairing created for missing request")
	}
}

// Many agents race for the same request: exactly one wins, the pairing table
// ends with one entry for the user.
func TestClaimConcurrentExactlyOneAccepted(t *testing.T) {
	const agents = 64

	s := NewStore()
	submitHumanHelp(t, s, "u1", "Alice", "issue")

	var wg sync.WaitGroup
	outcomes := make([]ClaimOutcome, agents)
	wg.Add(agents)
	for i := 0; i < agents; i++ {
		go func(i int) {
			defer wg.Done()
			outcomes[i], _ = s.Claim("u1", fmt.Sprintf("agent-%d", i))
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, o := range outcomes {
		if o == ClaimAccepted {
			accepted++
		}
	}
	if accepted != 1 {
		t.Fatalf("accepted claims = %d, want exactly 1", accepted)
	}

	winner, ok := s.Partner("u1")
	if !ok {
		t.Fatal("u1 has no pairing after the race")
	}
	if back, _ := s.Partner(winner); back != "u1" {
		t.Errorf("winner %q maps back to %q, want u1", winner, back)
	}
	if got := len(s.PendingSnapshot()); got != 0 {
		t.Errorf("pending claims = %d, want 0", got)
	}
}

// An agent mid-chat cannot take a second request: the first pairing must
// survive intact and the second request stays pending for other agents.
func TestClaimRefusedWhileAgentPaired(t *testing.T) {
	s := NewStore()
	submitHumanHelp(t, s, "u1", "Alice", "first issue")
	submitHumanHelp(t, s, "u2", "Bob", "second issue")

	if outcome, _ := s.Claim("u1", "a1"); outcome != ClaimAccepted {
		t.Fatal("setup claim failed")
	}

	if outcome, _ := s.Claim("u2", "a1"); outcome != ClaimAlreadyTaken {
		t.Errorf("busy agent claim outcome = %v, want already_taken", outcome)
	}
	if partner, _ := s.Partner("a1"); partner != "u1" {
		t.Errorf("a1 partner = %q, want u1", partner)
	}
	if partner, _ := s.Partner("u1"); partner != "a1" {
		t.Errorf("u1 partner = %q, want a1", partner)
	}
	if got := len(s.PendingSnapshot()); got != 1 {
		t.Fatalf("pending claims = %d, want u2 still queued", got)
	}

	// A free agent can still take it, and the agent is free again after /end.
	if outcome, _ := s.Claim("u2", "a2"); outcome != ClaimAccepted {
		t.Error("free agent refused")
	}
	if _, ok := s.EndPairing("a1"); !ok {
		t.Fatal("end pairing failed")
	}
	submitHumanHelp(t, s, "u3", "Cara", "third issue")
	if outcome, _ := s.Claim("u3", "a1"); outcome != ClaimAccepted {
		t.Error("agent still refused after ending their chat")
	}
}

func TestParseClaimAction(t *testing.T) {
	tests := []struct {
		actionID string
		wantUser string
		wantOK   bool
	}{
		{"claim_12345", "12345", true},
		{ClaimActionID("u9"), "u9", true},
		{"claim_", "", false},
		{"send_screenshot", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		user, ok := ParseClaimAction(tt.actionID)
		if user != tt.wantUser || ok != tt.wantOK {
			t.Errorf("ParseClaimAction(%q) = (%q, %v), want (%q, %v)",
				tt.actionID, user, ok, tt.wantUser, tt.wantOK)
		}
	}
}
