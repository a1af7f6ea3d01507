package desk

import (
	"time"

	"github.com/google/uuid"
)

// IntakeState is the step of the guided intake flow a user is currently in.
type IntakeState string

const (
	StateWelcome             IntakeState = "welcome"
	StateWaitingScreenshot   IntakeState = "waiting_screenshot"
	StateWaitingDescription  IntakeState = "waiting_description"
	StateScreenshotReceived  IntakeState = "screenshot_received"
	StateDescriptionReceived IntakeState = "description_received"
)

// RequestType distinguishes the two intake outcomes.
type RequestType string

const (
	RequestScreenshot RequestType = "screenshot"
	RequestHumanHelp  RequestType = "human_help"
)

// UserSession tracks one user's position in the intake flow.
// Owned by the Store, keyed by user ID. Lives until the process exits
// or the user restarts intake.
type UserSession struct {
	State       IntakeState
	DisplayName string
}

// PendingClaim is a submitted support request waiting for an agent to take it.
// At most one exists per user at a time.
type PendingClaim struct {
	ID          uuid.UUID
	UserID      string
	DisplayName string
	Type        RequestType
	Description string // set for human_help requests
	CreatedAt   time.Time
}

// ClaimOutcome is the result of a claim attempt.
type ClaimOutcome int

const (
	// ClaimAccepted means the caller won the claim and a pairing now exists.
	ClaimAccepted ClaimOutcome = iota
	// ClaimAlreadyTaken means another agent claimed first, or the request
	// no longer exists. A normal outcome of the race, not an error.
	ClaimAlreadyTaken
)

func (o ClaimOutcome) String() string {
	if o == ClaimAccepted {
		return "accepted"
	}
	return "already_taken"
}
