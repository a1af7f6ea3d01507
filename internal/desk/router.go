package desk

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Router classifies inbound events and drives the store. Relay for paired
// senders takes precedence over intake state, so a user mid-chat never falls
// back into intake prompts. Claim actions are routed to the claim protocol
// regardless of the sender's own session — they originate from agents.
type Router struct {
	store          *Store
	gw             Gateway
	supportGroupID string

	// live claim announce prompts, userID → PromptHandle, so a winning
	// claim can retract the CLAIM button from the group announcement
	announces sync.Map

	tracer trace.Tracer
}

// NewRouter wires the router to its store, gateway and the support group
// that receives claim announcements.
func NewRouter(store *Store, gw Gateway, supportGroupID string) *Router {
	return &Router{
		store:          store,
		gw:             gw,
		supportGroupID: supportGroupID,
		tracer:         otel.Tracer("github.com/nextlevelbuilder/deskrelay/internal/desk"),
	}
}

// HandleEvent dispatches one inbound event. Never returns an error: every
// failure mode here is recovered by prompting the sender.
func (r *Router) HandleEvent(ctx context.Context, ev Event) {
	ctx, span := r.tracer.Start(ctx, "desk.handle_event", trace.WithAttributes(
		attribute.String("desk.event_kind", ev.Kind.String()),
		attribute.String("desk.user_id", ev.UserID),
	))
	defer span.End()

	switch ev.Kind {
	case EventCommandStart:
		r.handleStart(ctx, ev)
	case EventActionInvoked:
		r.handleAction(ctx, ev)
	case EventImageReceived:
		r.handleImage(ctx, ev)
	case EventTextReceived:
		r.handleText(ctx, ev)
	case EventCommandEnd:
		r.handleEnd(ctx, ev)
	default:
		slog.Debug("unhandled event kind", "kind", ev.Kind)
	}
}

func (r *Router) handleStart(ctx context.Context, ev Event) {
	// A paired sender stays in relay even for /start.
	if partner, ok := r.store.Partner(ev.UserID); ok {
		_ = r.gw.SendText(ctx, partner, relayText(ev.DisplayName, "/start"))
		return
	}

	r.store.StartIntake(ev.UserID, ev.DisplayName)
	_, d := r.gw.SendActionPrompt(ctx, ev.UserID, welcomeText(ev.DisplayName), []Action{
		{Label: "📋 Yes, send screenshot", ID: ActionSendScreenshot},
		{Label: "❓ No, I need human help", ID: ActionHumanHelp},
	})
	if d == Failed {
		slog.Warn("welcome prompt delivery failed", "user_id", ev.UserID)
	}
}

func (r *Router) handleAction(ctx context.Context, ev Event) {
	if target, ok := ParseClaimAction(ev.ActionID); ok {
		r.handleClaim(ctx, ev, target)
		return
	}

	switch ev.ActionID {
	case ActionSendScreenshot:
		if err := r.store.ChooseScreenshotPath(ev.UserID); err != nil {
			slog.Debug("screenshot path rejected", "user_id", ev.UserID, "error", err)
			_ = r.gw.SendText(ctx, ev.UserID, msgRestartPrompt)
			return
		}
		r.retractPrompt(ctx, ev.Prompt)
		_ = r.gw.SendText(ctx, ev.UserID, msgScreenshotInstructions)

	case ActionHumanHelp:
		if err := r.store.ChooseHumanHelpPath(ev.UserID); err != nil {
			slog.Debug("human help path rejected", "user_id", ev.UserID, "error", err)
			_ = r.gw.SendText(ctx, ev.UserID, msgRestartPrompt)
			return
		}
		r.retractPrompt(ctx, ev.Prompt)
		_ = r.gw.SendText(ctx, ev.UserID, msgDescriptionRequest)

	default:
		slog.Debug("unknown action", "action_id", ev.ActionID, "user_id", ev.UserID)
	}
}

// handleClaim runs the claim protocol for agentID ev.UserID against the
// pending request of target.
func (r *Router) handleClaim(ctx context.Context, ev Event, target string) {
	outcome, claim := r.store.Claim(target, ev.UserID)
	slog.Info("claim attempt",
		"request_user_id", target,
		"agent_id", ev.UserID,
		"outcome", outcome.String(),
	)

	if outcome != ClaimAccepted {
		_ = r.gw.SendText(ctx, ev.UserID, msgAlreadyClaimed)
		return
	}

	// Retract the CLAIM button: prefer the prompt the agent tapped, fall
	// back to the remembered announce handle.
	handle := ev.Prompt
	if handle == nil {
		if h, ok := r.announces.Load(target); ok {
			ph := h.(PromptHandle)
			handle = &ph
		}
	}
	r.retractPrompt(ctx, handle)
	r.announces.Delete(target)

	if d := r.gw.SendText(ctx, ev.UserID, agentClaimedText(target)); d == Failed {
		slog.Warn("claim confirmation delivery failed", "agent_id", ev.UserID, "claim_id", claim.ID)
	}
	// Best effort: the pairing stands even if the user is unreachable.
	_ = r.gw.SendText(ctx, target, agentJoinedText(ev.DisplayName))
}

func (r *Router) handleImage(ctx context.Context, ev Event) {
	if partner, ok := r.store.Partner(ev.UserID); ok {
		_ = r.gw.SendText(ctx, partner, relayPhotoText(ev.DisplayName))
		return
	}

	claim, err := r.store.SubmitScreenshot(ev.UserID)
	if err != nil {
		_ = r.gw.SendText(ctx, ev.UserID, msgRestartPrompt)
		return
	}

	_ = r.gw.SendText(ctx, ev.UserID, msgScreenshotAck)
	r.announce(ctx, claim)
}

func (r *Router) handleText(ctx context.Context, ev Event) {
	if partner, ok := r.store.Partner(ev.UserID); ok {
		_ = r.gw.SendText(ctx, partner, relayText(ev.DisplayName, ev.Text))
		return
	}

	claim, err := r.store.SubmitDescription(ev.UserID, ev.Text)
	if err != nil {
		_ = r.gw.SendText(ctx, ev.UserID, msgRestartPrompt)
		return
	}

	_ = r.gw.SendText(ctx, ev.UserID, msgDescriptionAck)
	r.announce(ctx, claim)
}

func (r *Router) handleEnd(ctx context.Context, ev Event) {
	partner, ok := r.store.EndPairing(ev.UserID)
	if !ok {
		_ = r.gw.SendText(ctx, ev.UserID, msgNoActiveChat)
		return
	}

	slog.Info("pairing ended", "by", ev.UserID, "partner", partner)
	_ = r.gw.SendText(ctx, ev.UserID, msgChatEnded)
	_ = r.gw.SendText(ctx, partner, chatEndedByPartnerText(ev.DisplayName))
}

// announce broadcasts a new pending claim to the support group with a single
// CLAIM action and remembers the prompt handle for retraction.
func (r *Router) announce(ctx context.Context, claim PendingClaim) {
	handle, d := r.gw.SendActionPrompt(ctx, r.supportGroupID, announceText(claim), []Action{
		{Label: claimButtonLabel, ID: ClaimActionID(claim.UserID)},
	})
	if d == Failed {
		slog.Warn("claim announcement delivery failed",
			"claim_id", claim.ID,
			"user_id", claim.UserID,
			"type", string(claim.Type),
		)
		return
	}
	r.announces.Store(claim.UserID, handle)
	slog.Info("claim announced",
		"claim_id", claim.ID,
		"user_id", claim.UserID,
		"type", string(claim.Type),
	)
}

func (r *Router) retractPrompt(ctx context.Context, handle *PromptHandle) {
	if handle == nil {
		return
	}
	_ = r.gw.EditPromptActions(ctx, *handle, nil)
}
