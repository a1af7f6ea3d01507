package desk

import "fmt"

// User-facing texts, kept together so wording changes stay one-file.

const (
	msgScreenshotInstructions = "Please send your trade screenshot now.\n\nI will save it and notify an agent to review your case within 4 hours."
	msgDescriptionRequest     = "You will be transferred to an agent within 4 hours.\n\nPlease describe your issue below:"
	msgScreenshotAck          = "Screenshot received! An agent will contact you within 4 hours."
	msgDescriptionAck         = "Agent notified! An agent will contact you within 4 hours."
	msgRestartPrompt          = "Please use /start to begin support."
	msgAlreadyClaimed         = "Already claimed."
	msgNoActiveChat           = "You have no active chat."
	msgChatEnded              = "Chat ended. Use /start if you need support again."

	claimButtonLabel = "🔥 CLAIM"
)

func welcomeText(displayName string) string {
	return fmt.Sprintf("Hello %s!\n\nWould you like to send a trade screenshot for Loss Coverage?\n\nChoose an option below:", displayName)
}

func announceText(c PendingClaim) string {
	switch c.Type {
	case RequestHumanHelp:
		return fmt.Sprintf("NEW HUMAN HELP REQUEST\nUser: %s (ID: %s)\nIssue: %s", c.DisplayName, c.UserID, c.Description)
	default:
		return fmt.Sprintf("NEW SCREENSHOT CLAIM\nUser: %s (ID: %s)", c.DisplayName, c.UserID)
	}
}

func agentClaimedText(userID string) string {
	return fmt.Sprintf("You have claimed the request. You can now chat with the user (ID: %s).", userID)
}

func agentJoinedText(agentName string) string {
	return fmt.Sprintf("Agent %s has joined the chat! You can now chat directly.", agentName)
}

func relayText(senderName, text string) string {
	return fmt.Sprintf("%s: %s", senderName, text)
}

func relayPhotoText(senderName string) string {
	return fmt.Sprintf("%s sent a photo.", senderName)
}

func chatEndedByPartnerText(partnerName string) string {
	return fmt.Sprintf("%s has left the chat.", partnerName)
}
