package structures

// InboundEvent is the transport-agnostic shape of a chat command delivered
// to the daemon. The chat adapter owns addressing and delivery; the daemon
// only sees this.
type InboundEvent struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Command     string `json:"command"`
	Args        string `json:"args"`
	MessageID   string `json:"message_id,omitempty"`
	ChatID      string `json:"chat_id"`
	ChatName    string `json:"chat_name,omitempty"`
	ChatIsGroup bool   `json:"chat_is_group"`
}

// CommandResult is what the transport renders back to the user.
// Text never contains internal error detail.
type CommandResult struct {
	Success         bool     `json:"success"`
	Text            string   `json:"text"`
	NewAchievements []string `json:"new_achievements,omitempty"`
}

// Broadcast is an outbound message addressed to a group chat.
type Broadcast struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// DirectMessage is an outbound message addressed to a single user.
type DirectMessage struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}
