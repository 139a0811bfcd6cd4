package providers

// BroadcasterInterface is the outbound half of the transport boundary.
// The chat adapter supplies a real implementation; the daemon only knows
// how to hand it addressed text.
type BroadcasterInterface interface {
	SendToChat(chatID, text string) error
	SendToUser(userID, text string) error
}

// LogBroadcaster is the default wired implementation: it records outbound
// payloads in the job log so the daemon is fully operable without a
// transport attached.
type LogBroadcaster struct {
	logger Logger
}

func NewBroadcastProvider(logger Logger) BroadcasterInterface {
	return &LogBroadcaster{logger: logger}
}

func (b *LogBroadcaster) SendToChat(chatID, text string) error {
	b.logger.Infof(TypeJob, "broadcast to chat %s: %s", chatID, text)
	return nil
}

func (b *LogBroadcaster) SendToUser(userID, text string) error {
	b.logger.Infof(TypeJob, "direct message to user %s: %s", userID, text)
	return nil
}
