package service

// Broadcaster sends real-time job-progress events to connected clients.
// Implemented by the WebSocket hub.
type Broadcaster interface {
	BroadcastJobEvent(jobID string, eventType string, data any)
}

// NoopBroadcaster is a no-op implementation for testing or when WS is disabled.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastJobEvent(string, string, any) {}
