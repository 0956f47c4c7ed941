package models

// Event operations published to Kafka.
const (
	OperationUserRegistered  = "user_registered"
	OperationUserDeleted     = "user_deleted"
	OperationFeedbackCreated = "feedback_created"
	OperationFeedbackUpdated = "feedback_updated"
	OperationFeedbackDeleted = "feedback_deleted"
)

// Event represents a lifecycle change of a user account or a feedback entry.
type Event struct {
	EventID    string `json:"event_id"`              // EventID is a unique identifier for the event.
	Timestamp  int64  `json:"timestamp"`             // Timestamp is the Unix timestamp (in seconds) when the change happened.
	Username   string `json:"username"`              // Username is the account the change belongs to.
	Operation  string `json:"operation"`             // Operation is one of the Operation* constants.
	FeedbackID int64  `json:"feedback_id,omitempty"` // FeedbackID is set for feedback operations.
}
