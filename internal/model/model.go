package model

// Notification types carried in the push data payload under "notification_type".
const (
	NotificationMissionFailed      = "MISSION_FAILED"
	NotificationMissionSuccess     = "MISSION_SUCCESS"
	NotificationSupporterAccepted  = "SUPPORTER_ACCEPTED"
	NotificationSupporterDismissed = "SUPPORTER_DISMISSED"
)

// WebhookPayload is the body a database change webhook posts for an UPDATE.
type WebhookPayload[T any] struct {
	Type      string `json:"type"`
	Table     string `json:"table"`
	Schema    string `json:"schema"`
	Record    T      `json:"record"`
	OldRecord T      `json:"old_record"`
}

// MissionHistoryRecord is the webhook row shape of mission_history. Timestamps
// stay strings here; only their presence matters to the handlers.
type MissionHistoryRecord struct {
	ID        int64   `json:"id"`
	MissionID int64   `json:"mission_id"`
	MissionAt string  `json:"mission_at"`
	CreatedAt string  `json:"created_at"`
	DoneAt    *string `json:"done_at"`
}

func (r MissionHistoryRecord) Done() bool { return r.DoneAt != nil && *r.DoneAt != "" }

type ChallengerSupporterRecord struct {
	ID           string  `json:"id"`
	ChallengerID string  `json:"challenger_id"`
	SupporterID  *string `json:"supporter_id"`
}

func (r ChallengerSupporterRecord) Supporter() string {
	if r.SupporterID == nil {
		return ""
	}
	return *r.SupporterID
}

type PushMessage struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// SendResponse is one per-recipient outcome of a batch send.
type SendResponse struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

type BatchResponse struct {
	SuccessCount int            `json:"successCount"`
	FailureCount int            `json:"failureCount"`
	Responses    []SendResponse `json:"responses"`
}
