package model

import (
	"errors"
	"time"
)

// ErrNotFound is returned by single-row lookups when no row matches.
var ErrNotFound = errors.New("record not found")

type MissionTime struct {
	ID                    int64               `gorm:"primaryKey" json:"id"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
	ChallengerID          string              `json:"challenger_id"`
	SupporterID           *string             `json:"supporter_id"`
	ChallengerSupporterID string              `json:"challenger_supporter_id"`
	MissionAt             string              `json:"mission_at"`
	MissionNumber         int                 `json:"mission_number"`
	ChallengerSupporter   ChallengerSupporter `gorm:"foreignKey:ChallengerSupporterID" json:"-"`
}

type MissionHistory struct {
	ID                   int64       `gorm:"primaryKey" json:"id"`
	CreatedAt            time.Time   `json:"created_at"`
	MissionID            int64       `json:"mission_id"`
	MissionAt            string      `json:"mission_at"`
	DoneAt               *time.Time  `json:"done_at"`
	LastFailedNotiSentAt *time.Time  `json:"last_failed_noti_sent_at"`
	MissionTime          MissionTime `gorm:"foreignKey:MissionID" json:"-"`
}

type ChallengerSupporter struct {
	ID           string  `gorm:"primaryKey" json:"id"`
	ChallengerID string  `json:"challenger_id"`
	SupporterID  *string `json:"supporter_id"`
}

// UserMetadata holds a user's push address. A nil or empty FCMToken means the
// user cannot be reached.
type UserMetadata struct {
	ID       string  `gorm:"primaryKey" json:"id"`
	FCMToken *string `gorm:"column:fcm_token" json:"fcm_token"`
	Name     string  `json:"name"`
}

func (u *UserMetadata) Token() string {
	if u == nil || u.FCMToken == nil {
		return ""
	}
	return *u.FCMToken
}

type MissionMessages struct {
	UserID         string `gorm:"primaryKey" json:"user_id"`
	SuccessMessage string `json:"success_message"`
	FailMessage    string `json:"fail_message"`
}

type ChallengerGracePeriod struct {
	ChallengerID string `gorm:"primaryKey" json:"challenger_id"`
	GracePeriod  int    `json:"grace_period"`
}

func (MissionTime) TableName() string           { return "mission_time" }
func (MissionHistory) TableName() string        { return "mission_history" }
func (ChallengerSupporter) TableName() string   { return "challenger_supporter" }
func (UserMetadata) TableName() string          { return "user_metadata" }
func (MissionMessages) TableName() string       { return "mission_messages" }
func (ChallengerGracePeriod) TableName() string { return "challenger_grace_period" }
