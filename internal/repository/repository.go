package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notiyou/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository reads and writes the mission tables through gorm.
type Repository struct{ db *gorm.DB }

func New(db *gorm.DB) *Repository { return &Repository{db: db} }

func (r *Repository) ListMissionTimes(ctx context.Context) ([]model.MissionTime, error) {
	var rows []model.MissionTime
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query mission_time: %w", err)
	}
	return rows, nil
}

// InsertMissionHistories writes one batch in a single statement and reports how
// many rows the store accepted.
func (r *Repository) InsertMissionHistories(ctx context.Context, rows []model.MissionHistory) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rows)
	if res.Error != nil {
		return 0, fmt.Errorf("insert mission_history: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

// ListMissionHistoriesCreatedBetween returns rows created in [from, to) that
// have a mission_time row, with that row attached. Bounds are sent in UTC,
// the zone rows are written in, so text-typed timestamps compare correctly.
func (r *Repository) ListMissionHistoriesCreatedBetween(ctx context.Context, from, to time.Time) ([]model.MissionHistory, error) {
	var rows []model.MissionHistory
	err := r.db.WithContext(ctx).
		InnerJoins("MissionTime").
		Where("mission_history.created_at >= ? AND mission_history.created_at < ?", from.UTC(), to.UTC()).
		Order("mission_history.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query mission_history: %w", err)
	}
	return rows, nil
}

func (r *Repository) ListChallengerSupporters(ctx context.Context, ids []string) ([]model.ChallengerSupporter, error) {
	var rows []model.ChallengerSupporter
	if len(ids) == 0 {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query challenger_supporter: %w", err)
	}
	return rows, nil
}

func (r *Repository) ListMissionMessages(ctx context.Context, userIDs []string) ([]model.MissionMessages, error) {
	var rows []model.MissionMessages
	if len(userIDs) == 0 {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query mission_messages: %w", err)
	}
	return rows, nil
}

func (r *Repository) ListGracePeriods(ctx context.Context, challengerIDs []string) ([]model.ChallengerGracePeriod, error) {
	var rows []model.ChallengerGracePeriod
	if len(challengerIDs) == 0 {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).Where("challenger_id IN ?", challengerIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query challenger_grace_period: %w", err)
	}
	return rows, nil
}

func (r *Repository) ListUserMetadata(ctx context.Context, ids []string) ([]model.UserMetadata, error) {
	var rows []model.UserMetadata
	if len(ids) == 0 {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query user_metadata: %w", err)
	}
	return rows, nil
}

// MarkFailedNotified stamps last_failed_noti_sent_at on all ids in one UPDATE.
func (r *Repository) MarkFailedNotified(ctx context.Context, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.MissionHistory{}).
		Where("id IN ?", ids).
		Update("last_failed_noti_sent_at", at).Error
	if err != nil {
		return fmt.Errorf("update mission_history: %w", err)
	}
	return nil
}

// FindMissionTime loads a mission_time row together with its relationship.
func (r *Repository) FindMissionTime(ctx context.Context, id int64) (*model.MissionTime, error) {
	var mt model.MissionTime
	err := r.db.WithContext(ctx).
		InnerJoins("ChallengerSupporter").
		Where("mission_time.id = ?", id).
		First(&mt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query mission_time %d: %w", id, err)
	}
	return &mt, nil
}

// FindMissionMessages returns nil without error when the user has no custom messages.
func (r *Repository) FindMissionMessages(ctx context.Context, userID string) (*model.MissionMessages, error) {
	var rows []model.MissionMessages
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query mission_messages %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *Repository) FindUserMetadata(ctx context.Context, id string) (*model.UserMetadata, error) {
	var u model.UserMetadata
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user_metadata %s: %w", id, err)
	}
	return &u, nil
}
