package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"notiyou/internal/logger"
	"notiyou/internal/model"
)

const DefaultBatchSize = 500

type CreateResult struct {
	Count int `json:"count"`
}

// MissionService instantiates today's mission_history rows from mission_time.
type MissionService struct {
	store     MissionTimeStore
	chat      ChatNotifier
	batchSize int
	now       func() time.Time
}

func NewMissionService(store MissionTimeStore, chat ChatNotifier, batchSize int) *MissionService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &MissionService{store: store, chat: chat, batchSize: batchSize, now: time.Now}
}

// CreateToday inserts one history row per mission_time row, batchSize rows per
// statement. A failed batch does not stop the rest; its source mission_time ids
// are reported through BulkPartialFailureError together with the rows that
// were inserted.
func (s *MissionService) CreateToday(ctx context.Context) (*CreateResult, error) {
	log := logger.FromContext(ctx)

	missionTimes, err := s.store.ListMissionTimes(ctx)
	if err != nil {
		return nil, fmt.Errorf("미션 설정 데이터를 가져오는 중 오류가 발생했습니다: %w", err)
	}

	createdAt := s.now().UTC()
	histories := make([]model.MissionHistory, len(missionTimes))
	for i, mt := range missionTimes {
		histories[i] = model.MissionHistory{
			CreatedAt: createdAt,
			MissionID: mt.ID,
			MissionAt: mt.MissionAt,
		}
	}

	inserted := 0
	var failedIDs []int64
	for batch := range slices.Chunk(histories, s.batchSize) {
		n, err := s.store.InsertMissionHistories(ctx, batch)
		if err != nil {
			log.Error("missions.batch_failed", "size", len(batch), "err", err)
			for _, h := range batch {
				failedIDs = append(failedIDs, h.MissionID)
			}
			continue
		}
		inserted += n
	}

	log.Info("missions.created", "configs", len(missionTimes), "inserted", inserted, "failed", len(failedIDs))
	s.chat.Send(ctx, fmt.Sprintf("총 %d개의 미션 설정으로, %d개의 오늘의 미션이 생성되었습니다.", len(missionTimes), inserted))

	result := &CreateResult{Count: inserted}
	if len(failedIDs) > 0 {
		perr := BulkPartialFailureError{Inserted: inserted, FailedIDs: failedIDs}
		s.chat.Send(ctx, fmt.Sprintf("일부 미션 생성에 실패하였습니다.\n생성에 실패한 미션 설정 목록: %s", joinIDs(failedIDs)))
		return result, perr
	}
	return result, nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
