package services

import (
	"fmt"

	"agenda-system/internal/dto"
	"agenda-system/internal/syncer"
	apperrors "agenda-system/pkg/errors"
)

type SyncServiceInterface interface {
	GetStatuses() []dto.MonitorStatusDTO
	Teardown(table, id string) error
	ResyncAll()
}

type SyncService struct {
	coordinator *syncer.Coordinator
}

func NewSyncService(coordinator *syncer.Coordinator) SyncServiceInterface {
	return &SyncService{coordinator: coordinator}
}

func (s *SyncService) GetStatuses() []dto.MonitorStatusDTO {
	statuses := s.coordinator.Statuses()
	result := make([]dto.MonitorStatusDTO, 0, len(statuses))
	for _, st := range statuses {
		item := dto.MonitorStatusDTO{
			Key:     st.Key.String(),
			State:   st.State.String(),
			Version: st.Version,
			Stale:   st.Stale(),
		}
		if st.Err != nil {
			item.Error = st.Err.Error()
		}
		if !st.UpdatedAt.IsZero() {
			updatedAt := st.UpdatedAt
			item.UpdatedAt = &updatedAt
		}
		result = append(result, item)
	}
	return result
}

func (s *SyncService) Teardown(table, id string) error {
	key := syncer.Key{Table: table, ID: id}
	if !s.coordinator.Teardown(key) {
		return fmt.Errorf("монитор %s: %w", key, apperrors.ErrNotFound)
	}
	return nil
}

func (s *SyncService) ResyncAll() {
	s.coordinator.ResyncAll()
}
