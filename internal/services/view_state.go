package services

import (
	"agenda-system/internal/dto"
	"agenda-system/internal/syncer"
)

// viewState переносит состояние мониторов в ответ: stale, если хоть один
// снимок устарел. Без снимка и с ошибкой отдавать нечего - возвращается ошибка.
func viewState[T any](resp *dto.ViewResponseDTO[T], statuses ...syncer.Status) error {
	for _, st := range statuses {
		if st.Err != nil && !st.HasSnapshot {
			return st.Err
		}
		markState(resp, st)
	}
	return nil
}

// markState - нестрогий вариант: ошибка без снимка тоже только помечает ответ устаревшим.
func markState[T any](resp *dto.ViewResponseDTO[T], st syncer.Status) {
	resp.Version += st.Version
	if st.Err == nil {
		return
	}
	resp.Stale = true
	if resp.Error == "" {
		resp.Error = st.Err.Error()
	}
}
