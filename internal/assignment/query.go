package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
)

func (s *Service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*domain.ShiftAssignment, error) {
	return s.store.GetAssignment(ctx, id, actor.CompanyID)
}

// Coverage 统计 [start, end] 内每个 (日期, 岗位, 地点) 的需求人数、已排人数和缺口
func (s *Service) Coverage(ctx context.Context, actor Actor, start, end time.Time, locationID *uuid.UUID) ([]domain.CoverageEntry, error) {
	return s.coverage.Analyze(ctx, actor.CompanyID, start, end, locationID)
}
