package engine

import (
	"context"
	"fmt"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

// DuplicateGuard 按 (员工, 日期, 开始, 结束) 判断是否已存在完全相同的有效班次，备注等其他字段不参与判断
type DuplicateGuard struct {
	store Reader
}

func NewDuplicateGuard(store Reader) *DuplicateGuard {
	return &DuplicateGuard{store: store}
}

func (g *DuplicateGuard) IsDuplicate(ctx context.Context, c Candidate) (bool, error) {
	if _, err := c.Interval(); err != nil {
		return false, err
	}

	exists, err := g.store.ExistsExactMatch(ctx, c.EmployeeID, shifttime.Date(c.Date), c.StartTime, c.EndTime, c.ExcludeID)
	if err != nil {
		return false, fmt.Errorf("查询重复班次失败: %w", err)
	}
	return exists, nil
}
