package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

type ConflictResult struct {
	HasConflict           bool
	ConflictingAssignment *domain.ShiftAssignment
}

type ConflictDetector struct {
	store Reader
}

func NewConflictDetector(store Reader) *ConflictDetector {
	return &ConflictDetector{store: store}
}

// CheckConflicts 检查候选班次是否与该员工当天已有的班次重叠。
//
// 存在多个冲突时返回查询顺序中的第一个，不保证是时间上最早的那个。
func (d *ConflictDetector) CheckConflicts(ctx context.Context, c Candidate) (ConflictResult, error) {
	iv, err := c.Interval()
	if err != nil {
		return ConflictResult{}, err
	}

	existing, err := d.store.GetAssignmentsByEmployeeDate(ctx, c.EmployeeID, shifttime.Date(c.Date), c.ExcludeID)
	if err != nil {
		return ConflictResult{}, fmt.Errorf("获取员工当天班次失败: %w", err)
	}

	conflict, err := FindConflict(existing, iv, c.ExcludeID)
	if err != nil {
		return ConflictResult{}, err
	}
	if conflict == nil {
		return ConflictResult{}, nil
	}

	return ConflictResult{HasConflict: true, ConflictingAssignment: conflict}, nil
}

// FindConflict 返回 existing 中第一个与 iv 重叠的有效班次
func FindConflict(existing []*domain.ShiftAssignment, iv shifttime.Interval, excludeID *uuid.UUID) (*domain.ShiftAssignment, error) {
	for _, a := range existing {
		if !a.IsLive() || excluded(a, excludeID) {
			continue
		}
		other, err := intervalOf(a)
		if err != nil {
			return nil, fmt.Errorf("班次 %s 的时间无法解析: %w", a.ID, err)
		}
		if iv.Overlaps(other) {
			return a, nil
		}
	}
	return nil, nil
}
