package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

type RuleResult struct {
	IsValid    bool
	Violations []string
}

// RuleValidator 检查每日工时上限、每周工时上限和最短休息时间，收集全部违规项而不是遇到第一个就返回
type RuleValidator struct {
	store Reader
}

func NewRuleValidator(store Reader) *RuleValidator {
	return &RuleValidator{store: store}
}

func (v *RuleValidator) Validate(ctx context.Context, settings domain.CompanySettings, c Candidate) (RuleResult, error) {
	iv, err := c.Interval()
	if err != nil {
		return RuleResult{}, err
	}

	date := shifttime.Date(c.Date)
	sameDay, err := v.store.GetAssignmentsByEmployeeDate(ctx, c.EmployeeID, date, c.ExcludeID)
	if err != nil {
		return RuleResult{}, fmt.Errorf("获取员工当天班次失败: %w", err)
	}

	weekStart, weekEnd := shifttime.WeekWindow(date)
	sameWeek, err := v.store.GetAssignmentsByEmployeeWeek(ctx, c.EmployeeID, weekStart, weekEnd, c.ExcludeID)
	if err != nil {
		return RuleResult{}, fmt.Errorf("获取员工当周班次失败: %w", err)
	}

	violations := make([]string, 0)

	if msg, err := CheckDailyCap(settings, sameDay, iv, c.ExcludeID); err != nil {
		return RuleResult{}, err
	} else if msg != "" {
		violations = append(violations, msg)
	}

	if msg, err := CheckWeeklyCap(settings, sameWeek, iv, c.ExcludeID, weekStart, weekEnd); err != nil {
		return RuleResult{}, err
	} else if msg != "" {
		violations = append(violations, msg)
	}

	if msg, err := CheckMinRest(settings, sameDay, iv, c.ExcludeID); err != nil {
		return RuleResult{}, err
	} else if msg != "" {
		violations = append(violations, msg)
	}

	return RuleResult{IsValid: len(violations) == 0, Violations: violations}, nil
}

// SumMinutes 累加有效班次的时长（分钟）
func SumMinutes(as []*domain.ShiftAssignment, excludeID *uuid.UUID) (int, error) {
	total := 0
	for _, a := range as {
		if !a.IsLive() || excluded(a, excludeID) {
			continue
		}
		iv, err := intervalOf(a)
		if err != nil {
			return 0, fmt.Errorf("班次 %s 的时间无法解析: %w", a.ID, err)
		}
		total += iv.End - iv.Start
	}
	return total, nil
}

func CheckDailyCap(settings domain.CompanySettings, sameDay []*domain.ShiftAssignment, iv shifttime.Interval, excludeID *uuid.UUID) (string, error) {
	existing, err := SumMinutes(sameDay, excludeID)
	if err != nil {
		return "", err
	}

	total := existing + iv.End - iv.Start
	if float64(total) > settings.MaxDailyHours*60 {
		return fmt.Sprintf("当天总工时 %.2f 小时超过上限 %.2f 小时", shifttime.DurationHours(0, total), settings.MaxDailyHours), nil
	}
	return "", nil
}

func CheckWeeklyCap(settings domain.CompanySettings, sameWeek []*domain.ShiftAssignment, iv shifttime.Interval, excludeID *uuid.UUID, weekStart, weekEnd time.Time) (string, error) {
	existing, err := SumMinutes(sameWeek, excludeID)
	if err != nil {
		return "", err
	}

	total := existing + iv.End - iv.Start
	if float64(total) > settings.MaxWeeklyHours*60 {
		return fmt.Sprintf("%s 至 %s 这一周总工时 %.2f 小时超过上限 %.2f 小时", shifttime.FormatDate(weekStart), shifttime.FormatDate(weekEnd), shifttime.DurationHours(0, total), settings.MaxWeeklyHours), nil
	}
	return "", nil
}

// PrecedingShift 在同一天的班次中找出结束时间不晚于 start 且结束得最晚的那个，即紧挨着的上一个班次
func PrecedingShift(sameDay []*domain.ShiftAssignment, start int, excludeID *uuid.UUID) (*domain.ShiftAssignment, int, error) {
	var prev *domain.ShiftAssignment
	prevEnd := -1

	for _, a := range sameDay {
		if !a.IsLive() || excluded(a, excludeID) {
			continue
		}
		iv, err := intervalOf(a)
		if err != nil {
			return nil, 0, fmt.Errorf("班次 %s 的时间无法解析: %w", a.ID, err)
		}
		if iv.End <= start && iv.End > prevEnd {
			prev = a
			prevEnd = iv.End
		}
	}

	return prev, prevEnd, nil
}

// CheckMinRest 只比较同一天的班次，前一天较晚结束的班次不在检查范围内
func CheckMinRest(settings domain.CompanySettings, sameDay []*domain.ShiftAssignment, iv shifttime.Interval, excludeID *uuid.UUID) (string, error) {
	prev, prevEnd, err := PrecedingShift(sameDay, iv.Start, excludeID)
	if err != nil {
		return "", err
	}
	if prev == nil {
		return "", nil
	}

	gap := shifttime.DurationHours(prevEnd, iv.Start)
	if gap < settings.MinBreakHours {
		return fmt.Sprintf("与上一个班次（%s 结束）之间仅间隔 %.2f 小时，少于最短休息时间 %.2f 小时", prev.EndTime, gap, settings.MinBreakHours), nil
	}
	return "", nil
}
