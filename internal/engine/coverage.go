package engine

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

type CoverageAnalyzer struct {
	store Reader
}

func NewCoverageAnalyzer(store Reader) *CoverageAnalyzer {
	return &CoverageAnalyzer{store: store}
}

func (a *CoverageAnalyzer) Analyze(ctx context.Context, companyID uuid.UUID, start, end time.Time, locationID *uuid.UUID) ([]domain.CoverageEntry, error) {
	start, end = shifttime.Date(start), shifttime.Date(end)

	reqs, err := a.store.ListRequirements(ctx, companyID, start, end, locationID)
	if err != nil {
		return nil, fmt.Errorf("获取人员需求失败: %w", err)
	}

	assignments, err := a.store.ListAssignmentsInRange(ctx, companyID, start, end, locationID)
	if err != nil {
		return nil, fmt.Errorf("获取班次失败: %w", err)
	}

	return AggregateCoverage(reqs, assignments), nil
}

type coverageKey struct {
	day        int64
	positionID uuid.UUID
	locationID uuid.UUID
}

// AggregateCoverage 按 (日期, 岗位, 地点) 汇总需求人数与已排人数；只出现在一侧的键也会输出，缺失的一侧计为 0
func AggregateCoverage(reqs []*domain.ShiftRequirement, assignments []*domain.ShiftAssignment) []domain.CoverageEntry {
	entries := make(map[coverageKey]*domain.CoverageEntry)

	entry := func(date time.Time, positionID, locationID uuid.UUID) *domain.CoverageEntry {
		date = shifttime.Date(date)
		k := coverageKey{day: date.Unix(), positionID: positionID, locationID: locationID}
		e, ok := entries[k]
		if !ok {
			e = &domain.CoverageEntry{Date: date, JobPositionID: positionID, LocationID: locationID}
			entries[k] = e
		}
		return e
	}

	for _, req := range reqs {
		for _, item := range req.Items {
			entry(req.Date, item.JobPositionID, req.LocationID).Required += int(item.RequiredCount)
		}
	}

	for _, a := range assignments {
		if !a.IsLive() {
			continue
		}
		entry(a.ShiftDate, a.JobPositionID, a.LocationID).Assigned++
	}

	result := make([]domain.CoverageEntry, 0, len(entries))
	for _, e := range entries {
		e.Shortfall = max(0, e.Required-e.Assigned)
		result = append(result, *e)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		if c := bytes.Compare(result[i].JobPositionID[:], result[j].JobPositionID[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(result[i].LocationID[:], result[j].LocationID[:]) < 0
	})

	return result
}
