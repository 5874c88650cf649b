package engine_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/engine"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/memstore"
)

func TestCoverageAnalyzer_Analyze(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	store.AddRequirement(&domain.ShiftRequirement{
		ID: uuid.New(), CompanyID: companyID, LocationID: locationID, Date: date("2025-08-15"),
		Items: []domain.ShiftRequirementItem{{JobPositionID: positionID, RequiredCount: 3}},
	})
	putShift(store, uuid.New(), "2025-08-15", "09:00", "17:00")

	entries, err := engine.NewCoverageAnalyzer(store).Analyze(ctx, companyID, date("2025-08-15"), date("2025-08-15"), nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 3, entries[0].Required)
	require.Equal(t, 1, entries[0].Assigned)
	require.Equal(t, 2, entries[0].Shortfall)

	for range 3 {
		putShift(store, uuid.New(), "2025-08-15", "09:00", "17:00")
	}

	entries, err = engine.NewCoverageAnalyzer(store).Analyze(ctx, companyID, date("2025-08-15"), date("2025-08-15"), nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 4, entries[0].Assigned)
	require.Equal(t, 0, entries[0].Shortfall)
}

func TestAggregateCoverage(t *testing.T) {
	otherPosition := uuid.New()

	t.Run("over coverage never yields a negative shortfall", func(t *testing.T) {
		assignments := []*domain.ShiftAssignment{
			{EmployeeID: uuid.New(), ShiftDate: date("2025-08-15"), JobPositionID: positionID, LocationID: locationID, Status: domain.StatusPending},
			{EmployeeID: uuid.New(), ShiftDate: date("2025-08-15"), JobPositionID: positionID, LocationID: locationID, Status: domain.StatusConfirmed},
		}
		reqs := []*domain.ShiftRequirement{{
			Date: date("2025-08-15"), LocationID: locationID,
			Items: []domain.ShiftRequirementItem{{JobPositionID: positionID, RequiredCount: 1}},
		}}

		entries := engine.AggregateCoverage(reqs, assignments)

		require.Len(t, entries, 1)
		require.Equal(t, 2, entries[0].Assigned)
		require.Equal(t, 0, entries[0].Shortfall)
	})

	t.Run("keys present on one side only are reported", func(t *testing.T) {
		assignments := []*domain.ShiftAssignment{
			{EmployeeID: uuid.New(), ShiftDate: date("2025-08-16"), JobPositionID: otherPosition, LocationID: locationID, Status: domain.StatusPending},
		}
		reqs := []*domain.ShiftRequirement{{
			Date: date("2025-08-15"), LocationID: locationID,
			Items: []domain.ShiftRequirementItem{{JobPositionID: positionID, RequiredCount: 2}},
		}}

		entries := engine.AggregateCoverage(reqs, assignments)

		require.Equal(t, []domain.CoverageEntry{
			{Date: date("2025-08-15"), JobPositionID: positionID, LocationID: locationID, Required: 2, Assigned: 0, Shortfall: 2},
			{Date: date("2025-08-16"), JobPositionID: otherPosition, LocationID: locationID, Required: 0, Assigned: 1, Shortfall: 0},
		}, entries)
	})

	t.Run("cancelled assignments are not counted", func(t *testing.T) {
		assignments := []*domain.ShiftAssignment{
			{EmployeeID: uuid.New(), ShiftDate: date("2025-08-15"), JobPositionID: positionID, LocationID: locationID, Status: domain.StatusCancelled},
		}
		reqs := []*domain.ShiftRequirement{{
			Date: date("2025-08-15"), LocationID: locationID,
			Items: []domain.ShiftRequirementItem{{JobPositionID: positionID, RequiredCount: 1}},
		}}

		entries := engine.AggregateCoverage(reqs, assignments)

		require.Len(t, entries, 1)
		require.Equal(t, 1, entries[0].Shortfall)
	})
}
