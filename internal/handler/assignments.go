package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/assignment"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

type assignmentRequest struct {
	EmployeeID      uuid.UUID  `json:"employeeID" validate:"required"`
	LocationID      uuid.UUID  `json:"locationID" validate:"required"`
	JobPositionID   uuid.UUID  `json:"jobPositionID" validate:"required"`
	TemplateShiftID *uuid.UUID `json:"templateShiftID"`
	ShiftDate       string     `json:"shiftDate" validate:"required,datetime=2006-01-02"`
	StartTime       string     `json:"startTime" validate:"required"`
	EndTime         string     `json:"endTime" validate:"required"`
	Notes           string     `json:"notes" validate:"max=500"`
}

func (req assignmentRequest) input() (assignment.CreateInput, error) {
	date, err := shifttime.ParseDate(req.ShiftDate)
	if err != nil {
		return assignment.CreateInput{}, err
	}

	return assignment.CreateInput{
		EmployeeID:      req.EmployeeID,
		LocationID:      req.LocationID,
		JobPositionID:   req.JobPositionID,
		TemplateShiftID: req.TemplateShiftID,
		ShiftDate:       date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Notes:           req.Notes,
	}, nil
}

type updateRequest struct {
	EmployeeID    *uuid.UUID `json:"employeeID"`
	LocationID    *uuid.UUID `json:"locationID"`
	JobPositionID *uuid.UUID `json:"jobPositionID"`
	ShiftDate     *string    `json:"shiftDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime     *string    `json:"startTime"`
	EndTime       *string    `json:"endTime"`
	Notes         *string    `json:"notes" validate:"omitempty,max=500"`
	Status        *string    `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
}

func (req updateRequest) input(id uuid.UUID) (assignment.UpdateInput, error) {
	in := assignment.UpdateInput{
		ID:            id,
		EmployeeID:    req.EmployeeID,
		LocationID:    req.LocationID,
		JobPositionID: req.JobPositionID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Notes:         req.Notes,
	}
	if req.ShiftDate != nil {
		date, err := shifttime.ParseDate(*req.ShiftDate)
		if err != nil {
			return assignment.UpdateInput{}, err
		}
		in.ShiftDate = &date
	}
	if req.Status != nil {
		status := domain.AssignmentStatus(*req.Status)
		in.Status = &status
	}
	return in, nil
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	in, err := req.input()
	if err != nil {
		h.errorResponse(w, r, "日期格式错误")
		return
	}

	a, err := h.service.Create(r.Context(), actorFrom(r), in)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班次成功", a)
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Get(r.Context(), actorFrom(r), assignmentIDFrom(r))
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次成功", a)
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	var req updateRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	in, err := req.input(assignmentIDFrom(r))
	if err != nil {
		h.errorResponse(w, r, "日期格式错误")
		return
	}

	a, err := h.service.Update(r.Context(), actorFrom(r), in)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新班次成功", a)
}

func (h *Handler) ConfirmAssignment(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Confirm(r.Context(), actorFrom(r), assignmentIDFrom(r))
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "确认班次成功", a)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), actorFrom(r), assignmentIDFrom(r)); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次成功", nil)
}

func (h *Handler) BulkCreateAssignments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Assignments []assignmentRequest `json:"assignments" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if len(req.Assignments) > h.config.Bulk.MaxBatchSize {
		h.errorResponse(w, r, fmt.Sprintf("一次最多只能创建 %d 个班次", h.config.Bulk.MaxBatchSize))
		return
	}

	ins := make([]assignment.CreateInput, 0, len(req.Assignments))
	for _, item := range req.Assignments {
		in, err := item.input()
		if err != nil {
			h.errorResponse(w, r, "日期格式错误")
			return
		}
		ins = append(ins, in)
	}

	as, err := h.service.BulkCreate(r.Context(), actorFrom(r), ins)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "批量创建班次成功", as)
}

func (h *Handler) BulkUpdateAssignments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Updates []struct {
			ID uuid.UUID `json:"id" validate:"required"`
			updateRequest
		} `json:"updates" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if len(req.Updates) > h.config.Bulk.MaxBatchSize {
		h.errorResponse(w, r, fmt.Sprintf("一次最多只能修改 %d 个班次", h.config.Bulk.MaxBatchSize))
		return
	}

	ins := make([]assignment.UpdateInput, 0, len(req.Updates))
	for _, item := range req.Updates {
		in, err := item.input(item.ID)
		if err != nil {
			h.errorResponse(w, r, "日期格式错误")
			return
		}
		ins = append(ins, in)
	}

	as, err := h.service.BulkUpdate(r.Context(), actorFrom(r), ins)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "批量更新班次成功", as)
}

func (h *Handler) BulkDeleteAssignments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if len(req.IDs) > h.config.Bulk.MaxBatchSize {
		h.errorResponse(w, r, fmt.Sprintf("一次最多只能删除 %d 个班次", h.config.Bulk.MaxBatchSize))
		return
	}

	n, err := h.service.BulkDelete(r.Context(), actorFrom(r), req.IDs)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "批量删除班次成功", map[string]int{"deleted": n})
}

func (h *Handler) CreateAssignmentsFromTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DayTemplateID uuid.UUID   `json:"dayTemplateID" validate:"required"`
		EmployeeIDs   []uuid.UUID `json:"employeeIDs" validate:"required,min=1"`
		StartDate     string      `json:"startDate" validate:"required,datetime=2006-01-02"`
		EndDate       string      `json:"endDate" validate:"required,datetime=2006-01-02"`
		JobPositionID uuid.UUID   `json:"jobPositionID" validate:"required"`
		Notes         string      `json:"notes" validate:"max=500"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	start, err := shifttime.ParseDate(req.StartDate)
	if err != nil {
		h.errorResponse(w, r, "日期格式错误")
		return
	}
	end, err := shifttime.ParseDate(req.EndDate)
	if err != nil {
		h.errorResponse(w, r, "日期格式错误")
		return
	}
	if end.Before(start) {
		h.errorResponse(w, r, "结束日期不能早于开始日期")
		return
	}
	if days := shifttime.DaysBetween(start, end); days > h.config.Bulk.MaxDays {
		h.errorResponse(w, r, fmt.Sprintf("日期范围不能超过 %d 天", h.config.Bulk.MaxDays))
		return
	}
	if len(req.EmployeeIDs) > h.config.Bulk.MaxEmployees {
		h.errorResponse(w, r, fmt.Sprintf("一次最多只能为 %d 个员工排班", h.config.Bulk.MaxEmployees))
		return
	}

	as, err := h.service.CreateFromTemplate(r.Context(), actorFrom(r), assignment.TemplateInput{
		DayTemplateID: req.DayTemplateID,
		EmployeeIDs:   req.EmployeeIDs,
		StartDate:     start,
		EndDate:       end,
		JobPositionID: req.JobPositionID,
		Notes:         req.Notes,
	})
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "按模板排班成功", as)
}
