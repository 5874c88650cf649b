package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

// GetCoverage 统计日期范围内每天每个岗位的需求人数与已排人数
func (h *Handler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := shifttime.ParseDate(query.Get("startDate"))
	if err != nil {
		h.errorResponse(w, r, "开始日期格式错误")
		return
	}
	end, err := shifttime.ParseDate(query.Get("endDate"))
	if err != nil {
		h.errorResponse(w, r, "结束日期格式错误")
		return
	}
	if end.Before(start) {
		h.errorResponse(w, r, "结束日期不能早于开始日期")
		return
	}
	if shifttime.DaysBetween(start, end) > h.config.Bulk.MaxDays {
		h.errorResponse(w, r, "日期范围过大")
		return
	}

	var locationID *uuid.UUID
	if raw := query.Get("locationID"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.errorResponse(w, r, "地点ID无效")
			return
		}
		locationID = &id
	}

	entries, err := h.service.Coverage(r.Context(), actorFrom(r), start, end, locationID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取覆盖情况成功", entries)
}
