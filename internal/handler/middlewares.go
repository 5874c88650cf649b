package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/assignment"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := tokenFromRequest(r)
		if err != nil {
			h.errorResponse(w, r, "用户未登录")
			return
		}

		claims, err := h.parseToken(tokenString)
		if err != nil {
			h.errorResponse(w, r, "无效的令牌")
			return
		}

		companyID, err := uuid.Parse(claims.CompanyID)
		if err != nil {
			h.errorResponse(w, r, "令牌中缺少公司信息")
			return
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			h.errorResponse(w, r, "令牌中缺少用户信息")
			return
		}

		// 之后的所有操作都限定在令牌中的公司内
		ctx := context.WithValue(r.Context(), ActorCtxKey, assignment.Actor{CompanyID: companyID, UserID: userID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) assignmentID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			h.errorResponse(w, r, "班次ID无效")
			return
		}

		ctx := context.WithValue(r.Context(), AssignmentIDCtxKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(r *http.Request) assignment.Actor {
	return r.Context().Value(ActorCtxKey).(assignment.Actor)
}

func assignmentIDFrom(r *http.Request) uuid.UUID {
	return r.Context().Value(AssignmentIDCtxKey).(uuid.UUID)
}
