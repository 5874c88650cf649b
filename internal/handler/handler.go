package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/assignment"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/config"
)

type Handler struct {
	validate       *validator.Validate
	config         *config.Config
	service        *assignment.Service
	translator     ut.Translator
	metricsHandler http.Handler

	Mux *chi.Mux
}

// NewHandler 中 metricsHandler 为 nil 时不注册 /metrics
func NewHandler(cfg *config.Config, svc *assignment.Service, metricsHandler http.Handler) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:       validate,
		config:         cfg,
		service:        svc,
		translator:     trans,
		metricsHandler: metricsHandler,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	if h.metricsHandler != nil {
		h.Mux.Handle("/metrics", h.metricsHandler)
	}

	// 以下 API 必须携带有效的令牌
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/assignments", func(r chi.Router) {
			r.Post("/", h.CreateAssignment)
			r.Route("/bulk", func(r chi.Router) {
				r.Post("/", h.BulkCreateAssignments)
				r.Patch("/", h.BulkUpdateAssignments)
				r.Delete("/", h.BulkDeleteAssignments)
			})
			r.Post("/from-template", h.CreateAssignmentsFromTemplate)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.assignmentID)
				r.Get("/", h.GetAssignment)
				r.Patch("/", h.UpdateAssignment)
				r.Delete("/", h.DeleteAssignment)
				r.Post("/confirm", h.ConfirmAssignment)
			})
		})

		r.Get("/coverage", h.GetCoverage)
	})
}
