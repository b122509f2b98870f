package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"trivia-room-service/internal/app"
	"trivia-room-service/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

type questionRequest struct {
	Category        string   `json:"category" validate:"max=64"`
	Title           string   `json:"title" validate:"required,max=512"`
	Answer          string   `json:"answer" validate:"required,max=256"`
	AcceptedAnswers []string `json:"acceptedAnswers" validate:"required,min=1,dive,required,max=256"`
	Difficulty      string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

func (r questionRequest) toDomain(id int64) domain.Question {
	return domain.Question{
		ID:              id,
		Category:        r.Category,
		Title:           r.Title,
		Answer:          r.Answer,
		AcceptedAnswers: r.AcceptedAnswers,
		Difficulty:      r.Difficulty,
	}
}

type validationErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// cacheInvalidator is implemented by catalog caches that must forget edited questions.
type cacheInvalidator interface {
	Invalidate(ctx context.Context, id int64)
}

// QuestionsHandler is the CRUD surface over the question catalog.
type QuestionsHandler struct {
	catalog  app.QuestionCatalog
	admin    app.QuestionAdmin
	validate *validator.Validate
	log      zerolog.Logger
}

func NewQuestionsHandler(catalog app.QuestionCatalog, admin app.QuestionAdmin, logger zerolog.Logger) *QuestionsHandler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return jsonName(f.Tag.Get("json"))
	})
	return &QuestionsHandler{catalog: catalog, admin: admin, validate: v, log: logger}
}

func (h *QuestionsHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	questions, err := h.admin.ListQuestions(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *QuestionsHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseID(w, ps)
	if !ok {
		return
	}
	q, err := h.catalog.GetQuestionByID(r.Context(), id)
	if errors.Is(err, domain.ErrQuestionNotFound) {
		writeJSON(w, http.StatusNotFound, errorPayload{Message: err.Error()})
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *QuestionsHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.admin.CreateQuestion(r.Context(), req.toDomain(0))
	if err != nil {
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *QuestionsHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseID(w, ps)
	if !ok {
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	q := req.toDomain(id)
	if err := h.admin.UpdateQuestion(r.Context(), q); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.invalidate(r.Context(), id)
	writeJSON(w, http.StatusOK, q)
}

func (h *QuestionsHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseID(w, ps)
	if !ok {
		return
	}
	if err := h.admin.DeleteQuestion(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.invalidate(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *QuestionsHandler) decode(w http.ResponseWriter, r *http.Request) (questionRequest, bool) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid JSON body"})
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, errorPayload{Message: err.Error()})
			return req, false
		}
		resp := validationErrorResponse{Message: "validation failed", Errors: make(map[string]string, len(verrs))}
		for _, fe := range verrs {
			resp.Errors[fe.Field()] = validationMessage(fe)
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return req, false
	}
	return req, true
}

func (h *QuestionsHandler) invalidate(ctx context.Context, id int64) {
	inv, ok := h.catalog.(cacheInvalidator)
	if !ok {
		return
	}
	inv.Invalidate(ctx, id)
}

func (h *QuestionsHandler) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrQuestionNotFound) {
		writeJSON(w, http.StatusNotFound, errorPayload{Message: err.Error()})
		return
	}
	h.serverError(w, err)
}

func (h *QuestionsHandler) serverError(w http.ResponseWriter, err error) {
	h.log.Error().Err(err).Msg("question catalog request failed")
	writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "internal error"})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required", fe.Field())
	case "min":
		return fmt.Sprintf("The %s field must have at least %s item(s)", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not exceed %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("The %s field must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid", fe.Field())
	}
}

func parseID(w http.ResponseWriter, ps httprouter.Params) (int64, bool) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid question id"})
		return 0, false
	}
	return id, true
}

func jsonName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
