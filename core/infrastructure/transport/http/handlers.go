package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/growthsystem/erpchat/core/application/services"
	"github.com/growthsystem/erpchat/core/domain"
	"github.com/growthsystem/erpchat/core/infrastructure/logging"
	"github.com/growthsystem/erpchat/core/infrastructure/memory"
	appcontext "github.com/growthsystem/erpchat/core/shared/context"
)

// Handlers carries the dependencies of the API endpoints.
type Handlers struct {
	assistant *services.Assistant
	verdicts  Validator
	history   memory.Store
	window    int
	validate  *validator.Validate
	log       logging.Logger
}

// Validator is the subset of the guard used by the validate endpoint.
type Validator interface {
	Validate(sql, doctype string) domain.SafetyVerdict
}

// NewHandlers creates the API handlers.
func NewHandlers(assistant *services.Assistant, verdicts Validator, history memory.Store, window int) *Handlers {
	return &Handlers{
		assistant: assistant,
		verdicts:  verdicts,
		history:   history,
		window:    window,
		validate:  validator.New(),
		log:       logging.New("http:handlers"),
	}
}

// HandleMessage processes one completion into a rendered answer, recording
// both sides of the exchange in the conversation history.
func (h *Handlers) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	ctx := appcontext.WithConversationID(r.Context(), conversationID)

	if req.Query != "" {
		h.appendMessage(ctx, conversationID, domain.RoleUser, req.Query)
	}

	answer := h.assistant.Answer(ctx, req.Completion)

	h.appendMessage(ctx, conversationID, domain.RoleBot, answer.Response)

	writeJSON(w, http.StatusOK, MessageResponse{
		Success:        true,
		Response:       answer.Response,
		ConversationID: conversationID,
		QueryErrors:    answer.QueryErrors,
	})
}

// HandleValidate returns the safety verdict for one SQL statement without
// executing it.
func (h *Handlers) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.verdicts.Validate(req.SQL, req.Doctype))
}

// HandleHistory returns a conversation's recent messages, oldest first.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	messages, err := h.history.Recent(r.Context(), conversationID, h.window)
	if err != nil {
		h.log.Errorf("History load failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"messages": messages,
	})
}

// HandleReset drops a conversation's history.
func (h *Handlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	if err := h.history.Reset(r.Context(), conversationID); err != nil {
		h.log.Errorf("History reset failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to reset conversation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Conversation reset successfully",
	})
}

// HandleHeartbeat is the health check endpoint.
func (h *Handlers) HandleHeartbeat(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handlers) appendMessage(ctx context.Context, conversationID string, role domain.MessageRole, content string) {
	msg := domain.Message{Role: role, Content: content, CreatedAt: time.Now().UTC()}
	if err := h.history.Append(ctx, conversationID, msg); err != nil {
		// History is best effort; the answer still goes out.
		h.log.Warnf("History append failed: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: message})
}
