package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hallwayhq/agenthub/core"
	"github.com/hallwayhq/agenthub/registry"
)

// defaultUserID is assumed when a request carries no user id, matching the
// behavior of anonymous walk-up clients.
const defaultUserID = "default_user"

// ChatRequest is the body of chat and chat-stream calls.
type ChatRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the reply of a synchronous chat call.
type ChatResponse struct {
	AgentID   string `json:"agent_id"`
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
}

// AgentInfo is the public view of a registered agent.
type AgentInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SessionResponse is the reply of a session-create call.
type SessionResponse struct {
	AgentID   string `json:"agent_id"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	agents := s.agentInfos()
	sendJSON(w, http.StatusOK, map[string]any{
		"service": "agenthub",
		"status":  "running",
		"agents":  agents,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.agentInfos())
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	agentID := mux.Vars(r)["agentId"]

	desc, err := s.dispatcher.Agent(agentID)
	if err != nil {
		sendError(w, http.StatusNotFound, ErrCodeAgentNotFound, fmt.Sprintf("agent %q not found", agentID))
		return
	}

	sendJSON(w, http.StatusOK, AgentInfo{ID: desc.ID, Name: desc.Name, Description: desc.Description})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	agentID := mux.Vars(r)["agentId"]

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = defaultUserID
	}

	sess, err := s.dispatcher.CreateSession(r.Context(), agentID, userID)
	if err != nil {
		s.sendDispatchError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, SessionResponse{AgentID: agentID, SessionID: sess.ID, UserID: userID})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.chat(w, r, mux.Vars(r)["agentId"])
}

// handleQuickChat serves POST /chat?agent_id=... as a shorthand for the
// path-scoped chat endpoint.
func (s *Server) handleQuickChat(w http.ResponseWriter, r *http.Request) {
	agentID := r.URL.Query().Get("agent_id")
	if agentID == "" {
		sendError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "agent_id query parameter is required")
		return
	}
	s.chat(w, r, agentID)
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request, agentID string) {
	chatReq, ok := s.decodeChatRequest(w, r)
	if !ok {
		return
	}

	ex, err := s.dispatcher.Chat(r.Context(), agentID, chatReq.UserID, chatReq.Message, chatReq.SessionID)
	if err != nil {
		s.sendDispatchError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, ChatResponse{
		AgentID:   ex.AgentID,
		Response:  ex.Response,
		SessionID: ex.SessionID,
		UserID:    ex.UserID,
		UserName:  ex.UserName,
	})
}

func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	agentID := mux.Vars(r)["agentId"]

	chatReq, ok := s.decodeChatRequest(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		sendError(w, http.StatusInternalServerError, ErrCodeInternalError, "streaming not supported")
		return
	}

	// Setup failures happen before any SSE bytes are written, so they can
	// still be plain JSON errors.
	events, err := s.dispatcher.ChatStream(r.Context(), agentID, chatReq.UserID, chatReq.Message, chatReq.SessionID)
	if err != nil {
		s.sendDispatchError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for se := range events {
		data, err := json.Marshal(se)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to marshal stream event")
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return
		}
		flusher.Flush()
	}
}

func (s *Server) decodeChatRequest(w http.ResponseWriter, r *http.Request) (ChatRequest, bool) {
	var chatReq ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&chatReq); err != nil {
		sendError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return ChatRequest{}, false
	}
	if chatReq.Message == "" {
		sendError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "message is required")
		return ChatRequest{}, false
	}
	if chatReq.UserID == "" {
		chatReq.UserID = defaultUserID
	}
	return chatReq, true
}

func (s *Server) sendDispatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrAgentNotFound):
		sendError(w, http.StatusNotFound, ErrCodeAgentNotFound, err.Error())
	case errors.Is(err, core.ErrSessionNotFound):
		sendError(w, http.StatusNotFound, ErrCodeSessionNotFound, err.Error())
	default:
		s.logger.Error().Err(err).Msg("chat request failed")
		sendError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
	}
}

func (s *Server) agentInfos() []AgentInfo {
	descs := s.dispatcher.Agents()
	infos := make([]AgentInfo, 0, len(descs))
	for _, d := range descs {
		infos = append(infos, AgentInfo{ID: d.ID, Name: d.Name, Description: d.Description})
	}
	return infos
}
