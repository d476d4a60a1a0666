// Package agenttest provides an in-process fake of the agent service.
package agenttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

const Token = "test-token"

type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

// Server answers the agent service endpoints. Reply decides the chat
// response of every agent; a nil Reply echoes the message.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	reply    func(agentName, message string) (string, int)
	agents   map[string]string
	objects  map[string][]string
	requests []Request
}

func NewServer() *Server {
	s := &Server{
		agents:  make(map[string]string),
		objects: make(map[string][]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api_tools/create-agent", s.handleCreateAgent)
	mux.HandleFunc("POST /api_tools/chat", s.handleChat)
	mux.HandleFunc("POST /api_tools/input_data", s.handleInputData)
	mux.HandleFunc("GET /api_tools/return_data/{name}", s.handleReturnData)
	mux.HandleFunc("DELETE /api_tools/objects/{name}", s.handleDeleteObject)

	s.Server = httptest.NewServer(s.authorize(mux))
	return s
}

// SetReply replaces the chat behaviour. A status other than 200 is sent
// without a body.
func (s *Server) SetReply(reply func(agentName, message string) (string, int)) {
	s.mu.Lock()
	s.reply = reply
	s.mu.Unlock()
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) Object(name string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.objects[name]
	return v, ok
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		body := map[string]any{}
		if r.Body != nil && r.ContentLength != 0 {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})
		s.mu.Unlock()

		r = r.WithContext(withBody(r.Context(), body))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	name, _ := body["agent_name"].(string)

	s.mu.Lock()
	id := fmt.Sprintf("agent-%d", len(s.agents)+1)
	s.agents[id] = name
	s.mu.Unlock()

	writeJSON(w, map[string]string{"agent_id": id})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	id, _ := body["agent_id"].(string)
	message, _ := body["message"].(string)

	s.mu.Lock()
	name, ok := s.agents[id]
	reply := s.reply
	s.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	response, status := message, http.StatusOK
	if reply != nil {
		response, status = reply(name, message)
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, map[string]string{"response": response})
}

func (s *Server) handleInputData(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	name, _ := body["created_object_name"].(string)
	raw, _ := body["input_data"].([]any)

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok {
			values = append(values, str)
		}
	}

	s.mu.Lock()
	s.objects[name] = values
	s.mu.Unlock()

	writeJSON(w, map[string]string{"status": "stored"})
}

func (s *Server) handleReturnData(w http.ResponseWriter, r *http.Request) {
	values, ok := s.Object(r.PathValue("name"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"text_value": strings.Join(values, "\n")})
}

func (s *Server) handleDeleteObject(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	s.mu.Lock()
	_, ok := s.objects[name]
	delete(s.objects, name)
	s.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
