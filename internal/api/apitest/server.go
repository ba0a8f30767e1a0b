// Package apitest serves a fake PocketBase admin API for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
)

// Identities recognised by the fake auth endpoint.
const (
	AdminIdentity    = "test@example.com"
	ErrorIdentity    = "_ERROR"
	NotEmailIdentity = "not-an-email"

	Token = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJpZCI6InZtYmtrNHJscG8xbm85cyIsInR5cGUiOiJhZG1pbiJ9.test"
)

// Collection is one collection record as the API returns it.
type Collection struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Type   string            `json:"type"`
	System bool              `json:"system"`
	Schema []json.RawMessage `json:"schema"`
}

// Collections is the default collection list: a system collection, an auth
// collection and a base collection relating to it.
var Collections = []Collection{
	{ID: "ext0000000001", Name: "_externalAuths", Type: "base", System: true, Schema: []json.RawMessage{}},
	{ID: "_pb_users_auth_", Name: "users", Type: "auth", Schema: []json.RawMessage{
		json.RawMessage(`{"id":"users_name","name":"name","type":"text","required":false,"system":false,"presentable":false,"options":{}}`),
	}},
	{ID: "tsk0000000001", Name: "tasks", Type: "base", Schema: []json.RawMessage{
		json.RawMessage(`{"id":"t_title","name":"title","type":"text","required":true,"system":false,"presentable":true,"options":{}}`),
		json.RawMessage(`{"id":"t_state","name":"state","type":"select","required":true,"system":false,"presentable":false,"options":{"maxSelect":1,"values":["todo","done"]}}`),
		json.RawMessage(`{"id":"t_owner","name":"owner","type":"relation","required":false,"system":false,"presentable":false,"options":{"collectionId":"_pb_users_auth_","maxSelect":1}}`),
	}},
}

// Server is a running fake API.
type Server struct {
	*httptest.Server

	// Collections served by GET /api/collections.
	Collections []Collection
	// Paged makes the list endpoint answer with paginated result objects
	// instead of a bare array.
	Paged atomic.Bool
	// Requests counts calls to the list endpoint.
	Requests atomic.Int32
}

// NewServer starts a fake API that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{Collections: Collections}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admins/auth-with-password", s.auth)
	mux.HandleFunc("GET /api/collections", s.collections)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) auth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identity string `json:"identity"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{})
		return
	}
	switch req.Identity {
	case AdminIdentity:
		writeJSON(w, http.StatusOK, map[string]any{
			"admin": map[string]any{
				"id":      "vmbkk4rlpo1no9s",
				"created": "2024-06-17 17:33:52.029Z",
				"updated": "2024-06-17 17:33:52.029Z",
				"avatar":  0,
				"email":   req.Identity,
			},
			"token": Token,
		})
	case ErrorIdentity:
		writeJSON(w, http.StatusInternalServerError, map[string]any{})
	case NotEmailIdentity:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"code":    400,
			"message": "Something went wrong while processing your request.",
			"data": map[string]any{
				"identity": map[string]string{
					"code":    "validation_is_email",
					"message": "Must be a valid email address.",
				},
			},
		})
	default:
		writeJSON(w, http.StatusUnauthorized, map[string]any{})
	}
}

func (s *Server) collections(w http.ResponseWriter, r *http.Request) {
	s.Requests.Add(1)
	if r.Header.Get("Authorization") != Token {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"code":    401,
			"message": "The request requires admin authorization token to be set.",
			"data":    map[string]any{},
		})
		return
	}
	if !s.Paged.Load() {
		writeJSON(w, http.StatusOK, s.Collections)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 30
	}
	start := min((page-1)*perPage, len(s.Collections))
	end := min(start+perPage, len(s.Collections))
	writeJSON(w, http.StatusOK, map[string]any{
		"page":       page,
		"perPage":    perPage,
		"totalItems": -1,
		"totalPages": -1,
		"items":      s.Collections[start:end],
	})
}
