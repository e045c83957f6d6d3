/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package api

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"

	"github.com/go-openapi/strfmt"
	"github.com/gorilla/mux"

	"github.com/suparena/mothership/errors"
	"github.com/suparena/mothership/registry"
)

// CorruptRecordMessage is the error body returned for an undecodable entry
const CorruptRecordMessage = "bad data for mothership entry"

// RegisterRequest is the body of POST /register
type RegisterRequest struct {
	TopicName string `json:"topic_name"`
	NodeID    string `json:"node_id"`
	NodePort  int    `json:"node_port"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string          `json:"status"`
	NodeID    string          `json:"node_id"`
	Version   string          `json:"version"`
	StartedAt strfmt.DateTime `json:"started_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.registrations.WithLabelValues(resultInvalid).Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	err := s.dir.Register(r.Context(), registry.RegisterParams{
		Topic:        req.TopicName,
		NodeID:       req.NodeID,
		Port:         req.NodePort,
		ObservedHost: remoteHost(r),
	})
	switch {
	case err == nil:
		s.metrics.registrations.WithLabelValues(resultOK).Inc()
		w.WriteHeader(http.StatusOK)
	case errors.IsValidationError(err):
		s.metrics.registrations.WithLabelValues(resultInvalid).Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.metrics.registrations.WithLabelValues(resultUnavailable).Inc()
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	topic, err := url.PathUnescape(mux.Vars(r)["topic_name"])
	if err != nil {
		s.metrics.resolutions.WithLabelValues(resultInvalid).Inc()
		writeJSON(w, http.StatusBadRequest, struct{}{})
		return
	}

	res, err := s.dir.Resolve(r.Context(), topic)
	switch {
	case err == nil:
		s.metrics.resolutions.WithLabelValues(resultOK).Inc()
		writeJSON(w, http.StatusOK, res)
	case errors.IsNotFound(err):
		s.metrics.resolutions.WithLabelValues(resultNotFound).Inc()
		writeJSON(w, http.StatusBadRequest, struct{}{})
	case errors.IsValidationError(err):
		s.metrics.resolutions.WithLabelValues(resultInvalid).Inc()
		writeJSON(w, http.StatusBadRequest, struct{}{})
	case errors.IsCorrupt(err):
		s.metrics.resolutions.WithLabelValues(resultCorrupt).Inc()
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: CorruptRecordMessage})
	default:
		s.metrics.resolutions.WithLabelValues(resultUnavailable).Inc()
		writeJSON(w, http.StatusInternalServerError, struct{}{})
	}
}

// handleHealth is a basic "hey I'm fine" for load balancers & co
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		NodeID:    s.nodeID,
		Version:   s.version,
		StartedAt: s.startedAt,
	})
}

// remoteHost returns the host part of the connection's remote address, or
// "" when it cannot be split.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
