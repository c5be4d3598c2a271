package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-ranker/internal/parsing"
	"github.com/jonathan/resume-ranker/internal/pipeline"
	"github.com/jonathan/resume-ranker/internal/server/middleware"
	"github.com/jonathan/resume-ranker/internal/types"
)

// readBody reads the whole request body, failing once it passes the cap.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &ErrBodyTooLarge{Limit: maxErr.Limit}
		}
		return nil, &parsing.ParseError{Message: "failed to read request body", Cause: err}
	}
	return body, nil
}

// callerLogger returns the request logger, tagged with the token subject when
// the request was authenticated.
func callerLogger(r *http.Request) zerolog.Logger {
	logger := *zerolog.Ctx(r.Context())
	if subject, ok := middleware.GetSubject(r); ok {
		logger = logger.With().Str("subject", subject).Logger()
	}
	return logger
}

// handleRank ranks the resumes of a single request.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	logger := callerLogger(r)

	body, err := s.readBody(w, r)
	if err != nil {
		s.jsonResponse(w, r, HTTPStatus(err), types.NewErrorResponse(err))
		return
	}

	resp, err := pipeline.RankPayload(s.ranker, body)
	if err != nil {
		logger.Info().Err(err).Msg("rank request rejected")
		s.jsonResponse(w, r, HTTPStatus(err), resp)
		return
	}

	logger.Debug().Int("resumes", len(resp.RankedResumes)).Msg("ranked request")
	s.jsonResponse(w, r, http.StatusOK, resp)
}

// handleRankBatch ranks a JSON array of independent requests. The response is
// an array of envelopes in request order; individual failures do not change
// the HTTP status.
func (s *Server) handleRankBatch(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.jsonResponse(w, r, HTTPStatus(err), types.NewErrorResponse(err))
		return
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		perr := &parsing.ParseError{Message: "batch body must be a JSON array of requests", Cause: err}
		s.jsonResponse(w, r, http.StatusBadRequest, types.NewErrorResponse(perr))
		return
	}
	if len(items) == 0 {
		perr := &parsing.ParseError{Message: "batch is empty"}
		s.jsonResponse(w, r, http.StatusBadRequest, types.NewErrorResponse(perr))
		return
	}

	payloads := make([][]byte, len(items))
	for i, item := range items {
		payloads[i] = item
	}

	responses := pipeline.RankBatch(r.Context(), s.ranker, payloads, pipeline.BatchOptions{Workers: s.workers})

	failed := 0
	for _, resp := range responses {
		if !resp.Success {
			failed++
		}
	}
	logger := callerLogger(r)
	logger.Debug().Int("requests", len(responses)).Int("failed", failed).Msg("ranked batch")

	s.jsonResponse(w, r, http.StatusOK, responses)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
