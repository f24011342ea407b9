package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/agbru/bigocalc/internal/bench"
	"github.com/agbru/bigocalc/internal/complexity"
	apperrors "github.com/agbru/bigocalc/internal/errors"
	"github.com/agbru/bigocalc/internal/logging"
	"github.com/agbru/bigocalc/internal/sizes"
)

var validate = validator.New()

// AnalyzeRequest is the body of POST /api/analyze. Sizes takes precedence
// over Plan.
type AnalyzeRequest struct {
	Candidate  string `json:"candidate" validate:"required"`
	Sizes      []int  `json:"sizes,omitempty" validate:"omitempty,dive,gt=0"`
	Plan       string `json:"plan,omitempty"`
	Iterations int    `json:"iterations,omitempty" validate:"gte=0"`
	// Mode, when set, must match the candidate's input mode.
	Mode string `json:"mode,omitempty" validate:"omitempty,oneof=sequence scalar"`
}

// AnalyzeResponse is the result of one analysis.
type AnalyzeResponse struct {
	Candidate     string            `json:"candidate"`
	Expected      string            `json:"expected,omitempty"`
	Mode          bench.Mode        `json:"mode"`
	Sizes         []int             `json:"sizes"`
	Result        complexity.Result `json:"result"`
	Notation      string            `json:"notation"`
	LowConfidence bool              `json:"lowConfidence"`
	Match         *bool             `json:"match,omitempty"`
	DurationMs    float64           `json:"durationMs"`
}

// CandidateInfo describes one registered candidate.
type CandidateInfo struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Mode        bench.Mode `json:"mode"`
	Expected    string     `json:"expected,omitempty"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	all := s.registry.All()
	out := make([]CandidateInfo, len(all))
	for i, c := range all {
		out[i] = CandidateInfo{Name: c.Name, Description: c.Description, Mode: c.Mode, Expected: c.Expected}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AnalyzeRequest
	body := r.Body
	if s.security.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.security.MaxBodyBytes)
	}
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	plan, err := s.validateRequest(req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cand, err := s.registry.Get(req.Candidate)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if req.Mode != "" && bench.Mode(req.Mode) != cand.Mode {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("candidate %s takes %s input, not %s", cand.Name, cand.Mode, req.Mode))
		return
	}

	ctx := r.Context()
	if s.cfg.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.AnalysisTimeout)
		defer cancel()
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "analyzer busy, try again later")
		return
	}
	defer s.sem.Release(1)

	start := time.Now()
	rep, err := s.analyzer.AnalyzeReport(ctx, cand.Fn, plan.Sizes(), req.Iterations, cand.Mode)
	if err != nil {
		s.logger.Error("analysis failed", err, logging.String("candidate", cand.Name))
		s.writeError(w, analysisStatus(err), err.Error())
		return
	}

	resp := AnalyzeResponse{
		Candidate:     cand.Name,
		Expected:      cand.Expected,
		Mode:          cand.Mode,
		Sizes:         plan.Sizes(),
		Result:        rep.Result,
		Notation:      complexity.Notation(rep.Result.BestFit),
		LowConfidence: rep.Result.Confidence <= s.cfg.ConfidenceThreshold,
		DurationMs:    float64(time.Since(start)) / float64(time.Millisecond),
	}
	if cand.Expected != "" {
		match := rep.Result.BestFit == cand.Expected
		resp.Match = &match
	}
	writeJSON(w, http.StatusOK, resp)
}

// validateRequest checks the request against the struct tags and the
// server limits, and resolves its size plan.
func (s *Server) validateRequest(req AnalyzeRequest) (sizes.Plan, error) {
	if err := validate.Struct(req); err != nil {
		return sizes.Plan{}, err
	}
	if s.security.MaxIterations > 0 && req.Iterations > s.security.MaxIterations {
		return sizes.Plan{}, fmt.Errorf("iterations %d exceeds the maximum of %d", req.Iterations, s.security.MaxIterations)
	}

	var (
		plan sizes.Plan
		err  error
	)
	switch {
	case len(req.Sizes) > 0:
		plan, err = sizes.FromSizes(req.Sizes)
	case req.Plan != "":
		plan, err = sizes.Parse(req.Plan)
	default:
		plan, err = sizes.Parse(s.cfg.DefaultPlan)
	}
	if err != nil {
		return sizes.Plan{}, err
	}

	if s.security.MaxSizes > 0 && plan.Len() > s.security.MaxSizes {
		return sizes.Plan{}, fmt.Errorf("%d sizes exceeds the maximum of %d", plan.Len(), s.security.MaxSizes)
	}
	if s.security.MaxSizeValue > 0 {
		if all := plan.Sizes(); all[len(all)-1] > s.security.MaxSizeValue {
			return sizes.Plan{}, fmt.Errorf("size %d exceeds the maximum of %d", all[len(all)-1], s.security.MaxSizeValue)
		}
	}
	return plan, nil
}

// analysisStatus maps an analysis error to an HTTP status.
func analysisStatus(err error) int {
	var candidateErr apperrors.CandidateError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.As(err, &candidateErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	if status >= http.StatusInternalServerError || status == http.StatusMethodNotAllowed {
		s.logger.Warn("request rejected", logging.Int("status", status), logging.String("message", msg))
	}
	writeJSON(w, status, ErrorResponse{Error: http.StatusText(status), Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
