package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pagelens/pagelens/internal/document"
	"github.com/pagelens/pagelens/internal/fetch"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/pipeline"
	"github.com/pagelens/pagelens/internal/render"
)

// maxSelectorMatches bounds the per-selector results returned to callers.
const maxSelectorMatches = 20

// extractRequest is the POST /api/v1/extract body.
type extractRequest struct {
	// URL is the page to extract. Required.
	URL string `json:"url"`

	// Format selects the output encoding. Empty defaults to json.
	Format string `json:"format,omitempty"`

	// Selectors maps result names to CSS selectors evaluated against
	// the parsed page. Matched element text comes back under
	// selections; a selector that matches nothing yields an empty list.
	Selectors map[string]string `json:"selectors,omitempty"`
}

// extractResponse is the success envelope. Data holds the report as a
// JSON object for the json format and as a string for every other
// encoding. Selections carries the caller's custom selector results.
type extractResponse struct {
	Success    bool                `json:"success"`
	Data       any                 `json:"data"`
	Selections map[string][]string `json:"selections,omitempty"`
	Metadata   model.Metadata      `json:"metadata"`
}

// errorResponse is the failure envelope.
type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// handleExtract runs the pipeline for one URL and writes the wrapped,
// serialized report.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidInput", "request body must be JSON with a url field")
		return
	}
	if req.URL == "" {
		s.writeError(w, http.StatusBadRequest, "InvalidInput", "url is required")
		return
	}

	format, err := render.ParseFormat(req.Format)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "InvalidInput", err.Error())
		return
	}

	run := pipeline.NewRun(req.URL)
	if err := s.pipelineFactory().Execute(r.Context(), run); err != nil {
		s.writePipelineError(w, err)
		return
	}

	data, err := s.serialize(run.Report, format)
	if err != nil {
		// Writers are total; reaching this means the envelope itself
		// could not be produced.
		s.writeError(w, http.StatusInternalServerError, "SerializationFailure", err.Error())
		return
	}

	var selections map[string][]string
	if len(req.Selectors) > 0 && run.Doc != nil {
		selections = make(map[string][]string, len(req.Selectors))
		for name, selector := range req.Selectors {
			selections[name] = run.Doc.SelectTexts(selector, maxSelectorMatches)
		}
	}

	s.writeJSON(w, http.StatusOK, extractResponse{
		Success:    true,
		Data:       data,
		Selections: selections,
		Metadata:   run.Report.Meta(string(format)),
	})
}

// serialize renders the report in the requested format. The json
// format returns the raw message so the envelope embeds an object, not
// an escaped string.
func (s *Server) serialize(report *model.ExtractionReport, format render.Format) (any, error) {
	var buf bytes.Buffer
	writer, err := render.New(format, &buf)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(report); err != nil {
		return nil, err
	}

	if format == render.FormatJSON {
		return json.RawMessage(bytes.TrimSpace(buf.Bytes())), nil
	}
	return buf.String(), nil
}

// writePipelineError maps a pipeline failure onto the error taxonomy.
// Invalid input is the caller's fault, timeouts get 408, upstream proxy
// failures surface as 502, and parse failures are internal errors.
func (s *Server) writePipelineError(w http.ResponseWriter, err error) {
	var timeoutErr *fetch.TimeoutError
	var upstreamErr *fetch.UpstreamError
	var parseErr *document.ParseError

	switch {
	case errors.Is(err, fetch.ErrInvalidURL):
		s.writeError(w, http.StatusBadRequest, "InvalidInput", err.Error())
	case errors.As(err, &timeoutErr):
		s.writeError(w, http.StatusRequestTimeout, "TimeoutError", timeoutErr.Error())
	case errors.As(err, &upstreamErr):
		s.writeError(w, http.StatusBadGateway, "UpstreamError", upstreamErr.Error())
	case errors.As(err, &parseErr):
		s.writeError(w, http.StatusInternalServerError, "ParseError", parseErr.Error())
	case errors.Is(err, fetch.ErrEmptyContent):
		s.writeError(w, http.StatusBadGateway, "UpstreamError", err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, "InternalError", err.Error())
	}
}

// handleFormats lists the supported output formats.
func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	formats := render.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"formats": names})
}

// handleHealth reports liveness and the build version.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

// writeJSON writes a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "error", err)
	}
}

// writeError writes the failure envelope.
func (s *Server) writeError(w http.ResponseWriter, status int, errType, message string) {
	s.writeJSON(w, status, errorResponse{
		Success: false,
		Error: errorBody{
			Type:    errType,
			Message: message,
		},
	})
}
