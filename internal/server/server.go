package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/floatcheck/internal/config"
	"github.com/iwvelando/floatcheck/internal/runner"
	"github.com/iwvelando/floatcheck/pkg/catalog"
	"github.com/iwvelando/floatcheck/pkg/constants"
	"github.com/iwvelando/floatcheck/pkg/output"
	"github.com/iwvelando/floatcheck/pkg/scenario"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the verification API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Verification endpoint (multipart upload or raw YAML body)
	mux.HandleFunc("/api/verify", h.handleVerify)

	// Kind catalog for suite authoring
	mux.HandleFunc("/api/kinds", h.handleKinds)

	// Canonical YAML serialization for suite downloads
	mux.HandleFunc("/api/export", h.handleSuiteExport)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type verifyResponse struct {
	Suite     string                 `json:"suite"`
	Scenarios []scenarioReport       `json:"scenarios"`
	Summary   runSummary             `json:"summary"`
	CSV       string                 `json:"csv"`
	Warnings  []string               `json:"warnings,omitempty"`
	Duration  string                 `json:"duration"`
	Config    map[string]interface{} `json:"config,omitempty"`
}

// scenarioReport mirrors scenario.Result for JSON clients. Observed and Delta
// are pointers because encoding/json cannot represent NaN or infinity; when
// the observation is non-finite they are omitted and ObservedText carries the
// value instead.
type scenarioReport struct {
	Name            string        `json:"name"`
	Kind            string        `json:"kind"`
	State           string        `json:"state"`
	Deterministic   bool          `json:"deterministic"`
	WithinTolerance bool          `json:"withinTolerance"`
	Observed        *float64      `json:"observed,omitempty"`
	ObservedText    string        `json:"observedText,omitempty"`
	Reference       float64       `json:"reference"`
	Delta           *float64      `json:"delta,omitempty"`
	Tolerance       float64       `json:"tolerance"`
	Repetitions     int           `json:"repetitions"`
	Spread          *spreadReport `json:"spread,omitempty"`
	Notes           []string      `json:"notes,omitempty"`
	Error           string        `json:"error,omitempty"`
}

type spreadReport struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
}

type runSummary struct {
	Scenarios         int `json:"scenarios"`
	Repetitions       int `json:"repetitions"`
	Passed            int `json:"passed"`
	FailedDeterminism int `json:"failedDeterminism"`
	FailedTolerance   int `json:"failedTolerance"`
	Errored           int `json:"errored"`
}

type kindInfo struct {
	Kind             string `json:"kind"`
	HasReferencePath bool   `json:"hasReferencePath"`
}

func (h *handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	suiteBytes, ok := h.readSuitePayload(w, r)
	if !ok {
		return
	}

	suiteMap, err := decodeYAMLToMap(suiteBytes)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err))
		return
	}

	h.runVerification(w, suiteBytes, suiteMap, start, "server.handleVerify")
}

// readSuitePayload extracts the YAML suite from either a multipart upload
// (form field "file") or a raw request body. On failure it writes the error
// response itself and returns false.
func (h *handler) readSuitePayload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.respondError(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
				return nil, false
			}
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
			return nil, false
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "missing configuration file")
			return nil, false
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil && h.logger != nil {
				h.logger.Warn("failed to close uploaded file",
					zap.String("op", "server.handleVerify"),
					zap.Error(closeErr),
				)
			}
		}()

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, file); err != nil {
			h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err))
			return nil, false
		}
		return buf.Bytes(), true
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r.Body); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
			return nil, false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
		return nil, false
	}
	if len(bytes.TrimSpace(buf.Bytes())) == 0 {
		h.respondError(w, http.StatusBadRequest, "missing suite configuration")
		return nil, false
	}
	return buf.Bytes(), true
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleKinds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	names := catalog.Kinds()
	infos := make([]kindInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, kindInfo{
			Kind:             name,
			HasReferencePath: catalog.HasReferencePath(name),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"kinds": infos,
	})
}

func (h *handler) handleSuiteExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleSuiteExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedSuiteYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleSuiteExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// marshalOrderedSuiteYAML renders a suite map with the framing sections first
// and the remaining keys sorted, so exported files diff cleanly.
func marshalOrderedSuiteYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"suite", "logging", "output"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedSuite{items: items}
	return yaml.Marshal(ordered)
}

type orderedSuite struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedSuite) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) runVerification(w http.ResponseWriter, suiteBytes []byte, suiteMap map[string]interface{}, start time.Time, op string) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(suiteBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	cfg.Normalize()
	warnings := cfg.ValidateConfiguration()

	batch, err := runner.NewRunner(h.logger, cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to prepare suite: %v", err), op)
		return
	}

	result, err := batch.Run()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to execute suite: %v", err), op)
		return
	}

	elapsed := time.Since(start)

	response := verifyResponse{
		Suite:     result.Suite,
		Scenarios: buildReports(result.Results),
		Summary:   buildSummary(result),
		CSV:       output.CsvString(result),
		Warnings:  warnings,
		Duration:  elapsed.String(),
		Config:    suiteMap,
	}

	if h.logger != nil {
		h.logger.Info("suite verified",
			zap.String("op", op),
			zap.String("suite", response.Suite),
			zap.Int("scenarios", response.Summary.Scenarios),
			zap.Int("passed", response.Summary.Passed),
			zap.Duration("duration", elapsed),
		)
	}

	h.writeJSON(w, http.StatusOK, response)
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondErrorWithOp(w, status, msg, "server.handleVerify")
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if h.logger != nil {
		h.logger.Error("verification request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func buildReports(results []scenario.Result) []scenarioReport {
	reports := make([]scenarioReport, 0, len(results))
	for _, res := range results {
		report := scenarioReport{
			Name:            res.Name,
			Kind:            res.Kind,
			State:           res.State.String(),
			Deterministic:   res.Deterministic,
			WithinTolerance: res.WithinTolerance,
			Reference:       res.Reference,
			Tolerance:       res.Tolerance,
			Repetitions:     res.Repetitions,
			Notes:           normalizeNotes(res.Notes),
		}

		if res.Err != nil {
			report.Error = res.Err.Error()
		} else {
			report.ObservedText = strconv.FormatFloat(res.Observed, 'g', -1, 64)
			if isFinite(res.Observed) {
				observed := res.Observed
				report.Observed = &observed
			}
			if delta := math.Abs(res.Observed - res.Reference); isFinite(delta) {
				d := delta
				report.Delta = &d
			}
		}

		if res.Spread.Valid {
			report.Spread = &spreadReport{
				Min:    res.Spread.Min,
				Max:    res.Spread.Max,
				Mean:   res.Spread.Mean,
				StdDev: res.Spread.StdDev,
			}
		}

		reports = append(reports, report)
	}
	return reports
}

func buildSummary(result *runner.Result) runSummary {
	counts := result.Counts()
	repetitions := 0
	for _, res := range result.Results {
		repetitions += res.Repetitions
	}

	return runSummary{
		Scenarios:         len(result.Results),
		Repetitions:       repetitions,
		Passed:            counts[scenario.StatePassed],
		FailedDeterminism: counts[scenario.StateFailedDeterminism],
		FailedTolerance:   counts[scenario.StateFailedTolerance],
		Errored:           counts[scenario.StateFailedError],
	}
}

func normalizeNotes(notes []string) []string {
	if len(notes) == 0 {
		return nil
	}

	filtered := make([]string, 0, len(notes))
	for _, note := range notes {
		if trimmed := strings.TrimSpace(note); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
