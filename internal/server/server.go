package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/deal-forecast/internal/config"
	"github.com/iwvelando/deal-forecast/internal/forecast"
	"github.com/iwvelando/deal-forecast/internal/projection"
	"github.com/iwvelando/deal-forecast/internal/report"
	"github.com/iwvelando/deal-forecast/internal/store"
	"github.com/iwvelando/deal-forecast/pkg/constants"
	"github.com/iwvelando/deal-forecast/pkg/mathutil"
	"github.com/iwvelando/deal-forecast/pkg/output"
	"github.com/iwvelando/deal-forecast/pkg/validation"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

// DealStore is the persistence the deal routes need. *store.Store satisfies it.
type DealStore interface {
	Create(ctx context.Context, name string, params projection.DealParams) (store.Deal, error)
	Get(ctx context.Context, id string) (store.Deal, error)
	List(ctx context.Context) ([]store.Deal, error)
	Update(ctx context.Context, id, name string, params projection.DealParams) (store.Deal, error)
	Delete(ctx context.Context, id string) error
}

// Options configures NewHandler.
type Options struct {
	MaxUploadSize  int64
	Version        string
	Store          DealStore
	AllowedOrigins []string
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	store         DealStore
}

// NewHandler constructs the HTTP handler that serves the web UI and the
// projection API. Deal routes answer 503 when opts.Store is nil.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		store:         opts.Store,
	}

	r := mux.NewRouter()
	r.Use(h.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/defaults", h.handleDefaults).Methods(http.MethodGet)
	api.HandleFunc("/project", h.handleProject).Methods(http.MethodPost)
	api.HandleFunc("/forecast", h.handleForecast).Methods(http.MethodPost)
	api.HandleFunc("/editor/forecast", h.handleForecastEditor).Methods(http.MethodPost)
	api.HandleFunc("/editor/export", h.handleConfigExport).Methods(http.MethodPost)
	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)

	api.HandleFunc("/deals", h.handleListDeals).Methods(http.MethodGet)
	api.HandleFunc("/deals", h.handleCreateDeal).Methods(http.MethodPost)
	api.HandleFunc("/deals/{id}", h.handleGetDeal).Methods(http.MethodGet)
	api.HandleFunc("/deals/{id}", h.handleUpdateDeal).Methods(http.MethodPut)
	api.HandleFunc("/deals/{id}", h.handleDeleteDeal).Methods(http.MethodDelete)
	api.HandleFunc("/deals/{id}/projection", h.handleDealProjection).Methods(http.MethodGet)
	api.HandleFunc("/deals/{id}/report", h.handleDealReport).Methods(http.MethodGet)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	// Unknown /api paths and wrong methods must not fall through to the UI.
	r.PathPrefix("/").MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
		return !strings.HasPrefix(req.URL.Path, "/api/")
	}).Handler(http.FileServer(http.FS(sub)))

	if len(opts.AllowedOrigins) == 0 {
		return r
	}
	return cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Debug("request served",
			zap.String("op", "server.logRequests"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// projectRequest is the editor's JSON body. Missing params fields keep their
// DefaultDealParams values.
type projectRequest struct {
	Name   string          `json:"name"`
	Mode   string          `json:"mode"`
	Params json.RawMessage `json:"params"`
}

type projectResponse struct {
	ID       string                  `json:"id,omitempty"`
	Name     string                  `json:"name"`
	Mode     projection.DisplayMode  `json:"mode"`
	Params   projection.DealParams   `json:"params"`
	Records  []projection.YearRecord `json:"records"`
	Summary  projection.Summary      `json:"summary"`
	Series   []projection.Point      `json:"series"`
	Warnings []string                `json:"warnings,omitempty"`
	Duration string                  `json:"duration"`
}

type forecastResponse struct {
	Mode       projection.DisplayMode `json:"mode"`
	Deals      []dealResult           `json:"deals"`
	CSV        string                 `json:"csv"`
	Warnings   []string               `json:"warnings,omitempty"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

type dealResult struct {
	Name    string                  `json:"name"`
	Params  projection.DealParams   `json:"params"`
	Records []projection.YearRecord `json:"records"`
	Summary projection.Summary      `json:"summary"`
	Series  []projection.Point      `json:"series"`
}

type dealRequest struct {
	Name   string                `json:"name"`
	Params projection.DealParams `json:"params"`
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, projection.DefaultDealParams())
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleProject(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProject"
	start := time.Now()

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	mode, err := projection.ParseDisplayMode(req.Mode)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	params := projection.DefaultDealParams()
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode params: %v", err), op)
			return
		}
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "deal"
	}

	h.respondProjection(w, "", forecast.Run(h.logger, name, params), mode, start, op)
}

func (h *handler) respondProjection(w http.ResponseWriter, id string, result forecast.Forecast, mode projection.DisplayMode, start time.Time, op string) {
	if !finiteForecast(result) {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("deal %s produced non-finite figures; check the inputs", result.Name), op)
		return
	}

	warnings := validation.ValidateDeal(config.ParamsToValidationConfig(result.Name, result.Params))
	elapsed := time.Since(start)

	h.logger.Info("projection computed",
		zap.String("op", op),
		zap.String("deal", result.Name),
		zap.String("recoupment", result.Summary.RecoupmentLabel),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, projectResponse{
		ID:       id,
		Name:     result.Name,
		Mode:     mode,
		Params:   result.Params,
		Records:  result.Records,
		Summary:  result.Summary,
		Series:   projection.Series(result.Records, mode),
		Warnings: warnings,
		Duration: elapsed.String(),
	})
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	h.runForecast(w, configBytes, configMap, r.FormValue("mode"), start, op)
}

// handleForecastEditor runs a whole configuration posted as JSON, either
// bare or wrapped as {"config": {...}, "options": {"mode": "annual"}}.
func (h *handler) handleForecastEditor(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecastEditor"
	start := time.Now()

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid config payload: expected object", op)
			return
		}
		configPayload = cfgMap
	}

	modeValue := ""
	if rawOptions, ok := payload["options"]; ok {
		optsMap, ok := rawOptions.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid options payload: expected object", op)
			return
		}
		if m, ok := optsMap["mode"].(string); ok {
			modeValue = m
		}
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse configuration: %v", err), op)
		return
	}

	h.runForecast(w, configBytes, configMap, modeValue, start, op)
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// marshalOrderedConfigYAML writes logging and output first, then deals and
// any other keys alphabetically, so exported files read like the example.
func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"logging", "output", "deals"} {
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

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
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

func (h *handler) runForecast(w http.ResponseWriter, configBytes []byte, configMap map[string]interface{}, modeValue string, start time.Time, op string) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	if strings.TrimSpace(modeValue) == "" {
		modeValue = cfg.Output.Mode
	}
	mode, err := projection.ParseDisplayMode(modeValue)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	results := forecast.GetForecast(h.logger, *cfg)

	deals := make([]dealResult, 0, len(results))
	for _, result := range results {
		if !finiteForecast(result) {
			h.respondErrorWithOp(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("deal %s produced non-finite figures; check the inputs", result.Name), op)
			return
		}
		deals = append(deals, dealResult{
			Name:    result.Name,
			Params:  result.Params,
			Records: result.Records,
			Summary: result.Summary,
			Series:  projection.Series(result.Records, mode),
		})
	}

	if configMap == nil {
		configMap = make(map[string]interface{})
	}
	elapsed := time.Since(start)

	h.logger.Info("forecast computed",
		zap.String("op", op),
		zap.Int("deals", len(deals)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, forecastResponse{
		Mode:       mode,
		Deals:      deals,
		CSV:        output.CsvString(results, mode),
		Warnings:   warnings,
		Duration:   elapsed.String(),
		Config:     configMap,
		ConfigYAML: string(configBytes),
	})
}

func (h *handler) handleListDeals(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListDeals"
	if !h.requireStore(w, op) {
		return
	}

	deals, err := h.store.List(r.Context())
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, deals)
}

func (h *handler) handleCreateDeal(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateDeal"
	if !h.requireStore(w, op) {
		return
	}

	req, ok := h.decodeDeal(w, r, op)
	if !ok {
		return
	}
	deal, err := h.store.Create(r.Context(), req.Name, req.Params)
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, deal)
}

func (h *handler) handleGetDeal(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetDeal"
	if !h.requireStore(w, op) {
		return
	}

	deal, err := h.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, deal)
}

func (h *handler) handleUpdateDeal(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateDeal"
	if !h.requireStore(w, op) {
		return
	}

	req, ok := h.decodeDeal(w, r, op)
	if !ok {
		return
	}
	deal, err := h.store.Update(r.Context(), mux.Vars(r)["id"], req.Name, req.Params)
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, deal)
}

func (h *handler) handleDeleteDeal(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteDeal"
	if !h.requireStore(w, op) {
		return
	}

	if err := h.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleDealProjection(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDealProjection"
	start := time.Now()
	if !h.requireStore(w, op) {
		return
	}

	mode, err := projection.ParseDisplayMode(r.URL.Query().Get("mode"))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	deal, err := h.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}

	h.respondProjection(w, deal.ID, forecast.Run(h.logger, deal.Name, deal.Params), mode, start, op)
}

func (h *handler) handleDealReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDealReport"
	if !h.requireStore(w, op) {
		return
	}

	mode, err := projection.ParseDisplayMode(r.URL.Query().Get("mode"))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	deal, err := h.store.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}

	page, err := report.HTML(forecast.Run(h.logger, deal.Name, deal.Params), mode)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render report: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, page); err != nil {
		h.logger.Error("failed to write report", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) decodeDeal(w http.ResponseWriter, r *http.Request, op string) (dealRequest, bool) {
	req := dealRequest{Params: projection.DefaultDealParams()}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode deal: %v", err), op)
		return dealRequest{}, false
	}
	return req, true
}

func (h *handler) requireStore(w http.ResponseWriter, op string) bool {
	if h.store != nil {
		return true
	}
	h.respondErrorWithOp(w, http.StatusServiceUnavailable, "deal storage is not configured", op)
	return false
}

func (h *handler) respondStoreError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
	case errors.Is(err, store.ErrNameRequired):
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
	}
}

// finiteForecast reports whether every figure in result can be encoded as
// JSON. NaN and infinite inputs propagate through the engine unchanged.
func finiteForecast(result forecast.Forecast) bool {
	p := result.Params
	values := []float64{
		p.Advance, p.Marketing, p.SongCount, p.StreamingProfitSplit, p.SyncProfitSplit,
		p.PhysicalProfitSplit, p.BrandProfitSplit, p.StreamRate, p.StreamsPerSong,
		p.SyncPerSong, p.PhysicalGoods, p.BrandPartnerships, p.GrowthRate,
		result.Summary.TotalInvestment, result.Summary.UnrecoupedBalance,
	}
	for _, r := range result.Records {
		values = append(values,
			r.AnnualTotalRevenue, r.AnnualLabelRevenue, r.AnnualArtistRevenue, r.AnnualArtistGross,
			r.CumulativeTotalRevenue, r.CumulativeLabelRevenue, r.CumulativeArtistRevenue, r.CumulativeArtistGross,
		)
		for _, s := range r.Streams {
			values = append(values, s.Revenue, s.ArtistGross, s.LabelShare)
		}
	}
	for _, v := range values {
		if !mathutil.IsFinite(v) {
			return false
		}
	}
	return true
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

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}
