// Package server provides the HTTP handlers and routing for the bid search
// service: a search form, a JSON API, spreadsheet export and MCP tools.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"g2b-bids/internal/export"
	"g2b-bids/internal/g2b"
)

// Config contains server configuration values such as the auth token and
// upstream API settings.
type Config struct {
	Token       string
	ServiceKey  string
	BaseURL     string
	Timeout     time.Duration
	CORSOrigins []string
}

// Server contains the configured router, upstream client, metrics and
// config for the search service.
type Server struct {
	cfg          Config
	router       *chi.Mux
	client       *g2b.Client
	metrics      *Metrics
	log          logrus.FieldLogger
	now          func() time.Time
	toolHandlers map[string]http.HandlerFunc
}

// New constructs a Server with middleware and routes configured. A nil
// logger falls back to the logrus standard logger.
func New(cfg Config, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Server{
		cfg:     cfg,
		router:  chi.NewRouter(),
		client:  g2b.NewClient(cfg.ServiceKey, g2b.WithBaseURL(cfg.BaseURL), g2b.WithTimeout(cfg.Timeout)),
		metrics: NewMetrics(),
		log:     logger,
		now:     time.Now,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.router.Group(func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/", s.handlePage)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/search", s.handleSearch)
		r.Get("/search.xlsx", s.handleExport)
	})

	s.router.Route("/mcp", func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/tools", s.handleListTools)
		r.Post("/call", s.handleCall)
	})

	s.registerToolHandlers()

	return s
}

func (s *Server) registerToolHandlers() {
	s.toolHandlers = map[string]http.HandlerFunc{
		"g2b_bid_search": s.handleBidSearchTool,
	}
}

// Router exposes the root HTTP handler for the server, wrapped with CORS
// and gzip compression.
func (s *Server) Router() http.Handler {
	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return gziphandler.GzipHandler(c.Handler(s.router))
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.cfg.Token {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// search runs one pipeline pass and records it.
func (s *Server) search(ctx context.Context, crit g2b.Criteria) g2b.Result {
	start := s.now()
	res := g2b.Search(ctx, s.client, crit)
	elapsed := s.now().Sub(start)
	s.metrics.observe(res, elapsed)

	entry := s.log.WithFields(logrus.Fields{
		"outcome": res.Outcome,
		"rows":    res.Table.Len(),
		"elapsed": elapsed.Round(time.Millisecond).String(),
		"page":    crit.PageNo,
	})
	if res.Outcome == g2b.OutcomeOK || res.Outcome == g2b.OutcomeEmpty {
		entry.Info("bid search")
	} else {
		entry.Warn("bid search failed")
	}
	return res
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	crit, err := criteriaFromQuery(q, s.now())
	data := newPageData(crit)
	switch {
	case err != nil:
		data.Error = err.Error()
	case q.Get("run") != "":
		res := s.search(r.Context(), crit)
		data.Ran = true
		data.Result = newSearchResponse(res, crit)
		data.ExportURL = "/api/search.xlsx?" + toQuery(crit).Encode()
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		s.log.WithError(err).Error("render page")
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	crit, err := criteriaFromQuery(r.URL.Query(), s.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res := s.search(r.Context(), crit)
	writeJSON(w, http.StatusOK, newSearchResponse(res, crit))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	crit, err := criteriaFromQuery(r.URL.Query(), s.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res := s.search(r.Context(), crit)
	if res.Table.Len() == 0 {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, res.Log.String()+"\n")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, res.Table); err != nil {
		s.log.WithError(err).Error("export xlsx")
		http.Error(w, "엑셀 생성 중 오류: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": export.FileName(s.now()),
	}))
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	str := map[string]interface{}{"type": "string"}
	tools := []Tool{
		{
			Name:        "g2b_bid_search",
			Description: "Search 나라장터 construction-bid announcements with price and contract-method filters",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"startDate": map[string]interface{}{"type": "string", "format": "date"},
					"endDate":   map[string]interface{}{"type": "string", "format": "date"},
					"basis":     map[string]interface{}{"type": "string", "enum": []string{"announcement", "opening"}},
					"title":     str,
					"industry":  str,
					"region":    str,
					"minPrice":  str,
					"maxPrice":  str,
					"contract": map[string]interface{}{
						"type": "string",
						"enum": []string{string(g2b.ContractAll), string(g2b.ContractOnlyNegotiated), string(g2b.ContractExcludeNegotiated)},
					},
					"pageNo":    map[string]interface{}{"type": "integer", "minimum": g2b.MinPageNo, "maximum": g2b.MaxPageNo},
					"numOfRows": map[string]interface{}{"type": "integer", "minimum": g2b.MinNumOfRows, "maximum": g2b.MaxNumOfRows},
				},
			},
		},
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tools": tools})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if handler, ok := s.toolHandlers[req.Name]; ok {
		// Tool handlers decode their arguments from the request body.
		jsonArgs, err := json.Marshal(req.Args)
		if err != nil {
			http.Error(w, "invalid arguments", http.StatusBadRequest)
			return
		}
		newReq := r.WithContext(r.Context())
		newReq.Body = io.NopCloser(bytes.NewReader(jsonArgs))
		handler.ServeHTTP(w, newReq)
		return
	}

	http.Error(w, "unknown tool", http.StatusNotFound)
}

func (s *Server) handleBidSearchTool(w http.ResponseWriter, r *http.Request) {
	var a searchArgs
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	crit, err := criteriaFromArgs(a, s.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res := s.search(r.Context(), crit)
	writeJSON(w, http.StatusOK, newSearchResponse(res, crit))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
