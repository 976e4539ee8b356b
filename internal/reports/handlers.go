package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	com "github.com/citizenwallet/governance/internal/common"
	"github.com/citizenwallet/governance/internal/logger"
	"github.com/citizenwallet/governance/internal/services/db"
	"github.com/citizenwallet/governance/pkg/governance"
	"github.com/citizenwallet/governance/pkg/report"
	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"
)

// Generator creates a report on demand
type Generator interface {
	Catalog() report.Catalog
	Generate(ctx context.Context, kind string) (*report.Report, error)
}

type Service struct {
	db   *db.DB
	gen  Generator
	lggr logger.Logger
}

func NewService(db *db.DB, gen Generator, lggr logger.Logger) *Service {
	return &Service{
		db:   db,
		gen:  gen,
		lggr: lggr,
	}
}

type entryMeta struct {
	RunID     string `json:"run_id"`
	Kind      string `json:"kind"`
	Governor  string `json:"governor"`
	ChainID   int64  `json:"chain_id"`
	Path      string `json:"path"`
	CreatedAt string `json:"created_at"`
	Field     string `json:"field,omitempty"`
}

func meta(e *governance.ReportEntry) *entryMeta {
	return &entryMeta{
		RunID:     e.RunID,
		Kind:      e.Kind,
		Governor:  e.Governor,
		ChainID:   e.ChainID,
		Path:      e.Path,
		CreatedAt: report.Timestamp(e.CreatedAt),
	}
}

func (s *Service) knownKind(w http.ResponseWriter, r *http.Request) (string, bool) {
	kind := chi.URLParam(r, "kind")

	_, err := s.gen.Catalog().Get(kind)
	if err != nil {
		com.Error(w, http.StatusNotFound, err)
		return "", false
	}

	return kind, true
}

// Kinds godoc
//
//	@Summary	List report kinds
//	@Tags		reports
//	@Produce	json
//	@Success	200	{object}	common.Response
//	@Router		/reports [get]
func (s *Service) Kinds(w http.ResponseWriter, r *http.Request) {
	err := com.BodyMultiple(w, s.gen.Catalog().Kinds(), nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Get godoc
//
//	@Summary		Fetch archived reports
//	@Description	list the archived reports of a kind, newest first, without their documents
//	@Tags			reports
//	@Produce		json
//	@Param			kind	path		string	true	"Report kind"
//	@Success		200		{object}	common.Response
//	@Failure		404
//	@Failure		500
//	@Router			/reports/{kind} [get]
func (s *Service) Get(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.knownKind(w, r)
	if !ok {
		return
	}

	// parse pagination params from url query
	limitq := r.URL.Query().Get("limit")
	offsetq := r.URL.Query().Get("offset")

	limit, err := strconv.Atoi(limitq)
	if err != nil || limit <= 0 {
		limit = 20
	}

	offset, err := strconv.Atoi(offsetq)
	if err != nil || offset < 0 {
		offset = 0
	}

	entries, err := s.db.ReportDB.GetReports(r.Context(), kind, limit, offset)
	if err != nil {
		s.lggr.Errorw("listing reports", "kind", kind, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	total, err := s.db.ReportDB.CountReports(r.Context(), kind)
	if err != nil {
		s.lggr.Errorw("counting reports", "kind", kind, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	metas := make([]*entryMeta, 0, len(entries))
	for _, e := range entries {
		metas = append(metas, meta(e))
	}

	err = com.BodyMultiple(w, metas, com.Pagination{Limit: limit, Offset: offset, Total: total})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// GetLatest godoc
//
//	@Summary		Fetch the latest report
//	@Description	returns the newest archived document of a kind, or a single value of it with ?field=<path>
//	@Tags			reports
//	@Produce		json
//	@Param			kind	path		string	true	"Report kind"
//	@Param			field	query		string	false	"gjson path inside the document"
//	@Success		200		{object}	common.Response
//	@Failure		404
//	@Failure		500
//	@Router			/reports/{kind}/latest [get]
func (s *Service) GetLatest(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.knownKind(w, r)
	if !ok {
		return
	}

	e, err := s.db.ReportDB.GetLatestReport(r.Context(), kind)
	if err != nil {
		s.notFoundOr500(w, err)
		return
	}

	s.document(w, r, e)
}

// GetByID godoc
//
//	@Summary	Fetch a report by run id
//	@Tags		reports
//	@Produce	json
//	@Param		run_id	path		string	true	"Report run id"
//	@Param		field	query		string	false	"gjson path inside the document"
//	@Success	200		{object}	common.Response
//	@Failure	404
//	@Failure	500
//	@Router		/reports/id/{run_id} [get]
func (s *Service) GetByID(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "run_id")

	e, err := s.db.ReportDB.GetReport(r.Context(), runID)
	if err != nil {
		s.notFoundOr500(w, err)
		return
	}

	s.document(w, r, e)
}

func (s *Service) document(w http.ResponseWriter, r *http.Request, e *governance.ReportEntry) {
	m := meta(e)
	body := json.RawMessage(e.Document)

	if field := r.URL.Query().Get("field"); field != "" {
		res := gjson.GetBytes(e.Document, field)
		if !res.Exists() {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		m.Field = field
		body = json.RawMessage(res.Raw)
	}

	err := com.Body(w, body, m)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (s *Service) notFoundOr500(w http.ResponseWriter, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	s.lggr.Errorw("reading report", "error", err)
	w.WriteHeader(http.StatusInternalServerError)
}

type generated struct {
	RunID       string            `json:"run_id"`
	Kind        string            `json:"kind"`
	Path        string            `json:"path"`
	Unavailable map[string]string `json:"unavailable,omitempty"`
}

// Generate godoc
//
//	@Summary		Generate a report
//	@Description	reads the governance contract and writes a new report, requires an operator signature
//	@Tags			reports
//	@Produce		json
//	@Param			kind	path		string	true	"Report kind"
//	@Success		201		{object}	common.Response
//	@Failure		401
//	@Failure		403
//	@Failure		404
//	@Failure		500
//	@Router			/reports/{kind} [post]
func (s *Service) Generate(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.knownKind(w, r)
	if !ok {
		return
	}

	addr, _ := com.GetContextAddress(r.Context())

	rep, err := s.gen.Generate(r.Context(), kind)
	if err != nil {
		s.lggr.Errorw("generating report", "kind", kind, "operator", addr, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	err = com.Body(w, &generated{
		RunID:       rep.RunID,
		Kind:        rep.Kind,
		Path:        rep.Path,
		Unavailable: rep.Unavailable,
	}, nil)
	if err != nil {
		s.lggr.Errorw("writing response", "error", err)
	}
}
