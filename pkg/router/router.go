package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/citizenwallet/governance/internal/governance"
	"github.com/citizenwallet/governance/internal/logger"
	"github.com/citizenwallet/governance/internal/reports"
	"github.com/citizenwallet/governance/internal/services/db"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	operator common.Address
	db       *db.DB
	gen      reports.Generator
	lggr     logger.Logger
}

func NewServer(operator common.Address, db *db.DB, gen reports.Generator, lggr logger.Logger) *Router {
	return &Router{
		operator: operator,
		db:       db,
		gen:      gen,
		lggr:     lggr,
	}
}

// Handler builds the route tree
func (r *Router) Handler() http.Handler {
	cr := chi.NewRouter()

	// configure middleware
	cr.Use(middleware.RequestID)
	cr.Use(middleware.Recoverer)

	// configure custom middleware
	cr.Use(OptionsMiddleware)
	cr.Use(HealthMiddleware)
	cr.Use(RequestSizeLimitMiddleware(1 << 20)) // Limit request bodies to 1MB
	cr.Use(middleware.Compress(9))

	// instantiate handlers
	rep := reports.NewService(r.db, r.gen, r.lggr.Named("reports"))
	gov := governance.NewService(r.db)

	cr.Handle("/metrics", promhttp.Handler())

	// configure routes
	cr.Route("/reports", func(cr chi.Router) {
		cr.Get("/", rep.Kinds)
		cr.Get("/id/{run_id}", rep.GetByID)

		cr.Route("/{kind}", func(cr chi.Router) {
			cr.Get("/", rep.Get)
			cr.Get("/latest", rep.GetLatest)

			cr.Post("/", withOperatorSignature(r.operator, rep.Generate))
		})
	})

	cr.Route("/proposals/{governor}", func(cr chi.Router) {
		cr.Get("/", gov.GetProposals)
		cr.Get("/{run_id}", gov.GetProposal)
	})

	return cr
}

// Start serves until ctx is cancelled
func (r *Router) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", port),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdown); err != nil {
			r.lggr.Errorw("shutting down", "error", err)
		}
	}()

	r.lggr.Infow("listening", "port", port)

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}
