package report

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/citizenwallet/governance/internal/logger"
	"github.com/citizenwallet/governance/internal/metrics"
	"github.com/citizenwallet/governance/internal/storage"
	"github.com/citizenwallet/governance/pkg/governance"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

const (
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

	keyUnavailable = "unavailable"
	keyToken       = "tokenContext"
)

// Timestamp formats t the way report documents carry it
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// Archiver stores generated reports next to the files
type Archiver interface {
	SaveReport(ctx context.Context, e *governance.ReportEntry) error
}

type Report struct {
	RunID     string
	Kind      string
	Path      string
	CreatedAt time.Time
	Document  *Document
	// Unavailable maps category keys to the errors of their getters
	Unavailable map[string]string
	// Skipped lists the rules that could not be evaluated
	Skipped []string
}

type Generator struct {
	reader     *governance.Reader
	caller     bind.ContractCaller
	reportsDir string
	catalog    Catalog

	chainID   int64
	token     *common.Address
	overrides Overrides
	archive   Archiver
	metrics   *metrics.GovernanceMetrics
	lggr      logger.Logger
	now       func() time.Time
}

type Option func(*Generator)

func WithChainID(id int64) Option {
	return func(g *Generator) {
		g.chainID = id
	}
}

// WithToken adds the token supply to reports that ask for it
func WithToken(addr common.Address) Option {
	return func(g *Generator) {
		g.token = &addr
	}
}

func WithOverrides(o Overrides) Option {
	return func(g *Generator) {
		g.overrides = o
	}
}

func WithArchive(a Archiver) Option {
	return func(g *Generator) {
		g.archive = a
	}
}

func WithMetrics(m *metrics.GovernanceMetrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

func WithLogger(l logger.Logger) Option {
	return func(g *Generator) {
		g.lggr = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func WithCatalog(c Catalog) Option {
	return func(g *Generator) {
		g.catalog = c
	}
}

func New(addr common.Address, caller bind.ContractCaller, reportsDir string, opts ...Option) *Generator {
	g := &Generator{
		reader:     governance.NewReader(addr, caller),
		caller:     caller,
		reportsDir: reportsDir,
		catalog:    Definitions(),
		lggr:       logger.Nop(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

func (g *Generator) Catalog() Catalog {
	return g.catalog
}

// Build reads every category of def and evaluates its rules without writing anything.
// A failing getter leaves its category empty and is listed under unavailable.
func (g *Generator) Build(ctx context.Context, def Definition) *Report {
	now := g.now().UTC()

	r := &Report{
		RunID:       uuid.NewString(),
		Kind:        def.Kind,
		CreatedAt:   now,
		Document:    NewDocument(),
		Unavailable: map[string]string{},
	}
	r.Path = filepath.Join(g.reportsDir, def.Dir, fmt.Sprintf("%s-%d.json", def.Prefix, now.UnixMilli()))

	doc := r.Document
	doc.Set("timestamp", Timestamp(now))
	doc.Set("governanceAddress", g.reader.Address().Hex())
	doc.Set("kind", def.Kind)
	doc.Set("runId", r.RunID)
	doc.Set("chainId", g.chainID)

	for _, c := range def.Categories {
		doc.Object(c.Key)
	}

	for _, c := range def.Categories {
		err := g.read(ctx, c, doc)
		if err != nil {
			g.lggr.Warnw("category unavailable", "kind", def.Kind, "category", c.Key, "error", err)
			g.metrics.ObserveGetterFailure(def.Kind, c.Key)
			r.unavailable(c.Key, err)
		}
	}

	if def.Static != nil {
		def.Static(now, doc)
	}

	if def.TokenContext && g.token != nil {
		o, err := tokenContext(ctx, *g.token, g.caller)
		if err != nil {
			r.unavailable(keyToken, err)
			o = newObject()
		}
		doc.Set(keyToken, o)
	}

	if def.Status != nil {
		doc.Set(def.Status.Key, def.Status.Default)
	}

	for _, l := range def.Lists {
		doc.Set(l, []string{})
	}

	r.Skipped = def.Apply(doc, g.overrides)

	if len(r.Unavailable) > 0 {
		u := newObject()
		for _, c := range def.Categories {
			if msg, ok := r.Unavailable[c.Key]; ok {
				u.Set(c.Key, msg)
			}
		}
		if msg, ok := r.Unavailable[keyToken]; ok {
			u.Set(keyToken, msg)
		}
		doc.Set(keyUnavailable, u)
	}

	return r
}

func (r *Report) unavailable(key string, err error) {
	if prev, ok := r.Unavailable[key]; ok {
		r.Unavailable[key] = strings.Join([]string{prev, err.Error()}, "; ")
		return
	}
	r.Unavailable[key] = err.Error()
}

func (g *Generator) read(ctx context.Context, c Category, doc *Document) error {
	values, err := g.reader.Read(ctx, c.GetterABI(), c.args()...)
	if err != nil {
		return err
	}

	if c.Single {
		f := c.Fields[0]
		v, err := display(f, values[f.Name])
		if err != nil {
			return fmt.Errorf("%s.%s: %w", c.Getter, f.Name, err)
		}
		doc.SetPath(c.Key, v)
		return nil
	}

	// convert everything first so a bad field leaves the category untouched
	converted := make([]any, len(c.Fields))
	for i, f := range c.Fields {
		v, err := display(f, values[f.Name])
		if err != nil {
			return fmt.Errorf("%s.%s: %w", c.Getter, f.Name, err)
		}
		converted[i] = v
	}

	o := doc.Object(c.Key)
	for i, f := range c.Fields {
		o.Set(f.Name, converted[i])
	}

	return nil
}

func display(f Field, v any) (any, error) {
	switch f.Mode {
	case ModeLength:
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fmt.Errorf("cannot take length of %T", v)
		}
		return rv.Len(), nil
	case ModeRaw:
		return governance.Normalize(v), nil
	}

	n := governance.Normalize(v)
	if s, ok := n.(string); ok {
		return s, nil
	}
	return fmt.Sprint(n), nil
}

// Write saves the report file and archives it when an archive is configured
func (g *Generator) Write(ctx context.Context, r *Report) error {
	err := storage.SaveJSON(r.Path, r.Document)
	if err != nil {
		return err
	}

	if g.archive == nil {
		return nil
	}

	b, err := r.Document.MarshalJSON()
	if err != nil {
		return err
	}

	return g.archive.SaveReport(ctx, &governance.ReportEntry{
		RunID:     r.RunID,
		Kind:      r.Kind,
		Governor:  g.reader.Address().Hex(),
		ChainID:   g.chainID,
		Path:      r.Path,
		Document:  b,
		CreatedAt: r.CreatedAt,
	})
}

// Generate builds and writes the report of the given kind
func (g *Generator) Generate(ctx context.Context, kind string) (*Report, error) {
	def, err := g.catalog.Get(kind)
	if err != nil {
		return nil, err
	}

	r := g.Build(ctx, def)

	err = g.Write(ctx, r)
	g.metrics.ObserveReport(kind, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	g.lggr.Infow("report created",
		"kind", kind,
		"path", r.Path,
		"run_id", r.RunID,
		"unavailable", len(r.Unavailable),
		"advice", r.advice(def),
	)

	return r, nil
}

// GenerateAll runs every definition of the catalog, a failing report does not stop the others
func (g *Generator) GenerateAll(ctx context.Context) ([]*Report, error) {
	var (
		reports []*Report
		errs    []error
	)

	for _, kind := range g.catalog.Kinds() {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		r, err := g.Generate(ctx, kind)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		reports = append(reports, r)
	}

	return reports, errors.Join(errs...)
}

func (r *Report) advice(def Definition) int {
	n := 0
	for _, l := range def.Lists {
		n += len(r.Document.List(l))
	}
	return n
}
