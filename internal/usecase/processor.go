package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"career-report/internal/assets"
	"career-report/internal/domain"
	"career-report/internal/populate"

	"golang.org/x/sync/errgroup"
)

// Renderer turns one populated HTML page into PDF bytes.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// RenderEngine hands out renderers bound to the shared browser process.
// Reset discards the process so the next Acquire starts a fresh one.
type RenderEngine interface {
	Acquire(ctx context.Context) (Renderer, error)
	Reset()
}

type Merger interface {
	Merge(docs [][]byte) ([]byte, error)
	PageCount(doc []byte) (int, error)
}

type Uploader interface {
	Upload(ctx context.Context, pdf []byte, filename, studentID string) (string, error)
}

type LinkRegistrar interface {
	SaveReportLink(ctx context.Context, studentID, link string) error
}

type ReportsRepo interface {
	Save(ctx context.Context, rec *domain.ReportRecord) error
}

// Assets is the preloaded template and reference data set.
type Assets interface {
	populate.Catalog
	Template(name string) (string, bool)
}

// Stages of the generation pipeline, reported in PipelineError.
const (
	StageEnrich  = "enrich"
	StageAcquire = "acquire"
	StageRender  = "render"
	StageMerge   = "merge"
	StageUpload  = "upload"
)

// PipelineError is a failed report generation. The browser has been reset
// by the time it is returned.
type PipelineError struct {
	Stage string
	Page  string
	Err   error
}

func (e *PipelineError) Error() string {
	if e.Page != "" {
		return fmt.Sprintf("%s %s: %v", e.Stage, e.Page, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Result describes a generated and uploaded report.
type Result struct {
	Link      string
	FileName  string
	StudentID string
	PageCount int
	SizeBytes int
}

type Processor struct {
	assets    Assets
	engine    RenderEngine
	merger    Merger
	uploader  Uploader
	registrar LinkRegistrar
	repo      ReportsRepo
	logger    *slog.Logger
	pages     []string
	now       func() time.Time

	registrarTimeout time.Duration
	background       sync.WaitGroup
}

// Option configures a Processor.
type Option func(*Processor)

func WithRegistrar(r LinkRegistrar) Option { return func(p *Processor) { p.registrar = r } }

func WithReportsRepo(r ReportsRepo) Option { return func(p *Processor) { p.repo = r } }

func WithLogger(l *slog.Logger) Option { return func(p *Processor) { p.logger = l } }

// WithClock overrides the clock used for report file names.
func WithClock(now func() time.Time) Option { return func(p *Processor) { p.now = now } }

func WithRegistrarTimeout(d time.Duration) Option {
	return func(p *Processor) { p.registrarTimeout = d }
}

func NewProcessor(a Assets, engine RenderEngine, merger Merger, uploader Uploader, opts ...Option) *Processor {
	p := &Processor{
		assets:           a,
		engine:           engine,
		merger:           merger,
		uploader:         uploader,
		logger:           slog.Default(),
		pages:            assets.TemplateNames,
		now:              time.Now,
		registrarTimeout: 10 * time.Second,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Generate renders, merges and uploads the report for req and returns its
// link. Any failure before the link exists resets the shared browser.
func (p *Processor) Generate(ctx context.Context, req *domain.ReportRequest) (*Result, error) {
	start := time.Now()
	studentID := req.ResolvedStudentID()
	log := p.logger.With("student_id", studentID)

	res, err := p.generate(ctx, req, studentID, log)
	if err != nil {
		p.engine.Reset()
		var perr *PipelineError
		if errors.As(err, &perr) {
			log.Error("report generation failed", "stage", perr.Stage, "page", perr.Page, "error", perr.Err)
		}
		return nil, err
	}

	if studentID != "" && p.registrar != nil {
		p.registerAsync(studentID, res.Link, log)
	}
	if p.repo != nil {
		rec := &domain.ReportRecord{
			StudentID:  studentID,
			FileName:   res.FileName,
			ReportLink: res.Link,
			PageCount:  res.PageCount,
			SizeBytes:  res.SizeBytes,
			CreatedAt:  p.now().UTC(),
		}
		if err := p.repo.Save(ctx, rec); err != nil {
			log.Warn("failed to record report", "error", err)
		}
	}

	log.Info("report generated", "file", res.FileName, "pages", res.PageCount, "bytes", res.SizeBytes, "duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

func (p *Processor) generate(ctx context.Context, req *domain.ReportRequest, studentID string, log *slog.Logger) (*Result, error) {
	data, err := Enrich(req.ReportData, p.assets)
	if err != nil {
		return nil, &PipelineError{Stage: StageEnrich, Err: err}
	}

	renderer, err := p.engine.Acquire(ctx)
	if err != nil {
		return nil, &PipelineError{Stage: StageAcquire, Err: err}
	}

	id := populate.Identity{StudentID: studentID, StudentName: req.StudentName}
	pdfs, err := p.renderPages(ctx, renderer, data, id, log)
	if err != nil {
		return nil, err
	}

	merged, err := p.merger.Merge(pdfs)
	if err != nil {
		return nil, &PipelineError{Stage: StageMerge, Err: err}
	}
	pages, err := p.merger.PageCount(merged)
	if err != nil {
		return nil, &PipelineError{Stage: StageMerge, Err: err}
	}

	name := ReportFilename(firstNonBlank(req.StudentName, data.StudentName), studentID, p.now())
	link, err := p.uploader.Upload(ctx, merged, name, studentID)
	if err != nil {
		return nil, &PipelineError{Stage: StageUpload, Err: err}
	}

	return &Result{Link: link, FileName: name, StudentID: studentID, PageCount: pages, SizeBytes: len(merged)}, nil
}

// renderPages populates and renders every page concurrently. Results are
// indexed by template position so completion order never affects the output.
func (p *Processor) renderPages(ctx context.Context, r Renderer, data *domain.ReportPayload, id populate.Identity, log *slog.Logger) ([][]byte, error) {
	results := make([][]byte, len(p.pages))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range p.pages {
		g.Go(func() error {
			tpl, ok := p.assets.Template(name)
			if !ok {
				return &PipelineError{Stage: StageRender, Page: name, Err: fmt.Errorf("template not loaded")}
			}
			html, err := populate.Populate(tpl, populate.PageFromName(name), data, id, p.assets)
			if err != nil {
				return &PipelineError{Stage: StageRender, Page: name, Err: err}
			}
			started := time.Now()
			pdf, err := r.RenderHTMLToPDF(gctx, html)
			if err != nil {
				return &PipelineError{Stage: StageRender, Page: name, Err: err}
			}
			log.Debug("page rendered", "page", name, "bytes", len(pdf), "duration_ms", time.Since(started).Milliseconds())
			results[i] = pdf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// registerAsync records the link with the backend without holding up the
// response. Failures are logged only.
func (p *Processor) registerAsync(studentID, link string, log *slog.Logger) {
	p.background.Add(1)
	go func() {
		defer p.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), p.registrarTimeout)
		defer cancel()
		if err := p.registrar.SaveReportLink(ctx, studentID, link); err != nil {
			log.Warn("failed to save report link", "error", err)
		}
	}()
}

// Drain waits for background link registrations to finish or ctx to end.
func (p *Processor) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.background.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
