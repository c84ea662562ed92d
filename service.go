package interpro2go

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/interpro2go/internal/logging"
	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/aretw0/interpro2go/pkg/fasta"
	"github.com/aretw0/interpro2go/pkg/observability"
	"github.com/aretw0/interpro2go/pkg/ports"
	"github.com/google/uuid"
)

// Scratch file names. Every invocation reuses them; a Service serialises the
// project and annotate steps so concurrent calls do not overwrite each other's files.
const (
	ProteinFile = "protein.fa"
	ResultFile  = "protein.tsv"
)

// Service runs the interpro2go annotation method.
type Service struct {
	scratch string
	stores  ports.StoreFactory
	tool    ports.ToolRunner

	// scratchMu guards the files under scratch.
	scratchMu sync.Mutex

	locker  ports.DistributedLocker
	lockTTL time.Duration

	failOnToolError bool
	reportName      func() string

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithLogger sets a custom structured logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics records every invocation on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLocker serialises invocations that write the same output object.
// The lock expires after ttl if the holder dies.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(s *Service) {
		s.locker = locker
		s.lockTTL = ttl
	}
}

// WithFailOnToolError makes a non-zero tool exit status fail the invocation
// instead of being logged.
func WithFailOnToolError(fail bool) Option {
	return func(s *Service) {
		s.failOnToolError = fail
	}
}

// WithReportNamer overrides how report object names are generated.
func WithReportNamer(namer func() string) Option {
	return func(s *Service) {
		s.reportName = namer
	}
}

// New creates a Service writing its intermediate files under scratch.
func New(scratch string, stores ports.StoreFactory, tool ports.ToolRunner, opts ...Option) (*Service, error) {
	if scratch == "" {
		return nil, fmt.Errorf("scratch directory is required")
	}
	if stores == nil {
		return nil, fmt.Errorf("object store factory is required")
	}
	if tool == nil {
		return nil, fmt.Errorf("tool runner is required")
	}

	abs, err := filepath.Abs(scratch)
	if err != nil {
		return nil, fmt.Errorf("invalid scratch path: %w", err)
	}

	s := &Service{
		scratch:    abs,
		stores:     stores,
		tool:       tool,
		lockTTL:    10 * time.Minute,
		reportName: NewReportName,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s, nil
}

// NewReportName returns a fresh report object name.
func NewReportName() string {
	return domain.ReportPrefix + uuid.NewString()
}

// Scratch returns the absolute scratch directory.
func (s *Service) Scratch() string {
	return s.scratch
}

// Interpro2GO annotates the input genome and saves it as OutputGenome in the same
// workspace, followed by a hidden report pointing at it.
//
// Each step runs only if the previous one succeeded; in particular no report is
// saved when the genome save fails. Errors match one of the domain kinds.
func (s *Service) Interpro2GO(ctx context.Context, call domain.CallContext, params domain.Params) (res *domain.Result, err error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRun(err, time.Since(start))
	}()

	if err := params.Validate(); err != nil {
		return nil, err
	}

	logger := s.logger.With(
		"workspace", params.Workspace,
		"input_genome", params.InputGenome,
		"output_genome", params.OutputGenome,
	)

	if s.locker != nil {
		key := params.Workspace + "/" + params.OutputGenome
		unlock, err := s.locker.Lock(ctx, key, s.lockTTL)
		if err != nil {
			return nil, domain.LockError(key, err)
		}
		defer func() {
			if uerr := unlock(context.WithoutCancel(ctx)); uerr != nil {
				logger.Warn("failed to release output lock", "key", key, "error", uerr)
			}
		}()
	}

	store := s.stores(call.Token)

	logger.Info("fetching input genome")
	genome, err := s.fetchGenome(ctx, store, params.InputRef())
	if err != nil {
		return nil, err
	}

	features, err := genome.Features()
	if err != nil {
		return nil, domain.InvalidGenome(err)
	}
	records := fasta.FromFeatures(features)

	outcome, err := s.annotate(ctx, logger, records)
	if err != nil {
		return nil, err
	}
	resultPath := filepath.Join(s.scratch, ResultFile)
	if !outcome.Succeeded() {
		if s.failOnToolError {
			return nil, domain.ToolError(fmt.Errorf("exit status %d: %s", outcome.ExitCode, outcome.Stderr))
		}
		logger.Warn("annotation tool exited with non-zero status",
			"exit_code", outcome.ExitCode,
			"stderr", outcome.Stderr,
		)
	} else {
		logger.Info("annotation tool finished", "duration", outcome.Duration, "output", resultPath)
	}

	// TODO: parse resultPath and attach the GO terms to the matching features before saving.

	prov := domain.WithInputObjects(call.Provenance, params.InputRef())

	genomeInfo, err := saveOne(ctx, store, domain.SaveObjectsParams{
		Workspace: params.Workspace,
		Objects: []domain.ObjectSaveData{{
			Type:       domain.TypeGenome,
			Data:       map[string]any(genome),
			Name:       params.OutputGenome,
			Provenance: prov,
		}},
	})
	if err != nil {
		return nil, domain.SaveError("output Genome", err)
	}
	logger.Info("saved output genome", "ref", genomeInfo.Ref())

	reportName := s.reportName()
	reportInfo, err := saveOne(ctx, store, domain.SaveObjectsParams{
		ID: genomeInfo.WsID,
		Objects: []domain.ObjectSaveData{{
			Type:       domain.TypeReport,
			Data:       domain.NewGenomeReport(genomeInfo),
			Name:       reportName,
			Provenance: prov,
			Hidden:     true,
			Meta:       map[string]string{},
		}},
	})
	if err != nil {
		return nil, domain.SaveError("report", err)
	}
	logger.Info("saved report", "name", reportName, "ref", reportInfo.Ref())

	return &domain.Result{
		ReportName:      reportName,
		ReportRef:       reportInfo.Ref(),
		OutputGenomeRef: genomeInfo.Ref(),
	}, nil
}

// annotate writes records to the scratch FASTA file and runs the tool on it.
func (s *Service) annotate(ctx context.Context, logger *slog.Logger, records []fasta.Record) (domain.ToolOutcome, error) {
	s.scratchMu.Lock()
	defer s.scratchMu.Unlock()

	proteinPath := filepath.Join(s.scratch, ProteinFile)
	if err := fasta.WriteFile(proteinPath, records); err != nil {
		return domain.ToolOutcome{}, domain.ToolError(err)
	}
	s.metrics.ObserveFeatures(len(records))
	logger.Info("projected genome to protein fasta", "features", len(records), "path", proteinPath)

	outcome, err := s.tool.Annotate(ctx, proteinPath, filepath.Join(s.scratch, ResultFile))
	if err != nil {
		return outcome, domain.ToolError(err)
	}
	s.metrics.ObserveTool(outcome)
	return outcome, nil
}

func (s *Service) fetchGenome(ctx context.Context, store ports.ObjectStore, ref string) (domain.Genome, error) {
	objs, err := store.GetObjects(ctx, []string{ref})
	if err != nil {
		return nil, domain.FetchError("Genome", err)
	}
	if len(objs) != 1 {
		return nil, domain.FetchError("Genome", fmt.Errorf("expected 1 object for %s, got %d", ref, len(objs)))
	}
	if objs[0].Data == nil {
		return nil, domain.FetchError("Genome", errors.New("object has no data"))
	}
	return domain.Genome(objs[0].Data), nil
}

func saveOne(ctx context.Context, store ports.ObjectStore, params domain.SaveObjectsParams) (domain.ObjectInfo, error) {
	infos, err := store.SaveObjects(ctx, params)
	if err != nil {
		return domain.ObjectInfo{}, err
	}
	if len(infos) != 1 {
		return domain.ObjectInfo{}, fmt.Errorf("expected 1 object info, got %d", len(infos))
	}
	return infos[0], nil
}
