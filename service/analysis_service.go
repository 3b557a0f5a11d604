package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gdprlens-backend/models"
	"gdprlens-backend/render"
	"gdprlens-backend/repository"
	"gdprlens-backend/storage"

	"github.com/google/uuid"
)

var (
	ErrScenarioTooShort = errors.New("scenario must be at least 50 characters")
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrStoreNotSet      = errors.New("candidate store not set")
	ErrGeneratorNotSet  = errors.New("generation model not set")
)

// minScenarioLength guards against analyzing fragments that cannot describe
// a processing activity.
const minScenarioLength = 50

// AnalysisService runs the scenario analysis pipeline: retrieval,
// reranking, generation, parsing, citation validation, remediation and
// aggregation, in that order. One request runs strictly sequentially;
// separate requests share only read-only state and may run concurrently.
type AnalysisService struct {
	store        ChunkSearcher
	scorer       PairScorer
	generator    Generator
	analysisRepo *repository.AnalysisRepository
	archive      storage.Storage
	cfg          PipelineConfig

	parser    *ViolationParser
	validator *CitationValidator
	mapper    *RemediationMapper
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// WithChunkSearcher sets the candidate store
func WithChunkSearcher(store ChunkSearcher) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.store = store
	}
}

// WithPairScorer sets the rerank model client
func WithPairScorer(scorer PairScorer) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.scorer = scorer
	}
}

// WithGenerator sets the generation model client
func WithGenerator(generator Generator) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.generator = generator
	}
}

// WithAnalysisRepository sets the repository that persists completed
// assessments
func WithAnalysisRepository(repo *repository.AnalysisRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.analysisRepo = repo
	}
}

// WithReportArchive sets the storage backend exported reports are archived
// to
func WithReportArchive(archive storage.Storage) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.archive = archive
	}
}

// WithPipelineConfig overrides the default pipeline tunables
func WithPipelineConfig(cfg PipelineConfig) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.cfg = cfg
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{cfg: DefaultPipelineConfig()}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = NewViolationParser(s.cfg)
	s.validator = NewCitationValidator(s.cfg)
	s.mapper = NewRemediationMapper()
	return s
}

// AnalyzeScenario runs the full pipeline for one scenario and returns an
// immutable assessment. Retrieval finding nothing yields a well-formed
// "no information found" assessment; generation failures degrade to the
// parser's fallback finding. On context cancellation the partial result is
// discarded and never persisted.
func (s *AnalysisService) AnalyzeScenario(ctx context.Context, scenario string) (*models.RiskAssessment, error) {
	scenario = strings.TrimSpace(scenario)
	if len(scenario) < minScenarioLength {
		return nil, ErrScenarioTooShort
	}
	if s.store == nil {
		return nil, ErrStoreNotSet
	}
	if s.generator == nil {
		return nil, ErrGeneratorNotSet
	}

	// The coordinator fetches 2x the context size so reranking has slack to
	// filter.
	retrievalCfg := s.cfg
	retrievalCfg.RetrievalTopN = 2 * s.cfg.ContextTopK
	coordinator := NewRetrievalCoordinator(s.store, retrievalCfg)

	candidates, err := coordinator.Retrieve(ctx, scenario)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	if len(candidates) == 0 {
		log.Printf("No regulation text retrieved for scenario; returning empty assessment")
		return s.emptyAssessment(scenario), nil
	}

	query := truncate(scenario, s.cfg.ScenarioQueryLimit)
	if s.scorer != nil {
		reranker := NewReranker(s.scorer, s.cfg)
		candidates, err = reranker.Rerank(ctx, query, candidates, s.cfg.ContextTopK)
		if err != nil {
			return nil, fmt.Errorf("reranking failed: %w", err)
		}
	} else if len(candidates) > s.cfg.ContextTopK {
		candidates = candidates[:s.cfg.ContextTopK]
	}

	// The exact candidate set that built the generation context is retained
	// for citation validation; it is never re-fetched.
	output, err := s.generator.Generate(ctx, violationSystemPrompt, buildViolationPrompt(scenario, candidates), GenerateOptions{Temperature: 0.1})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// The parser converts the absent response into its flagged fallback
		// finding; the caller never sees a raw generation error.
		log.Printf("Warning: generation failed, degrading to fallback finding: %v", err)
		output = ""
	}

	violations := s.parser.Parse(output)
	for i := range violations {
		violations[i].Citations = s.validator.Validate(&violations[i], candidates)
		guidance := s.mapper.Guidance(violations[i].Category, violations[i].Articles, violations[i].Severity)
		violations[i].Remediation = &guidance
	}

	score, level := Aggregate(violations)

	assessment := &models.RiskAssessment{
		ID:              uuid.New(),
		Scenario:        scenario,
		OverallLevel:    level,
		OverallScore:    score,
		Violations:      violations,
		ComplianceGaps:  complianceGaps(violations),
		Recommendations: collectRecommendations(violations),
		ArticlesCited:   countUniqueArticles(violations),
		CreatedAt:       time.Now().UTC(),
	}
	if s.generator != nil {
		assessment.Model = s.generator.ModelName()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.analysisRepo != nil {
		if err := s.analysisRepo.Create(ctx, assessment); err != nil {
			log.Printf("Warning: failed to persist analysis %s: %v", assessment.ID, err)
		}
	}

	return assessment, nil
}

// emptyAssessment is the well-formed result for a scenario that matched no
// regulation text. Not an error.
func (s *AnalysisService) emptyAssessment(scenario string) *models.RiskAssessment {
	a := &models.RiskAssessment{
		ID:           uuid.New(),
		Scenario:     scenario,
		OverallLevel: models.RiskMinimal,
		OverallScore: 0.0,
		Violations:   []models.Violation{},
		ComplianceGaps: []string{
			"No relevant regulation text was found for this scenario; coverage of the knowledge base may be incomplete.",
		},
		Recommendations: []string{
			"Rephrase the scenario with more detail about the data processing involved, or extend the regulation corpus.",
		},
		CreatedAt: time.Now().UTC(),
	}
	if s.generator != nil {
		a.Model = s.generator.ModelName()
	}
	return a
}

// complianceGaps derives one gap statement per distinct violation.
func complianceGaps(violations []models.Violation) []string {
	seen := make(map[string]bool)
	var gaps []string
	for _, v := range violations {
		gap := v.Category
		if v.Description != "" {
			gap = v.Category + ": " + v.Description
		}
		if !seen[gap] {
			seen[gap] = true
			gaps = append(gaps, gap)
		}
	}
	return gaps
}

// collectRecommendations gathers distinct per-violation recommendations,
// capped at 10.
func collectRecommendations(violations []models.Violation) []string {
	seen := make(map[string]bool)
	var recs []string
	for _, v := range violations {
		if v.Recommendation == "" || seen[v.Recommendation] {
			continue
		}
		seen[v.Recommendation] = true
		recs = append(recs, v.Recommendation)
		if len(recs) >= 10 {
			break
		}
	}
	return recs
}

// countUniqueArticles counts distinct normalized article references across
// all violations.
func countUniqueArticles(violations []models.Violation) int {
	seen := make(map[string]bool)
	for _, v := range violations {
		for _, a := range v.Articles {
			seen[strings.ToLower(strings.TrimSpace(a))] = true
		}
	}
	return len(seen)
}

// GetAnalysis loads a stored assessment.
func (s *AnalysisService) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.RiskAssessment, error) {
	if s.analysisRepo == nil {
		return nil, ErrAnalysisNotFound
	}
	assessment, err := s.analysisRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrAnalysisNotFound
	}
	return assessment, nil
}

// ListAnalyses returns recent analysis summaries.
func (s *AnalysisService) ListAnalyses(ctx context.Context, limit int) ([]repository.AnalysisSummary, error) {
	if s.analysisRepo == nil {
		return nil, nil
	}
	return s.analysisRepo.List(ctx, limit)
}

// DeleteAnalysis removes a stored assessment.
func (s *AnalysisService) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	if s.analysisRepo == nil {
		return ErrAnalysisNotFound
	}
	if err := s.analysisRepo.Delete(ctx, id); err != nil {
		return ErrAnalysisNotFound
	}
	return nil
}

// Stats aggregates stored analyses.
func (s *AnalysisService) Stats(ctx context.Context) (*repository.AnalysisStats, error) {
	if s.analysisRepo == nil {
		return &repository.AnalysisStats{}, nil
	}
	return s.analysisRepo.Stats(ctx)
}

// ExportAnalysis renders a stored assessment in the requested format and,
// when an archive is configured, stores a copy of the rendered report.
func (s *AnalysisService) ExportAnalysis(ctx context.Context, id uuid.UUID, format render.Format) ([]byte, string, error) {
	assessment, err := s.GetAnalysis(ctx, id)
	if err != nil {
		return nil, "", err
	}

	renderer, err := render.For(format)
	if err != nil {
		return nil, "", err
	}
	report, err := renderer.Render(assessment)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render report: %w", err)
	}

	if s.archive != nil {
		filename := "report." + string(format.Extension())
		if _, err := s.archive.Save(ctx, id, filename, strings.NewReader(string(report))); err != nil {
			log.Printf("Warning: failed to archive report for %s: %v", id, err)
		}
	}

	return report, format.ContentType(), nil
}
