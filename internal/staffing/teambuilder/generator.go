// Package teambuilder turns ranked candidate lists into three team proposals:
// the best on paper, a diversity-focused team and a potential-focused team.
// Later strategies never reuse members chosen by earlier ones.
package teambuilder

import (
	"context"
	"strconv"

	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/common/metrics"
	"staffing-workers/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultCombinationCeiling bounds exhaustive search before the greedy
// fallback takes over.
const DefaultCombinationCeiling int64 = 250000

// Request carries the ranked roles, in recruiting order, and optional recent
// collaborators keyed by employee id or name.
type Request struct {
	Roles  []models.RoleCandidateList
	Recent map[string][]string
}

type Generator struct {
	ceiling int64
	tracer  trace.Tracer
	logger  logger.Logger
}

type Option func(*Generator)

// WithCombinationCeiling sets the exhaustive search limit. Zero removes it.
func WithCombinationCeiling(n int64) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.ceiling = n
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(g *Generator) {
		if t != nil {
			g.tracer = t
		}
	}
}

func NewGenerator(log logger.Logger, opts ...Option) *Generator {
	g := &Generator{
		ceiling: DefaultCombinationCeiling,
		tracer:  noop.NewTracerProvider().Tracer("teambuilder"),
		logger:  log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs pure-score, diversity-focused and potential-focused in that
// order. Search exhaustion is reported in the proposals; only context errors
// are returned.
func (g *Generator) Generate(ctx context.Context, req Request) (*models.ProposalSet, error) {
	ctx, span := g.tracer.Start(ctx, "generate-team-proposals", trace.WithAttributes(
		attribute.Int("roles", len(req.Roles)),
	))
	defer span.End()

	pools := buildPools(req.Roles, req.Recent)
	excluded := map[string]struct{}{}

	set1 := g.pureScore(ctx, pools)
	exclude(excluded, set1)

	set2, err := g.search(ctx, models.StrategyDiversity, pools, excluded)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	exclude(excluded, set2)

	set3, err := g.search(ctx, models.StrategyPotential, pools, excluded)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &models.ProposalSet{Set1: set1, Set2: set2, Set3: set3}, nil
}

func exclude(excluded map[string]struct{}, p models.TeamProposal) {
	for _, m := range p.Members {
		excluded[m.Identity()] = struct{}{}
	}
}

// pureScore takes the top candidates of each role with no constraint check.
func (g *Generator) pureScore(ctx context.Context, pools []*pool) models.TeamProposal {
	_, span := g.tracer.Start(ctx, "team-search", trace.WithAttributes(
		attribute.String("strategy", string(models.StrategyPureScore)),
	))
	defer span.End()

	var team []*member
	taken := map[string]struct{}{}
	for _, p := range pools {
		need := p.size()
		for _, m := range p.members {
			if need == 0 {
				break
			}
			if id := m.summary.EmployeeID; id != "" {
				if _, dup := taken[id]; dup {
					continue
				}
				taken[id] = struct{}{}
			}
			team = append(team, m)
			need--
		}
	}

	proposal := models.TeamProposal{
		Strategy:   models.StrategyPureScore,
		Score:      models.Round(totalFinalScore(summaries(team, nil)), 4),
		Found:      len(team) > 0,
		SearchMode: models.SearchRanked,
		Members:    teamMembers(team),
	}
	g.record(span, proposal)
	return proposal
}

// search runs one constrained strategy over the pools minus excluded members.
func (g *Generator) search(ctx context.Context, strategy models.Strategy, pools []*pool, excluded map[string]struct{}) (models.TeamProposal, error) {
	ctx, span := g.tracer.Start(ctx, "team-search", trace.WithAttributes(
		attribute.String("strategy", string(strategy)),
		attribute.Int("excluded", len(excluded)),
	))
	defer span.End()

	log := g.logger.WithFields(map[string]interface{}{"strategy": string(strategy)})

	current := make([]*pool, 0, len(pools))
	for _, p := range pools {
		remaining := p.without(excluded)
		if len(remaining.members) == 0 {
			log.Info("role exhausted by earlier proposals", map[string]interface{}{"role": p.role})
			proposal := models.NoTeam(strategy, models.SearchExhaustive, 0)
			g.record(span, proposal)
			return proposal, nil
		}
		current = append(current, remaining)
	}
	if len(current) == 0 {
		proposal := models.NoTeam(strategy, models.SearchExhaustive, 0)
		g.record(span, proposal)
		return proposal, nil
	}

	score := objectiveFor(strategy)
	mode := models.SearchExhaustive
	space := searchSpace(current)

	var (
		res searchResult
		err error
	)
	if g.ceiling > 0 && space > float64(g.ceiling) {
		mode = models.SearchGreedy
		log.Warn("combination ceiling exceeded, using greedy search", map[string]interface{}{
			"searchSpace": space,
			"ceiling":     g.ceiling,
		})
		metrics.TeamSearchFallbacks.WithLabelValues(string(strategy)).Inc()
		res, err = greedy(ctx, current, score)
	} else {
		res, err = exhaustive(ctx, current, score)
	}
	metrics.TeamCombinationsEvaluated.WithLabelValues(string(strategy)).Add(float64(res.evaluated))
	if err != nil {
		log.Warn("team search aborted", map[string]interface{}{
			"error":     err.Error(),
			"evaluated": res.evaluated,
		})
		return models.TeamProposal{}, err
	}

	var proposal models.TeamProposal
	if res.team == nil {
		proposal = models.NoTeam(strategy, mode, res.evaluated)
	} else {
		proposal = models.TeamProposal{
			Strategy:              strategy,
			Score:                 models.Round(res.score, 4),
			Found:                 true,
			SearchMode:            mode,
			CombinationsEvaluated: res.evaluated,
			Members:               teamMembers(res.team),
		}
	}
	log.Info("team search completed", map[string]interface{}{
		"found":     proposal.Found,
		"score":     proposal.Score,
		"mode":      string(mode),
		"evaluated": res.evaluated,
	})
	g.record(span, proposal)
	return proposal, nil
}

func (g *Generator) record(span trace.Span, p models.TeamProposal) {
	metrics.TeamProposals.WithLabelValues(string(p.Strategy), strconv.FormatBool(p.Found)).Inc()
	span.SetAttributes(
		attribute.Bool("found", p.Found),
		attribute.Float64("score", p.Score),
		attribute.String("searchMode", string(p.SearchMode)),
		attribute.Int64("evaluated", p.CombinationsEvaluated),
	)
}
