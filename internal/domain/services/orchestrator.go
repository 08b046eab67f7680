package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ersonp/world-core/internal/domain/entities"
)

// DefaultMaxConcurrent caps how many entity syntheses run at once so a
// large world spec cannot overwhelm the generation backend.
const DefaultMaxConcurrent = 8

// DefaultCallTimeout bounds one entity's synthesis end to end.
const DefaultCallTimeout = 2 * time.Minute

// Orchestrator drives many synthesizer invocations concurrently and
// assembles the results into a world. Regions are synthesized first; then
// locations, NPCs, and items run as three concurrent wait-all groups. One
// entity's failure never aborts the batch: it is logged and the entity is
// dropped from the result.
type Orchestrator struct {
	synth       *Synthesizer
	registry    *Registry
	logger      *slog.Logger
	sem         *semaphore.Weighted
	callTimeout time.Duration
	rulesByKind map[entities.Kind]entities.Rules
}

// OrchOption is a functional option for NewOrchestrator.
type OrchOption func(*Orchestrator)

// WithMaxConcurrent sets the fan-out cap across all entity syntheses.
func WithMaxConcurrent(n int64) OrchOption {
	return func(o *Orchestrator) { o.sem = semaphore.NewWeighted(n) }
}

// WithCallTimeout bounds each individual synthesis call.
func WithCallTimeout(d time.Duration) OrchOption {
	return func(o *Orchestrator) { o.callTimeout = d }
}

// WithLogger sets the logger used for per-entity failure reports.
func WithLogger(l *slog.Logger) OrchOption {
	return func(o *Orchestrator) { o.logger = l }
}

// WithRules installs the generation rules used for one entity kind.
func WithRules(r entities.Rules) OrchOption {
	return func(o *Orchestrator) { o.rulesByKind[r.Kind()] = r }
}

// NewOrchestrator creates an orchestrator that registers every finished
// entity into registry.
func NewOrchestrator(synth *Synthesizer, registry *Registry, opts ...OrchOption) *Orchestrator {
	o := &Orchestrator{
		synth:       synth,
		registry:    registry,
		logger:      slog.Default(),
		sem:         semaphore.NewWeighted(DefaultMaxConcurrent),
		callTimeout: DefaultCallTimeout,
		rulesByKind: make(map[entities.Kind]entities.Rules),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// BuildWorld synthesizes everything the spec asks for and returns the
// assembled world. The returned world may be smaller than the spec: failed
// syntheses are logged with enough context to retry manually and filtered
// out.
func (o *Orchestrator) BuildWorld(ctx context.Context, spec entities.WorldSpec) (*entities.World, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid world spec: %w", err)
	}

	world := &entities.World{
		ID:        uuid.New().String(),
		Name:      spec.Name,
		CreatedAt: time.Now(),
	}

	regionIDs := o.buildRegions(ctx, spec, world)

	var (
		mu        sync.Mutex
		locations []*entities.Entity
		npcs      []*entities.Entity
		items     []*entities.Entity
	)

	// The three kind groups run concurrently with respect to each other;
	// within each group every spec fans out through the shared semaphore.
	var groups errgroup.Group
	groups.Go(func() error {
		locations = o.buildGroup(ctx, entities.KindLocation, spec.Locations, spec.Context, regionIDs, &mu)
		return nil
	})
	groups.Go(func() error {
		npcs = o.buildGroup(ctx, entities.KindNPC, spec.NPCs, spec.Context, regionIDs, &mu)
		return nil
	})
	groups.Go(func() error {
		items = o.buildGroup(ctx, entities.KindItem, spec.Items, spec.Context, regionIDs, &mu)
		return nil
	})
	_ = groups.Wait()

	world.Locations = locations
	world.NPCs = npcs
	world.Items = items

	for _, e := range world.AllEntities() {
		if err := o.registry.Add(e); err != nil {
			// Duplicate registration would be a programming defect in the
			// allocator, not a recoverable runtime condition.
			return nil, fmt.Errorf("registering entity %s: %w", e.ID, err)
		}
	}

	return world, nil
}

// buildRegions synthesizes all region specs concurrently, registers the
// survivors, and returns the spec-name to region-ID mapping for entity
// placement.
func (o *Orchestrator) buildRegions(ctx context.Context, spec entities.WorldSpec, world *entities.World) map[string]string {
	var (
		mu      sync.Mutex
		regions = make([]*entities.Region, len(spec.Regions))
	)

	var eg errgroup.Group
	for i, rs := range spec.Regions {
		i, rs := i, rs
		eg.Go(func() error {
			if err := o.sem.Acquire(ctx, 1); err != nil {
				return nil
			}
			defer o.sem.Release(1)

			callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
			defer cancel()

			region, err := o.synth.SynthesizeRegion(callCtx, rs, spec.Context)
			if err != nil {
				o.logger.Error("region synthesis failed",
					"region", rs.Name,
					"error", err)
				return nil
			}
			mu.Lock()
			regions[i] = region
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	regionIDs := make(map[string]string, len(spec.Regions))
	for i, region := range regions {
		if region == nil {
			continue
		}
		if err := o.registry.AddRegion(region); err != nil {
			o.logger.Error("registering region failed",
				"region", region.ID,
				"error", err)
			continue
		}
		world.Regions = append(world.Regions, *region)
		regionIDs[spec.Regions[i].Name] = region.ID
	}
	return regionIDs
}

// buildGroup synthesizes one kind's entity specs as a wait-all group and
// returns the successes in spec order.
func (o *Orchestrator) buildGroup(ctx context.Context, kind entities.Kind, specs []entities.EntitySpec, worldContext string, regionIDs map[string]string, mu *sync.Mutex) []*entities.Entity {
	results := make([]*entities.Entity, len(specs))

	var eg errgroup.Group
	for i, es := range specs {
		i, es := i, es
		regionID, ok := regionIDs[es.Region]
		if !ok {
			// The region this entity belongs to failed to synthesize; an
			// entity is never "nowhere", so it is dropped with the region.
			o.logger.Error("entity skipped: region unavailable",
				"kind", kind,
				"prompt", es.Prompt,
				"region", es.Region)
			continue
		}

		eg.Go(func() error {
			if err := o.sem.Acquire(ctx, 1); err != nil {
				return nil
			}
			defer o.sem.Release(1)

			callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
			defer cancel()

			res, err := o.synth.Synthesize(callCtx, SynthesisRequest{
				Kind:         kind,
				Prompt:       es.Prompt,
				WorldContext: worldContext,
				Placement:    entities.Position{Region: regionID, X: es.X, Y: es.Y},
				Rules:        o.rulesByKind[kind],
			})
			if err != nil {
				o.logger.Error("entity synthesis failed",
					"kind", kind,
					"prompt", es.Prompt,
					"rationale", es.Rationale,
					"error", err)
				return nil
			}

			mu.Lock()
			results[i] = res.Entity
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	survivors := make([]*entities.Entity, 0, len(results))
	for _, e := range results {
		if e != nil {
			survivors = append(survivors, e)
		}
	}
	return survivors
}
