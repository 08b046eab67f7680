package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/ports"
)

// stage names one step of the synthesis pipeline.
type stage string

const (
	stageContext    stage = "context"
	stageMetadata   stage = "metadata"
	stageAttributes stage = "attributes"
	stageImage      stage = "image"
)

// stagePolicy says what a stage failure does to the synthesis as a whole.
type stagePolicy int

const (
	// policyAbort fails the entire synthesis.
	policyAbort stagePolicy = iota
	// policyDegrade substitutes an empty result and proceeds.
	policyDegrade
)

// stagePolicies is the per-stage failure policy. An image-stage safety
// block still aborts, but through the distinct ports.ErrImageBlocked
// sentinel so callers can recover.
var stagePolicies = map[stage]stagePolicy{
	stageContext:    policyDegrade,
	stageMetadata:   policyAbort,
	stageAttributes: policyDegrade,
	stageImage:      policyAbort,
}

// StageTiming records how long each synthesis stage took. Total is
// metadata + max(attributes, image), matching the parallel execution of
// the last two stages. The context stage is reported separately.
type StageTiming struct {
	Context    time.Duration
	Metadata   time.Duration
	Attributes time.Duration
	Image      time.Duration
	Total      time.Duration
}

// SynthesisRequest describes one entity to synthesize.
type SynthesisRequest struct {
	Kind         entities.Kind
	Prompt       string
	WorldContext string
	Placement    entities.Position
	Rules        entities.Rules
}

// SynthesisResult is a finished entity with its stage timings.
type SynthesisResult struct {
	Entity *entities.Entity
	Timing StageTiming
}

// Synthesizer drives one entity's multi-stage generation against the
// taxonomy set and the identifier allocator.
type Synthesizer struct {
	gen        ports.Generator
	images     ports.ImageGenerator
	taxonomies *TaxonomySet
	alloc      *Allocator
	logger     *slog.Logger
	artStyle   string
}

// SynthOption is a functional option for NewSynthesizer.
type SynthOption func(*Synthesizer)

// WithSynthLogger sets the logger used for degrade-path warnings.
func WithSynthLogger(l *slog.Logger) SynthOption {
	return func(s *Synthesizer) { s.logger = l }
}

// WithArtStyle sets the fallback art style used when a request's rules
// don't carry one. Defaults to "digital painting".
func WithArtStyle(style string) SynthOption {
	return func(s *Synthesizer) { s.artStyle = style }
}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer(gen ports.Generator, images ports.ImageGenerator, taxonomies *TaxonomySet, alloc *Allocator, opts ...SynthOption) *Synthesizer {
	s := &Synthesizer{
		gen:        gen,
		images:     images,
		taxonomies: taxonomies,
		alloc:      alloc,
		logger:     slog.Default(),
		artStyle:   "digital painting",
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Synthesize runs the full pipeline for one entity:
//
//  1. Context stage (optional): summarize ambient world context.
//  2. Metadata stage (mandatory): structured name/rarity/category metadata,
//     then identifier allocation.
//  3. Attribute stage and image stage, concurrently.
//  4. Merge stage: assemble the final entity with the caller's placement.
//
// Stage failures follow stagePolicies: context and attribute failures
// degrade to empty results, metadata and image failures abort.
func (s *Synthesizer) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("unknown entity kind %q", req.Kind)
	}
	if req.Rules == nil {
		req.Rules = entities.RulesFor(req.Kind)
	}

	var timing StageTiming
	taxonomy := s.taxonomies.For(req.Kind)

	// Stage 1: context narrative (optional, degrades to empty).
	narrative := ""
	if req.WorldContext != "" {
		start := time.Now()
		summary, err := s.gen.SummarizeContext(ctx, req.WorldContext)
		timing.Context = time.Since(start)
		if err != nil {
			s.degrade(stageContext, req, err)
		} else {
			narrative = summary
		}
	}

	// Stage 2: metadata (mandatory).
	start := time.Now()
	md, err := s.gen.GenerateMetadata(ctx, ports.MetadataRequest{
		Kind:       req.Kind,
		Prompt:     req.Prompt,
		Narrative:  narrative,
		Categories: s.categoryEnum(taxonomy, req.Rules),
		Rules:      req.Rules,
	})
	timing.Metadata = time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%s stage: %w", stageMetadata, err)
	}
	if !md.Rarity.Valid() {
		return nil, fmt.Errorf("%s stage: invalid rarity %q", stageMetadata, md.Rarity)
	}
	if md.Name == "" || md.Category == "" {
		return nil, fmt.Errorf("%s stage: backend returned incomplete metadata", stageMetadata)
	}

	id := s.alloc.Next(req.Kind, md.Category, md.Name)

	// Stage 3: attributes and image run concurrently; neither reads the
	// other's output.
	var (
		attrs    map[string]entities.Attribute
		imageRef string
	)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		attrStart := time.Now()
		var attrErr error
		attrs, attrErr = s.runAttributeStage(egCtx, taxonomy, req, narrative, *md)
		timing.Attributes = time.Since(attrStart)
		if attrErr != nil {
			s.degrade(stageAttributes, req, attrErr)
			attrs = map[string]entities.Attribute{}
		}
		return nil
	})

	eg.Go(func() error {
		imgStart := time.Now()
		ref, imgErr := s.images.Generate(egCtx, ports.ImageRequest{
			EntityID: id,
			Subject:  md.VisualDescription,
			Category: md.Category,
			Rarity:   md.Rarity,
			Style:    s.styleFor(req.Rules),
		})
		timing.Image = time.Since(imgStart)
		if imgErr != nil {
			return fmt.Errorf("%s stage: %w", stageImage, imgErr)
		}
		imageRef = ref
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Stage 4: merge.
	parallel := timing.Attributes
	if timing.Image > parallel {
		parallel = timing.Image
	}
	timing.Total = timing.Metadata + parallel

	entity := &entities.Entity{
		ID:                id,
		Kind:              req.Kind,
		Name:              md.Name,
		Rarity:            md.Rarity,
		Category:          md.Category,
		VisualDescription: md.VisualDescription,
		Description:       md.Description,
		Purpose:           md.Purpose,
		ImageRef:          imageRef,
		Position:          req.Placement,
		Attributes:        attrs,
		CreatedAt:         time.Now(),
	}

	return &SynthesisResult{Entity: entity, Timing: timing}, nil
}

// runAttributeStage asks the backend to value the known definitions and
// merges newly discovered attributes into the taxonomy once the stage
// completes. Field-incomplete attributes stay on the entity with a warning
// but are never merged, so the taxonomy only ever holds complete
// definitions.
func (s *Synthesizer) runAttributeStage(ctx context.Context, taxonomy *Taxonomy, req SynthesisRequest, narrative string, md ports.Metadata) (map[string]entities.Attribute, error) {
	known := taxonomy.Lookup(md.Category)

	attrs, err := s.gen.GenerateAttributes(ctx, ports.AttributeRequest{
		Kind:      req.Kind,
		Prompt:    req.Prompt,
		Narrative: narrative,
		Metadata:  md,
		Known:     known,
	})
	if err != nil {
		return nil, err
	}

	knownNames := make(map[string]bool, len(known))
	for _, d := range known {
		knownNames[d.Name] = true
	}

	var discovered []entities.AttributeDefinition
	for name, attr := range attrs {
		if vErr := attr.Validate(); vErr != nil {
			// The entity keeps the incomplete attribute, but its definition
			// must not calibrate future generations.
			s.logger.Warn("attribute is missing required fields",
				"kind", req.Kind,
				"attribute", name,
				"error", vErr)
			continue
		}
		if !knownNames[name] {
			discovered = append(discovered, attr.Definition(name))
		}
	}

	if len(discovered) > 0 {
		taxonomy.Merge(md.Category, discovered)
	}

	return attrs, nil
}

// SynthesizeRegion runs the lightweight region path: a single metadata-like
// generation with no attribute or image stages.
func (s *Synthesizer) SynthesizeRegion(ctx context.Context, spec entities.RegionSpec, worldContext string) (*entities.Region, error) {
	md, err := s.gen.GenerateRegion(ctx, ports.RegionRequest{Spec: spec, Context: worldContext})
	if err != nil {
		return nil, fmt.Errorf("region synthesis: %w", err)
	}

	name := md.Name
	if name == "" {
		name = spec.Name
	}

	region := &entities.Region{
		ID:          Slug(spec.Name),
		Name:        name,
		GridX:       spec.GridX,
		GridY:       spec.GridY,
		Theme:       firstNonEmpty(md.Theme, spec.Theme),
		Biome:       firstNonEmpty(md.Biome, spec.Biome),
		Description: firstNonEmpty(md.Description, spec.Description),
		CreatedAt:   time.Now(),
	}
	return region, nil
}

// degrade logs a stage failure that, per stagePolicies, does not abort the
// synthesis. Abort-policy stages never reach here.
func (s *Synthesizer) degrade(st stage, req SynthesisRequest, err error) {
	if stagePolicies[st] != policyDegrade {
		panic(fmt.Sprintf("stage %s is not a degrade stage", st))
	}
	s.logger.Warn("synthesis stage degraded",
		"stage", string(st),
		"kind", req.Kind,
		"prompt", req.Prompt,
		"error", err)
}

// categoryEnum builds the category list offered to the metadata stage:
// rule-supplied categories win, then taxonomy categories, then the kind's
// hardcoded defaults.
func (s *Synthesizer) categoryEnum(taxonomy *Taxonomy, rules entities.Rules) []string {
	if base := rules.Base(); len(base.Categories) > 0 {
		return base.Categories
	}
	return taxonomy.Categories()
}

// styleFor picks the art style from the rules, falling back to the
// synthesizer default.
func (s *Synthesizer) styleFor(rules entities.Rules) string {
	if style := rules.Base().ArtStyle; style != "" {
		return style
	}
	return s.artStyle
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
