// Package openai provides a Generator implementation using OpenAI.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/ports"
	"github.com/ersonp/world-core/internal/infrastructure/config"
)

const summarizePrompt = `You are a world-building assistant for a procedurally generated game.
Summarize the following world context into a short narrative (3-4 sentences)
that captures the setting's tone, era, and notable forces. The narrative will
steer entity generation, so keep it concrete and evocative.

Return ONLY the narrative text, no preamble.`

const metadataPrompt = `You are generating a %s for a procedurally generated game world.

Setting narrative:
%s

Using the player's request below, produce the entity's metadata.

Rules:
- rarity must be one of: common, rare, epic, legendary
- category must be one of: %s
- visual_description must describe appearance only, suitable for an image prompt
- description explains what the entity does or is for
- purpose is one sentence on the entity's role in the world

Return ONLY a valid JSON object, no other text:
{"name": "...", "rarity": "...", "visual_description": "...", "description": "...", "category": "...", "purpose": "..."}`

const attributePrompt = `You are assigning game-balance attributes to a %s in a procedurally generated game world.

Entity metadata:
%s

Known attribute definitions for this category (use them as a calibration
reference for value ranges):
%s

Assign a value for each relevant known attribute. You may also add new
attributes this entity clearly needs that are missing from the known set.

Every attribute, existing or new, MUST carry all four fields:
- value: typed per its declared type
- type: one of integer, number, string, boolean, array
- description: what the attribute measures
- reference: concrete example values calibrating the scale (e.g. "dagger: 3, longsword: 8, greatsword: 14")

Return ONLY a valid JSON object, no other text:
{"attributes": {"<name>": {"value": ..., "type": "...", "description": "...", "reference": "..."}}}`

const regionPrompt = `You are generating a region of a procedurally generated game world.

World context:
%s

Region request: name %q, theme %q, biome %q.
%s

Flesh out the region's descriptive metadata. Keep the requested theme and
biome unless they are empty, in which case invent fitting ones.

Return ONLY a valid JSON object, no other text:
{"name": "...", "theme": "...", "biome": "...", "description": "..."}`

// Client implements the Generator interface using OpenAI.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI generation client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	client := openai.NewClient(cfg.APIKey)

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// SummarizeContext condenses ambient world context into a short narrative.
func (c *Client) SummarizeContext(ctx context.Context, worldContext string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: summarizePrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: worldContext,
			},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateMetadata produces schema-constrained entity metadata.
func (c *Client) GenerateMetadata(ctx context.Context, req ports.MetadataRequest) (*ports.Metadata, error) {
	narrative := req.Narrative
	if narrative == "" {
		narrative = "(no additional context)"
	}

	system := fmt.Sprintf(metadataPrompt, req.Kind, narrative, strings.Join(req.Categories, ", "))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: c.decorWith(req.Prompt, req.Rules),
			},
		},
		Temperature: 0.8,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)

	var raw rawMetadata
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parsing metadata JSON: %w (response: %s)", err, content)
	}

	rarity, err := entities.ParseRarity(raw.Rarity)
	if err != nil {
		return nil, fmt.Errorf("parsing metadata: %w", err)
	}

	return &ports.Metadata{
		Name:              strings.TrimSpace(raw.Name),
		Rarity:            rarity,
		VisualDescription: raw.VisualDescription,
		Description:       raw.Description,
		Category:          strings.ToLower(strings.TrimSpace(raw.Category)),
		Purpose:           raw.Purpose,
	}, nil
}

// GenerateAttributes values known attribute definitions and may invent new
// ones. Attributes missing required fields are passed through as-is; field
// completeness is the synthesizer's concern.
func (c *Client) GenerateAttributes(ctx context.Context, req ports.AttributeRequest) (map[string]entities.Attribute, error) {
	mdJSON, err := json.Marshal(req.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshaling metadata: %w", err)
	}

	knownJSON, err := json.Marshal(req.Known)
	if err != nil {
		return nil, fmt.Errorf("marshaling known attributes: %w", err)
	}
	if len(req.Known) == 0 {
		knownJSON = []byte("(none known yet; propose a sensible starter set)")
	}

	system := fmt.Sprintf(attributePrompt, req.Kind, mdJSON, knownJSON)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		Temperature: 0.4,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)

	var raw rawAttributeResponse
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parsing attributes JSON: %w (response: %s)", err, content)
	}

	attrs := make(map[string]entities.Attribute, len(raw.Attributes))
	for name, ra := range raw.Attributes {
		attrs[name] = entities.Attribute{
			Value:       ra.Value,
			Type:        entities.AttributeType(strings.ToLower(ra.Type)),
			Description: ra.Description,
			Reference:   ra.Reference,
		}
	}

	return attrs, nil
}

// GenerateRegion produces descriptive metadata for one region.
func (c *Client) GenerateRegion(ctx context.Context, req ports.RegionRequest) (*ports.RegionMetadata, error) {
	worldContext := req.Context
	if worldContext == "" {
		worldContext = "(none)"
	}
	hint := ""
	if req.Spec.Description != "" {
		hint = "Planner notes: " + req.Spec.Description
	}

	prompt := fmt.Sprintf(regionPrompt, worldContext, req.Spec.Name, req.Spec.Theme, req.Spec.Biome, hint)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.8,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)

	var md ports.RegionMetadata
	if err := json.Unmarshal([]byte(content), &md); err != nil {
		return nil, fmt.Errorf("parsing region JSON: %w (response: %s)", err, content)
	}

	return &md, nil
}

// decorWith appends rule context (period, genre, kind-specific knobs) to the
// user prompt so the backend stays on-setting.
func (c *Client) decorWith(prompt string, rules entities.Rules) string {
	if rules == nil {
		return prompt
	}

	var parts []string
	base := rules.Base()
	if base.Period != "" {
		parts = append(parts, "period: "+base.Period)
	}
	if base.Genre != "" {
		parts = append(parts, "genre: "+base.Genre)
	}
	switch r := rules.(type) {
	case entities.ItemRules:
		if r.PowerBudget != "" {
			parts = append(parts, "power budget: "+r.PowerBudget)
		}
	case entities.NPCRules:
		if r.Disposition != "" {
			parts = append(parts, "disposition: "+r.Disposition)
		}
	case entities.LocationRules:
		if r.Scale != "" {
			parts = append(parts, "scale: "+r.Scale)
		}
	}

	if len(parts) == 0 {
		return prompt
	}
	return prompt + "\n\nSetting constraints: " + strings.Join(parts, "; ")
}

// rawMetadata is the JSON structure for generated metadata.
type rawMetadata struct {
	Name              string `json:"name"`
	Rarity            string `json:"rarity"`
	VisualDescription string `json:"visual_description"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	Purpose           string `json:"purpose"`
}

// rawAttribute is the JSON structure for one generated attribute.
type rawAttribute struct {
	Value       any    `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
}

// rawAttributeResponse is the JSON envelope of the attribute stage.
type rawAttributeResponse struct {
	Attributes map[string]rawAttribute `json:"attributes"`
}

// cleanJSONResponse removes markdown code blocks if present.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
