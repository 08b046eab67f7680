// Package openai provides an ImageGenerator implementation using OpenAI.
package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/world-core/internal/domain/ports"
	"github.com/ersonp/world-core/internal/infrastructure/config"
)

// safetyBlockCode is the error code OpenAI returns when a prompt trips the
// content safety filter.
const safetyBlockCode = "content_policy_violation"

// Client implements the ImageGenerator interface using OpenAI image models.
type Client struct {
	client    *openai.Client
	model     string
	size      string
	assetsDir string
}

// NewClient creates a new OpenAI image client. Generated images are written
// under cfg.AssetsDir.
func NewClient(cfg config.ImageConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := openai.CreateImageModelDallE3
	if cfg.Model != "" {
		model = cfg.Model
	}
	size := openai.CreateImageSize1024x1024
	if cfg.Size != "" {
		size = cfg.Size
	}
	assetsDir := cfg.AssetsDir
	if assetsDir == "" {
		assetsDir = config.DefaultAssetsDir
	}

	return &Client{
		client:    openai.NewClient(cfg.APIKey),
		model:     model,
		size:      size,
		assetsDir: assetsDir,
	}, nil
}

// Generate renders an asset for the entity and returns the file path it was
// written to. A content-safety refusal is reported as ports.ErrImageBlocked
// so callers can soften the prompt or fall back to a placeholder; every
// other failure is a plain error.
func (c *Client) Generate(ctx context.Context, req ports.ImageRequest) (string, error) {
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         c.buildPrompt(req),
		Model:          c.model,
		N:              1,
		Size:           c.size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		if isSafetyBlock(err) {
			return "", fmt.Errorf("%w: %s", ports.ErrImageBlocked, req.Subject)
		}
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Data) == 0 {
		return "", errors.New("no image returned from OpenAI")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return "", fmt.Errorf("decoding image payload: %w", err)
	}

	if err := os.MkdirAll(c.assetsDir, 0755); err != nil {
		return "", fmt.Errorf("creating assets directory: %w", err)
	}

	path := filepath.Join(c.assetsDir, req.EntityID+".png")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return "", fmt.Errorf("writing image file: %w", err)
	}

	return path, nil
}

// buildPrompt composes the image prompt from the entity's visual
// description, category, rarity, and art style.
func (c *Client) buildPrompt(req ports.ImageRequest) string {
	return fmt.Sprintf("%s game asset, %s rarity: %s. Art style: %s. Centered subject, plain background.",
		req.Category, req.Rarity, req.Subject, req.Style)
}

// isSafetyBlock reports whether the API error is an explicit content-safety
// refusal rather than a transport or quota failure.
func isSafetyBlock(err error) bool {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if code, ok := apiErr.Code.(string); ok && code == safetyBlockCode {
		return true
	}
	return apiErr.Type == "image_generation_user_error"
}
