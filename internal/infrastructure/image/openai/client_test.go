package openai

import (
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/world-core/internal/domain/entities"
	"github.com/ersonp/world-core/internal/domain/ports"
	"github.com/ersonp/world-core/internal/infrastructure/config"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient(config.ImageConfig{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, openai.CreateImageModelDallE3, client.model)
	assert.Equal(t, openai.CreateImageSize1024x1024, client.size)
	assert.Equal(t, config.DefaultAssetsDir, client.assetsDir)

	client, err = NewClient(config.ImageConfig{
		APIKey:    "test-key",
		Model:     "dall-e-2",
		Size:      "512x512",
		AssetsDir: "out/images",
	})
	require.NoError(t, err)
	assert.Equal(t, "dall-e-2", client.model)
	assert.Equal(t, "512x512", client.size)
	assert.Equal(t, "out/images", client.assetsDir)

	_, err = NewClient(config.ImageConfig{})
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	c := &Client{}

	got := c.buildPrompt(ports.ImageRequest{
		EntityID: "item_emberfall_blade_weapon_001",
		Subject:  "a curved blade with embers trapped in the steel",
		Category: "weapon",
		Rarity:   entities.RarityRare,
		Style:    "oil painting",
	})

	assert.Equal(t, "weapon game asset, rare rarity: a curved blade with embers trapped in the steel. Art style: oil painting. Centered subject, plain background.", got)
}

func TestIsSafetyBlock(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"safety code", &openai.APIError{Code: "content_policy_violation"}, true},
		{"user error type", &openai.APIError{Type: "image_generation_user_error"}, true},
		{"quota error", &openai.APIError{Code: "insufficient_quota"}, false},
		{"numeric code", &openai.APIError{Code: 429}, false},
		{"plain error", errors.New("connection refused"), false},
		{"wrapped api error", errors.Join(errors.New("outer"), &openai.APIError{Code: "content_policy_violation"}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSafetyBlock(tt.err))
		})
	}
}
