package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider("clippy", map[string]interface{}{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported ai provider")

	_, err = NewEmbedProvider("clippy", map[string]interface{}{})
	require.Error(t, err)
}

func TestNewProviderEmptyName(t *testing.T) {
	_, err := NewProvider("", nil)
	require.Error(t, err)
}

func TestNewProviderRegisteredNames(t *testing.T) {
	for _, name := range []string{"openai", "OpenAI", " gemini "} {
		p, err := NewProvider(name, map[string]interface{}{"api_key": "test"})
		require.NoError(t, err, "provider %q", name)
		require.NotNil(t, p)
	}
}

func TestEmbedderBindsModel(t *testing.T) {
	p, err := NewEmbedProvider("openai", map[string]interface{}{"api_key": ""})
	require.NoError(t, err)
	e := NewEmbedder(p, "text-embedding-3-small")
	require.Equal(t, "text-embedding-3-small", e.ModelName())

	// missing api key surfaces as the provider-unavailable sentinel
	_, err = e.Embed(context.Background(), "text", TaskRetrievalQuery)
	require.True(t, errors.Is(err, ErrUnavailable))
}

func TestDecodeConfigRejectsNil(t *testing.T) {
	cfg := &openAIConfig{}
	require.Error(t, decodeConfig(nil, cfg))
}
