package secrets_test

import (
	"context"
	"testing"

	"github.com/advcompro/garage-dashboard/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolveSource(t *testing.T) {
	tests := []struct {
		source secrets.SecretSource
		env    string
		want   secrets.SecretSource
	}{
		{secrets.SourceAuto, "development", secrets.SourceEnvironment},
		{secrets.SourceAuto, "", secrets.SourceEnvironment},
		{secrets.SourceAuto, "test", secrets.SourceEnvironment},
		{secrets.SourceAuto, "staging", secrets.SourceVault},
		{secrets.SourceAuto, "production", secrets.SourceVault},
		{secrets.SourceEnvironment, "production", secrets.SourceEnvironment},
		{secrets.SourceVault, "development", secrets.SourceVault},
	}
	for _, tt := range tests {
		t.Run(string(tt.source)+"/"+tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, secrets.ResolveSource(tt.source, tt.env))
		})
	}
}

func TestNewProvider_VaultRequiresName(t *testing.T) {
	_, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:      secrets.SourceAuto,
		Environment: "production",
	}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault name required")
}

func TestProvider_Environment(t *testing.T) {
	p, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:      secrets.SourceAuto,
		Environment: "development",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, secrets.SourceEnvironment, p.Source())

	ctx := context.Background()
	t.Setenv("GARAGE_TEST_SECRET", "s3cret")

	value, err := p.GetSecret(ctx, "GARAGE_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", value)

	_, err = p.GetSecret(ctx, "GARAGE_TEST_MISSING")
	assert.Error(t, err)
}

func TestProvider_GetSecretOrEnvPrefersOverride(t *testing.T) {
	p, err := secrets.NewProvider(&secrets.ProviderConfig{Source: secrets.SourceEnvironment}, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	t.Setenv("GARAGE_OVERRIDE", "override")
	t.Setenv("GARAGE_FALLBACK", "fallback")

	value, err := p.GetSecretOrEnv(ctx, "GARAGE_FALLBACK", "GARAGE_OVERRIDE")
	require.NoError(t, err)
	assert.Equal(t, "override", value)

	value, err = p.GetSecretOrEnv(ctx, "GARAGE_FALLBACK", "GARAGE_UNSET_OVERRIDE")
	require.NoError(t, err)
	assert.Equal(t, "fallback", value)
}

func TestProvider_UnknownSource(t *testing.T) {
	p, err := secrets.NewProvider(&secrets.ProviderConfig{Source: "keychain"}, zap.NewNop())
	require.NoError(t, err)

	_, err = p.GetSecret(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown secret source")
}
