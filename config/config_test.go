package config

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	cfg := map[string]string{
		"PORT":          "9090",
		"BAD_INT":       "nine",
		"COOKIE_SECURE": "true",
		"BAD_BOOL":      "maybe",
		"EMPTY":         "",
	}

	assert.Equal(t, 9090, GetInt(cfg, "PORT", 8080))
	assert.Equal(t, 8080, GetInt(cfg, "BAD_INT", 8080))
	assert.Equal(t, 8080, GetInt(nil, "PORT", 8080))

	assert.True(t, GetBool(cfg, "COOKIE_SECURE", false))
	assert.False(t, GetBool(cfg, "BAD_BOOL", false))
	assert.True(t, GetBool(cfg, "MISSING", true))

	assert.Equal(t, "fallback", GetString(cfg, "EMPTY", "fallback"))
	assert.Equal(t, "9090", GetString(cfg, "PORT", ""))
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("BLOG_TEST_KEY", "a=b")

	cfg := New()
	assert.Equal(t, "a=b", cfg["BLOG_TEST_KEY"])
}

type fakeParameters struct {
	values map[string]string
	calls  int
}

func (f *fakeParameters) GetParameter(_ context.Context, params *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.calls++
	value, ok := f.values[aws.ToString(params.Name)]
	if !ok {
		return nil, errors.New("ParameterNotFound")
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(value)}}, nil
}

func TestResolveSecrets(t *testing.T) {
	t.Run("replaces referenced values", func(t *testing.T) {
		client := &fakeParameters{values: map[string]string{"/blog/jwt": "s3cret"}}
		cfg := map[string]string{"JWT_SECRET": "ssm:/blog/jwt", "PORT": "8080"}

		require.NoError(t, resolveWith(context.Background(), client, cfg))
		assert.Equal(t, "s3cret", cfg["JWT_SECRET"])
		assert.Equal(t, "8080", cfg["PORT"])
		assert.Equal(t, 1, client.calls)
	})

	t.Run("missing parameter is a config error", func(t *testing.T) {
		client := &fakeParameters{}
		cfg := map[string]string{"JWT_SECRET": "ssm:/blog/missing"}

		err := resolveWith(context.Background(), client, cfg)
		require.Error(t, err)
		assert.True(t, errs.IsConfigError(err))
	})

	t.Run("no references skips aws entirely", func(t *testing.T) {
		require.NoError(t, ResolveSecrets(context.Background(), map[string]string{"PORT": "8080"}))
	})
}
