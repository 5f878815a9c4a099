package config

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rpupo63/blog-platform/errs"
	"github.com/rs/zerolog/log"
)

// SecretPrefix marks a config value that names an SSM parameter instead of holding the value itself.
const SecretPrefix = "ssm:"

// ParameterGetter is the subset of the SSM client used to resolve secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ResolveSecrets replaces every "ssm:/name" value in config with the decrypted
// parameter value. The SSM client is only built when at least one value needs it.
func ResolveSecrets(ctx context.Context, config map[string]string) error {
	if !hasSecretRefs(config) {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return errs.NewConfigError("aws", err)
	}

	return resolveWith(ctx, ssm.NewFromConfig(awsCfg), config)
}

func hasSecretRefs(config map[string]string) bool {
	for _, value := range config {
		if strings.HasPrefix(value, SecretPrefix) {
			return true
		}
	}
	return false
}

func resolveWith(ctx context.Context, client ParameterGetter, config map[string]string) error {
	for key, value := range config {
		if !strings.HasPrefix(value, SecretPrefix) {
			continue
		}

		name := strings.TrimPrefix(value, SecretPrefix)
		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(name),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return errs.NewConfigError(key, err)
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			return errs.NewConfigError(key, nil)
		}

		config[key] = aws.ToString(out.Parameter.Value)
		log.Debug().Str("key", key).Str("parameter", name).Msg("resolved secret from SSM")
	}
	return nil
}
