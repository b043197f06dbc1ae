package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterSource lists parameters below a path. ssm.Client satisfies it.
type ParameterSource interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// NewSSMClient builds a Parameter Store client from the default AWS chain.
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// OverlaySSM copies every parameter under prefix into config. The key is the
// last path segment upper-cased with dashes turned into underscores. Values
// already present in config (real env vars) win.
func OverlaySSM(ctx context.Context, config map[string]string, source ParameterSource, prefix string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(source, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	added := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return added, fmt.Errorf("failed to read SSM parameters under %s: %w", prefix, err)
		}

		for _, param := range page.Parameters {
			key := parameterKey(aws.ToString(param.Name))
			if key == "" {
				continue
			}
			if _, exists := config[key]; exists {
				log.Debug().Str("key", key).Msg("env var overrides SSM parameter")
				continue
			}
			config[key] = aws.ToString(param.Value)
			added++
		}
	}
	return added, nil
}

func parameterKey(name string) string {
	base := path.Base(strings.TrimRight(name, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(base, "-", "_"))
}
