// Package cloud concentra a inicialização compartilhada dos clientes AWS
// usados na leitura de configuração (S3, DynamoDB, SSM e Secrets Manager).
package cloud

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

var (
	awsCfg  aws.Config
	awsOnce sync.Once
	awsErr  error
)

// AWSConfig carrega a configuração da AWS (env vars, profile, IAM role) de forma lazy-singleton.
// A região só é considerada na primeira chamada.
func AWSConfig(ctx context.Context, region string) (aws.Config, error) {
	awsOnce.Do(func() {
		opts := []func(*config.LoadOptions) error{}
		if region != "" {
			opts = append(opts, config.WithRegion(region))
		}
		awsCfg, awsErr = config.LoadDefaultConfig(ctx, opts...)
	})
	return awsCfg, awsErr
}

func S3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := AWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

func DynamoDBClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	cfg, err := AWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func SSMClient(ctx context.Context, region string) (*ssm.Client, error) {
	cfg, err := AWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return ssm.NewFromConfig(cfg), nil
}

func SecretsClient(ctx context.Context, region string) (*secretsmanager.Client, error) {
	cfg, err := AWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return secretsmanager.NewFromConfig(cfg), nil
}
