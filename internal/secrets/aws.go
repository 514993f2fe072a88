package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/ubuntu/decorate"
)

// secretsManagerAPI is the subset of the Secrets Manager client used here.
type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSStore reads secrets from AWS Secrets Manager. Secret payloads are JSON
// objects of string keys.
type AWSStore struct {
	client secretsManagerAPI
}

// NewAWSStore builds an AWSStore from the ambient AWS configuration
// (environment, shared config, instance role).
func NewAWSStore(ctx context.Context) (*AWSStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load AWS configuration: %w", err)
	}

	return &AWSStore{client: secretsmanager.NewFromConfig(cfg)}, nil
}

// Get retrieves and validates the named secret.
func (s *AWSStore) Get(ctx context.Context, name string) (creds Credentials, err error) {
	defer decorate.OnError(&err, "could not get secret %q", name)

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return Credentials{}, err
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(aws.ToString(out.SecretString)), &raw); err != nil {
		return Credentials{}, fmt.Errorf("secret payload is not a JSON object of strings: %v", err)
	}

	return fromMap(name, raw)
}
