package pinecone

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
)

// SecretsAPI is the subset of Secrets Manager used for the API key and the
// index endpoint.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	DeleteSecret(ctx context.Context, params *secretsmanager.DeleteSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error)
}

// apiKeyField is the JSON key holding the Pinecone API key in its secret.
const apiKeyField = "apiKey"

// SecretStore reads the API key and records the index endpoint.
type SecretStore struct {
	api SecretsAPI
}

func NewSecretStore(api SecretsAPI) *SecretStore {
	return &SecretStore{api: api}
}

// APIKey reads the current version of a {"apiKey": "..."} secret.
func (s *SecretStore) APIKey(ctx context.Context, secretName string) (string, error) {
	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretName),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", secretName, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretName)
	}

	var v map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &v); err != nil {
		return "", fmt.Errorf("secret %s is not a JSON object: %w", secretName, err)
	}
	key := v[apiKeyField]
	if key == "" {
		return "", fmt.Errorf("secret %s has no %q field", secretName, apiKeyField)
	}
	return key, nil
}

// SaveEndpoint stores endpoint under secretName, overwriting the value when
// the secret already exists so a retried Create converges.
func (s *SecretStore) SaveEndpoint(ctx context.Context, secretName, endpoint string) error {
	_, err := s.api.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(secretName),
		SecretString: aws.String(endpoint),
	})
	if err == nil {
		return nil
	}
	if !hasErrorCode(err, "ResourceExistsException") {
		return fmt.Errorf("failed to create secret %s: %w", secretName, err)
	}

	if _, err := s.api.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(secretName),
		SecretString: aws.String(endpoint),
	}); err != nil {
		return fmt.Errorf("failed to update secret %s: %w", secretName, err)
	}
	return nil
}

// DeleteEndpoint force-deletes the endpoint secret. A missing secret is not an error.
func (s *SecretStore) DeleteEndpoint(ctx context.Context, secretName string) error {
	_, err := s.api.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:                   aws.String(secretName),
		ForceDeleteWithoutRecovery: aws.Bool(true),
	})
	if err != nil && !hasErrorCode(err, "ResourceNotFoundException") {
		return fmt.Errorf("failed to delete secret %s: %w", secretName, err)
	}
	return nil
}

func hasErrorCode(err error, code string) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == code
}
