// Package secrets resolves the Guardian API credential from AWS Secrets
// Manager.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"guardian-ingest/internal/ingest"
)

const keyField = "GUARDIAN_API_KEY"

// API is the slice of the Secrets Manager client used by Store.
type API interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Store fetches secret values on demand; it caches nothing so rotated
// credentials are picked up on the next cycle.
type Store struct {
	client API
	log    *slog.Logger
}

// New wraps a Secrets Manager client.
func New(client API, log *slog.Logger) *Store {
	return &Store{client: client, log: log}
}

// APIKey resolves the named secret to the Guardian API key. The secret value
// may be a JSON object carrying the key under "GUARDIAN_API_KEY" or a plain
// string. Any failure maps to an authentication error since no articles can
// be fetched without the credential.
func (s *Store) APIKey(ctx context.Context, secretName string) (string, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return "", fmt.Errorf("%w: get secret %q: %v", ingest.ErrAuthentication, secretName, err)
	}

	raw := aws.ToString(out.SecretString)
	if raw == "" {
		return "", fmt.Errorf("%w: secret %q has no string value", ingest.ErrAuthentication, secretName)
	}

	var parsed map[string]string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		// Plain string secret.
		return raw, nil
	}

	if key := parsed[keyField]; key != "" {
		return key, nil
	}
	if len(parsed) == 1 {
		for _, v := range parsed {
			if v != "" {
				return v, nil
			}
		}
	}

	return "", fmt.Errorf("%w: secret %q does not contain %q", ingest.ErrAuthentication, secretName, keyField)
}

// KeyFunc binds a secret name into the credential callback shape the Guardian
// client expects.
func (s *Store) KeyFunc(secretName string) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		return s.APIKey(ctx, secretName)
	}
}
