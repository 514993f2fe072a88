// Package secrets retrieves and validates the database credentials and
// submission bucket for a load run.
//
// The lookup result is a typed record validated at the boundary; a missing
// key fails fast rather than surfacing later as an empty connection string.
package secrets

import (
	"context"
	"fmt"

	"github.com/datacommons/graph-dataloader/internal/constants"
)

// Credentials are the required values of a loader secret.
type Credentials struct {
	URI              string
	Password         string
	SubmissionBucket string
}

// MissingKeyError reports a secret payload missing a required key.
type MissingKeyError struct {
	Secret string
	Key    string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("secret %q is missing required key %q", e.Secret, e.Key)
}

// Store looks up a named secret.
type Store interface {
	Get(ctx context.Context, name string) (Credentials, error)
}

// fromMap validates a raw secret payload into Credentials.
func fromMap(name string, raw map[string]string) (Credentials, error) {
	for _, key := range []string{constants.SecretKeyURI, constants.SecretKeyPass, constants.SecretKeyBucket} {
		if raw[key] == "" {
			return Credentials{}, &MissingKeyError{Secret: name, Key: key}
		}
	}

	return Credentials{
		URI:              raw[constants.SecretKeyURI],
		Password:         raw[constants.SecretKeyPass],
		SubmissionBucket: raw[constants.SecretKeyBucket],
	}, nil
}
