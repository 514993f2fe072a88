package gitrepo_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacommons/graph-dataloader/internal/gitrepo"
)

func TestGuardCheck(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		expected     string
		resolvedTag  string
		resolvedOK   bool
		resolveError bool

		wantConsistencyError bool
		wantErr              bool
		wantResolved         string
	}{
		"Matching tag proceeds": {expected: "v2.3.0", resolvedTag: "v2.3.0", resolvedOK: true},
		"Mismatched tag aborts": {expected: "v2.3.0", resolvedTag: "v2.2.9", resolvedOK: true,
			wantConsistencyError: true, wantErr: true, wantResolved: "v2.2.9"},
		"Untagged checkout aborts": {expected: "v2.3.0",
			wantConsistencyError: true, wantErr: true, wantResolved: "none"},
		"Resolver failure is not a consistency error": {expected: "v2.3.0", resolveError: true, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			resolver := &stubResolver{tag: tc.resolvedTag, ok: tc.resolvedOK, fail: tc.resolveError}
			guard := gitrepo.NewGuard(slog.Default(), resolver)

			err := guard.Check(context.Background(), tc.expected, "/some/repo")
			if !tc.wantErr {
				require.NoError(t, err, "Check should proceed on matching tags")
				return
			}
			require.Error(t, err, "Check should abort")

			var consistencyErr *gitrepo.ConsistencyError
			require.Equal(t, tc.wantConsistencyError, errors.As(err, &consistencyErr), "ConsistencyError presence mismatch")
			if tc.wantConsistencyError {
				assert.Equal(t, tc.expected, consistencyErr.Expected, "error should carry the declared tag")
				assert.Equal(t, tc.wantResolved, consistencyErr.Resolved, "error should carry the resolved tag")
			}
		})
	}
}

type stubResolver struct {
	tag  string
	ok   bool
	fail bool
}

func (r *stubResolver) ExactTag(ctx context.Context, repoPath string) (string, bool, error) {
	if r.fail {
		return "", false, errors.New("git failed")
	}
	return r.tag, r.ok, nil
}
