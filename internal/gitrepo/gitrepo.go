// Package gitrepo guards a load run against model version drift.
//
// The operator declares which model tag a run was deployed for; the guard
// resolves the tag of the model repository actually present on disk and
// refuses to proceed unless the two match exactly. Loading data against the
// wrong schema revision must never happen silently.
package gitrepo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/datacommons/graph-dataloader/internal/cmdutils"
)

const resolveTimeout = 15 * time.Second

// TagResolver resolves the exact version tag of a repository checkout.
type TagResolver interface {
	// ExactTag returns the tag pointing at the repository's current
	// revision. ok is false when the revision is not exactly tagged;
	// err is reserved for I/O or tooling failures.
	ExactTag(ctx context.Context, repoPath string) (tag string, ok bool, err error)
}

// ConsistencyError reports a mismatch between the declared model tag and
// the tag of the checkout present at run time.
type ConsistencyError struct {
	Expected string
	Resolved string // "none" when the checkout carries no exact tag
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("model checkout tag %q does not match the declared model tag %q; redeployment with the desired model tag is required", e.Resolved, e.Expected)
}

// GitResolver resolves tags by invoking the git command line tool.
type GitResolver struct{}

// ExactTag runs `git describe --tags --exact-match` in repoPath.
// A revision without an exact tag yields ok=false, not an error.
func (GitResolver) ExactTag(ctx context.Context, repoPath string) (string, bool, error) {
	stdout, stderr, err := cmdutils.RunWithTimeout(ctx, resolveTimeout, repoPath, "git", "describe", "--tags", "--exact-match")
	if err != nil {
		if strings.Contains(stderr.String(), "no tag exactly matches") ||
			strings.Contains(stderr.String(), "No tags can describe") ||
			strings.Contains(stderr.String(), "cannot describe") {
			return "", false, nil
		}
		return "", false, fmt.Errorf("could not resolve repository tag: %v: %s", err, strings.TrimSpace(stderr.String()))
	}

	tag := strings.TrimSpace(stdout.String())
	if tag == "" {
		return "", false, nil
	}
	return tag, true, nil
}

// Guard compares declared model tags against resolved ones.
type Guard struct {
	resolver TagResolver
	log      *slog.Logger
}

// NewGuard returns a Guard using the given resolver.
func NewGuard(l *slog.Logger, resolver TagResolver) *Guard {
	return &Guard{resolver: resolver, log: l}
}

// Check resolves the tag of the model repository at repoPath and compares
// it against expected. It returns a ConsistencyError when the checkout has
// no exact tag or its tag differs from expected. Comparison is exact string
// equality; no version ordering is implied.
func (g *Guard) Check(ctx context.Context, expected, repoPath string) error {
	tag, ok, err := g.resolver.ExactTag(ctx, repoPath)
	if err != nil {
		return err
	}

	resolved := tag
	if !ok {
		resolved = "none"
	}
	g.log.Info("Checking model version consistency", "declared", expected, "resolved", resolved)

	if !ok || tag != expected {
		return &ConsistencyError{Expected: expected, Resolved: resolved}
	}

	g.log.Info("Model checkout matches the declared model tag", "tag", tag)
	return nil
}
