package discovery

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// GitTrackedFiles returns the set of root-relative paths git tracks in
// the repository at root, backing the walker's GitTrackedOnly mode (only
// fixtures somebody has committed or staged belong in a reproducible
// batch). It shells out to `git ls-files -z`; the NUL separator keeps
// paths with spaces or non-ASCII names intact, where newline-separated
// output would come back quoted.
//
// A directory that is not a git repository, or a missing git binary,
// returns an error. An empty repository returns an empty set.
func GitTrackedFiles(ctx context.Context, root string) (map[string]struct{}, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-files", "-z")
	cmd.Dir = root

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed in %s: %w (is this a git repository?)", root, err)
	}

	tracked := make(map[string]struct{})
	for _, name := range strings.Split(string(out), "\x00") {
		if name != "" {
			tracked[name] = struct{}{}
		}
	}
	return tracked, nil
}
