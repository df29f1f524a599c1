package search

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultMaxOutput caps how much accelerator output is read before the
// command is killed and treated as a soft failure.
const DefaultMaxOutput int64 = 512 * 1024

// CandidateFinder narrows which archive documents are worth parsing for
// a query. It is purely an accelerator: the authoritative match test
// always runs in memory, and any finder failure degrades to "no archive
// candidates" rather than an error.
type CandidateFinder interface {
	// FindCandidateFiles returns paths under dir that may contain every
	// keyword.
	FindCandidateFiles(ctx context.Context, dir string, keywords []string) ([]string, error)
}

// NoopFinder never reports candidates; archives contribute nothing.
type NoopFinder struct{}

// FindCandidateFiles implements CandidateFinder.
func (NoopFinder) FindCandidateFiles(context.Context, string, []string) ([]string, error) {
	return nil, nil
}

// GrepFinder shells out to the platform text-search utility (grep on
// unix-likes, findstr on Windows), one invocation per keyword, and
// intersects the matching paths. Arguments are passed as an argv vector,
// never through a shell, so keywords need no escaping.
type GrepFinder struct {
	maxOutput int64
}

// GrepFinderOption configures a GrepFinder.
type GrepFinderOption func(*GrepFinder)

// WithMaxOutput sets the output cap for one utility invocation.
func WithMaxOutput(n int64) GrepFinderOption {
	return func(f *GrepFinder) {
		if n > 0 {
			f.maxOutput = n
		}
	}
}

// NewGrepFinder creates a GrepFinder with the given options.
func NewGrepFinder(opts ...GrepFinderOption) *GrepFinder {
	f := &GrepFinder{maxOutput: DefaultMaxOutput}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FindCandidateFiles implements CandidateFinder. Every keyword must
// match a file (case-insensitive substring) for it to survive.
func (f *GrepFinder) FindCandidateFiles(ctx context.Context, dir string, keywords []string) ([]string, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	var candidates map[string]bool
	for _, kw := range keywords {
		paths, err := f.run(ctx, dir, kw)
		if err != nil {
			return nil, err
		}
		if candidates == nil {
			candidates = make(map[string]bool, len(paths))
			for _, p := range paths {
				candidates[p] = true
			}
		} else {
			next := make(map[string]bool, len(paths))
			for _, p := range paths {
				if candidates[p] {
					next[p] = true
				}
			}
			candidates = next
		}
		if len(candidates) == 0 {
			return nil, nil
		}
	}

	out := make([]string, 0, len(candidates))
	for p := range candidates {
		out = append(out, p)
	}
	return out, nil
}

// run invokes the utility for one keyword and returns matching paths.
// Exit status 1 means "no matches" and yields an empty list; anything
// else non-zero is a real failure.
func (f *GrepFinder) run(ctx context.Context, dir, keyword string) ([]string, error) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "findstr", "/s", "/i", "/m", "/c:"+keyword, filepath.Join(dir, "*.json"))
	} else {
		cmd = exec.CommandContext(ctx, "grep", "-r", "-l", "-i", "-F", "--include=*.json", keyword, dir)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("pipe %s: %w", cmd.Path, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", cmd.Path, err)
	}

	data, readErr := io.ReadAll(io.LimitReader(stdout, f.maxOutput+1))
	if int64(len(data)) > f.maxOutput {
		cmd.Process.Kill()
		cmd.Wait()
		return nil, fmt.Errorf("search output exceeded %d bytes", f.maxOutput)
	}

	err = cmd.Wait()
	if readErr != nil {
		return nil, fmt.Errorf("read search output: %w", readErr)
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf("run %s: %w", cmd.Path, err)
	}

	var paths []string
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

// FinderFor builds the candidate finder for a configured search command
// setting: "off" disables acceleration, "grep" always uses the platform
// utility, "auto" uses it only when present on PATH.
func FinderFor(command string, maxOutput int64) CandidateFinder {
	switch command {
	case "off":
		return NoopFinder{}
	case "grep":
		return NewGrepFinder(WithMaxOutput(maxOutput))
	default:
		if _, err := exec.LookPath(platformTool()); err != nil {
			return NoopFinder{}
		}
		return NewGrepFinder(WithMaxOutput(maxOutput))
	}
}

func platformTool() string {
	if runtime.GOOS == "windows" {
		return "findstr"
	}
	return "grep"
}
