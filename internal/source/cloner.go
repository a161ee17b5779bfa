package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/temirov/repoprompt/internal/types"
)

const (
	gitExecutableName      = "git"
	cloneSubcommand        = "clone"
	depthFlag              = "--depth"
	gitHubTokenEnvironment = "GH_TOKEN"
	basicAuthUsername      = "git"

	errorUnknownBackendFormat = "unknown clone backend %q (expected %s, %s or %s)"
	errorExecCloneFormat      = "git clone %s: %s"
	errorGoGitCloneFormat     = "go-git clone %s: %w"
)

// ErrCloneFailure marks any failure of the clone collaborator.
var ErrCloneFailure = errors.New("clone failed")

// Cloner clones a repository reference into an existing empty destination directory.
type Cloner interface {
	Clone(ctx context.Context, source string, destination string) error
}

// ExecCloner invokes the external git client.
type ExecCloner struct {
	GitBinary string
	// Depth limits history when positive.
	Depth int
}

// Clone runs git clone and reports stderr when the client exits non-zero.
func (cloner *ExecCloner) Clone(ctx context.Context, source string, destination string) error {
	gitBinary := cloner.GitBinary
	if strings.TrimSpace(gitBinary) == "" {
		gitBinary = gitExecutableName
	}
	arguments := []string{cloneSubcommand}
	if cloner.Depth > 0 {
		arguments = append(arguments, depthFlag, strconv.Itoa(cloner.Depth))
	}
	arguments = append(arguments, source, destination)

	// #nosec G204
	cloneCommand := exec.CommandContext(ctx, gitBinary, arguments...)
	var standardOutput bytes.Buffer
	var standardError bytes.Buffer
	cloneCommand.Stdout = &standardOutput
	cloneCommand.Stderr = &standardError
	if runError := cloneCommand.Run(); runError != nil {
		message := strings.TrimSpace(standardError.String())
		if message == "" {
			message = strings.TrimSpace(standardOutput.String())
		}
		if message == "" {
			message = runError.Error()
		}
		return fmt.Errorf(errorExecCloneFormat, source, message)
	}
	return nil
}

// GoGitCloner clones in-process with go-git.
type GoGitCloner struct {
	// Depth limits history when positive.
	Depth int
	// Token authenticates HTTP sources; defaults to the GH_TOKEN environment variable.
	Token string
}

// Clone performs a go-git clone of source into destination.
func (cloner *GoGitCloner) Clone(ctx context.Context, source string, destination string) error {
	cloneOptions := &git.CloneOptions{
		URL:   source,
		Depth: cloner.Depth,
	}
	token := cloner.Token
	if token == "" {
		token = os.Getenv(gitHubTokenEnvironment)
	}
	if token != "" && Classify(source) == KindHTTP {
		cloneOptions.Auth = &http.BasicAuth{
			Username: basicAuthUsername,
			Password: token,
		}
	}
	if _, cloneError := git.PlainCloneContext(ctx, destination, false, cloneOptions); cloneError != nil {
		return fmt.Errorf(errorGoGitCloneFormat, source, cloneError)
	}
	return nil
}

// NewCloner returns the cloner for the named backend. An empty backend selects the git client.
// The auto backend uses the git client when it is on PATH and go-git otherwise.
func NewCloner(backend string, depth int) (Cloner, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", types.CloneBackendGit:
		return &ExecCloner{Depth: depth}, nil
	case types.CloneBackendGoGit:
		return &GoGitCloner{Depth: depth}, nil
	case types.CloneBackendAuto:
		if _, lookPathError := exec.LookPath(gitExecutableName); lookPathError == nil {
			return &ExecCloner{Depth: depth}, nil
		}
		return &GoGitCloner{Depth: depth}, nil
	default:
		return nil, fmt.Errorf(errorUnknownBackendFormat, backend, types.CloneBackendGit, types.CloneBackendGoGit, types.CloneBackendAuto)
	}
}

var (
	_ Cloner = (*ExecCloner)(nil)
	_ Cloner = (*GoGitCloner)(nil)
)
