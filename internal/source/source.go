// Package source classifies user-supplied sources and resolves them into project roots,
// cloning remote repositories into temporary directories when needed.
package source

import (
	"regexp"
	"strings"
)

// Kind identifies how a source string is acquired.
type Kind int

const (
	// KindLocal is a path on the local filesystem.
	KindLocal Kind = iota
	// KindHTTP is an http:// or https:// repository URL.
	KindHTTP
	// KindSSH is an ssh:// URL or an scp-style user@host:path reference.
	KindSSH
	// KindGit is a git:// protocol URL.
	KindGit
)

const (
	httpSchemePrefix  = "http://"
	httpsSchemePrefix = "https://"
	sshSchemePrefix   = "ssh://"
	gitSchemePrefix   = "git://"
)

var scpStyleReference = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:.+$`)

// String returns the lowercase name of the kind used in log fields.
func (kind Kind) String() string {
	switch kind {
	case KindHTTP:
		return "http"
	case KindSSH:
		return "ssh"
	case KindGit:
		return "git"
	default:
		return "local"
	}
}

// IsRemote reports whether the kind requires a clone.
func (kind Kind) IsRemote() bool {
	return kind != KindLocal
}

// Classify determines the kind of a source string. Anything that is not a recognized
// repository reference is treated as a local path.
func Classify(source string) Kind {
	trimmedSource := strings.TrimSpace(source)
	loweredSource := strings.ToLower(trimmedSource)
	switch {
	case strings.HasPrefix(loweredSource, httpSchemePrefix), strings.HasPrefix(loweredSource, httpsSchemePrefix):
		return KindHTTP
	case strings.HasPrefix(loweredSource, sshSchemePrefix):
		return KindSSH
	case strings.HasPrefix(loweredSource, gitSchemePrefix):
		return KindGit
	case scpStyleReference.MatchString(trimmedSource):
		return KindSSH
	default:
		return KindLocal
	}
}
