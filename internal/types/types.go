// Package types defines every cross-package data structure used by the repoprompt CLI.
package types

const (
	TargetFile      = "file"
	TargetTerminal  = "terminal"
	TargetClipboard = "clipboard"

	DefaultTarget = TargetClipboard

	CloneBackendGit   = "git"
	CloneBackendGoGit = "go-git"
	CloneBackendAuto  = "auto"
)

// SupportedTargets lists the delivery targets in help-text order.
var SupportedTargets = []string{TargetFile, TargetTerminal, TargetClipboard}

// SourceFile is one file selected for embedding into the prompt.
type SourceFile struct {
	// AbsolutePath locates the file on disk.
	AbsolutePath string
	// RelativePath is the forward-slash path from the project root used as the file heading.
	RelativePath string
}

// TreeEntry is one visible entry of a rendered directory level.
type TreeEntry struct {
	Name        string
	Path        string
	IsDirectory bool
}
