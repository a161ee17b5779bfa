package output_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/repoprompt/internal/output"
	"github.com/temirov/repoprompt/internal/types"
)

const sampleDocument = "## Project Source Code Prompt\n\nbody"

type recordingCopier struct {
	copied    []string
	copyError error
}

func (copier *recordingCopier) Copy(text string) error {
	if copier.copyError != nil {
		return copier.copyError
	}
	copier.copied = append(copier.copied, text)
	return nil
}

func TestNormalizeTarget(testingInstance *testing.T) {
	testCases := []struct {
		input     string
		expected  string
		expectErr bool
	}{
		{input: "", expected: types.TargetClipboard},
		{input: "file", expected: types.TargetFile},
		{input: "TERMINAL", expected: types.TargetTerminal},
		{input: " Clipboard ", expected: types.TargetClipboard},
		{input: "printer", expectErr: true},
	}
	for _, testCase := range testCases {
		actual, normalizeError := output.NormalizeTarget(testCase.input)
		if testCase.expectErr {
			if normalizeError == nil {
				testingInstance.Fatalf("expected error for %q", testCase.input)
			}
			continue
		}
		if normalizeError != nil || actual != testCase.expected {
			testingInstance.Fatalf("NormalizeTarget(%q) = %q, %v; expected %q", testCase.input, actual, normalizeError, testCase.expected)
		}
	}
}

func TestDeliverToFile(testingInstance *testing.T) {
	workingDirectory := testingInstance.TempDir()
	var messages bytes.Buffer
	deliverer := &output.Deliverer{Writer: &messages, WorkingDirectory: workingDirectory}

	if deliverError := deliverer.Deliver("File", sampleDocument); deliverError != nil {
		testingInstance.Fatalf("Deliver error: %v", deliverError)
	}
	written, readError := os.ReadFile(filepath.Join(workingDirectory, "prompt.md"))
	if readError != nil {
		testingInstance.Fatalf("read prompt file: %v", readError)
	}
	if string(written) != sampleDocument {
		testingInstance.Fatalf("unexpected file content %q", string(written))
	}
	if messages.String() != "Prompt saved to 'prompt.md'.\n" {
		testingInstance.Fatalf("unexpected message %q", messages.String())
	}
}

func TestDeliverToConfiguredFile(testingInstance *testing.T) {
	workingDirectory := testingInstance.TempDir()
	var messages bytes.Buffer
	deliverer := &output.Deliverer{Writer: &messages, WorkingDirectory: workingDirectory, FilePath: "context.md"}

	if deliverError := deliverer.Deliver(types.TargetFile, sampleDocument); deliverError != nil {
		testingInstance.Fatalf("Deliver error: %v", deliverError)
	}
	if _, statError := os.Stat(filepath.Join(workingDirectory, "context.md")); statError != nil {
		testingInstance.Fatalf("expected configured prompt file: %v", statError)
	}
	if messages.String() != "Prompt saved to 'context.md'.\n" {
		testingInstance.Fatalf("unexpected message %q", messages.String())
	}
}

func TestDeliverToTerminal(testingInstance *testing.T) {
	var messages bytes.Buffer
	deliverer := &output.Deliverer{Writer: &messages}
	if deliverError := deliverer.Deliver(types.TargetTerminal, sampleDocument); deliverError != nil {
		testingInstance.Fatalf("Deliver error: %v", deliverError)
	}
	if messages.String() != sampleDocument+"\n" {
		testingInstance.Fatalf("unexpected terminal output %q", messages.String())
	}
}

func TestDeliverToClipboard(testingInstance *testing.T) {
	var messages bytes.Buffer
	copier := &recordingCopier{}
	deliverer := &output.Deliverer{Writer: &messages, Copier: copier}
	if deliverError := deliverer.Deliver(types.TargetClipboard, sampleDocument); deliverError != nil {
		testingInstance.Fatalf("Deliver error: %v", deliverError)
	}
	if len(copier.copied) != 1 || copier.copied[0] != sampleDocument {
		testingInstance.Fatalf("unexpected clipboard content %v", copier.copied)
	}
	if messages.String() != "Prompt copied to clipboard.\n" {
		testingInstance.Fatalf("unexpected message %q", messages.String())
	}
}

func TestDeliverClipboardFailures(testingInstance *testing.T) {
	var messages bytes.Buffer
	failingDeliverer := &output.Deliverer{Writer: &messages, Copier: &recordingCopier{copyError: errors.New("no display")}}
	if deliverError := failingDeliverer.Deliver(types.TargetClipboard, sampleDocument); deliverError == nil {
		testingInstance.Fatalf("expected copy error")
	}
	missingCopier := &output.Deliverer{Writer: &messages}
	if deliverError := missingCopier.Deliver(types.TargetClipboard, sampleDocument); deliverError == nil {
		testingInstance.Fatalf("expected error without copier")
	}
	if messages.Len() != 0 {
		testingInstance.Fatalf("expected no success message, got %q", messages.String())
	}
}

func TestDeliverUnknownTarget(testingInstance *testing.T) {
	deliverer := &output.Deliverer{Writer: &bytes.Buffer{}}
	if deliverError := deliverer.Deliver("printer", sampleDocument); deliverError == nil {
		testingInstance.Fatalf("expected unsupported target error")
	}
}
