// Package upload validates attachment batches and persists accepted
// files through the upload storage collaborator.
package upload

import (
	"path/filepath"
	"strings"

	"talenttrack-backend/internal/config"
)

// RejectionReason classifies why a file was refused.
type RejectionReason string

const (
	TooLarge        RejectionReason = "too-large"
	UnsupportedType RejectionReason = "unsupported-type"
	// TooManyFiles applies once at batch level: when the batch exceeds
	// the configured count every file carries this reason.
	TooManyFiles RejectionReason = "too-many-files"
)

// FileDescriptor is what the validator inspects: never file content.
type FileDescriptor struct {
	Name string
	Size int64 // bytes
}

// Result is the per-file outcome.
type Result struct {
	Name     string
	Accepted bool
	Reason   RejectionReason
}

// Rules are the validation limits, normally taken from configuration.
type Rules struct {
	AllowedExtensions []string
	MaxFileSize       int64 // bytes per file
	MaxFiles          int
}

// RulesFromConfig converts the YAML attachment settings into Rules.
func RulesFromConfig(cfg config.AttachmentsConfig) Rules {
	return Rules{
		AllowedExtensions: cfg.AllowedExtensions,
		MaxFileSize:       cfg.MaxFileSizeMB << 20,
		MaxFiles:          cfg.MaxFiles,
	}
}

// ValidateBatch checks a batch of file descriptors against the rules and
// returns one Result per file, in input order. It is stateless. The
// caller must treat any single rejection as rejecting the whole
// submission; partial acceptance is not permitted.
func ValidateBatch(files []FileDescriptor, rules Rules) []Result {
	results := make([]Result, len(files))

	if rules.MaxFiles > 0 && len(files) > rules.MaxFiles {
		for i, f := range files {
			results[i] = Result{Name: f.Name, Reason: TooManyFiles}
		}
		return results
	}

	for i, f := range files {
		results[i] = validateOne(f, rules)
	}
	return results
}

// AllAccepted reports whether every file in the batch passed.
func AllAccepted(results []Result) bool {
	for _, r := range results {
		if !r.Accepted {
			return false
		}
	}
	return true
}

// FirstRejection returns the first rejected result, if any.
func FirstRejection(results []Result) (Result, bool) {
	for _, r := range results {
		if !r.Accepted {
			return r, true
		}
	}
	return Result{}, false
}

func validateOne(f FileDescriptor, rules Rules) Result {
	extension := strings.ToLower(filepath.Ext(f.Name))
	if !extensionAllowed(extension, rules.AllowedExtensions) {
		return Result{Name: f.Name, Reason: UnsupportedType}
	}

	if rules.MaxFileSize > 0 && f.Size > rules.MaxFileSize {
		return Result{Name: f.Name, Reason: TooLarge}
	}

	return Result{Name: f.Name, Accepted: true}
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(a, ext) {
			return true
		}
	}
	return false
}
