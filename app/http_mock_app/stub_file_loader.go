package http_mock_app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	model "go_stub_server/internal/domain/model/stub_rule"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// StubFile is one YAML document of a stub definition file. A file may hold
// several documents separated by "---".
type StubFile struct {
	Stubs []StubDefinitionDTO `yaml:"stubs"`
}

// ExpandStubFiles resolves doublestar globs such as "stubs/**/*.yaml" into a
// sorted, de-duplicated file list. A pattern without matches is an error.
func ExpandStubFiles(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad stub file pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no stub files match %q", pattern)
		}
		for _, m := range matches {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// LoadStubFiles reads, validates and converts every stub of the files
// matching patterns. Rules keep file order so later definitions override
// earlier ones with the same pattern.
func LoadStubFiles(ctx context.Context, patterns []string, fixtures FixtureLoader) ([]model.StubRule, error) {
	files, err := ExpandStubFiles(patterns)
	if err != nil {
		return nil, err
	}

	var rules []model.StubRule
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read stub file: %w", err)
		}
		fileRules, err := ParseStubDefinitions(ctx, data, fixtures)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		rules = append(rules, fileRules...)
	}
	return rules, nil
}

// ParseStubDefinitions decodes every YAML document of data.
func ParseStubDefinitions(ctx context.Context, data []byte, fixtures FixtureLoader) ([]model.StubRule, error) {
	var rules []model.StubRule
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	for doc := 0; ; doc++ {
		var file StubFile
		if err := decoder.Decode(&file); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to parse document %d: %w", doc, err)
		}

		for i := range file.Stubs {
			def := &file.Stubs[i]
			if err := def.Validate(); err != nil {
				return nil, fmt.Errorf("document %d stub %d: %w", doc, i, err)
			}
			rule, err := def.ConvertToStubRule(ctx, fixtures)
			if err != nil {
				return nil, fmt.Errorf("document %d stub %d: %w", doc, i, err)
			}
			rules = append(rules, rule)
		}
	}
	return rules, nil
}
