// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package filetests houses a test harness for compiling YAML sources and asserting
the expected output.
*/
package filetests

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	cmdui "github.com/apmanual/apworld/pkg/cmd/ui"
	"github.com/apmanual/apworld/pkg/compile"
	"github.com/apmanual/apworld/pkg/files"
	"github.com/apmanual/apworld/pkg/workspace"
	"github.com/apmanual/apworld/pkg/yamlmeta"
	"github.com/k14s/difflib"
)

const (
	testExt        = ".comptest"
	expectedErrTag = "ERR:"
)

var (
	// eg "==> locations.yml <=="
	fileHeaderRegexp = regexp.MustCompile(`(?m)^==> (\S+) <==\n`)
)

// MarshalableResult is a compile result that can be marshaled into a slice of bytes.
type MarshalableResult interface {
	AsBytes() ([]byte, error)
}

// EvaluateFunc is the processing desired from a test source to the final result.
type EvaluateFunc func(src string) (MarshalableResult, *TestErr)

// FileTests contain a suite of test cases, each described in a separate file, verifying compile results.
//
// Test cases:
// - are found within the directory at "PathToTests"
// - have a .comptest extension
// - top-half is the source; bottom-half is the expected output; divided by `+++` and a blank line.
//
// Types of tests:
// - expected output starting with `ERR:` indicate that expected output is an error message
// - otherwise expected output is the JSON produced for the source
//
// A source that contains `==> name.yml <==` headers is split into several files that are built
// together; the expected output then lists each produced file under a `==> name.json <==` header.
//
// For example:
//
//	#%output flatten
//	- common: {a: 1}
//	  data: [{b: 2}]
//	+++
//
//	[
//	    {
//	        "a": 1,
//	        "b": 2
//	    }
//	]
type FileTests struct {
	PathToTests string
	EvalFunc    EvaluateFunc
}

// Run runs each test: enumerates each file within FileTests.PathToTests; splits and evaluates using FileTests.EvalFunc.
func (f FileTests) Run(t *testing.T) {
	var testFiles []string

	err := filepath.Walk(f.PathToTests, func(walkedPath string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() || filepath.Ext(walkedPath) != testExt {
			return err
		}
		testFiles = append(testFiles, walkedPath)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to enumerate filetests: %s", err)
	}
	if len(testFiles) == 0 {
		t.Fatalf("Expected to find %s files in %s", testExt, f.PathToTests)
	}

	if f.EvalFunc == nil {
		f.EvalFunc = f.DefaultEval
	}

	for _, filePath := range testFiles {
		t.Run(filePath, func(t *testing.T) {
			contents, err := os.ReadFile(filePath)
			if err != nil {
				t.Fatal(err)
			}

			pieces := strings.SplitN(string(contents), "\n+++\n\n", 2)

			if len(pieces) != 2 {
				t.Fatalf("expected file %s to include +++ separator", filePath)
			}
			expectedStr := pieces[1]

			result, testErr := f.EvalFunc(pieces[0])

			switch {
			case strings.HasPrefix(expectedStr, expectedErrTag):
				if testErr == nil {
					err = fmt.Errorf("expected compile error, but did not receive it")
				} else {
					resultStr := TrimTrailingMultilineWhitespace(testErr.UserErr().Error())

					expectedStr = strings.TrimPrefix(expectedStr, expectedErrTag)
					expectedStr = strings.TrimPrefix(expectedStr, " ")
					expectedStr = TrimTrailingMultilineWhitespace(expectedStr)
					err = f.expectEquals(resultStr, expectedStr)
				}
			default:
				if testErr == nil {
					resultBytes, marshalErr := result.AsBytes()
					if marshalErr != nil {
						err = fmt.Errorf("marshal error: %v", marshalErr)
					} else {
						err = f.expectEquals(TrimTrailingMultilineWhitespace(string(resultBytes)),
							TrimTrailingMultilineWhitespace(expectedStr))
					}
				} else {
					err = testErr.TestErr()
				}
			}

			if err != nil {
				t.Fatalf("%s", err)
			}
		})
	}
}

// TestErr captures an error result from a single test.
type TestErr struct {
	realErr error
	testErr error
}

// NewTestErr creates a new TestErr
func NewTestErr(realErr, testErr error) *TestErr {
	return &TestErr{realErr, testErr}
}

// UserErr yields the error returned to the user
func (e TestErr) UserErr() error { return e.realErr }

// TestErr yields the error wrapped with helpful test context
func (e TestErr) TestErr() error { return e.testErr }

func (f FileTests) expectEquals(resultStr, expectedStr string) error {
	if resultStr != expectedStr {
		diff := difflib.PPDiff(strings.Split(expectedStr, "\n"), strings.Split(resultStr, "\n"))
		return fmt.Errorf("not equal; diff expected...result:\n%s", diff)
	}
	return nil
}

// DefaultEval compiles "src" as a single file, or as a set of files when it has file headers.
func (f FileTests) DefaultEval(src string) (MarshalableResult, *TestErr) {
	if fileHeaderRegexp.MatchString(src) {
		return f.evalFiles(src)
	}

	docSet, err := yamlmeta.NewParser(yamlmeta.ParserOpts{}).ParseBytes([]byte(src), files.StdinName)
	if err != nil {
		return nil, NewTestErr(err, fmt.Errorf("parse error: %v", err))
	}

	state := compile.NewState()
	if docSet.Mode == yamlmeta.ModeOptions {
		state.Usage.Freeze()
	}

	result, err := compile.Dispatch(docSet, state)
	if err != nil {
		return nil, NewTestErr(err, fmt.Errorf("compile error: %v", err))
	}

	return compileResult{result}, nil
}

func (f FileTests) evalFiles(src string) (MarshalableResult, *TestErr) {
	headers := fileHeaderRegexp.FindAllStringSubmatchIndex(src, -1)

	var srcFiles []*files.File

	for i, header := range headers {
		name := src[header[2]:header[3]]
		end := len(src)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		srcFiles = append(srcFiles, files.MustNewFileFromSource(
			files.NewBytesSource(name, []byte(src[header[1]:end]))))
	}

	ui := cmdui.NewCustomWriterTTY(false, io.Discard, io.Discard)

	output, err := workspace.NewBuilder(ui).Build(context.Background(), srcFiles)
	if err != nil {
		return nil, NewTestErr(err, fmt.Errorf("build error: %v", err))
	}

	return buildResult{output}, nil
}

type compileResult struct {
	compile.Result
}

func (r compileResult) AsBytes() ([]byte, error) { return r.AsJSON() }

type buildResult struct {
	output workspace.Output
}

func (r buildResult) AsBytes() ([]byte, error) {
	var buf bytes.Buffer
	for _, file := range r.output.Files {
		fmt.Fprintf(&buf, "==> %s <==\n%s\n", file.RelativePath(), file.Bytes())
	}
	return buf.Bytes(), nil
}

// TrimTrailingMultilineWhitespace returns a string with trailing whitespace trimmed from every line as well
// as trimmed trailing empty lines
func TrimTrailingMultilineWhitespace(s string) string {
	var trimmedLines []string
	for _, line := range strings.Split(s, "\n") {
		trimmedLine := strings.TrimRight(line, "\t ")
		trimmedLines = append(trimmedLines, trimmedLine)
	}
	multiline := strings.Join(trimmedLines, "\n")
	return strings.TrimRight(multiline, "\n")
}
