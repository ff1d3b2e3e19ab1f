package fileproc

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refit-dev/refit/pkg/parser"
)

func TestMapFiles(t *testing.T) {
	files := []string{"a.java", "b.java", "c.java"}

	results := MapFiles(files, func(_ *parser.Parser, path string) (string, error) {
		return path + ":ok", nil
	})

	sort.Strings(results)
	assert.Equal(t, []string{"a.java:ok", "b.java:ok", "c.java:ok"}, results)
}

func TestMapFiles_Empty(t *testing.T) {
	results := MapFiles(nil, func(_ *parser.Parser, path string) (int, error) {
		return 0, nil
	})
	assert.Nil(t, results)
}

func TestMapFiles_ErrorsSkipped(t *testing.T) {
	files := []string{"good.java", "bad.java"}

	results := MapFiles(files, func(_ *parser.Parser, path string) (string, error) {
		if path == "bad.java" {
			return "", errors.New("boom")
		}
		return path, nil
	})

	assert.Equal(t, []string{"good.java"}, results)
}

func TestMapFilesWithProgress(t *testing.T) {
	files := []string{"a.java", "b.java", "c.java", "d.java"}
	var ticks atomic.Int64

	results := MapFilesWithProgress(files, func(_ *parser.Parser, path string) (string, error) {
		if path == "c.java" {
			return "", errors.New("boom")
		}
		return path, nil
	}, func() { ticks.Add(1) })

	// progress fires for failures too
	assert.Equal(t, int64(4), ticks.Load())
	assert.Len(t, results, 3)
}

func TestMapFilesWithErrors(t *testing.T) {
	files := []string{"a.java", "b.java"}
	procErrs := &ProcessingErrors{}

	MapFilesWithErrors(files, func(_ *parser.Parser, path string) (struct{}, error) {
		return struct{}{}, fmt.Errorf("failed %s", path)
	}, procErrs.Add)

	require.True(t, procErrs.HasErrors())
	assert.Len(t, procErrs.Errors, 2)
	assert.Contains(t, procErrs.Error(), "2 files failed")
}

func TestProcessingError_Message(t *testing.T) {
	e := ProcessingError{Path: "X.java", Err: errors.New("bad parse")}
	assert.Equal(t, "X.java: bad parse", e.Error())
}
