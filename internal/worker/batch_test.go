package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/lexdiff/internal/model"
)

// mockComparer implements Comparer
type mockComparer struct {
	failRight string
	calls     int32
}

func (m *mockComparer) CompareFiles(ctx context.Context, left, right string) (*model.Report, error) {
	atomic.AddInt32(&m.calls, 1)
	time.Sleep(5 * time.Millisecond)
	if right == m.failRight {
		return nil, errors.New("compare error")
	}
	return &model.Report{Meta: model.ReportMeta{ID: left + "|" + right}}, nil
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pairs.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBatchProcessor_ProcessPairs(t *testing.T) {
	comparer := &mockComparer{failRight: "/b2.json"}
	processor := NewBatchProcessor(comparer, 2)

	pairs := []Pair{
		{Name: "one", Left: "/a1.json", Right: "/b1.json"},
		{Name: "two", Left: "/a2.json", Right: "/b2.json"},
		{Name: "three", Left: "/a3.json", Right: "/b3.json"},
	}

	results := processor.ProcessPairs(context.Background(), pairs)

	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, pairs[i], res.Pair, "result %d out of order", i)
	}
	require.NoError(t, results[0].Error)
	require.NotNil(t, results[0].Report)
	assert.Equal(t, "/a1.json|/b1.json", results[0].Report.Meta.ID)
	assert.Error(t, results[1].GetError())
	assert.NoError(t, results[2].Error, "third pair should not be affected by the second")
}

func TestBatchProcessor_ProcessPairs_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockComparer{}, 2)
	assert.Empty(t, processor.ProcessPairs(context.Background(), nil))
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	comparer := &mockComparer{}
	processor := NewBatchProcessor(comparer, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := processor.ProcessPairs(ctx, []Pair{{Left: "/a", Right: "/b"}})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Error, context.Canceled)
	assert.Zero(t, atomic.LoadInt32(&comparer.calls), "comparer called after cancellation")
}

func TestReadManifest(t *testing.T) {
	path := writeManifest(t, `# contract versions
v1/terms.json, v2/terms.json
/abs/old.yaml,/abs/new.yaml,privacy policy

v1/terms.json,v2/terms.json
https://example.com/v1.json,v2/terms.json
`)
	dir := filepath.Dir(path)

	pairs, err := ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, pairs, 3, "duplicates are dropped")

	assert.Equal(t, Pair{
		Name:  "terms.json vs terms.json",
		Left:  filepath.Join(dir, "v1/terms.json"),
		Right: filepath.Join(dir, "v2/terms.json"),
	}, pairs[0])
	assert.Equal(t, "privacy policy", pairs[1].Name)
	assert.Equal(t, "/abs/old.yaml", pairs[1].Left)
	assert.Equal(t, "https://example.com/v1.json", pairs[2].Left, "URLs are kept as given")
}

func TestReadManifest_Malformed(t *testing.T) {
	for _, content := range []string{"only-one-path\n", "a,b,c,d\n", " ,b\n"} {
		_, err := ReadManifest(writeManifest(t, content))
		assert.Error(t, err, "content %q", content)
	}
}

func TestReadManifest_NonExistent(t *testing.T) {
	_, err := ReadManifest("non_existent_file.txt")
	assert.Error(t, err)
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeManifest(t, "a.json,b.json\nc.json,d.json\n")

	results, err := NewBatchProcessor(&mockComparer{}, 4).ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	_, err := NewBatchProcessor(&mockComparer{}, 2).ProcessFile(context.Background(), "no_such_file.txt")
	assert.Error(t, err)
}
