package batch

import (
	"testing"

	"github.com/Totarae/URLProbe/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_FirstMessageWins(t *testing.T) {
	results := []model.ProbeResult{
		{URL: "http://a.test", Message: "Error: dial tcp: connection refused", Category: model.CategoryError},
		{URL: "http://b.test", StatusCode: 200, Message: "Site is Live", Category: model.CategoryActive},
		{URL: "http://c.test", Message: "Error: context deadline exceeded", Category: model.CategoryError},
	}

	summary := Summarize(results)

	require.Contains(t, summary.ByStatusCode, model.StatusNA)
	na := summary.ByStatusCode[model.StatusNA]
	assert.Equal(t, 2, na.Count)
	assert.Equal(t, "Error: dial tcp: connection refused", na.Message)
	assert.Equal(t, []string{"http://a.test", "http://c.test"}, na.URLs)

	assert.Equal(t, 1, summary.ByStatusCode["200"].Count)
	assert.Equal(t, map[model.Category]int{
		model.CategoryError:  2,
		model.CategoryActive: 1,
	}, summary.CategoryCounts)
}

func TestSummarize_Deterministic(t *testing.T) {
	results := []model.ProbeResult{
		{URL: "http://x.test", StatusCode: 302, Message: "Status: 302", Category: model.CategoryError},
		{URL: "http://y.test", StatusCode: 302, Message: "Status: 302", Category: model.CategoryError},
		{URL: "http://z.test", StatusCode: 404, Message: "404 Not Found", Category: model.CategoryInactive},
	}

	assert.Equal(t, Summarize(results), Summarize(results))
}
