package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPapers(t *testing.T) {
	input := `[
		{"id": "http://arxiv.org/abs/1", "title": "One", "authors": ["Ada", "Bo"], "abstract": "A1", "link": "https://arxiv.org/abs/1"},
		{"id": "http://arxiv.org/abs/2", "title": "Two", "authors": [], "abstract": "A2", "link": "https://arxiv.org/abs/2"}
	]`

	papers, err := ReadPapers(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, papers, 2)
	assert.Equal(t, "One", papers[0].Title)
	assert.Equal(t, []string{"Ada", "Bo"}, papers[0].Authors)
	assert.Equal(t, "A2", papers[1].Abstract)
}

func TestReadPapers_Errors(t *testing.T) {
	_, err := ReadPapers(strings.NewReader(`{"id": "x"}`))
	assert.ErrorContains(t, err, "decode papers")

	_, err = ReadPapers(strings.NewReader(`[{"title": "no id"}]`))
	assert.ErrorContains(t, err, "paper 0 has no id")

	_, err = ReadPapers(strings.NewReader(`[null]`))
	assert.Error(t, err)
}
