package critique

import (
	"context"
	"testing"

	"github.com/ppiankov/paperdigest/internal/llm/llmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCritique_Success(t *testing.T) {
	stub := llmtest.Fixed("  Clear but omits the dataset.  ")
	e := NewEngine(stub, nil)

	out := e.Critique(context.Background(), "S2", 2)

	assert.Equal(t, "S2\n\nChain of Thought Prompting for summary 2:\nClear but omits the dataset.", out)
	require.Len(t, stub.Prompts(), 1)
	assert.Equal(t, `Explain the advantages and disadvantages of this summary: "S2"`, stub.Prompts()[0])
}

func TestCritique_Failure(t *testing.T) {
	for name, stub := range map[string]*llmtest.Stub{
		"raises": llmtest.Failing(),
		"blank":  llmtest.Fixed(""),
	} {
		t.Run(name, func(t *testing.T) {
			out := NewEngine(stub, nil).Critique(context.Background(), "S1", 1)
			assert.Equal(t, "S1\n\nChain of thought response not available.", out)
		})
	}
}

func TestCritique_NilProvider(t *testing.T) {
	out := NewEngine(nil, nil).Critique(context.Background(), "S3", 3)
	assert.Equal(t, "S3\n\n"+Unavailable, out)
}

func TestCritique_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := NewEngine(llmtest.Fixed("never used"), nil).Critique(ctx, "S4", 4)
	assert.Equal(t, "S4\n\n"+Unavailable, out)
}
