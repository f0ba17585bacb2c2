package summarize

import (
	"fmt"
	"strings"

	"github.com/ppiankov/paperdigest/internal/model"
)

// FewShotBlock renders examples as Abstract/Summary/Category triples
func FewShotBlock(examples []Example) string {
	blocks := make([]string, 0, len(examples))
	for _, ex := range examples {
		blocks = append(blocks, fmt.Sprintf("Abstract: %s\nSummary: %s\nCategory: %s", ex.Abstract, ex.Summary, ex.Category))
	}
	return strings.Join(blocks, "\n")
}

// BuildPairedPrompt asks for a one-sentence summary plus an inline "Category:" line
func BuildPairedPrompt(v model.PromptVariant, examples []Example, abstract string) string {
	return fmt.Sprintf("%s\n\nHere are some examples of summarizing and categorizing abstracts:\n%s\n\nNow, summarize the following abstract in one sentence and provide the category: \"%s\".",
		v.Instruction, FewShotBlock(examples), abstract)
}

// BuildSinglePrompt asks for the summary alone
func BuildSinglePrompt(v model.PromptVariant, abstract string) string {
	instruction := strings.TrimSuffix(v.Instruction, ".")
	return fmt.Sprintf("%s: \"%s\"", instruction, abstract)
}
