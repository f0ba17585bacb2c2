package summarize

import "github.com/ppiankov/paperdigest/internal/model"

// EnsembleVariants are the four prompt variants of the ensemble pipeline, in processing order
var EnsembleVariants = []model.PromptVariant{
	{ID: "novelty", Instruction: "Summarize the abstract focusing on its novelty and applications."},
	{ID: "methodology", Instruction: "Summarize the abstract emphasizing the methodology and key findings."},
	{ID: "impact", Instruction: "Summarize the abstract highlighting its significance and potential impact."},
	{ID: "challenges", Instruction: "Summarize the abstract detailing the challenges addressed and solutions provided."},
}

// SimpleVariant is the single variant of the simple pipeline
var SimpleVariant = model.PromptVariant{
	ID:          "one-sentence",
	Instruction: "Summarize the following abstract in one sentence.",
}

// Example is one few-shot (abstract, summary, category) triple
type Example struct {
	Abstract string
	Summary  string
	Category string
}

// FewShotExamples are embedded in every ensemble summarization prompt
var FewShotExamples = []Example{
	{
		Abstract: "We introduce a rigorous mathematical framework for Granger causality in extremes, designed to identify causal links from extreme events in time series...",
		Summary:  "This paper introduces a mathematical framework for Granger causality in extremes, designed to identify causal relationships between extreme events in time series, offering advantages over traditional methods and demonstrating effectiveness in financial and extreme weather applications.",
		Category: "Extreme Value Theory",
	},
	{
		Abstract: "Due to the high dimensionality or multimodality that is common in modern astronomy, sampling Bayesian posteriors can be challenging...",
		Summary:  "This paper describes a new, efficient C-language code called Nii-C that uses automatic parallel tempering and parallelization to improve sampling of complex probability distributions in astronomy and other fields, addressing challenges in high-dimensional or multimodal data analysis.",
		Category: "Computational Statistics",
	},
	{
		Abstract: "For a sequence of  n  random variables taking values 0 or 1, the hot hand statistic of streak length  k  counts what fraction of the streaks of length  k , that is,  k  consecutive variables taking the value 1, among the  n  variables are followed by another 1...",
		Summary:  "The paper discusses a statistical measure called the 'hot hand statistic' that examines patterns in binary sequences, highlighting potential bias in estimating probabilities and proposing a new approach to calculate its expected value for single-event streaks.",
		Category: "Time Series Analysis",
	},
}
