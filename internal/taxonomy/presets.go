package taxonomy

import "sort"

// The two statistics presets differ: the ensemble list carries
// "Casual Inference" (sic, kept verbatim so exact matches still work) and
// the simple list repeats "Spatial Statistics". Neither is merged into the other.
var presets = map[string][]string{
	PresetEnsembleV1: {
		"Bayesian Statistics", "Computational Statistics", "Biostatistics",
		"Statistics Methodology", "Unsupervised Learning", "Supervised Learning",
		"High-Dimensional Statistics", "Time Series Analysis", "Multivariate Analysis",
		"Experimental Design", "Nonparametric Statistics", "Econometrics",
		"Probability Theory", "Statistical Learning Theory", "Applied Statistics",
		"Environmental Statistics", "Financial Statistics", "Survey Statistics",
		"Spatial Statistics", "Stochastic Processes", "Data Mining", "Statistical Methodology",
		"Neural Networks", "Reinforcement Learning", "Ensemble Learning",
		"Inferential Statistics", "Descriptive Statistics", "Machine Learning",
		"Statistics Sampling", "Bioinformatics", "Statistical Decision Theory",
		"Casual Inference",
	},
	PresetSimpleV1: {
		"Bayesian Statistics", "Computational Statistics", "Biostatistics",
		"Statistics Methodology", "Unsupervised Learning", "Supervised Learning",
		"High-Dimensional Statistics", "Time Series Analysis", "Multivariate Analysis",
		"Experimental Design", "Nonparametric Statistics", "Econometrics",
		"Probability Theory", "Statistical Learning Theory", "Applied Statistics",
		"Environmental Statistics", "Financial Statistics", "Survey Statistics",
		"Spatial Statistics", "Stochastic Processes", "Data Mining", "Statistical Methodology",
		"Neural Networks", "Reinforcement Learning", "Ensemble Learning",
		"Inferential Statistics", "Descriptive Statistics", "Machine Learning",
		"Statistics Sampling", "Bioinformatics", "Statistical Decision Theory",
		"Spatial Statistics",
	},
}

// PresetNames lists the built-in presets plus "custom"
func PresetNames() []string {
	names := make([]string, 0, len(presets)+1)
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(names, PresetCustom)
}

// MustPreset returns a built-in preset, panicking on an unknown name.
// Intended for tests and package-level defaults.
func MustPreset(name string) *Taxonomy {
	t, err := New(name, presets[name])
	if err != nil {
		panic(err)
	}
	return t
}
