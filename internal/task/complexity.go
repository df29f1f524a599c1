package task

// ComplexityLevel classifies how demanding a task looks.
type ComplexityLevel string

const (
	ComplexityLow      ComplexityLevel = "LOW"
	ComplexityMedium   ComplexityLevel = "MEDIUM"
	ComplexityHigh     ComplexityLevel = "HIGH"
	ComplexityVeryHigh ComplexityLevel = "VERY_HIGH"
)

// Threshold table for the complexity heuristics. A metric at or above a
// bound pushes the task to at least that level.
const (
	DescriptionMedium   = 500
	DescriptionHigh     = 1000
	DescriptionVeryHigh = 2000

	DependenciesMedium   = 2
	DependenciesHigh     = 5
	DependenciesVeryHigh = 10

	NotesMedium   = 200
	NotesHigh     = 500
	NotesVeryHigh = 1000
)

// ComplexityMetrics holds the raw numbers behind an assessment.
type ComplexityMetrics struct {
	DescriptionLength int  `json:"descriptionLength"`
	DependenciesCount int  `json:"dependenciesCount"`
	NotesLength       int  `json:"notesLength"`
	HasNotes          bool `json:"hasNotes"`
}

// Complexity is the result of assessing a task.
type Complexity struct {
	Level           ComplexityLevel   `json:"level"`
	Metrics         ComplexityMetrics `json:"metrics"`
	Recommendations []string          `json:"recommendations,omitempty"`
}

// levelOrder maps each level to its rank for max comparisons.
var levelOrder = map[ComplexityLevel]int{
	ComplexityLow:      0,
	ComplexityMedium:   1,
	ComplexityHigh:     2,
	ComplexityVeryHigh: 3,
}

// classify buckets a metric value against its three thresholds.
func classify(value, medium, high, veryHigh int) ComplexityLevel {
	switch {
	case value >= veryHigh:
		return ComplexityVeryHigh
	case value >= high:
		return ComplexityHigh
	case value >= medium:
		return ComplexityMedium
	default:
		return ComplexityLow
	}
}

// maxLevel returns the higher of two levels.
func maxLevel(a, b ComplexityLevel) ComplexityLevel {
	if levelOrder[b] > levelOrder[a] {
		return b
	}
	return a
}

// AssessComplexity scores a task using simple length and fan-in thresholds.
// The overall level is the worst individual metric.
func AssessComplexity(t *Task) Complexity {
	metrics := ComplexityMetrics{
		DescriptionLength: len(t.Description),
		DependenciesCount: len(t.Dependencies),
		NotesLength:       len(t.Notes),
		HasNotes:          t.Notes != "",
	}

	level := classify(metrics.DescriptionLength, DescriptionMedium, DescriptionHigh, DescriptionVeryHigh)
	level = maxLevel(level, classify(metrics.DependenciesCount, DependenciesMedium, DependenciesHigh, DependenciesVeryHigh))
	level = maxLevel(level, classify(metrics.NotesLength, NotesMedium, NotesHigh, NotesVeryHigh))

	var recommendations []string
	if level == ComplexityHigh || level == ComplexityVeryHigh {
		recommendations = append(recommendations, "Consider splitting this task into smaller, independently verifiable tasks")
	}
	if metrics.DependenciesCount >= DependenciesHigh {
		recommendations = append(recommendations, "Review the dependency chain and complete prerequisites in order")
	}

	return Complexity{
		Level:           level,
		Metrics:         metrics,
		Recommendations: recommendations,
	}
}
