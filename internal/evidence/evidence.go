package evidence

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrUnknownEvidenceSource is returned for a record whose source has no weight matrix row.
	ErrUnknownEvidenceSource = errors.New("unknown evidence source")
	// ErrInvalidScoreRange is returned for a score outside [0,100] or a confidence outside [0,1].
	ErrInvalidScoreRange = errors.New("invalid score range")
)

// Source identifies the external collector that produced a piece of evidence.
type Source string

const (
	SourceTechHiring Source = "tech_hiring"
	SourceInnovation Source = "innovation"
	SourceDigital    Source = "digital"
	SourceLeadership Source = "leadership"
	SourceSECItem1   Source = "sec_item_1"
	SourceSECItem1A  Source = "sec_item_1a"
	SourceSECItem7   Source = "sec_item_7"
	SourceGlassdoor  Source = "glassdoor"
	SourceBoard      Source = "board"
)

var sources = []Source{
	SourceTechHiring,
	SourceInnovation,
	SourceDigital,
	SourceLeadership,
	SourceSECItem1,
	SourceSECItem1A,
	SourceSECItem7,
	SourceGlassdoor,
	SourceBoard,
}

// Sources returns the registered sources in their canonical order.
func Sources() []Source {
	return append([]Source(nil), sources...)
}

// Valid reports whether s is one of the registered sources.
func (s Source) Valid() bool {
	for _, known := range sources {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSource converts a raw string to a Source.
func ParseSource(raw string) (Source, error) {
	s := Source(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEvidenceSource, raw)
	}
	return s, nil
}

// Dimension is one of the seven axes of AI readiness.
type Dimension string

const (
	DimDataInfrastructure Dimension = "data_infrastructure"
	DimAIGovernance       Dimension = "ai_governance"
	DimTechnologyStack    Dimension = "technology_stack"
	DimTalentSkills       Dimension = "talent_skills"
	DimLeadershipVision   Dimension = "leadership_vision"
	DimUseCasePortfolio   Dimension = "use_case_portfolio"
	DimCultureChange      Dimension = "culture_change"
)

var dimensions = []Dimension{
	DimDataInfrastructure,
	DimAIGovernance,
	DimTechnologyStack,
	DimTalentSkills,
	DimLeadershipVision,
	DimUseCasePortfolio,
	DimCultureChange,
}

// Dimensions returns the seven dimensions in their canonical order.
func Dimensions() []Dimension {
	return append([]Dimension(nil), dimensions...)
}

// Valid reports whether d is one of the seven dimensions.
func (d Dimension) Valid() bool {
	for _, known := range dimensions {
		if d == known {
			return true
		}
	}
	return false
}

// Record is one scored observation from a named source. Records are treated as
// immutable once handed to the scoring engine.
type Record struct {
	Source      Source                 `json:"source" yaml:"source"`
	Score       float64                `json:"score" yaml:"score"`
	Confidence  float64                `json:"confidence" yaml:"confidence"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	CollectedAt time.Time              `json:"collected_at,omitempty" yaml:"collected_at,omitempty"`
}

// Validate checks the source against the registry and the score and confidence
// against their documented bounds. Out-of-range values are rejected, never clamped.
func (r Record) Validate() error {
	if !r.Source.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEvidenceSource, string(r.Source))
	}
	if math.IsNaN(r.Score) || r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("%w: %s score %v outside [0, 100]", ErrInvalidScoreRange, r.Source, r.Score)
	}
	if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: %s confidence %v outside [0, 1]", ErrInvalidScoreRange, r.Source, r.Confidence)
	}
	return nil
}

// ValidateAll validates every record and returns the first failure.
func ValidateAll(records []Record) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// IsValidationError reports whether err is one of the two input validation failures.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUnknownEvidenceSource) || errors.Is(err, ErrInvalidScoreRange)
}
