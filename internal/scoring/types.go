package scoring

import "time"

// Metric names one scored contribution criterion. The set is fixed for a
// campaign but intentionally easy to extend.
type Metric string

const (
	MetricArticlesCreated  Metric = "articles_created"
	MetricCharactersAdded  Metric = "characters_added"
	MetricArticlesModified Metric = "articles_modified"
	MetricReferencesAdded  Metric = "references_added"
	MetricImagesAdded      Metric = "images_added"
	MetricWikidataItems    Metric = "wikidata_items_added"
)

// KnownMetrics returns the recognized metric vocabulary in a stable order.
func KnownMetrics() []Metric {
	return []Metric{
		MetricArticlesCreated,
		MetricCharactersAdded,
		MetricArticlesModified,
		MetricReferencesAdded,
		MetricImagesAdded,
		MetricWikidataItems,
	}
}

// ContributorRecord is one row of the raw dataset. Records are treated as
// immutable: the engine only reads them and emits derived ScoreResults.
type ContributorRecord struct {
	ID                string             `json:"id"`
	Metrics           map[Metric]float64 `json:"metrics"`
	FirstContribution *time.Time         `json:"first_contribution,omitempty"`
}

// Weights maps each metric to an integer weight in [0,5]. A weight of 0
// excludes the metric from the composite score and from the reported
// per-metric breakdown.
type Weights map[Metric]int

// MinWeight and MaxWeight bound the allowed jury weights.
const (
	MinWeight = 0
	MaxWeight = 5
)

// BonusCurve selects the decay shape of the early-contributor bonus.
type BonusCurve string

const (
	CurveLinear    BonusCurve = "linear"
	CurveQuadratic BonusCurve = "quadratic"
)

// BonusConfig controls the optional early-contributor bonus. Disabled by
// default; when disabled every contributor receives a bonus of 0.
type BonusConfig struct {
	Enabled bool       `json:"enabled"`
	Scale   float64    `json:"scale"`
	Curve   BonusCurve `json:"curve,omitempty"`
}

// Request is one complete scoring invocation: the immutable dataset, the
// jury's weight configuration and the optional bonus settings.
type Request struct {
	Contributors []ContributorRecord `json:"contributors"`
	Weights      Weights             `json:"weights"`
	Bonus        BonusConfig         `json:"bonus_config"`
}

// ScoreResult holds the derived scores for one contributor. Normalized and
// Contributions only carry metrics with weight > 0.
type ScoreResult struct {
	ID            string             `json:"id"`
	Normalized    map[Metric]float64 `json:"normalized"`
	Contributions map[Metric]float64 `json:"contributions"`
	Bonus         float64            `json:"bonus"`
	Composite     float64            `json:"composite"`
	Rank          int                `json:"rank"`
}

// Response is the engine output: results sorted by rank, the weight
// configuration that produced them, and any non-fatal warnings (for example
// a weight supplied for a metric absent from the data).
type Response struct {
	Results     []ScoreResult `json:"results"`
	WeightsUsed Weights       `json:"weights_used"`
	Warnings    []string      `json:"warnings,omitempty"`
}
