package pricing

import (
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
)

// seasonalScore — фиксированная оценка до появления модели сезонного спроса.
var seasonalScore = dec("3.5")

type SeasonalStrategy struct{}

func NewSeasonalStrategy() *SeasonalStrategy {
	return &SeasonalStrategy{}
}

func (s *SeasonalStrategy) Category() domain.Category {
	return domain.CategorySeasonal
}

func (s *SeasonalStrategy) DetailOptional() bool {
	return true
}

func (s *SeasonalStrategy) Evaluate(_ *domain.Product, _ time.Time) (*Outcome, error) {
	score := seasonalScore
	return &Outcome{Score: &score}, nil
}
