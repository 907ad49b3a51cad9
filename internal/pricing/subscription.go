package pricing

import (
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	SegmentLoyal          = "Loyal"
	SegmentDiscountHunter = "Discount Hunter"
	SegmentHighEngagement = "High Engagement"
	SegmentInactive       = "Inactive"
	SegmentNew            = "New"
	SegmentStandard       = "Standard"
)

var (
	maxTrackedRenewals = decimal.NewFromInt(24)

	renewalWeight     = dec("0.3")
	engagementWeight  = dec("0.4")
	sensitivityWeight = dec("0.3")

	scoreEngagementWeight  = dec("0.6")
	scoreSensitivityWeight = dec("0.4")
)

// winBackTier — порог по доле неактивных подписчиков T.
type winBackTier struct {
	below      decimal.Decimal
	scoreBelow decimal.Decimal
	percentage decimal.Decimal
	bonusDays  int64
}

// Пороги проверяются по порядку, срабатывает первый подходящий.
var winBackTiers = []winBackTier{
	{below: dec("0.15"), scoreBelow: zero, percentage: zero, bonusDays: 0},
	{below: dec("0.3"), scoreBelow: dec("0.4"), percentage: decimal.NewFromInt(10), bonusDays: 2},
	{below: dec("0.7"), scoreBelow: dec("0.6"), percentage: decimal.NewFromInt(20), bonusDays: 3},
	{below: dec("1.0"), scoreBelow: dec("0.8"), percentage: decimal.NewFromInt(40), bonusDays: 5},
}

var (
	fullWinBackPercentage = decimal.NewFromInt(50)
	fullWinBackBonusDays  = int64(7)
)

// SubscriptionStrategy — модель удержания и возврата подписчиков по агрегированным метрикам.
type SubscriptionStrategy struct{}

func NewSubscriptionStrategy() *SubscriptionStrategy {
	return &SubscriptionStrategy{}
}

func (s *SubscriptionStrategy) Category() domain.Category {
	return domain.CategorySubscription
}

func (s *SubscriptionStrategy) Evaluate(product *domain.Product, _ time.Time) (*Outcome, error) {
	attrs, err := detailAs[domain.SubscriptionAttributes](product)
	if err != nil {
		return nil, err
	}

	m := SubscriptionMetricsFor(attrs)
	pct, bonusDays := WinBackTier(m.TimeSinceExpiry, m.Score)

	return &Outcome{
		Percentage: pct,
		Breakdown: Breakdown{
			Subscription: &domain.SubscriptionInsights{
				Segment:            m.Segment(),
				RenewalProbability: m.RenewalProbability,
				TimeSinceExpiry:    m.TimeSinceExpiry,
				BonusGraceDays:     bonusDays,
			},
		},
	}, nil
}

// SubscriptionMetrics — промежуточные показатели модели, каждый с масштабом 2.
type SubscriptionMetrics struct {
	RenewalsNormalized  decimal.Decimal
	Engagement          decimal.Decimal
	DiscountSensitivity decimal.Decimal
	RenewalProbability  decimal.Decimal
	TimeSinceExpiry     decimal.Decimal
	Score               decimal.Decimal
}

func SubscriptionMetricsFor(attrs domain.SubscriptionAttributes) SubscriptionMetrics {
	estimatedRenewals := zero
	if attrs.StandardDurationDays > 0 {
		ratio := div2(attrs.AverageSubscriptionLength, decimal.NewFromInt(attrs.StandardDurationDays))
		estimatedRenewals = decimal.Max(zero, ratio.Sub(one))
	}
	renewals := clamp01(div2(estimatedRenewals, maxTrackedRenewals))

	engagement := zero
	if attrs.TotalSubscribers > 0 {
		engagement = clamp01(div2(decimal.NewFromInt(attrs.ActiveSubscribers), decimal.NewFromInt(attrs.TotalSubscribers)))
	}

	sensitivity := clamp01(round2(one.Sub(attrs.RenewalRate)))

	r := round2(renewals.Mul(renewalWeight).
		Add(engagement.Mul(engagementWeight)).
		Add(sensitivity.Mul(sensitivityWeight)))

	t := clamp01(one.Sub(engagement))

	mix := engagement.Mul(scoreEngagementWeight).Add(sensitivity.Mul(scoreSensitivityWeight))
	score := round2(one.Sub(r).Mul(t).Mul(mix))

	return SubscriptionMetrics{
		RenewalsNormalized:  renewals,
		Engagement:          engagement,
		DiscountSensitivity: sensitivity,
		RenewalProbability:  r,
		TimeSinceExpiry:     t,
		Score:               score,
	}
}

// WinBackTier возвращает процент скидки и бонусные дни льготного периода для доли
// неактивных подписчиков t и оценки score.
func WinBackTier(t, score decimal.Decimal) (decimal.Decimal, int64) {
	for _, tier := range winBackTiers {
		if !t.LessThan(tier.below) {
			continue
		}
		if score.LessThan(tier.scoreBelow) {
			return tier.percentage, tier.bonusDays
		}
		return zero, tier.bonusDays
	}
	return fullWinBackPercentage, fullWinBackBonusDays
}

// Segment — описательная метка подписочной аудитории, на цену не влияет.
func (m SubscriptionMetrics) Segment() string {
	switch {
	case m.RenewalProbability.GreaterThanOrEqual(dec("0.7")) && m.RenewalsNormalized.GreaterThanOrEqual(dec("0.5")):
		return SegmentLoyal
	case m.DiscountSensitivity.GreaterThanOrEqual(dec("0.6")):
		return SegmentDiscountHunter
	case m.Engagement.GreaterThanOrEqual(dec("0.7")):
		return SegmentHighEngagement
	case m.Engagement.LessThan(dec("0.2")):
		return SegmentInactive
	case m.RenewalsNormalized.IsZero():
		return SegmentNew
	default:
		return SegmentStandard
	}
}
