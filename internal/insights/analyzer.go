package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/Samuel-Rojas/Momentum/models"
)

// Analyze derives a pattern from the full sample list. It is a pure,
// deterministic, total recomputation; callers invoke it only when the
// sample count changes. Returns nil for an empty sample list.
func Analyze(samples []models.ProductivitySample) *models.ProductivityPattern {
	if len(samples) == 0 {
		return nil
	}

	bucketFreq := make(map[models.TimeOfDay]int)
	dayFreq := make(map[string]int)
	categorySum := make(map[string]int)
	categoryCount := make(map[string]int)
	var categoriesSeen []string
	totalDuration := 0

	for _, s := range samples {
		bucketFreq[s.TimeOfDay]++
		dayFreq[s.DayOfWeek]++
		if _, seen := categoryCount[s.Category]; !seen {
			categoriesSeen = append(categoriesSeen, s.Category)
		}
		categorySum[s.Category] += s.CompletionDurationMinutes
		categoryCount[s.Category]++
		totalDuration += s.CompletionDurationMinutes
	}

	// Mode of the bucket; ties go to the first bucket in enumeration order.
	bestBucket := models.TimeOfDayOrder[0]
	bestBucketCount := -1
	for _, bucket := range models.TimeOfDayOrder {
		if bucketFreq[bucket] > bestBucketCount {
			bestBucket = bucket
			bestBucketCount = bucketFreq[bucket]
		}
	}

	// Mode of the weekday; ties go to the earliest day Sunday-first.
	bestDay := time.Sunday.String()
	bestDayCount := -1
	for day := time.Sunday; day <= time.Saturday; day++ {
		if dayFreq[day.String()] > bestDayCount {
			bestDay = day.String()
			bestDayCount = dayFreq[day.String()]
		}
	}

	// Categories ranked by ascending mean duration; lower mean is more
	// efficient. A stable sort keeps first-seen order on ties.
	bestCategories := make([]string, len(categoriesSeen))
	copy(bestCategories, categoriesSeen)
	mean := func(category string) float64 {
		return float64(categorySum[category]) / float64(categoryCount[category])
	}
	sort.SliceStable(bestCategories, func(i, j int) bool {
		return mean(bestCategories[i]) < mean(bestCategories[j])
	})

	recommended := make([]string, 0, len(bestCategories))
	for _, category := range bestCategories {
		recommended = append(recommended, fmt.Sprintf("%s-%s", bestBucket, category))
	}

	return &models.ProductivityPattern{
		MostProductiveTimeOfDay: bestBucket,
		MostProductiveDayOfWeek: bestDay,
		BestCategories:          bestCategories,
		AverageTaskDuration:     float64(totalDuration) / float64(len(samples)),
		RecommendedTaskOrder:    recommended,
	}
}
