package services

import (
	"sort"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

const topPopularLimit = 5

// AnalyzeMenu summarizes a set of dishes for charting
func AnalyzeMenu(dishes []models.Dish) *models.MenuAnalysis {
	analysis := &models.MenuAnalysis{
		TypeDistribution:       make(map[string]int),
		DifficultyDistribution: make(map[models.Difficulty]int),
		CookingTimes:           make([]models.DishMetric, 0, len(dishes)),
		Popularity:             make([]models.DishMetric, 0, len(dishes)),
	}

	for i := range dishes {
		dish := &dishes[i]

		analysis.TypeDistribution[typeLabel(dish)]++
		analysis.DifficultyDistribution[dish.Difficulty]++
		analysis.CookingTimes = append(analysis.CookingTimes, models.DishMetric{
			DishID: dish.ID,
			Name:   dish.Name,
			Value:  float64(dish.CookingTime),
		})
		analysis.Popularity = append(analysis.Popularity, models.DishMetric{
			DishID: dish.ID,
			Name:   dish.Name,
			Value:  dish.PopularityScore,
		})
		analysis.TotalCookingTime += dish.CookingTime
	}

	return analysis
}

// DishStatistics computes aggregate figures over the dish catalog
func DishStatistics(dishes []models.Dish) *models.DishStats {
	stats := &models.DishStats{
		TotalDishes:            len(dishes),
		DifficultyDistribution: make(map[models.Difficulty]int),
		TypeDistribution:       make(map[string]int),
		TopPopular:             []models.DishMetric{},
	}
	if len(dishes) == 0 {
		return stats
	}

	totalTime := 0
	for i := range dishes {
		dish := &dishes[i]
		totalTime += dish.CookingTime
		stats.DifficultyDistribution[dish.Difficulty]++
		stats.TypeDistribution[typeLabel(dish)]++
	}
	stats.AvgCookingTime = float64(totalTime) / float64(len(dishes))

	ranked := make([]models.Dish, len(dishes))
	copy(ranked, dishes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PopularityScore > ranked[j].PopularityScore
	})
	if len(ranked) > topPopularLimit {
		ranked = ranked[:topPopularLimit]
	}
	for _, dish := range ranked {
		stats.TopPopular = append(stats.TopPopular, models.DishMetric{
			DishID: dish.ID,
			Name:   dish.Name,
			Value:  dish.PopularityScore,
		})
	}

	return stats
}

func typeLabel(dish *models.Dish) string {
	if name := dish.TypeName(); name != "" {
		return name
	}
	return models.DefaultCategory
}
