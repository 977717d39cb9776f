package services

import (
	"testing"

	"github.com/foxxcyber/holiday-menu/internal/models"
)

func TestAnalyzeMenu(t *testing.T) {
	dishes := []models.Dish{
		dish(1, "Olivier", "Salad", 40, 4.5),
		dish(2, "Herring under a fur coat", "Salad", 60, 4.1),
		dish(3, "Tangerines", "", 0, 3.0),
	}
	dishes[2].Difficulty = models.DifficultyEasy

	analysis := AnalyzeMenu(dishes)

	if analysis.TypeDistribution["Salad"] != 2 || analysis.TypeDistribution["Other"] != 1 {
		t.Errorf("type distribution = %v", analysis.TypeDistribution)
	}
	if analysis.DifficultyDistribution[models.DifficultyMedium] != 2 || analysis.DifficultyDistribution[models.DifficultyEasy] != 1 {
		t.Errorf("difficulty distribution = %v", analysis.DifficultyDistribution)
	}
	if analysis.TotalCookingTime != 100 {
		t.Errorf("total cooking time = %d, want 100", analysis.TotalCookingTime)
	}
	if len(analysis.CookingTimes) != 3 || analysis.CookingTimes[1].Value != 60 {
		t.Errorf("cooking times = %+v", analysis.CookingTimes)
	}
	if len(analysis.Popularity) != 3 || analysis.Popularity[0].Name != "Olivier" {
		t.Errorf("popularity = %+v", analysis.Popularity)
	}
}

func TestDishStatistics(t *testing.T) {
	t.Run("empty catalog", func(t *testing.T) {
		stats := DishStatistics(nil)
		if stats.TotalDishes != 0 || stats.AvgCookingTime != 0 || len(stats.TopPopular) != 0 {
			t.Errorf("stats = %+v", stats)
		}
	})

	t.Run("top five by popularity", func(t *testing.T) {
		dishes := []models.Dish{
			dish(1, "Olivier", "Salad", 40, 4.5),
			dish(2, "Shashlik", "Main", 90, 4.8),
			dish(3, "Plov", "Main", 120, 4.6),
			dish(4, "Napoleon", "Dessert", 120, 4.2),
			dish(5, "Crab salad", "Salad", 20, 4.0),
			dish(6, "Jellied meat", "Appetizer", 300, 3.5),
		}

		stats := DishStatistics(dishes)

		if stats.TotalDishes != 6 {
			t.Errorf("TotalDishes = %d", stats.TotalDishes)
		}
		assertFloat(t, "AvgCookingTime", stats.AvgCookingTime, 115)
		if stats.TypeDistribution["Main"] != 2 {
			t.Errorf("type distribution = %v", stats.TypeDistribution)
		}
		if len(stats.TopPopular) != 5 {
			t.Fatalf("top popular = %d, want 5", len(stats.TopPopular))
		}
		if stats.TopPopular[0].Name != "Shashlik" || stats.TopPopular[4].Name != "Crab salad" {
			t.Errorf("top popular = %+v", stats.TopPopular)
		}
	})
}
