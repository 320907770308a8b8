package calorie

import (
	"math"

	"github.com/trimtrack/trimtrack-api/internal/domain"
)

// Static per-slot content. Descriptions and meal suggestions are fixed copy,
// not computed from the calorie budget.
var (
	morningSlotDescription   = "High-protein breakfast to start the day"
	afternoonSlotDescription = "Balanced lunch with lean protein and complex carbs"
	nightSlotDescription     = "Light dinner focused on recovery"

	morningMeals = []string{
		"Greek yogurt with berries and granola",
		"Vegetable omelette with whole-grain toast",
		"Protein smoothie with oats",
	}
	afternoonMeals = []string{
		"Grilled chicken salad with quinoa",
		"Turkey and avocado wrap",
		"Salmon bowl with brown rice",
	}
	nightMeals = []string{
		"Baked fish with steamed vegetables",
		"Lentil soup with a side salad",
		"Stir-fried tofu with greens",
	}
)

// distributeMeals splits a daily calorie target into morning/afternoon/night
// allocations using the activity-level-specific ratio triple.
//
// On update recomputations the morning ratio is capped at
// params.UpdateMorningCap, rebalancing away from a large morning allocation
// after the first plan; the afternoon and night ratios are left unchanged.
// Total always equals the input target. Per-slot rounding may make the slot
// sum drift a kcal or two from Total; that drift is accepted, not corrected.
func distributeMeals(
	dailyCalories int,
	level domain.ActivityLevel,
	isUpdate bool,
	params *Params,
) (domain.MealDistribution, error) {
	ratios, ok := params.MealRatios[level]
	if !ok {
		return domain.MealDistribution{}, domain.NewValidationError(
			"activity_level", "is not a recognized value", domain.ErrInvalidActivityLevel)
	}

	morning := ratios.Morning
	if isUpdate && morning > params.UpdateMorningCap {
		morning = params.UpdateMorningCap
	}

	total := float64(dailyCalories)
	return domain.MealDistribution{
		Morning: domain.MealSlot{
			Calories:         int(math.Round(total * morning)),
			Description:      morningSlotDescription,
			RecommendedMeals: morningMeals,
		},
		Afternoon: domain.MealSlot{
			Calories:         int(math.Round(total * ratios.Afternoon)),
			Description:      afternoonSlotDescription,
			RecommendedMeals: afternoonMeals,
		},
		Night: domain.MealSlot{
			Calories:         int(math.Round(total * ratios.Night)),
			Description:      nightSlotDescription,
			RecommendedMeals: nightMeals,
		},
		Total: dailyCalories,
	}, nil
}
