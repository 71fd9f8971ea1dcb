package recipe

import "strings"

// FoodGroup is the coarse category a recipe is filed under.
type FoodGroup string

const (
	FoodGroupProtein    FoodGroup = "Protein"
	FoodGroupDairy      FoodGroup = "Dairy"
	FoodGroupFruits     FoodGroup = "Fruits"
	FoodGroupVegetables FoodGroup = "Vegetables"
	FoodGroupGrains     FoodGroup = "Grains"
	FoodGroupOther      FoodGroup = "Other"
)

// Valid reports whether g is one of the six known groups.
func (g FoodGroup) Valid() bool {
	switch g {
	case FoodGroupProtein, FoodGroupDairy, FoodGroupFruits,
		FoodGroupVegetables, FoodGroupGrains, FoodGroupOther:
		return true
	}
	return false
}

type groupKeywords struct {
	group    FoodGroup
	keywords []string
}

// Order matters: the first group with any hit wins.
var classificationRules = []groupKeywords{
	{FoodGroupProtein, []string{"chicken", "beef", "fish", "pork", "meat"}},
	{FoodGroupDairy, []string{"milk", "cheese", "yogurt", "cream"}},
	{FoodGroupFruits, []string{"apple", "banana", "orange", "berry", "fruit"}},
	{FoodGroupVegetables, []string{"carrot", "broccoli", "spinach", "vegetable"}},
	{FoodGroupGrains, []string{"rice", "pasta", "bread", "wheat", "grain"}},
}

// Classify assigns a food group to a list of free-text ingredient
// descriptions by case-insensitive keyword containment. A description
// mentioning several groups resolves to the highest-priority one.
func Classify(descriptions []string) FoodGroup {
	lowered := make([]string, len(descriptions))
	for i, d := range descriptions {
		lowered[i] = strings.ToLower(d)
	}

	for _, rule := range classificationRules {
		for _, d := range lowered {
			for _, kw := range rule.keywords {
				if strings.Contains(d, kw) {
					return rule.group
				}
			}
		}
	}
	return FoodGroupOther
}
