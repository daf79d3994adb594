package config

const (
	CategoryInformation = "🕯️ Information"
	CategorySettings    = "⚙️ Paramètres"
	CategoryUtility     = "📢 Utilitaire"
	CategoryFun         = "🎭 Fun"
	CategoryModeration  = "🛡️ Modération"
	CategoryRPG         = "🎲 RPG"
)

// CategoryWeights orders categories in the help list; unknown categories go last.
var CategoryWeights = map[string]int{
	CategoryInformation: 0,
	CategorySettings:    10,
	CategoryUtility:     20,
	CategoryFun:         30,
	CategoryModeration:  40,
	CategoryRPG:         50,
}

// CategoryWeight returns the sort weight of category.
func CategoryWeight(category string) int {
	if w, ok := CategoryWeights[category]; ok {
		return w
	}
	return 1000
}
