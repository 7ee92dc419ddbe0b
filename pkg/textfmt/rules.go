package textfmt

import (
	"maps"
	"slices"
	"strings"
)

var abilities = map[string]string{
	"cha": "charisma",
	"con": "constitution",
	"dex": "dexterity",
	"int": "intelligence",
	"str": "strength",
	"wis": "wisdom",
}

var sizes = map[string]string{
	"f": "fine",
	"d": "diminutive",
	"t": "tiny",
	"s": "small",
	"m": "medium",
	"l": "large",
	"h": "huge",
	"g": "gargantuan",
	"c": "colossal",
}

// Training levels in ascending order.
var trainingLevels = []string{"untrained", "trained", "expert", "master", "legendary"}

// AbilityCode expands a three-letter ability ("dex") to its full code. Full
// codes and unknown values are returned normalised but otherwise unchanged.
func AbilityCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if full, ok := abilities[code]; ok {
		return full
	}
	return code
}

// Abilities returns the full ability codes in sorted order.
func Abilities() []string {
	return slices.Sorted(maps.Values(abilities))
}

// SizeCode expands a one-letter size ("l") to its full code. It reports false
// for values that are neither a short nor a full size.
func SizeCode(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if full, ok := sizes[code]; ok {
		return full, true
	}
	if slices.Contains(slices.Collect(maps.Values(sizes)), code) {
		return code, true
	}
	return code, false
}

// Sizes returns the full size codes in sorted order.
func Sizes() []string {
	return slices.Sorted(maps.Values(sizes))
}

// NextTrainingLevel returns the level above level. Legendary and unknown
// levels are returned unchanged.
func NextTrainingLevel(level string) string {
	level = strings.ToLower(level)
	i := slices.Index(trainingLevels, level)
	if i < 0 || i == len(trainingLevels)-1 {
		return level
	}
	return trainingLevels[i+1]
}

// TrainingBonus is 2 per level above untrained. Unknown levels give 0.
func TrainingBonus(level string) int {
	i := slices.Index(trainingLevels, strings.ToLower(level))
	if i < 0 {
		return 0
	}
	return 2 * i
}

// BetterTraining reports whether candidate gives a higher bonus than reference.
func BetterTraining(candidate, reference string) bool {
	return TrainingBonus(candidate) > TrainingBonus(reference)
}
