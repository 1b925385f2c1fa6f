package matchmaking

import (
	"github.com/CANCELTHIS/Code-Clash-Back/internal/store"
)

// Categories and Difficulties are the fixed sets every generated arena
// draws from.
var Categories = []store.ArenaCategory{
	store.ArenaCategoryArrays,
	store.ArenaCategoryStrings,
	store.ArenaCategoryMath,
	store.ArenaCategoryLogic,
	store.ArenaCategoryAlgorithms,
}

var Difficulties = []store.ArenaDifficulty{
	store.ArenaDifficultyEasy,
	store.ArenaDifficultyMedium,
	store.ArenaDifficultyHard,
}

// challengeTemplates holds the canned challenge description for every
// (category, difficulty) pair.
var challengeTemplates = map[store.ArenaCategory]map[store.ArenaDifficulty]string{
	store.ArenaCategoryArrays: {
		store.ArenaDifficultyEasy:   "Find the maximum number in an array",
		store.ArenaDifficultyMedium: "Remove duplicates from an array",
		store.ArenaDifficultyHard:   "Find the longest increasing subsequence",
	},
	store.ArenaCategoryStrings: {
		store.ArenaDifficultyEasy:   "Reverse a string",
		store.ArenaDifficultyMedium: "Check if a string is a palindrome",
		store.ArenaDifficultyHard:   "Find the longest common substring",
	},
	store.ArenaCategoryMath: {
		store.ArenaDifficultyEasy:   "Check if a number is prime",
		store.ArenaDifficultyMedium: "Calculate factorial of a number",
		store.ArenaDifficultyHard:   "Find the nth Fibonacci number efficiently",
	},
	store.ArenaCategoryLogic: {
		store.ArenaDifficultyEasy:   "Check if a number is even or odd",
		store.ArenaDifficultyMedium: "Implement FizzBuzz logic",
		store.ArenaDifficultyHard:   "Solve the Tower of Hanoi problem",
	},
	store.ArenaCategoryAlgorithms: {
		store.ArenaDifficultyEasy:   "Implement binary search",
		store.ArenaDifficultyMedium: "Sort an array using merge sort",
		store.ArenaDifficultyHard:   "Find shortest path in a graph",
	},
}

var entryFees = map[store.ArenaDifficulty]int32{
	store.ArenaDifficultyEasy:   10,
	store.ArenaDifficultyMedium: 25,
	store.ArenaDifficultyHard:   50,
}

var tokenPrizes = map[store.ArenaDifficulty]int32{
	store.ArenaDifficultyEasy:   100,
	store.ArenaDifficultyMedium: 250,
	store.ArenaDifficultyHard:   500,
}

// ChallengeDescription returns the canned challenge text for a pair.
func ChallengeDescription(category store.ArenaCategory, difficulty store.ArenaDifficulty) string {
	return challengeTemplates[category][difficulty]
}

// EntryFee returns the fixed entry fee for a difficulty.
func EntryFee(difficulty store.ArenaDifficulty) int32 {
	return entryFees[difficulty]
}

// TokenPrize returns the fixed token prize for a difficulty.
func TokenPrize(difficulty store.ArenaDifficulty) int32 {
	return tokenPrizes[difficulty]
}
