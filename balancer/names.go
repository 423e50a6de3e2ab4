package balancer

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// NameSource returns count distinct team names.
type NameSource func(count int, rng *rand.Rand) []string

var (
	teamColours = []string{"Red", "Blue", "Green", "Yellow", "Orange", "Purple", "Black", "White", "Silver", "Gold", "Teal", "Maroon"}
	teamAnimals = []string{"Lions", "Tigers", "Wolves", "Eagles", "Sharks", "Bears", "Falcons", "Panthers", "Rhinos", "Cobras", "Hawks", "Bulls"}
)

// ColourAnimalNames pairs a shuffled colour with a shuffled animal. Past the
// list length names get a numeric suffix.
func ColourAnimalNames(count int, rng *rand.Rand) []string {
	colours, animals := slices.Clone(teamColours), slices.Clone(teamAnimals)
	rng.Shuffle(len(colours), func(i, j int) { colours[i], colours[j] = colours[j], colours[i] })
	rng.Shuffle(len(animals), func(i, j int) { animals[i], animals[j] = animals[j], animals[i] })

	names := make([]string, count)
	for i := range names {
		k := i % len(colours)
		names[i] = colours[k] + " " + animals[k]
		if round := i / len(colours); round > 0 {
			names[i] = fmt.Sprintf("%s %d", names[i], round+1)
		}
	}
	return names
}

// NumberedNames yields "Team 1", "Team 2", ...
func NumberedNames(count int, _ *rand.Rand) []string {
	names := make([]string, count)
	for i := range names {
		names[i] = fmt.Sprintf("Team %d", i+1)
	}
	return names
}
