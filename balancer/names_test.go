package balancer

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestColourAnimalNamesAreDistinct(t *testing.T) {
	names := ColourAnimalNames(30, seededRand(3))
	assert.Len(t, names, 30)
	assert.Len(t, lo.Uniq(names), 30)
	assert.Regexp(t, `^\w+ \w+ 2$`, names[12])
	assert.Regexp(t, `^\w+ \w+ 3$`, names[24])
}

func TestColourAnimalNamesFollowRand(t *testing.T) {
	assert.Equal(t, ColourAnimalNames(4, seededRand(9)), ColourAnimalNames(4, seededRand(9)))
}

func TestNumberedNames(t *testing.T) {
	assert.Equal(t, []string{"Team 1", "Team 2", "Team 3"}, NumberedNames(3, nil))
}
