package balancer

import "github.com/samber/lo"

// Settings bounds the shapes a session may be split into.
type Settings struct {
	MinTeams          int `json:"minTeams" yaml:"minTeams"`
	MaxTeams          int `json:"maxTeams" yaml:"maxTeams"`
	MinPlayersPerTeam int `json:"minPlayersPerTeam" yaml:"minPlayersPerTeam"`
	MaxPlayersPerTeam int `json:"maxPlayersPerTeam" yaml:"maxPlayersPerTeam"`
}

// Validate reports a *ConfigError when the bounds are missing or inverted.
func (s *Settings) Validate() error {
	if s == nil {
		return configErrorf(CodeMissingSettings, "team generation settings are not configured")
	}
	switch {
	case s.MinTeams < 1:
		return configErrorf(CodeInvalidSettings, "minTeams must be at least 1, got %d", s.MinTeams)
	case s.MaxTeams < s.MinTeams:
		return configErrorf(CodeInvalidSettings, "maxTeams %d is below minTeams %d", s.MaxTeams, s.MinTeams)
	case s.MinPlayersPerTeam < 1:
		return configErrorf(CodeInvalidSettings, "minPlayersPerTeam must be at least 1, got %d", s.MinPlayersPerTeam)
	case s.MaxPlayersPerTeam < s.MinPlayersPerTeam:
		return configErrorf(CodeInvalidSettings, "maxPlayersPerTeam %d is below minPlayersPerTeam %d",
			s.MaxPlayersPerTeam, s.MinPlayersPerTeam)
	}
	return nil
}

// TeamConfiguration is one feasible shape: how many teams and how big each is.
type TeamConfiguration struct {
	TeamCount int   `json:"teamCount" yaml:"teamCount"`
	TeamSizes []int `json:"teamSizes" yaml:"teamSizes"`
}

// PlayersNeeded is the number of players the configuration seats.
func (c TeamConfiguration) PlayersNeeded() int {
	return lo.Sum(c.TeamSizes)
}

func (c TeamConfiguration) validate(s *Settings) error {
	if c.TeamCount < 1 {
		return configErrorf(CodeInvalidConfig, "teamCount must be at least 1, got %d", c.TeamCount)
	}
	if len(c.TeamSizes) != c.TeamCount {
		return configErrorf(CodeInvalidConfig, "teamSizes has %d entries for %d teams", len(c.TeamSizes), c.TeamCount)
	}
	for i, size := range c.TeamSizes {
		if size < 1 {
			return configErrorf(CodeInvalidConfig, "team %d has size %d", i, size)
		}
		if s != nil && (size < s.MinPlayersPerTeam || size > s.MaxPlayersPerTeam) {
			return configErrorf(CodeInvalidConfig, "team %d size %d outside [%d, %d]",
				i, size, s.MinPlayersPerTeam, s.MaxPlayersPerTeam)
		}
	}
	return nil
}

// EnumerateConfigurations lists every team count within the settings that
// seats all playerCount players, spreading the remainder over the first
// teams.
func EnumerateConfigurations(playerCount int, s *Settings) ([]TeamConfiguration, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	var configs []TeamConfiguration
	for t := s.MinTeams; t <= s.MaxTeams; t++ {
		if t*s.MinPlayersPerTeam > playerCount {
			continue
		}
		base, remainder := playerCount/t, playerCount%t
		sizes := make([]int, t)
		for i := range sizes {
			sizes[i] = base
			if i < remainder {
				sizes[i]++
			}
		}
		if lo.EveryBy(sizes, func(size int) bool {
			return size >= s.MinPlayersPerTeam && size <= s.MaxPlayersPerTeam
		}) {
			configs = append(configs, TeamConfiguration{TeamCount: t, TeamSizes: sizes})
		}
	}
	return configs, nil
}
