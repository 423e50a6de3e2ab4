package balancer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateConfigurationsTwelvePlayers(t *testing.T) {
	s := &Settings{MinTeams: 2, MaxTeams: 4, MinPlayersPerTeam: 3, MaxPlayersPerTeam: 6}

	configs, err := EnumerateConfigurations(12, s)
	require.NoError(t, err)
	assert.Equal(t, []TeamConfiguration{
		{TeamCount: 2, TeamSizes: []int{6, 6}},
		{TeamCount: 3, TeamSizes: []int{4, 4, 4}},
		{TeamCount: 4, TeamSizes: []int{3, 3, 3, 3}},
	}, configs)
}

func TestEnumerateConfigurationsSevenPlayers(t *testing.T) {
	s := &Settings{MinTeams: 1, MaxTeams: 3, MinPlayersPerTeam: 4, MaxPlayersPerTeam: 8}
	configs, err := EnumerateConfigurations(7, s)
	require.NoError(t, err)
	assert.Equal(t, []TeamConfiguration{{TeamCount: 1, TeamSizes: []int{7}}}, configs)

	s.MinTeams = 2
	configs, err = EnumerateConfigurations(7, s)
	require.NoError(t, err)
	assert.Empty(t, configs)
}

func TestEnumerateConfigurationsRemainderGoesFirst(t *testing.T) {
	s := &Settings{MinTeams: 3, MaxTeams: 3, MinPlayersPerTeam: 3, MaxPlayersPerTeam: 5}
	configs, err := EnumerateConfigurations(14, s)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, []int{5, 5, 4}, configs[0].TeamSizes)
}

func TestEnumerateConfigurationsSeatsEveryone(t *testing.T) {
	s := &Settings{MinTeams: 1, MaxTeams: 6, MinPlayersPerTeam: 2, MaxPlayersPerTeam: 7}
	for n := 0; n <= 45; n++ {
		configs, err := EnumerateConfigurations(n, s)
		require.NoError(t, err)
		for _, c := range configs {
			assert.Equal(t, n, c.PlayersNeeded(), "players=%d teams=%d", n, c.TeamCount)
			assert.Len(t, c.TeamSizes, c.TeamCount)
			for _, size := range c.TeamSizes {
				assert.GreaterOrEqual(t, size, s.MinPlayersPerTeam)
				assert.LessOrEqual(t, size, s.MaxPlayersPerTeam)
			}
		}
	}
}

func TestEnumerateConfigurationsSettingsErrors(t *testing.T) {
	_, err := EnumerateConfigurations(10, nil)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, CodeMissingSettings, cfgErr.Code)
	assert.True(t, errors.Is(err, ErrConfig))

	_, err = EnumerateConfigurations(10, &Settings{MinTeams: 3, MaxTeams: 2, MinPlayersPerTeam: 1, MaxPlayersPerTeam: 5})
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, CodeInvalidSettings, cfgErr.Code)
}

func TestTeamConfigurationValidate(t *testing.T) {
	s := &Settings{MinTeams: 2, MaxTeams: 4, MinPlayersPerTeam: 3, MaxPlayersPerTeam: 6}
	cases := []struct {
		name   string
		config TeamConfiguration
		ok     bool
	}{
		{"valid", TeamConfiguration{TeamCount: 2, TeamSizes: []int{5, 4}}, true},
		{"zero teams", TeamConfiguration{TeamCount: 0}, false},
		{"length mismatch", TeamConfiguration{TeamCount: 3, TeamSizes: []int{4, 4}}, false},
		{"too small", TeamConfiguration{TeamCount: 2, TeamSizes: []int{2, 4}}, false},
		{"too big", TeamConfiguration{TeamCount: 2, TeamSizes: []int{7, 4}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.validate(s)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, CodeInvalidConfig, cfgErr.Code)
		})
	}
}
