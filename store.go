package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/vgebrev/leagr-sub000/balancer"
)

var errNotFound = errors.New("not found")

type leagueStore interface {
	Ping(ctx context.Context) error
	IsLeagueAdmin(ctx context.Context, leagueID int64, email string) bool
	LeagueSettings(ctx context.Context, leagueID int64) (*balancer.Settings, error)
	UpdateLeagueSettings(ctx context.Context, leagueID int64, s balancer.Settings) error
	SessionPlayers(ctx context.Context, leagueID int64, date string) ([]string, error)
	PlayerRatings(ctx context.Context, leagueID int64, players []string) (map[string]balancer.Rating, error)
	RecentRosters(ctx context.Context, leagueID int64, before string, limit int) ([][][]string, error)
	SaveGeneration(ctx context.Context, leagueID int64, date string, method balancer.Method, rosters [][]string, result []byte) error
	Generation(ctx context.Context, leagueID int64, date string) (json.RawMessage, error)
}

type pgStore struct {
	db *sql.DB
}

func (s *pgStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *pgStore) IsLeagueAdmin(ctx context.Context, leagueID int64, email string) bool {
	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM league_admins WHERE league_id = $1 AND email = $2)", leagueID, email).Scan(&exists)
	if err != nil {
		log.Error().Err(err).Int64("league", leagueID).Str("email", email).Msg("league admin lookup failed")
		return false
	}
	return exists
}

func (s *pgStore) LeagueSettings(ctx context.Context, leagueID int64) (*balancer.Settings, error) {
	var st balancer.Settings
	err := s.db.QueryRowContext(ctx, `
		SELECT min_teams, max_teams, min_players_per_team, max_players_per_team
		FROM leagues WHERE id = $1`, leagueID).
		Scan(&st.MinTeams, &st.MaxTeams, &st.MinPlayersPerTeam, &st.MaxPlayersPerTeam)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading league %d settings: %w", leagueID, err)
	}
	return &st, nil
}

func (s *pgStore) UpdateLeagueSettings(ctx context.Context, leagueID int64, st balancer.Settings) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE leagues
		SET min_teams = $2, max_teams = $3, min_players_per_team = $4, max_players_per_team = $5
		WHERE id = $1`,
		leagueID, st.MinTeams, st.MaxTeams, st.MinPlayersPerTeam, st.MaxPlayersPerTeam)
	if err != nil {
		return fmt.Errorf("updating league %d settings: %w", leagueID, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errNotFound
	}
	return nil
}

// SessionPlayers returns the players signed up for a session, earliest first.
func (s *pgStore) SessionPlayers(ctx context.Context, leagueID int64, date string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player FROM session_players
		WHERE league_id = $1 AND session_date = $2
		ORDER BY signed_up_at, id`, leagueID, date)
	if err != nil {
		return nil, fmt.Errorf("loading session players: %w", err)
	}
	defer rows.Close()
	var players []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		players = append(players, name)
	}
	return players, rows.Err()
}

func (s *pgStore) PlayerRatings(ctx context.Context, leagueID int64, players []string) (map[string]balancer.Rating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player, rating, games_played, attack_rating, control_rating,
			ranking_score, total_points, appearances
		FROM player_ratings
		WHERE league_id = $1 AND player = ANY($2)`, leagueID, pq.Array(players))
	if err != nil {
		return nil, fmt.Errorf("loading player ratings: %w", err)
	}
	defer rows.Close()
	ratings := make(map[string]balancer.Rating, len(players))
	for rows.Next() {
		var name string
		var r balancer.Rating
		if err := rows.Scan(&name, &r.Rating, &r.GamesPlayed, &r.AttackRating, &r.ControlRating,
			&r.RankingScore, &r.TotalPoints, &r.Appearances); err != nil {
			return nil, err
		}
		ratings[name] = r
	}
	return ratings, rows.Err()
}

// RecentRosters returns the rosters of up to limit sessions before the given
// date, most recent first.
func (s *pgStore) RecentRosters(ctx context.Context, leagueID int64, before string, limit int) ([][][]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT rosters FROM team_generations
		WHERE league_id = $1 AND session_date < $2
		ORDER BY session_date DESC
		LIMIT $3`, leagueID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("loading previous rosters: %w", err)
	}
	defer rows.Close()
	var sessions [][][]string
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rosters [][]string
		if err := json.Unmarshal(raw, &rosters); err != nil {
			return nil, fmt.Errorf("decoding stored rosters: %w", err)
		}
		sessions = append(sessions, rosters)
	}
	return sessions, rows.Err()
}

func (s *pgStore) SaveGeneration(ctx context.Context, leagueID int64, date string, method balancer.Method, rosters [][]string, result []byte) error {
	rostersJSON, err := json.Marshal(rosters)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO team_generations (league_id, session_date, method, rosters, result)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (league_id, session_date) DO UPDATE
		SET method = EXCLUDED.method, rosters = EXCLUDED.rosters,
			result = EXCLUDED.result, created_at = now()`,
		leagueID, date, string(method), string(rostersJSON), string(result))
	if err != nil {
		return fmt.Errorf("saving generation: %w", err)
	}
	return nil
}

func (s *pgStore) Generation(ctx context.Context, leagueID int64, date string) (json.RawMessage, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, "SELECT result FROM team_generations WHERE league_id = $1 AND session_date = $2", leagueID, date).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading generation: %w", err)
	}
	return raw, nil
}
