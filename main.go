package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"google.golang.org/api/idtoken"

	"github.com/vgebrev/leagr-sub000/balancer"
)

//go:embed schema.sql
var schema string

var (
	cfg      *config
	validate = validator.New(validator.WithRequiredStructEnabled())

	validateIDToken = idtoken.Validate
)

func main() {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg.LogLevel)

	db, err := sql.Open("postgres", cfg.PGConn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	log.Info().Msg("connected to database")

	if _, err := db.Exec(schema); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mux := newMux(&pgStore{db: db}, newMetrics(reg), reg)

	log.Info().Str("addr", cfg.ListenAddr).Int("searchWorkers", cfg.SearchWorkers).Msg("listening")
	log.Fatal().Err(http.ListenAndServe(cfg.ListenAddr, logRequests(mux))).Msg("server stopped")
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func newMux(st leagueStore, m *metrics, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/google/callback", handleGoogleCallback)
	mux.HandleFunc("GET /api/admin/check", handleAdminCheck)
	mux.HandleFunc("GET /api/leagues/{leagueID}/settings", handleGetSettings(st))
	mux.HandleFunc("PATCH /api/leagues/{leagueID}/settings", handleUpdateSettings(st))
	mux.HandleFunc("GET /api/leagues/{leagueID}/sessions/{date}/configurations", handleListConfigurations(st))
	mux.HandleFunc("POST /api/leagues/{leagueID}/sessions/{date}/teams", handleGenerateTeams(st, m))
	mux.HandleFunc("GET /api/leagues/{leagueID}/sessions/{date}/teams", handleGetTeams(st))
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			http.Error(w, "db unhealthy", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ok")
	})
	return mux
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	credential := r.FormValue("credential")
	if credential == "" {
		http.Error(w, "missing credential", http.StatusBadRequest)
		return
	}

	payload, err := validateIDToken(r.Context(), credential, cfg.ClientID)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate token")
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	email, ok := payload.Claims["email"].(string)
	if !ok || email == "" {
		http.Error(w, "token has no email", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"email":   email,
		"name":    payload.Claims["name"],
		"picture": payload.Claims["picture"],
		"token":   signEmail(email),
	})
}

func signEmail(email string) string {
	h := hmac.New(sha256.New, []byte(cfg.ClientSecret))
	h.Write([]byte(email))
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return base64.RawURLEncoding.EncodeToString([]byte(email)) + "." + sig
}

func authorize(r *http.Request) (string, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return "", false
	}
	emailBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", false
	}
	email := string(emailBytes)
	if !hmac.Equal([]byte(signEmail(email)), []byte(token)) {
		return "", false
	}
	return email, true
}

func isAdmin(email string) bool {
	return slices.Contains(cfg.Admins, email)
}

func handleAdminCheck(w http.ResponseWriter, r *http.Request) {
	email, ok := authorize(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"admin": isAdmin(email)})
}

func leagueID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("leagueID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid league ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// sessionDate returns the {date} path value normalised to YYYY-MM-DD.
func sessionDate(w http.ResponseWriter, r *http.Request) (string, bool) {
	d, err := time.Parse(time.DateOnly, r.PathValue("date"))
	if err != nil {
		http.Error(w, "invalid session date", http.StatusBadRequest)
		return "", false
	}
	return d.Format(time.DateOnly), true
}

func requireSignedIn(w http.ResponseWriter, r *http.Request) (string, int64, bool) {
	email, ok := authorize(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", 0, false
	}
	id, ok := leagueID(w, r)
	if !ok {
		return "", 0, false
	}
	return email, id, true
}

func requireLeagueAdmin(st leagueStore, w http.ResponseWriter, r *http.Request) (string, int64, bool) {
	email, id, ok := requireSignedIn(w, r)
	if !ok {
		return "", 0, false
	}
	if !isAdmin(email) && !st.IsLeagueAdmin(r.Context(), id, email) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return "", 0, false
	}
	return email, id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"code": code, "error": msg})
}

func isConfigError(err error) bool {
	return errors.Is(err, balancer.ErrConfig)
}

// writeError maps engine and store errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var cfgErr *balancer.ConfigError
	var genErr *balancer.GenerationError
	switch {
	case errors.As(err, &cfgErr):
		writeJSONError(w, http.StatusBadRequest, string(cfgErr.Code), cfgErr.Message)
	case errors.As(err, &genErr):
		log.Error().Err(err).Int("players", genErr.Players).Int("teams", genErr.TeamCount).Msg("team generation failed")
		writeJSONError(w, http.StatusInternalServerError, "generation_failed", genErr.Error())
	case errors.Is(err, errNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", "not found")
	default:
		log.Error().Err(err).Msg("request failed")
		writeJSONError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func handleGetSettings(st leagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, id, ok := requireSignedIn(w, r)
		if !ok {
			return
		}
		settings, err := st.LeagueSettings(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}
}

type settingsPatch struct {
	MinTeams          *int `json:"minTeams" validate:"omitempty,min=1"`
	MaxTeams          *int `json:"maxTeams" validate:"omitempty,min=1"`
	MinPlayersPerTeam *int `json:"minPlayersPerTeam" validate:"omitempty,min=1"`
	MaxPlayersPerTeam *int `json:"maxPlayersPerTeam" validate:"omitempty,min=1"`
}

func (p settingsPatch) apply(s *balancer.Settings) {
	if p.MinTeams != nil {
		s.MinTeams = *p.MinTeams
	}
	if p.MaxTeams != nil {
		s.MaxTeams = *p.MaxTeams
	}
	if p.MinPlayersPerTeam != nil {
		s.MinPlayersPerTeam = *p.MinPlayersPerTeam
	}
	if p.MaxPlayersPerTeam != nil {
		s.MaxPlayersPerTeam = *p.MaxPlayersPerTeam
	}
}

func handleUpdateSettings(st leagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, id, ok := requireLeagueAdmin(st, w, r)
		if !ok {
			return
		}
		var body settingsPatch
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
		if err := validate.Struct(body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		settings, err := st.LeagueSettings(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		body.apply(settings)
		if err := settings.Validate(); err != nil {
			writeError(w, err)
			return
		}
		if err := st.UpdateLeagueSettings(r.Context(), id, *settings); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}
}

func handleListConfigurations(st leagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, id, ok := requireSignedIn(w, r)
		if !ok {
			return
		}
		date, ok := sessionDate(w, r)
		if !ok {
			return
		}
		settings, err := st.LeagueSettings(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		players, err := st.SessionPlayers(r.Context(), id, date)
		if err != nil {
			writeError(w, err)
			return
		}
		configs, err := balancer.EnumerateConfigurations(len(players), settings)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"playerCount":    len(players),
			"configurations": lo.Ternary(configs == nil, []balancer.TeamConfiguration{}, configs),
		})
	}
}

type generateRequest struct {
	Method string `json:"method" validate:"required"`
	Config struct {
		TeamCount int   `json:"team_count" validate:"required,min=1"`
		TeamSizes []int `json:"team_sizes" validate:"required,min=1,dive,min=1"`
	} `json:"config"`
	RecordHistory bool `json:"record_history"`
}

func handleGenerateTeams(st leagueStore, m *metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, id, ok := requireLeagueAdmin(st, w, r)
		if !ok {
			return
		}
		date, ok := sessionDate(w, r)
		if !ok {
			return
		}
		var body generateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
		if err := validate.Struct(body); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		method, err := balancer.ParseMethod(body.Method)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := r.Context()
		settings, err := st.LeagueSettings(ctx, id)
		if err != nil {
			writeError(w, err)
			return
		}
		players, err := st.SessionPlayers(ctx, id, date)
		if err != nil {
			writeError(w, err)
			return
		}
		ratings, err := st.PlayerRatings(ctx, id, players)
		if err != nil {
			writeError(w, err)
			return
		}
		sessions, err := st.RecentRosters(ctx, id, date, cfg.HistorySessions)
		if err != nil {
			writeError(w, err)
			return
		}
		var history *balancer.TeammateHistory
		if len(sessions) > 0 {
			history = balancer.BuildTeammateHistory(players, sessions)
		}

		params := balancer.DefaultParams
		params.Workers = cfg.SearchWorkers
		logger := log.Logger.With().Int64("league", id).Str("date", date).Str("by", email).Logger()
		gen := balancer.NewGenerator(settings, balancer.WithParams(params), balancer.WithLogger(logger))

		start := time.Now()
		res, err := gen.GenerateTeams(balancer.Request{
			Method: method,
			Config: balancer.TeamConfiguration{
				TeamCount: body.Config.TeamCount,
				TeamSizes: body.Config.TeamSizes,
			},
			Players:       players,
			Ratings:       ratings,
			History:       history,
			RecordHistory: body.RecordHistory,
		})
		m.observe(method, time.Since(start).Seconds(), res, err)
		if err != nil {
			writeError(w, err)
			return
		}

		payload, err := json.Marshal(res)
		if err != nil {
			writeError(w, err)
			return
		}
		rosters := lo.Map(res.Teams, func(t balancer.Team, _ int) []string { return t.Players })
		if err := st.SaveGeneration(ctx, id, date, method, rosters, payload); err != nil {
			writeError(w, err)
			return
		}
		logger.Info().
			Str("method", string(method)).
			Int("teams", len(res.Teams)).
			Int("waiting", len(res.Waiting)).
			Float64("score", res.Score.Total).
			Bool("fallback", res.Fallback).
			Msg("teams generated")

		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	}
}

func handleGetTeams(st leagueStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, id, ok := requireSignedIn(w, r)
		if !ok {
			return
		}
		date, ok := sessionDate(w, r)
		if !ok {
			return
		}
		raw, err := st.Generation(r.Context(), id, date)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(raw)
	}
}
