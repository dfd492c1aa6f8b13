// Package api exposes HTTP handlers for the wellness service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"example.com/wellness/internal/auth"
	"example.com/wellness/internal/domain"
	"example.com/wellness/internal/persistence"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/exercise/log", h.logExercise)
	mux.HandleFunc("/v1/challenges", h.listChallenges)
	mux.HandleFunc("/v1/challenges/complete", h.completeChallenge)
	mux.HandleFunc("/v1/users/points", h.userPoints)
	mux.HandleFunc("/v1/users/completions", h.completionHistory)
	mux.HandleFunc("/v1/users/exercises", h.exerciseHistory)
	mux.HandleFunc("/v1/rewards", h.listRewards)
	mux.HandleFunc("/v1/rewards/redeem", h.redeemReward)
	mux.HandleFunc("/v1/rewards/redeemed", h.redeemedRewards)
	mux.HandleFunc("/v1/teams", h.createTeam)
	mux.HandleFunc("/v1/teams/join", h.joinTeam)
	mux.HandleFunc("/v1/teams/points", h.teamPoints)
	mux.HandleFunc("/v1/teams/invites", h.createInvite)
	mux.HandleFunc("/v1/teams/invites/accept", h.acceptInvite)
	mux.HandleFunc("/v1/leaderboard", h.leaderboard)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) logExercise(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopePointsWrite)
	if !ok {
		return
	}

	var req LogExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	result, err := h.service.LogExercise(r.Context(), domain.LogExerciseInput{
		UserID:       claims.Subject,
		ExerciseType: req.ExerciseType,
		Value:        req.Value,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LogExerciseResponse{
		ExerciseType: result.ExerciseType,
		Value:        result.Value,
		PointsEarned: result.PointsEarned,
		Points:       result.Points,
		TotalPoints:  result.TotalPoints,
	})
}

func (h *Handler) listChallenges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	if _, ok := requireScope(w, r, auth.ScopePointsRead, auth.ScopePointsWrite); !ok {
		return
	}

	challenges, err := h.service.ListChallenges(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	items := make([]ChallengeView, 0, len(challenges))
	for _, c := range challenges {
		items = append(items, ChallengeView{
			ChallengeID: c.ID,
			Name:        c.Name,
			Description: c.Description,
			Points:      c.Points,
		})
	}
	writeJSON(w, http.StatusOK, ListChallengesResponse{Items: items})
}

func (h *Handler) completeChallenge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopePointsWrite)
	if !ok {
		return
	}

	var req CompleteChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	result, err := h.service.CompleteChallenge(r.Context(), domain.CompleteChallengeInput{
		UserID:      claims.Subject,
		ChallengeID: req.ChallengeID,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CompleteChallengeResponse{
		ChallengeID:   result.ChallengeID,
		ChallengeName: result.ChallengeName,
		PointsEarned:  result.PointsEarned,
		CurrentStreak: result.CurrentStreak,
		TotalPoints:   result.TotalPoints,
	})
}

func (h *Handler) userPoints(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopePointsRead, auth.ScopePointsWrite)
	if !ok {
		return
	}

	view, err := h.service.UserPoints(r.Context(), claims.Subject)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, UserPointsResponse{
		UserID:      view.UserID,
		TotalPoints: view.TotalPoints,
		Redemptions: toRedemptionViews(view.Redemptions),
	})
}

func (h *Handler) completionHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopePointsRead, auth.ScopePointsWrite)
	if !ok {
		return
	}

	cursor, limit, err := pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	records, next, err := h.service.CompletionHistory(r.Context(), claims.Subject, cursor, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	items := make([]CompletionView, 0, len(records))
	for _, rec := range records {
		items = append(items, CompletionView{
			CompletionID:  rec.ID,
			ChallengeID:   rec.ChallengeID,
			ChallengeName: rec.ChallengeName,
			PointsEarned:  rec.PointsEarned,
			Streak:        rec.Streak,
			CompletedAt:   rec.CompletedAt,
		})
	}
	writeJSON(w, http.StatusOK, CompletionHistoryResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) exerciseHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopePointsRead, auth.ScopePointsWrite)
	if !ok {
		return
	}

	cursor, limit, err := pageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	records, next, err := h.service.ExerciseHistory(r.Context(), claims.Subject, cursor, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	items := make([]ExerciseView, 0, len(records))
	for _, rec := range records {
		items = append(items, ExerciseView{
			ExerciseID:   rec.ID,
			ExerciseType: rec.ExerciseType,
			Value:        rec.Value,
			PointsEarned: rec.PointsEarned,
			LoggedAt:     rec.LoggedAt,
		})
	}
	writeJSON(w, http.StatusOK, ExerciseHistoryResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) listRewards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	if _, ok := requireScope(w, r, auth.ScopePointsRead, auth.ScopePointsWrite); !ok {
		return
	}

	rewards, err := h.service.ListRewards(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	items := make([]RewardView, 0, len(rewards))
	for _, reward := range rewards {
		items = append(items, RewardView{
			Name:           reward.Name,
			PointsRequired: reward.PointsRequired,
		})
	}
	writeJSON(w, http.StatusOK, ListRewardsResponse{Items: items})
}

func (h *Handler) redeemReward(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopePointsWrite)
	if !ok {
		return
	}

	var req RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	result, err := h.service.RedeemReward(r.Context(), domain.RedeemInput{
		UserID:     claims.Subject,
		RewardName: req.RewardName,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RedeemResponse{
		RewardName:      result.RewardName,
		PointsSpent:     result.PointsSpent,
		RemainingPoints: result.RemainingPoints,
	})
}

func (h *Handler) redeemedRewards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopePointsRead, auth.ScopePointsWrite)
	if !ok {
		return
	}

	redemptions, err := h.service.Redemptions(r.Context(), claims.Subject)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RedeemedRewardsResponse{Items: toRedemptionViews(redemptions)})
}

func (h *Handler) createTeam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopeTeamsWrite)
	if !ok {
		return
	}

	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	team, err := h.service.CreateTeam(r.Context(), domain.CreateTeamInput{
		Name:      req.Name,
		CompanyID: req.CompanyID,
		CreatorID: claims.Subject,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTeamView(*team))
}

func (h *Handler) joinTeam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopeTeamsWrite)
	if !ok {
		return
	}

	var req JoinTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	if err := h.service.JoinTeam(r.Context(), domain.JoinTeamInput{
		UserID: claims.Subject,
		TeamID: req.TeamID,
	}); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

func (h *Handler) teamPoints(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	if _, ok := requireScope(w, r, auth.ScopePointsRead, auth.ScopePointsWrite); !ok {
		return
	}

	teamID := r.URL.Query().Get("team_id")
	if strings.TrimSpace(teamID) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing team_id parameter")
		return
	}

	team, err := h.service.TeamPoints(r.Context(), teamID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTeamView(*team))
}

func (h *Handler) createInvite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopeTeamsWrite)
	if !ok {
		return
	}

	invite, err := h.service.CreateInvite(r.Context(), claims.Subject)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, InviteResponse{
		Code:      invite.Code,
		CreatedBy: invite.CreatedBy,
	})
}

func (h *Handler) acceptInvite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopeTeamsWrite)
	if !ok {
		return
	}

	var req AcceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	team, err := h.service.AcceptInvite(r.Context(), claims.Subject, req.InviteCode)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTeamView(*team))
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	if _, ok := requireScope(w, r, auth.ScopePointsRead, auth.ScopePointsWrite); !ok {
		return
	}

	standings, err := h.service.Leaderboard(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	items := make([]StandingView, 0, len(standings))
	for _, standing := range standings {
		items = append(items, StandingView{
			TeamID:      standing.TeamID,
			Name:        standing.Name,
			TotalPoints: standing.TotalPoints,
			Rank:        standing.Rank,
		})
	}
	writeJSON(w, http.StatusOK, LeaderboardResponse{Items: items})
}

// requireScope extracts claims and verifies at least one of the scopes is
// present, writing the error response itself when the check fails.
func requireScope(w http.ResponseWriter, r *http.Request, scopes ...string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	for _, scope := range scopes {
		if claims.HasScope(scope) {
			return claims, true
		}
	}
	writeError(w, http.StatusForbidden, "forbidden", "one of scopes ["+strings.Join(scopes, ", ")+"] required")
	return nil, false
}

func pageParams(r *http.Request) (*domain.Cursor, int, error) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			if parsed > 100 {
				parsed = 100
			}
			limit = parsed
		}
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		return nil, 0, errors.New("invalid cursor")
	}
	return cursor, limit, nil
}

// respondError maps domain errors onto HTTP status codes.
func respondError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, "validation_failed", validation.Reason)
		return
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTeamNotFound),
		errors.Is(err, domain.ErrChallengeNotFound),
		errors.Is(err, domain.ErrRewardNotFound),
		errors.Is(err, domain.ErrInviteNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrDuplicateCompletion),
		errors.Is(err, domain.ErrAlreadyRedeemed),
		errors.Is(err, domain.ErrInsufficientPoints),
		errors.Is(err, domain.ErrAlreadyTeamMember),
		errors.Is(err, domain.ErrNotOnTeam):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

// LogExerciseRequest is the payload for POST /v1/exercise/log.
type LogExerciseRequest struct {
	ExerciseType string  `json:"exercise_type"`
	Value        float64 `json:"value"`
}

// Validate ensures request correctness.
func (r LogExerciseRequest) Validate() error {
	if strings.TrimSpace(r.ExerciseType) == "" {
		return errors.New("exercise_type is required")
	}
	if r.Value <= 0 {
		return errors.New("value must be > 0")
	}
	return nil
}

// LogExerciseResponse describes the response body for exercise logging.
type LogExerciseResponse struct {
	ExerciseType string  `json:"exercise_type"`
	Value        float64 `json:"value"`
	PointsEarned int     `json:"points_earned"`
	Points       int     `json:"points"`
	TotalPoints  int     `json:"total_points"`
}

// CompleteChallengeRequest is the payload for POST /v1/challenges/complete.
type CompleteChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

// Validate ensures request correctness.
func (r CompleteChallengeRequest) Validate() error {
	if strings.TrimSpace(r.ChallengeID) == "" {
		return errors.New("challenge_id is required")
	}
	return nil
}

// CompleteChallengeResponse describes the response body for completion.
type CompleteChallengeResponse struct {
	ChallengeID   string `json:"challenge_id"`
	ChallengeName string `json:"challenge_name"`
	PointsEarned  int    `json:"points_earned"`
	CurrentStreak int    `json:"current_streak"`
	TotalPoints   int    `json:"total_points"`
}

// ChallengeView exposes a challenge catalog entry.
type ChallengeView struct {
	ChallengeID string `json:"challenge_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// ListChallengesResponse packages catalog results.
type ListChallengesResponse struct {
	Items []ChallengeView `json:"items"`
}

// UserPointsResponse packages a balance with redemption history.
type UserPointsResponse struct {
	UserID      string           `json:"user_id"`
	TotalPoints int              `json:"total_points"`
	Redemptions []RedemptionView `json:"redeemed_rewards"`
}

// CompletionView exposes one completion record.
type CompletionView struct {
	CompletionID  string    `json:"completion_id"`
	ChallengeID   string    `json:"challenge_id"`
	ChallengeName string    `json:"challenge_name"`
	PointsEarned  int       `json:"points_earned"`
	Streak        int       `json:"streak"`
	CompletedAt   time.Time `json:"completed_at"`
}

// CompletionHistoryResponse packages paginated completion history.
type CompletionHistoryResponse struct {
	Items      []CompletionView `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// ExerciseView exposes one exercise record.
type ExerciseView struct {
	ExerciseID   string    `json:"exercise_id"`
	ExerciseType string    `json:"exercise_type"`
	Value        float64   `json:"value"`
	PointsEarned int       `json:"points_earned"`
	LoggedAt     time.Time `json:"logged_at"`
}

// ExerciseHistoryResponse packages paginated exercise history.
type ExerciseHistoryResponse struct {
	Items      []ExerciseView `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// RewardView exposes a reward catalog entry.
type RewardView struct {
	Name           string `json:"name"`
	PointsRequired int    `json:"points_required"`
}

// ListRewardsResponse packages catalog results.
type ListRewardsResponse struct {
	Items []RewardView `json:"items"`
}

// RedeemRequest is the payload for POST /v1/rewards/redeem.
type RedeemRequest struct {
	RewardName string `json:"reward_name"`
}

// Validate ensures request correctness.
func (r RedeemRequest) Validate() error {
	if strings.TrimSpace(r.RewardName) == "" {
		return errors.New("reward_name is required")
	}
	return nil
}

// RedeemResponse describes the response body for redemption.
type RedeemResponse struct {
	RewardName      string `json:"reward_name"`
	PointsSpent     int    `json:"points_spent"`
	RemainingPoints int    `json:"remaining_points"`
}

// RedemptionView exposes one redemption record.
type RedemptionView struct {
	RewardName  string    `json:"reward_name"`
	PointsSpent int       `json:"points_spent"`
	RedeemedAt  time.Time `json:"redeemed_at"`
}

// RedeemedRewardsResponse packages redemption history.
type RedeemedRewardsResponse struct {
	Items []RedemptionView `json:"items"`
}

// CreateTeamRequest is the payload for POST /v1/teams.
type CreateTeamRequest struct {
	Name      string `json:"name"`
	CompanyID string `json:"company_id"`
}

// Validate ensures request correctness.
func (r CreateTeamRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.CompanyID) == "" {
		return errors.New("company_id is required")
	}
	return nil
}

// JoinTeamRequest is the payload for POST /v1/teams/join.
type JoinTeamRequest struct {
	TeamID string `json:"team_id"`
}

// Validate ensures request correctness.
func (r JoinTeamRequest) Validate() error {
	if strings.TrimSpace(r.TeamID) == "" {
		return errors.New("team_id is required")
	}
	return nil
}

// AcceptInviteRequest is the payload for POST /v1/teams/invites/accept.
type AcceptInviteRequest struct {
	InviteCode string `json:"invite_code"`
}

// Validate ensures request correctness.
func (r AcceptInviteRequest) Validate() error {
	if strings.TrimSpace(r.InviteCode) == "" {
		return errors.New("invite_code is required")
	}
	return nil
}

// InviteResponse describes a freshly issued invite.
type InviteResponse struct {
	Code      string `json:"code"`
	CreatedBy string `json:"created_by"`
}

// TeamView exposes full details about a team.
type TeamView struct {
	TeamID      string    `json:"team_id"`
	Name        string    `json:"name"`
	CompanyID   string    `json:"company_id"`
	TotalPoints int       `json:"total_team_points"`
	Standing    int       `json:"team_standing"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StandingView exposes one leaderboard row.
type StandingView struct {
	TeamID      string `json:"team_id"`
	Name        string `json:"name"`
	TotalPoints int    `json:"total_team_points"`
	Rank        int    `json:"rank"`
}

// LeaderboardResponse packages ranked standings.
type LeaderboardResponse struct {
	Items []StandingView `json:"items"`
}

func toRedemptionViews(redemptions []domain.Redemption) []RedemptionView {
	items := make([]RedemptionView, 0, len(redemptions))
	for _, rec := range redemptions {
		items = append(items, RedemptionView{
			RewardName:  rec.RewardName,
			PointsSpent: rec.PointsSpent,
			RedeemedAt:  rec.RedeemedAt,
		})
	}
	return items
}

func toTeamView(team domain.Team) TeamView {
	return TeamView{
		TeamID:      team.ID,
		Name:        team.Name,
		CompanyID:   team.CompanyID,
		TotalPoints: team.TotalPoints,
		Standing:    team.Standing,
		Members:     team.Members,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
