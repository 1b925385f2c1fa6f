package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/CANCELTHIS/Code-Clash-Back/internal/client/gemini"
	"github.com/CANCELTHIS/Code-Clash-Back/internal/events"
	"github.com/CANCELTHIS/Code-Clash-Back/internal/matchmaking"
	"github.com/CANCELTHIS/Code-Clash-Back/internal/store"
	"github.com/CANCELTHIS/Code-Clash-Back/pkg/request"
	"github.com/CANCELTHIS/Code-Clash-Back/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ArenaCreationRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`
	StartTime   time.Time `json:"start_time"`
	TokenPrize  int32     `json:"token_prize"`
	EntryFee    int32     `json:"entry_fee"`
}

type ArenaResponse struct {
	ArenaID        string          `json:"arena_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Difficulty     string          `json:"difficulty"`
	EntryFee       int32           `json:"entry_fee"`
	StartTime      time.Time       `json:"start_time"`
	TokenPrize     int32           `json:"token_prize"`
	HostID         string          `json:"host_id,omitempty"`
	Status         string          `json:"status"`
	Participants   int64           `json:"participants"`
	TestCases      []TestCaseEntry `json:"test_cases,omitempty"`
	WinnerName     string          `json:"winner_name,omitempty"`
	WinnerTokens   *int32          `json:"winner_tokens,omitempty"`
	WinnerSolution string          `json:"winner_solution,omitempty"`
}

type TestCaseEntry struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Description    string `json:"description,omitempty"`
}

func arenaResponse(arena store.Arena, participants int64) ArenaResponse {
	resp := ArenaResponse{
		ArenaID:      uuid.UUID(arena.ID.Bytes).String(),
		Title:        arena.Title,
		Description:  arena.Description,
		Category:     string(arena.Category),
		Difficulty:   string(arena.Difficulty),
		EntryFee:     arena.EntryFee,
		StartTime:    arena.StartTime.Time,
		TokenPrize:   arena.TokenPrize,
		Status:       string(arena.Status),
		Participants: participants,
	}
	if arena.HostID.Valid {
		resp.HostID = uuid.UUID(arena.HostID.Bytes).String()
	}
	if arena.WinnerName.Valid {
		resp.WinnerName = arena.WinnerName.String
	}
	if arena.WinnerTokens.Valid {
		tokens := arena.WinnerTokens.Int32
		resp.WinnerTokens = &tokens
	}
	if arena.WinnerSolution.Valid {
		resp.WinnerSolution = arena.WinnerSolution.String
	}
	return resp
}

func validCategory(category string) bool {
	for _, c := range matchmaking.Categories {
		if string(c) == category {
			return true
		}
	}
	return false
}

func validDifficulty(difficulty string) bool {
	for _, d := range matchmaking.Difficulties {
		if string(d) == difficulty {
			return true
		}
	}
	return false
}

// CreateArenaHandler creates a host-authored arena.
func (hr *HandlerRepo) CreateArenaHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}

	var req ArenaCreationRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		hr.badRequest(w, r, err)
		return
	}

	switch {
	case req.Title == "":
		hr.badRequest(w, r, errors.New("arena title cannot be empty"))
		return
	case req.Description == "":
		hr.badRequest(w, r, errors.New("arena description cannot be empty"))
		return
	case !validCategory(req.Category):
		hr.badRequest(w, r, errors.New("invalid category"))
		return
	case !validDifficulty(req.Difficulty):
		hr.badRequest(w, r, errors.New("invalid difficulty"))
		return
	case req.StartTime.Before(time.Now()):
		hr.badRequest(w, r, errors.New("start time cannot be in the past"))
		return
	case req.TokenPrize <= 0:
		hr.badRequest(w, r, errors.New("token prize must be positive"))
		return
	case req.EntryFee < 0:
		hr.badRequest(w, r, errors.New("entry fee cannot be negative"))
		return
	}

	arena, err := hr.queries.CreateArena(r.Context(), store.CreateArenaParams{
		Title:           req.Title,
		Description:     req.Description,
		Category:        store.ArenaCategory(req.Category),
		Difficulty:      store.ArenaDifficulty(req.Difficulty),
		EntryFee:        req.EntryFee,
		TokenPrize:      req.TokenPrize,
		StartTime:       pgtype.Timestamptz{Time: req.StartTime, Valid: true},
		HostID:          toPgtypeUUID(userID),
		Status:          store.ArenaStatusUpcoming,
		MaxParticipants: matchmaking.DefaultMaxParticipants,
	})
	if err != nil {
		hr.serverError(w, r, err)
		return
	}

	response.JSON(w, response.JSONResponseParameters{
		Status:  http.StatusCreated,
		Success: true,
		Msg:     "Arena created successfully.",
		Data:    arenaResponse(arena, 0),
	})
}

// ListArenasHandler lists arenas sorted by start time, optionally filtered
// by status.
func (hr *HandlerRepo) ListArenasHandler(w http.ResponseWriter, r *http.Request) {
	var status store.NullArenaStatus
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		switch store.ArenaStatus(statusStr) {
		case store.ArenaStatusUpcoming, store.ArenaStatusActive, store.ArenaStatusCompleted:
			status = store.NullArenaStatus{ArenaStatus: store.ArenaStatus(statusStr), Valid: true}
		default:
			hr.badRequest(w, r, errors.New("invalid status filter"))
			return
		}
	}

	rows, err := hr.queries.ListArenas(r.Context(), status)
	if err != nil {
		hr.serverError(w, r, err)
		return
	}

	arenas := make([]ArenaResponse, 0, len(rows))
	for _, row := range rows {
		arenas = append(arenas, arenaResponse(row.Arena, row.ParticipantCount))
	}

	response.JSON(w, response.JSONResponseParameters{
		Status:  http.StatusOK,
		Success: true,
		Data:    arenas,
	})
}

// GetArenaHandler returns one arena with its test cases and winner fields.
func (hr *HandlerRepo) GetArenaHandler(w http.ResponseWriter, r *http.Request) {
	arenaID, err := uuid.Parse(chi.URLParam(r, "arena_id"))
	if err != nil {
		hr.badRequest(w, r, errors.New("invalid arena ID format"))
		return
	}

	arena, err := hr.queries.GetArenaByID(r.Context(), toPgtypeUUID(arenaID))
	if errors.Is(err, pgx.ErrNoRows) {
		hr.notFound(w, r)
		return
	} else if err != nil {
		hr.serverError(w, r, err)
		return
	}

	participants, err := hr.queries.CountArenaParticipants(r.Context(), arena.ID)
	if err != nil {
		hr.serverError(w, r, err)
		return
	}

	testCases, err := hr.queries.GetArenaTestCases(r.Context(), arena.ID)
	if err != nil {
		hr.serverError(w, r, err)
		return
	}

	resp := arenaResponse(arena, participants)
	resp.TestCases = make([]TestCaseEntry, 0, len(testCases))
	for _, tc := range testCases {
		resp.TestCases = append(resp.TestCases, TestCaseEntry{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Description:    tc.Description.String,
		})
	}

	response.JSON(w, response.JSONResponseParameters{
		Status:  http.StatusOK,
		Success: true,
		Data:    resp,
	})
}

type JoinArenaResponse struct {
	Message      string `json:"message"`
	Status       string `json:"status"`
	Participants int64  `json:"participants"`
}

// JoinArenaHandler adds the caller to an arena's participant list.
// Re-joining is not an error.
func (hr *HandlerRepo) JoinArenaHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}

	arenaID, err := uuid.Parse(chi.URLParam(r, "arena_id"))
	if err != nil {
		hr.badRequest(w, r, errors.New("invalid arena ID format"))
		return
	}

	arena, err := hr.queries.GetArenaByID(r.Context(), toPgtypeUUID(arenaID))
	if errors.Is(err, pgx.ErrNoRows) {
		hr.notFound(w, r)
		return
	} else if err != nil {
		hr.serverError(w, r, err)
		return
	}

	_, err = hr.queries.GetArenaParticipant(r.Context(), store.GetArenaParticipantParams{
		ArenaID: arena.ID,
		UserID:  toPgtypeUUID(userID),
	})
	if err == nil {
		response.JSON(w, response.JSONResponseParameters{
			Status:  http.StatusOK,
			Success: true,
			Data:    JoinArenaResponse{Message: "Already joined", Status: "joined"},
		})
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		hr.serverError(w, r, err)
		return
	}

	count, err := hr.queries.CountArenaParticipants(r.Context(), arena.ID)
	if err != nil {
		hr.serverError(w, r, err)
		return
	}
	if count >= int64(arena.MaxParticipants) {
		hr.badRequest(w, r, errors.New("arena is full"))
		return
	}

	err = hr.queries.AddArenaParticipant(r.Context(), store.AddArenaParticipantParams{
		ArenaID: arena.ID,
		UserID:  toPgtypeUUID(userID),
	})
	if err != nil {
		hr.serverError(w, r, err)
		return
	}

	response.JSON(w, response.JSONResponseParameters{
		Status:  http.StatusOK,
		Success: true,
		Data: JoinArenaResponse{
			Message:      "Joined successfully",
			Status:       "joined",
			Participants: count + 1,
		},
	})
}

type TestCaseGenerationRequest struct {
	Description string `json:"description"`
}

// GenerateTestCasesHandler replaces an arena's test cases with generated
// ones. Host only.
func (hr *HandlerRepo) GenerateTestCasesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}

	arenaID, err := uuid.Parse(chi.URLParam(r, "arena_id"))
	if err != nil {
		hr.badRequest(w, r, errors.New("invalid arena ID format"))
		return
	}

	var req TestCaseGenerationRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		hr.badRequest(w, r, err)
		return
	}
	if req.Description == "" {
		hr.badRequest(w, r, errors.New("description cannot be empty"))
		return
	}

	arena, err := hr.queries.GetArenaByID(r.Context(), toPgtypeUUID(arenaID))
	if errors.Is(err, pgx.ErrNoRows) {
		hr.notFound(w, r)
		return
	} else if err != nil {
		hr.serverError(w, r, err)
		return
	}

	if !arena.HostID.Valid || uuid.UUID(arena.HostID.Bytes) != userID {
		hr.forbidden(w, r)
		return
	}

	testCases := hr.geminiClient.GenerateTestCases(r.Context(), req.Description)

	if err := hr.queries.DeleteArenaTestCases(r.Context(), arena.ID); err != nil {
		hr.serverError(w, r, err)
		return
	}

	entries := make([]TestCaseEntry, 0, len(testCases))
	for _, tc := range testCases {
		_, err := hr.queries.CreateArenaTestCase(r.Context(), store.CreateArenaTestCaseParams{
			ArenaID:        arena.ID,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Description:    pgtype.Text{String: tc.Description, Valid: tc.Description != ""},
		})
		if err != nil {
			hr.serverError(w, r, err)
			return
		}
		entries = append(entries, TestCaseEntry{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Description:    tc.Description,
		})
	}

	response.JSON(w, response.JSONResponseParameters{
		Status:  http.StatusOK,
		Success: true,
		Data: map[string]any{
			"arena_id":   arenaID.String(),
			"test_cases": entries,
		},
	})
}

type SubmissionRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type SubmissionResponse struct {
	Results    []gemini.TestResult `json:"results"`
	Score      int                 `json:"score"`
	TotalTests int                 `json:"total_tests"`
	AllPassed  bool                `json:"all_passed"`
}

// SubmitSolutionHandler evaluates a submission against the arena's test
// cases. When every test passes it feeds a winner claim into the arena's
// room; the room decides whether the claim wins the race.
func (hr *HandlerRepo) SubmitSolutionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}

	arenaID, err := uuid.Parse(chi.URLParam(r, "arena_id"))
	if err != nil {
		hr.badRequest(w, r, errors.New("invalid arena ID format"))
		return
	}

	var req SubmissionRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		hr.badRequest(w, r, err)
		return
	}
	if req.Code == "" {
		hr.badRequest(w, r, errors.New("code cannot be empty"))
		return
	}

	arena, err := hr.queries.GetArenaByID(r.Context(), toPgtypeUUID(arenaID))
	if errors.Is(err, pgx.ErrNoRows) {
		hr.notFound(w, r)
		return
	} else if err != nil {
		hr.serverError(w, r, err)
		return
	}

	storedCases, err := hr.queries.GetArenaTestCases(r.Context(), arena.ID)
	if err != nil {
		hr.serverError(w, r, err)
		return
	}

	testCases := make([]gemini.TestCase, 0, len(storedCases))
	for _, tc := range storedCases {
		testCases = append(testCases, gemini.TestCase{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Description:    tc.Description.String,
		})
	}

	evaluation := hr.geminiClient.EvaluateCode(r.Context(), req.Code, testCases, req.Language, arena.Description)
	allPassed := evaluation.AllPassed()

	if allPassed {
		if roomHub := hr.arenaHub.GetOrCreateRoomHub(r.Context(), arenaID); roomHub != nil {
			claim := events.WinnerClaim{
				PlayerID:      userID,
				ArenaID:       arenaID,
				Solution:      req.Code,
				SubmittedTime: time.Now(),
			}

			// Use a select with a default case to avoid blocking if the
			// channel is full
			select {
			case roomHub.Events <- claim:
			default:
				hr.logger.Warn("room events channel is full, winner claim dropped", "arena_id", arenaID)
			}
		}
	}

	response.JSON(w, response.JSONResponseParameters{
		Status:  http.StatusOK,
		Success: true,
		Data: SubmissionResponse{
			Results:    evaluation.Results,
			Score:      evaluation.Score,
			TotalTests: len(evaluation.Results),
			AllPassed:  allPassed,
		},
	})
}

type RewardRequest struct {
	UserID string `json:"user_id"`
	Score  int32  `json:"score"`
	Rank   int32  `json:"rank"`
}

type RewardResponse struct {
	UserID string   `json:"user_id"`
	Badges []string `json:"badges"`
	Tokens int32    `json:"tokens"`
}

// AwardRewardsHandler grants rank-based badges and token payouts. Host
// only: gold gets the full prize, silver half, bronze a quarter.
func (hr *HandlerRepo) AwardRewardsHandler(w http.ResponseWriter, r *http.Request) {
	hostID, err := GetUserID(r.Context())
	if err != nil {
		hr.unauthorized(w, r)
		return
	}

	arenaID, err := uuid.Parse(chi.URLParam(r, "arena_id"))
	if err != nil {
		hr.badRequest(w, r, errors.New("invalid arena ID format"))
		return
	}

	var req RewardRequest
	if err := request.DecodeJSON(w, r, &req); err != nil {
		hr.badRequest(w, r, err)
		return
	}

	rewardUserID, err := uuid.Parse(req.UserID)
	if err != nil {
		hr.badRequest(w, r, errors.New("invalid user ID format"))
		return
	}

	arena, err := hr.queries.GetArenaByID(r.Context(), toPgtypeUUID(arenaID))
	if errors.Is(err, pgx.ErrNoRows) {
		hr.notFound(w, r)
		return
	} else if err != nil {
		hr.serverError(w, r, err)
		return
	}

	if !arena.HostID.Valid || uuid.UUID(arena.HostID.Bytes) != hostID {
		hr.forbidden(w, r)
		return
	}

	var badges []string
	var tokens int32

	switch req.Rank {
	case 1:
		badges = append(badges, "Gold Medal")
		tokens = arena.TokenPrize
	case 2:
		badges = append(badges, "Silver Medal")
		tokens = arena.TokenPrize / 2
	case 3:
		badges = append(badges, "Bronze Medal")
		tokens = arena.TokenPrize / 4
	}

	for _, badge := range badges {
		err := hr.queries.AddUserBadge(r.Context(), store.AddUserBadgeParams{
			ID:    toPgtypeUUID(rewardUserID),
			Badge: badge,
		})
		if err != nil {
			hr.serverError(w, r, err)
			return
		}
	}

	if tokens > 0 {
		_, err = hr.queries.CreditUserTokens(r.Context(), store.CreditUserTokensParams{
			ID:     toPgtypeUUID(rewardUserID),
			Amount: tokens,
		})
		if errors.Is(err, pgx.ErrNoRows) {
			hr.notFound(w, r)
			return
		} else if err != nil {
			hr.serverError(w, r, err)
			return
		}
	}

	result := store.MatchResultLost
	if req.Rank == 1 {
		result = store.MatchResultWon
	}

	_, err = hr.queries.CreateUserMatch(r.Context(), store.CreateUserMatchParams{
		UserID:  toPgtypeUUID(rewardUserID),
		ArenaID: arena.ID,
		Score:   req.Score,
		Rank:    req.Rank,
		Result:  result,
	})
	if err != nil {
		hr.serverError(w, r, err)
		return
	}

	response.JSON(w, response.JSONResponseParameters{
		Status:  http.StatusOK,
		Success: true,
		Data: RewardResponse{
			UserID: rewardUserID.String(),
			Badges: badges,
			Tokens: tokens,
		},
	})
}
