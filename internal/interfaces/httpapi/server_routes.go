package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matchups", handler.ListMatchups)
	mux.HandleFunc("GET /v1/matchups/{matchupID}", handler.GetMatchup)
	mux.HandleFunc("GET /v1/leaderboard", handler.GetLeaderboard)
	// Anonymous submissions carry no credential at all; ownership is an
	// email address until the set is claimed.
	mux.HandleFunc("POST /v1/picks/anonymous", handler.SubmitAnonymousPick)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/picks", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPick)))
	mux.Handle("GET /v1/picks/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyWeekPicks)))
	mux.Handle("PUT /v1/picks/{pickID}/visibility", RequireAuth(verifier, http.HandlerFunc(handler.SetPickVisibility)))
	mux.Handle("POST /v1/picks/anonymous/{pickSetID}/claim", RequireAuth(verifier, http.HandlerFunc(handler.ClaimAnonymousPickSet)))
}

// Operator routes cover matchup administration, precedence decisions, and
// the consistency jobs. They share the internal job token; there is no role
// model beyond ordinary users and operators.
func registerOperatorRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/matchups", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.PublishMatchup)))
	mux.Handle("PUT /v1/matchups/{matchupID}/spread", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SetSpread)))
	mux.Handle("PUT /v1/matchups/{matchupID}/state", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ReportMatchupState)))
	mux.Handle("PUT /v1/precedence", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SetPrecedence)))
	mux.Handle("GET /v1/precedence", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetPrecedence)))
	mux.Handle("GET /v1/audit", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunAudit)))
	mux.Handle("POST /v1/internal/jobs/rebuild", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRebuildJob)))
	mux.Handle("POST /v1/internal/jobs/poll-scores", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPollScoresJob)))
	mux.Handle("POST /v1/internal/jobs/plan-polls", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPlanPollsJob)))
}
