package httpadapter

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"burrowverse/internal/app/observe"
	"burrowverse/internal/app/population"
	"burrowverse/internal/app/ports"
	"burrowverse/internal/app/replay"
	"burrowverse/internal/app/status"
	"burrowverse/internal/app/turn"
	"burrowverse/internal/domain/grid"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const apiKeyHeader = "X-API-Key"

type Handler struct {
	TurnUC       *turn.UseCase
	PopulationUC *population.UseCase
	ObserveUC    *observe.UseCase
	StatusUC     *status.UseCase
	ReplayUC     replay.UseCase
	Metrics      metricsSnapshotProvider
	RunID        string
	APIKey       string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api/v1")
	api.POST("/player/move", h.playerMove)
	api.POST("/agents", h.spawnAgent)
	api.DELETE("/agents/:id", h.removeAgent)
	api.GET("/agents", h.viewport)
	api.GET("/status", h.status)
	api.GET("/replay", h.replay)

	s.GET("/healthz", h.healthz)
	s.GET("/metricsz", h.metricsz)
}

type moveRequest struct {
	RequestID string     `json:"request_id"`
	Direction string     `json:"direction,omitempty"`
	Target    *grid.Cell `json:"target,omitempty"`
}

type spawnRequest struct {
	Species   string `json:"species"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	HomeDenID string `json:"home_den_id,omitempty"`
}

func (h Handler) playerMove(c context.Context, ctx *app.RequestContext) {
	if err := h.requireAPIKey(ctx); err != nil {
		writeError(ctx, err)
		return
	}

	var body moveRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.TurnUC.Execute(c, turn.Request{
		RunID:     h.RunID,
		RequestID: body.RequestID,
		Direction: grid.Direction(body.Direction),
		Target:    body.Target,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) spawnAgent(c context.Context, ctx *app.RequestContext) {
	if err := h.requireAPIKey(ctx); err != nil {
		writeError(ctx, err)
		return
	}

	var body spawnRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.PopulationUC.Spawn(c, population.SpawnRequest{
		RunID:     h.RunID,
		Species:   body.Species,
		X:         body.X,
		Y:         body.Y,
		HomeDenID: body.HomeDenID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) removeAgent(c context.Context, ctx *app.RequestContext) {
	if err := h.requireAPIKey(ctx); err != nil {
		writeError(ctx, err)
		return
	}

	resp, err := h.PopulationUC.Remove(c, population.RemoveRequest{
		RunID:   h.RunID,
		AgentID: strings.TrimSpace(string(ctx.Param("id"))),
		Reason:  string(ctx.Query("reason")),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) viewport(c context.Context, ctx *app.RequestContext) {
	req, err := parseRectQuery(ctx)
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	resp, err := h.ObserveUC.Execute(c, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Execute(c, status.Request{RunID: h.RunID})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	turnFrom, _ := strconv.ParseUint(string(ctx.Query("turn_from")), 10, 64)
	turnTo, _ := strconv.ParseUint(string(ctx.Query("turn_to")), 10, 64)

	resp, err := h.ReplayUC.Execute(c, replay.Request{
		RunID:    h.RunID,
		Limit:    limit,
		TurnFrom: turnFrom,
		TurnTo:   turnTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) healthz(_ context.Context, ctx *app.RequestContext) {
	body := map[string]any{"status": "ok"}
	if h.TurnUC != nil {
		turnNo, running := h.TurnUC.Snapshot()
		body["turn"] = turnNo
		body["running"] = running
	}
	ctx.JSON(consts.StatusOK, body)
}

type metricsSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) metricsz(_ context.Context, ctx *app.RequestContext) {
	if h.Metrics == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "metrics recorder not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.Metrics.SnapshotAny())
}

func parseRectQuery(ctx *app.RequestContext) (observe.Request, error) {
	var req observe.Request
	fields := []struct {
		name string
		dst  *int
	}{
		{"min_x", &req.MinX},
		{"min_y", &req.MinY},
		{"max_x", &req.MaxX},
		{"max_y", &req.MaxY},
	}
	for _, f := range fields {
		raw := string(ctx.Query(f.name))
		if raw == "" {
			return observe.Request{}, fmt.Errorf("missing query param %s", f.name)
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return observe.Request{}, fmt.Errorf("bad query param %s", f.name)
		}
		*f.dst = v
	}
	return req, nil
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingAPIKey = errors.New("missing x-api-key header")
var ErrInvalidAPIKey = errors.New("invalid api key")

// requireAPIKey guards the mutating routes. An empty configured key
// disables the check for local runs.
func (h Handler) requireAPIKey(ctx *app.RequestContext) error {
	if h.APIKey == "" {
		return nil
	}
	key := strings.TrimSpace(string(ctx.GetHeader(apiKeyHeader)))
	if key == "" {
		return ErrMissingAPIKey
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.APIKey)) != 1 {
		return ErrInvalidAPIKey
	}
	return nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		writeErrorBody(ctx, consts.StatusUnauthorized, "missing_api_key", err.Error())
	case errors.Is(err, ErrInvalidAPIKey):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_api_key", err.Error())
	case errors.Is(err, turn.ErrBlockedMove):
		writeErrorBody(ctx, consts.StatusConflict, "move_blocked", err.Error())
	case errors.Is(err, ports.ErrInvalidSpawn):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_spawn", err.Error())
	case errors.Is(err, turn.ErrInvalidRequest),
		errors.Is(err, population.ErrInvalidRequest),
		errors.Is(err, observe.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
