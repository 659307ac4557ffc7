package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/anonto42/status-engine/internal/models"
	"github.com/anonto42/status-engine/internal/status"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AutoPlayInterval is the cadence of the server-driven playback clock
const AutoPlayInterval = 250 * time.Millisecond

type playbackSession struct {
	viewerID   string
	controller *status.PlaybackController
}

// PlaybackHandler owns the live viewing sessions. Each session wraps one
// PlaybackController over a listing snapshot taken at open time; closing the
// session tears its clock down.
type PlaybackHandler struct {
	store *status.StoryStore
	log   zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*playbackSession
}

// NewPlaybackHandler creates a new PlaybackHandler
func NewPlaybackHandler(store *status.StoryStore, log zerolog.Logger) *PlaybackHandler {
	return &PlaybackHandler{
		store:    store,
		log:      log,
		sessions: make(map[string]*playbackSession),
	}
}

// RegisterPlaybackRoutes registers viewing session routes
func (h *PlaybackHandler) RegisterPlaybackRoutes(g *echo.Group) {
	g.POST("/playback", h.OpenSession)
	g.GET("/playback/:id", h.GetSnapshot)
	g.POST("/playback/:id/next", h.Next)
	g.POST("/playback/:id/previous", h.Previous)
	g.POST("/playback/:id/pause", h.Pause)
	g.POST("/playback/:id/resume", h.Resume)
	g.DELETE("/playback/:id", h.CloseSession)
}

// OpenSession snapshots the caller's visible stories and starts auto-play
func (h *PlaybackHandler) OpenSession(c echo.Context) error {
	viewerID := currentUserID(c)

	var req models.OpenPlaybackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	stories := h.store.ListVisible(viewerID, time.Now())
	controller := status.NewPlaybackController(h.store.Tracker(), status.DefaultUnitDuration)
	if err := controller.Open(viewerID, stories, req.StartStory, req.StartContent); err != nil {
		return engineError(err)
	}
	controller.StartAutoPlay(AutoPlayInterval)

	sessionID := uuid.NewString()
	h.mu.Lock()
	h.sessions[sessionID] = &playbackSession{viewerID: viewerID, controller: controller}
	h.mu.Unlock()
	h.log.Debug().Str("session_id", sessionID).Str("viewer_id", viewerID).Msg("playback session opened")

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data": echo.Map{
			"session_id": sessionID,
			"snapshot":   controller.Snapshot(),
		},
	})
}

// GetSnapshot reports the session's current state for rendering
func (h *PlaybackHandler) GetSnapshot(c echo.Context) error {
	session, err := h.sessionFor(c)
	if err != nil {
		return err
	}
	return h.snapshot(c, session)
}

// Next skips forward one unit
func (h *PlaybackHandler) Next(c echo.Context) error {
	session, err := h.sessionFor(c)
	if err != nil {
		return err
	}
	session.controller.NavigateNext()
	return h.snapshot(c, session)
}

// Previous steps back one unit
func (h *PlaybackHandler) Previous(c echo.Context) error {
	session, err := h.sessionFor(c)
	if err != nil {
		return err
	}
	session.controller.NavigatePrevious()
	return h.snapshot(c, session)
}

// Pause freezes the session's progress clock
func (h *PlaybackHandler) Pause(c echo.Context) error {
	session, err := h.sessionFor(c)
	if err != nil {
		return err
	}
	session.controller.Pause()
	return h.snapshot(c, session)
}

// Resume continues from the frozen progress
func (h *PlaybackHandler) Resume(c echo.Context) error {
	session, err := h.sessionFor(c)
	if err != nil {
		return err
	}
	session.controller.Resume()
	return h.snapshot(c, session)
}

// CloseSession stops the session clock and forgets the session
func (h *PlaybackHandler) CloseSession(c echo.Context) error {
	session, err := h.sessionFor(c)
	if err != nil {
		return err
	}

	sessionID := c.Param("id")
	h.mu.Lock()
	delete(h.sessions, sessionID)
	h.mu.Unlock()
	session.controller.Close()
	h.log.Debug().Str("session_id", sessionID).Msg("playback session closed")

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"closed": sessionID}})
}

// CloseAll tears down every live session; called on server shutdown
func (h *PlaybackHandler) CloseAll() {
	h.mu.Lock()
	sessions := make([]*playbackSession, 0, len(h.sessions))
	for _, session := range h.sessions {
		sessions = append(sessions, session)
	}
	h.sessions = make(map[string]*playbackSession)
	h.mu.Unlock()

	for _, session := range sessions {
		session.controller.Close()
	}
}

func (h *PlaybackHandler) sessionFor(c echo.Context) (*playbackSession, error) {
	sessionID := c.Param("id")
	h.mu.Lock()
	session, ok := h.sessions[sessionID]
	h.mu.Unlock()
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Playback session not found")
	}
	if session.viewerID != currentUserID(c) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Playback session belongs to another viewer")
	}
	return session, nil
}

func (h *PlaybackHandler) snapshot(c echo.Context, session *playbackSession) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"snapshot": session.controller.Snapshot()},
	})
}
