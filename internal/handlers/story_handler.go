package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/anonto42/status-engine/internal/middleware"
	"github.com/anonto42/status-engine/internal/models"
	"github.com/anonto42/status-engine/internal/repositories"
	"github.com/anonto42/status-engine/internal/status"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// StoryHandler exposes the status engine over HTTP. Persistence mirrors are
// best effort: the engine is authoritative and mirror failures are only
// logged.
type StoryHandler struct {
	store     *status.StoryStore
	replies   *status.ReplyChannel
	storyRepo repositories.StoryRepository
	viewRepo  repositories.ViewRepository
	log       zerolog.Logger
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(store *status.StoryStore, replies *status.ReplyChannel, storyRepo repositories.StoryRepository, viewRepo repositories.ViewRepository, log zerolog.Logger) *StoryHandler {
	return &StoryHandler{
		store:     store,
		replies:   replies,
		storyRepo: storyRepo,
		viewRepo:  viewRepo,
		log:       log,
	}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories", h.ListStories)
	g.GET("/stories/:owner_id", h.GetStory)
	g.POST("/stories", h.CreateContent)
	g.DELETE("/stories/content/:content_id", h.DeleteContent)
	g.POST("/stories/content/:content_id/seen", h.MarkSeen)
	g.GET("/stories/content/:content_id/viewers", h.ListViewers)
	g.POST("/stories/content/:content_id/replies", h.AddReply)
	g.GET("/stories/replies", h.ListReplies)
	g.PUT("/stories/audience", h.SetAudience)
	g.POST("/stories/:owner_id/mute", h.SetMuted)
}

// ListStories returns every story visible to the caller, own story first
func (h *StoryHandler) ListStories(c echo.Context) error {
	viewerID := currentUserID(c)

	stories := h.store.ListVisible(viewerID, time.Now())

	var currentUserStory *models.Story
	otherStories := make([]models.Story, 0, len(stories))
	for i, s := range stories {
		if s.OwnerID == viewerID {
			currentUserStory = &stories[i]
			continue
		}
		otherStories = append(otherStories, s)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"stories":          otherStories,
			"currentUserStory": currentUserStory,
		},
	})
}

// GetStory returns a single owner's story on demand
func (h *StoryHandler) GetStory(c echo.Context) error {
	viewerID := currentUserID(c)
	ownerID := c.Param("owner_id")

	story, err := h.store.GetStory(ownerID, viewerID, time.Now())
	if err != nil {
		return engineError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"story": story}})
}

// CreateContent appends a content unit to the caller's story
func (h *StoryHandler) CreateContent(c echo.Context) error {
	ownerID := currentUserID(c)

	var req models.CreateContentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	unit, err := h.store.AppendContent(ownerID, req.Payload(), time.Now())
	if err != nil {
		return engineError(err)
	}
	h.mirrorStory(c, ownerID)

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"content": unit}})
}

// DeleteContent removes one of the caller's own content units
func (h *StoryHandler) DeleteContent(c echo.Context) error {
	requesterID := currentUserID(c)
	contentID := c.Param("content_id")

	if err := h.store.DeleteContent(contentID, requesterID); err != nil {
		return engineError(err)
	}
	if err := h.storyRepo.RemoveContent(c.Request().Context(), requesterID, contentID); err != nil {
		h.log.Warn().Err(err).Str("content_id", contentID).Msg("story mirror: remove content failed")
	}
	if _, err := h.store.GetStory(requesterID, requesterID, time.Now()); errors.Is(err, status.ErrNotFound) {
		if err := h.storyRepo.RemoveStory(c.Request().Context(), requesterID); err != nil {
			h.log.Warn().Err(err).Str("owner_id", requesterID).Msg("story mirror: remove story failed")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": contentID}})
}

// MarkSeen records the caller as a viewer of one content unit
func (h *StoryHandler) MarkSeen(c echo.Context) error {
	viewerID := currentUserID(c)
	contentID := c.Param("content_id")

	if err := h.store.RecordView(contentID, viewerID); err != nil {
		return engineError(err)
	}
	view := &models.ContentView{ContentID: contentID, ViewerID: viewerID}
	if err := h.viewRepo.MarkSeen(view); err != nil {
		h.log.Warn().Err(err).Str("content_id", contentID).Msg("view mirror: mark seen failed")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"seen": true}})
}

// ListViewers returns who viewed one of the caller's content units
func (h *StoryHandler) ListViewers(c echo.Context) error {
	requesterID := currentUserID(c)
	contentID := c.Param("content_id")

	ownerID, err := h.store.OwnerOf(contentID)
	if err != nil {
		return engineError(err)
	}
	if ownerID != requesterID {
		return echo.NewHTTPError(http.StatusForbidden, "Viewers are visible to the story owner only")
	}

	viewers := h.store.Tracker().ViewersOf(contentID)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"viewers": viewers}})
}

// AddReply records a private reply to one content unit
func (h *StoryHandler) AddReply(c echo.Context) error {
	authorID := currentUserID(c)
	contentID := c.Param("content_id")

	var req models.AddReplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reply, err := h.replies.AddReply(req.OwnerID, contentID, authorID, req.Text, time.Now())
	if err != nil {
		return engineError(err)
	}
	record := &models.ReplyRecord{
		ReplyID:   reply.ID,
		OwnerID:   req.OwnerID,
		ContentID: contentID,
		AuthorID:  authorID,
		Text:      reply.Text,
	}
	if err := h.viewRepo.AddReply(record); err != nil {
		h.log.Warn().Err(err).Str("reply_id", reply.ID).Msg("reply mirror: add failed")
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"reply": reply}})
}

// ListReplies returns every reply on the caller's own story
func (h *StoryHandler) ListReplies(c echo.Context) error {
	ownerID := currentUserID(c)

	replies, err := h.replies.RepliesFor(ownerID, ownerID)
	if err != nil {
		return engineError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"replies": replies}})
}

// SetAudience replaces the caller's audience policy
func (h *StoryHandler) SetAudience(c echo.Context) error {
	ownerID := currentUserID(c)

	var req models.SetAudienceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	policy := models.AudiencePolicy{Mode: req.Mode, UserIDs: req.UserIDs}
	h.store.Privacy().SetPolicy(ownerID, policy)
	h.mirrorStory(c, ownerID)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"audience": policy}})
}

// SetMuted flips the caller's mute flag on another owner's story
func (h *StoryHandler) SetMuted(c echo.Context) error {
	viewerID := currentUserID(c)
	ownerID := c.Param("owner_id")

	var req models.MuteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.store.SetMuted(ownerID, viewerID, req.Muted); err != nil {
		return engineError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"muted": req.Muted}})
}

// mirrorStory pushes the owner's current engine state into the mongo mirror
func (h *StoryHandler) mirrorStory(c echo.Context, ownerID string) {
	story, err := h.store.GetStory(ownerID, ownerID, time.Now())
	if err != nil {
		return
	}
	if err := h.storyRepo.SaveStory(c.Request().Context(), story); err != nil {
		h.log.Warn().Err(err).Str("owner_id", ownerID).Msg("story mirror: save failed")
	}
}

// currentUserID reads the authenticated user id placed by the JWT middleware
func currentUserID(c echo.Context) string {
	userID, _ := c.Get(middleware.UserIDKey).(string)
	return userID
}

// engineError maps the engine's sentinel errors onto HTTP status codes
func engineError(err error) error {
	switch {
	case errors.Is(err, status.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, status.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, status.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
