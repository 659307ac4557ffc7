package status

import (
	"fmt"
	"sync"
	"time"

	"github.com/anonto42/status-engine/internal/models"
)

// PlaybackState is the single authoritative state of a viewing session
type PlaybackState string

const (
	StateIdle      PlaybackState = "idle"
	StatePlaying   PlaybackState = "playing"
	StatePaused    PlaybackState = "paused"
	StateCompleted PlaybackState = "completed"
)

// DefaultUnitDuration is how long one content unit stays on screen before
// auto-advancing.
const DefaultUnitDuration = 5 * time.Second

// PlaybackSnapshot is what a rendering layer needs to draw the session
type PlaybackSnapshot struct {
	State        PlaybackState `json:"state"`
	StoryIndex   int           `json:"story_index"`
	ContentIndex int           `json:"content_index"`
	Progress     float64       `json:"progress"`
	OwnerID      string        `json:"owner_id,omitempty"`
	ContentID    string        `json:"content_id,omitempty"`
}

// PlaybackController walks an ordered snapshot of stories for one viewer,
// driving a progress clock and recording views as units come on screen. It
// holds indices into its snapshot only; the StoryStore keeps ownership of all
// story state. A snapshot taken before content expired is allowed to finish
// displaying it; a fresh listing is only consulted on the next Open.
type PlaybackController struct {
	mu           sync.Mutex
	tracker      *ViewerTracker
	unitDuration time.Duration

	state        PlaybackState
	viewerID     string
	stories      []models.Story
	storyIndex   int
	contentIndex int
	progress     float64

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewPlaybackController creates an idle controller. A non-positive
// unitDuration falls back to the default.
func NewPlaybackController(tracker *ViewerTracker, unitDuration time.Duration) *PlaybackController {
	if unitDuration <= 0 {
		unitDuration = DefaultUnitDuration
	}
	return &PlaybackController{
		tracker:      tracker,
		unitDuration: unitDuration,
		state:        StateIdle,
	}
}

// Open starts a session over an ordered story snapshot at the given position
// and records the view for the unit now on screen. Only an idle controller
// can be opened.
func (c *PlaybackController) Open(viewerID string, stories []models.Story, startStory, startContent int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return fmt.Errorf("%w: playback session is already open", ErrValidation)
	}
	if len(stories) == 0 {
		return fmt.Errorf("%w: nothing to play", ErrValidation)
	}
	if startStory < 0 || startStory >= len(stories) {
		return fmt.Errorf("%w: story index %d out of range", ErrValidation, startStory)
	}
	if startContent < 0 || startContent >= len(stories[startStory].Items) {
		return fmt.Errorf("%w: content index %d out of range", ErrValidation, startContent)
	}
	for i := range stories {
		if len(stories[i].Items) == 0 {
			return fmt.Errorf("%w: story %d has no content", ErrValidation, i)
		}
	}

	c.viewerID = viewerID
	c.stories = stories
	c.storyIndex = startStory
	c.contentIndex = startContent
	c.progress = 0
	c.state = StatePlaying
	c.recordCurrentLocked()
	return nil
}

// Tick advances the progress clock by an elapsed wall-clock delta. It only
// acts while playing; paused, idle, and completed sessions ignore ticks.
func (c *PlaybackController) Tick(elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePlaying || elapsed <= 0 {
		return
	}
	c.progress += float64(elapsed) / float64(c.unitDuration) * 100
	if c.progress >= 100 {
		c.advanceLocked()
	}
}

// Advance moves to the next unit, the next story, or the terminal completed
// state. Running off the end is a normal transition, never an error.
func (c *PlaybackController) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePlaying && c.state != StatePaused {
		return
	}
	c.advanceLocked()
}

// NavigateNext is the manual skip forward; allowed while playing or paused
func (c *PlaybackController) NavigateNext() {
	c.Advance()
}

// NavigatePrevious steps back one unit, crossing story boundaries to the
// previous story's last unit. At the very first unit it is a no-op.
func (c *PlaybackController) NavigatePrevious() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePlaying && c.state != StatePaused {
		return
	}
	switch {
	case c.contentIndex > 0:
		c.contentIndex--
	case c.storyIndex > 0:
		c.storyIndex--
		c.contentIndex = len(c.stories[c.storyIndex].Items) - 1
	default:
		return
	}
	c.progress = 0
	c.recordCurrentLocked()
}

// Pause freezes the progress clock; re-entrant pause is a no-op
func (c *PlaybackController) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StatePlaying {
		c.state = StatePaused
	}
}

// Resume continues from the frozen progress. Wall-clock time spent paused is
// never added back.
func (c *PlaybackController) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StatePaused {
		c.state = StatePlaying
	}
}

// Close returns the controller to idle from any state and synchronously
// stops the auto-play clock: no view or progress update happens after Close
// returns.
func (c *PlaybackController) Close() {
	c.mu.Lock()
	c.state = StateIdle
	c.stories = nil
	c.viewerID = ""
	c.storyIndex = 0
	c.contentIndex = 0
	c.progress = 0
	stop := c.stop
	c.stop = nil
	c.mu.Unlock()

	if stop != nil {
		close(stop)
		c.wg.Wait()
	}
}

// StartAutoPlay drives Tick on a fixed interval until Close. At most one
// clock runs per controller; a second call while one is running is a no-op.
func (c *PlaybackController) StartAutoPlay(interval time.Duration) {
	if interval <= 0 {
		return
	}
	c.mu.Lock()
	if c.stop != nil {
		c.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	c.stop = stop
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.Tick(interval)
			}
		}
	}()
}

// Snapshot reports the current state for rendering
func (c *PlaybackController) Snapshot() PlaybackSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := PlaybackSnapshot{
		State:        c.state,
		StoryIndex:   c.storyIndex,
		ContentIndex: c.contentIndex,
		Progress:     c.progress,
	}
	if c.state == StatePlaying || c.state == StatePaused {
		story := c.stories[c.storyIndex]
		snapshot.OwnerID = story.OwnerID
		snapshot.ContentID = story.Items[c.contentIndex].ID
	}
	return snapshot
}

func (c *PlaybackController) advanceLocked() {
	switch {
	case c.contentIndex+1 < len(c.stories[c.storyIndex].Items):
		c.contentIndex++
	case c.storyIndex+1 < len(c.stories):
		c.storyIndex++
		c.contentIndex = 0
	default:
		c.state = StateCompleted
		c.progress = 100
		return
	}
	c.progress = 0
	c.recordCurrentLocked()
}

func (c *PlaybackController) recordCurrentLocked() {
	unit := c.stories[c.storyIndex].Items[c.contentIndex]
	c.tracker.RecordView(unit.ID, c.viewerID)
}
