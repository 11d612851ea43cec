package session

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mgpai22/capstudio/internal/apperrors"
	"github.com/mgpai22/capstudio/internal/caption"
	"github.com/mgpai22/capstudio/internal/logging"
	"github.com/mgpai22/capstudio/internal/subtitle"
)

// one editing session: a loaded video and the captions authored for it
type Session struct {
	ID        string      `json:"id"`
	VideoURL  string      `json:"videoUrl"`
	Duration  float64     `json:"duration"`
	Captions  caption.Set `json:"captions"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (s *Session) snapshot() Session {
	out := *s
	out.Captions = append(caption.Set{}, s.Captions...)
	return out
}

// Store keeps sessions in memory. Nothing outlives the process.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	logger   *logging.Logger
	now      func() time.Time
	newID    func() string
}

func NewStore(logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{
		sessions: make(map[string]*Session),
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create opens a session for videoURL. duration may be 0 when the player
// has not reported it yet.
func (st *Store) Create(videoURL string, duration float64) (Session, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return Session{}, apperrors.New(apperrors.CodeInvalidParams, "Please enter a video URL")
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	s := &Session{
		ID:        st.newID(),
		VideoURL:  videoURL,
		Duration:  clampDuration(duration),
		Captions:  caption.Set{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	st.sessions[s.ID] = s

	st.logger.Infow("Session created",
		"session", s.ID,
		"video", s.VideoURL,
		"duration", s.Duration,
	)
	return s.snapshot(), nil
}

func (st *Store) Get(id string) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, err := st.lookup(id)
	if err != nil {
		return Session{}, err
	}
	return s.snapshot(), nil
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, err := st.lookup(id); err != nil {
		return err
	}
	delete(st.sessions, id)
	st.logger.Infow("Session deleted", "session", id)
	return nil
}

// LoadVideo swaps the session's video. Captions belong to the old video
// and are cleared.
func (st *Store) LoadVideo(id, videoURL string, duration float64) (Session, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return Session{}, apperrors.New(apperrors.CodeInvalidParams, "Please enter a video URL")
	}

	return st.mutate(id, func(s *Session) error {
		s.VideoURL = videoURL
		s.Duration = clampDuration(duration)
		s.Captions = caption.ClearAll(s.Captions)
		st.logger.Infow("Video loaded", "session", id, "video", videoURL)
		return nil
	})
}

// SetDuration records the duration reported by the player once metadata
// has loaded. Existing captions are kept even if they now exceed it.
func (st *Store) SetDuration(id string, duration float64) (Session, error) {
	return st.mutate(id, func(s *Session) error {
		s.Duration = clampDuration(duration)
		return nil
	})
}

func (st *Store) AddCaption(id string, c caption.Candidate) (Session, error) {
	return st.mutate(id, func(s *Session) error {
		next, err := caption.Add(s.Captions, c, s.Duration)
		if err != nil {
			st.logger.Debugw("Caption rejected", "session", id, "reason", err)
			return err
		}
		s.Captions = next
		st.logger.Debugw("Caption added", "session", id, "count", len(next))
		return nil
	})
}

func (st *Store) UpdateCaption(id, captionID string, c caption.Candidate) (Session, error) {
	return st.mutate(id, func(s *Session) error {
		next, err := caption.Update(s.Captions, captionID, c, s.Duration)
		if err != nil {
			st.logger.Debugw("Caption update rejected",
				"session", id,
				"caption", captionID,
				"reason", err,
			)
			return err
		}
		s.Captions = next
		return nil
	})
}

// NudgeCaption moves one edge of a caption by step seconds. A zero step
// uses caption.TimeStep.
func (st *Store) NudgeCaption(id, captionID string, edge caption.Edge, step float64) (Session, error) {
	if step == 0 {
		step = caption.TimeStep
	}
	return st.mutate(id, func(s *Session) error {
		next, err := caption.Nudge(s.Captions, captionID, edge, step, s.Duration)
		if err != nil {
			st.logger.Debugw("Caption nudge rejected",
				"session", id,
				"caption", captionID,
				"edge", edge,
				"reason", err,
			)
			return err
		}
		s.Captions = next
		return nil
	})
}

func (st *Store) DeleteCaption(id, captionID string) (Session, error) {
	return st.mutate(id, func(s *Session) error {
		s.Captions = caption.Delete(s.Captions, captionID)
		return nil
	})
}

func (st *Store) ClearCaptions(id string) (Session, error) {
	return st.mutate(id, func(s *Session) error {
		s.Captions = caption.ClearAll(s.Captions)
		return nil
	})
}

// LoadSample replaces the captions with the demonstration set.
func (st *Store) LoadSample(id string) (Session, error) {
	return st.mutate(id, func(s *Session) error {
		if s.VideoURL == "" {
			return apperrors.ErrNoVideo
		}
		s.Captions = caption.Sample()
		return nil
	})
}

// Active returns the caption displayed at position, if any.
func (st *Store) Active(id string, position float64) (caption.Caption, bool, error) {
	s, err := st.Get(id)
	if err != nil {
		return caption.Caption{}, false, err
	}
	c, ok := caption.Active(s.Captions, position)
	return c, ok, nil
}

// Export renders the session's captions. An empty set is refused so the
// user never downloads a blank file.
func (st *Store) Export(id string, format subtitle.Format) (string, error) {
	s, err := st.Get(id)
	if err != nil {
		return "", err
	}
	if len(s.Captions) == 0 {
		return "", apperrors.ErrNoCaptions
	}

	out, err := subtitle.Render(format, s.Captions)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeUnsupportedFmt, "Unsupported subtitle format", err)
	}

	st.logger.Infow("Captions exported",
		"session", id,
		"format", format,
		"captions", len(s.Captions),
	)
	return out, nil
}

// mutate runs fn on the live session under the lock. fn must leave the
// session untouched when it returns an error.
func (st *Store) mutate(id string, fn func(*Session) error) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, err := st.lookup(id)
	if err != nil {
		return Session{}, err
	}
	if err := fn(s); err != nil {
		return s.snapshot(), err
	}
	s.UpdatedAt = st.now()
	return s.snapshot(), nil
}

func (st *Store) lookup(id string) (*Session, error) {
	s, ok := st.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return s, nil
}

func clampDuration(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0
	}
	return d
}
