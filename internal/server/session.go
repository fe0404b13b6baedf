package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	serrors "github.com/matzehuels/swipestack/pkg/errors"
	"github.com/matzehuels/swipestack/pkg/stack"
	"github.com/matzehuels/swipestack/pkg/swipe"
)

// session is one live card stack. All controller access goes through
// the driver.
type session struct {
	id      uuid.UUID
	created time.Time
	driver  *swipe.Driver
	params  stack.Params
	labels  []string
	width   float64
	height  float64

	// swipes is only written from OnSwipe, which runs under the driver lock.
	swipes int
}

// store holds sessions keyed by id.
type store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
	max      int
}

func newStore(max int) *store {
	return &store{sessions: make(map[uuid.UUID]*session), max: max}
}

// create builds a controller from cfg and starts its driver on ctx.
func (s *store) create(ctx context.Context, cfg swipe.Config, params stack.Params, labels []string, interval time.Duration) (*session, error) {
	sess := &session{
		id:      uuid.New(),
		created: time.Now(),
		params:  params,
		labels:  labels,
		width:   cfg.ItemWidth,
		height:  cfg.ItemHeight,
	}
	cfg.OnSwipe = func(int) { sess.swipes++ }

	ctrl, err := swipe.New(cfg)
	if err != nil {
		return nil, err
	}
	sess.driver = swipe.NewDriver(ctrl, interval)

	s.mu.Lock()
	if s.max > 0 && len(s.sessions) >= s.max {
		s.mu.Unlock()
		return nil, serrors.New(serrors.ErrCodeInvalidInput, "session limit %d reached", s.max)
	}
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	sess.driver.Start(ctx)
	return sess, nil
}

func (s *store) get(raw string) (*session, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, serrors.New(serrors.ErrCodeInvalidInput, "invalid session id %q", raw)
	}
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, serrors.New(serrors.ErrCodeNotFound, "session %s not found", id)
	}
	return sess, nil
}

func (s *store) delete(raw string) error {
	sess, err := s.get(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	sess.driver.Stop()
	return nil
}

func (s *store) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// close stops every driver and empties the store.
func (s *store) close() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[uuid.UUID]*session)
	s.mu.Unlock()
	for _, sess := range all {
		sess.driver.Stop()
	}
}

// view is a consistent read of a session's controller.
type view struct {
	State      string    `json:"state"`
	Top        int       `json:"top"`
	Offset     float64   `json:"offset"`
	Progress   float64   `json:"progress"`
	Order      []int     `json:"order"`
	Generation uint64    `json:"generation"`
	Swipes     int       `json:"swipes"`
	Created    time.Time `json:"created"`
}

func (sess *session) view() view {
	var v view
	sess.driver.Do(func(c *swipe.Controller) {
		v = view{
			State:      c.State().String(),
			Top:        c.Top(),
			Offset:     c.Offset(),
			Progress:   c.Progress(),
			Order:      c.Order(),
			Generation: c.Generation(),
			Swipes:     sess.swipes,
			Created:    sess.created,
		}
	})
	return v
}

func (sess *session) layers() ([]stack.Layer[string], error) {
	var (
		layers []stack.Layer[string]
		err    error
	)
	content := stack.SliceContent(sess.labels)
	sess.driver.Do(func(c *swipe.Controller) {
		layers, err = stack.Render(c, sess.params, content)
	})
	return layers, err
}

func (sess *session) placements() []stack.Placement {
	var out []stack.Placement
	sess.driver.Do(func(c *swipe.Controller) {
		out = stack.Frame(c, sess.params)
	})
	return out
}
