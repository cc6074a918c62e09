package protocol

import (
	"fmt"
	"sync"
	"time"

	"github.com/Leixb/yeelight/common"
	"github.com/Leixb/yeelight/protocol/packet"
)

type result struct {
	values []string
	err    error
}

// Session owns one Transport exclusively and correlates commands with their
// responses by id.  Several callers may issue commands concurrently; each
// blocks only on its own request.  Unsolicited notifications are fanned out
// to subscriptions, independent of in-flight requests.
type Session struct {
	mu            sync.Mutex
	transport     *Transport
	timeout       time.Duration
	nextID        uint64
	pending       map[uint64]chan result
	subscriptions map[string]*common.Subscription
	awaitReply    bool
	closed        bool
}

// NewSession wraps the transport in a session and starts its dispatch loop
func NewSession(t *Transport) *Session {
	s := &Session{
		transport:     t,
		timeout:       common.DefaultTimeout,
		pending:       make(map[uint64]chan result),
		subscriptions: make(map[string]*common.Subscription),
		awaitReply:    true,
	}
	go s.dispatch(t)
	return s
}

// SetTimeout sets the per-request response timeout.  Zero disables the
// timeout entirely.
func (s *Session) SetTimeout(timeout time.Duration) {
	s.mu.Lock()
	s.timeout = timeout
	s.mu.Unlock()
}

// SetAwaitReply controls whether Send waits for responses.  When disabled,
// commands are written without registering a pending slot and Send returns
// a nil result immediately.  Intended for lossy links and music mode, where
// the bulb is not required to reply.
func (s *Session) SetAwaitReply(await bool) {
	s.mu.Lock()
	s.awaitReply = await
	s.mu.Unlock()
}

// Send issues one command and blocks until its response arrives, its
// timeout expires, or the connection dies.  Responses are matched by id, so
// concurrent senders may pipeline freely and replies may arrive in any
// order.  An error response from the bulb is returned as
// *common.DeviceError.
func (s *Session) Send(method string, params ...interface{}) ([]string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, common.ErrConnectionClosed
	}
	s.nextID++
	id := s.nextID
	t := s.transport
	timeout := s.timeout
	await := s.awaitReply

	var ch chan result
	if await {
		ch = make(chan result, 1)
		s.pending[id] = ch
	}
	s.mu.Unlock()

	req := packet.Request{ID: id, Method: method, Params: params}
	if err := t.Send(req.Encode()); err != nil {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		// A write failure is fatal for the session.  Closing the transport
		// lets the dispatch loop fail every other pending request.
		_ = t.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrConnectionClosed, err)
	}
	if !await {
		return nil, nil
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case res := <-ch:
		return res.values, res.err
	case <-expired:
		s.mu.Lock()
		if _, ok := s.pending[id]; ok {
			delete(s.pending, id)
			s.mu.Unlock()
			return nil, common.ErrTimeout
		}
		s.mu.Unlock()
		// Completed while the timer fired, the result is already buffered.
		res := <-ch
		return res.values, res.err
	}
}

// NewSubscription returns a new *common.Subscription delivering every
// notification from this point onward.  Multiple independent subscriptions
// may coexist; each sees arrival order.
func (s *Session) NewSubscription() (*common.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, common.ErrClosed
	}
	sub := common.NewSubscription(s)
	s.subscriptions[sub.ID()] = sub
	return sub, nil
}

// CloseSubscription is a callback for handling the closing of subscriptions.
func (s *Session) CloseSubscription(sub *common.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscriptions[sub.ID()]; !ok {
		return common.ErrNotFound
	}
	delete(s.subscriptions, sub.ID())
	return nil
}

// Promote replaces the session's transport with t, closing the previous
// one.  Pending ids and subscriptions carry over; subsequent commands use
// the new transport under the same correlation rules.
func (s *Session) Promote(t *Transport) {
	s.mu.Lock()
	old := s.transport
	s.transport = t
	s.mu.Unlock()

	go s.dispatch(t)
	if err := old.Close(); err != nil {
		common.Log.Warnf(`failed closing superseded transport: %v`, err)
	}
	common.Log.Infof(`session promoted to new transport %v`, t.RemoteAddr())
}

// Close terminates the session.  Every pending request fails with
// common.ErrConnectionClosed and all subscriptions end.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return common.ErrClosed
	}
	t := s.transport
	s.mu.Unlock()
	return t.Close()
}

// dispatch is the background read task: it decodes every incoming frame on
// t and routes it, responses to the caller waiting on the matching id,
// notifications to the subscribers.  It ends when the transport's read path
// ends, at which point the session is torn down, unless the session has
// been promoted to a different transport in the meantime.
func (s *Session) dispatch(t *Transport) {
	for raw := range t.Frames() {
		frame, err := packet.Decode(raw)
		if err != nil {
			common.Log.Warnf(`skipping frame: %v`, err)
			continue
		}
		if frame.IsResponse() {
			s.complete(frame)
		} else {
			s.publish(frame.Notification())
		}
	}

	s.mu.Lock()
	if s.transport != t {
		// Superseded by promotion, the new transport has its own loop.
		s.mu.Unlock()
		return
	}
	s.closed = true
	pending := s.pending
	s.pending = make(map[uint64]chan result)
	subs := make([]*common.Subscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for id, ch := range pending {
		common.Log.Debugf(`failing pending request %d: connection closed`, id)
		ch <- result{err: common.ErrConnectionClosed}
	}
	for _, sub := range subs {
		if err := sub.Close(); err != nil && err != common.ErrClosed {
			common.Log.Warnf(`failed closing subscription %s: %v`, sub.ID(), err)
		}
	}
}

func (s *Session) complete(frame *packet.Frame) {
	s.mu.Lock()
	ch, ok := s.pending[frame.ID]
	if ok {
		delete(s.pending, frame.ID)
	}
	s.mu.Unlock()
	if !ok {
		// Duplicate, late, or unknown id.  Discarding keeps a buggy bulb
		// from corrupting other pending requests.
		common.Log.Debugf(`discarding response with no pending request (id=%d)`, frame.ID)
		return
	}
	if frame.Err != nil {
		ch <- result{err: &common.DeviceError{Code: frame.Err.Code, Message: frame.Err.Message}}
		return
	}
	ch <- result{values: frame.Result}
}

func (s *Session) publish(n *packet.Notification) {
	s.mu.Lock()
	subs := make([]*common.Subscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		if err := sub.Write(*n); err != nil && err != common.ErrClosed {
			common.Log.Warnf(`failed delivering notification to %s: %v`, sub.ID(), err)
		}
	}
}
