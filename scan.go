package tether

import (
	"context"

	"github.com/rs/zerolog"
)

// SurfaceDetector is the external surface-detection session. Start begins
// detection and returns an ordered stream of updates; the stream must be
// closed when ctx is cancelled or Stop is called.
type SurfaceDetector interface {
	Start(ctx context.Context, align Alignment) (<-chan PlaneEvent, error)
	Stop()
}

// ScanSession owns the lifetime of the detector stream and feeds it into the
// plane manager. The stream is drained from Space.Update; nothing reads it
// after Disable, so a stale stream cannot resurrect discarded planes.
type ScanSession struct {
	base     context.Context // stream lifetime; cancelled when the space closes
	detector SurfaceDetector
	planes   *PlaneManager
	maxDrain int
	log      *zerolog.Logger
	emit     func(SpaceEvent)

	stream <-chan PlaneEvent
	cancel context.CancelFunc
	on     bool
}

func newScanSession(base context.Context, planes *PlaneManager, maxDrain int, log *zerolog.Logger, emit func(SpaceEvent)) *ScanSession {
	return &ScanSession{base: base, planes: planes, maxDrain: maxDrain, log: log, emit: emit}
}

// Enabled reports whether detection is running.
func (s *ScanSession) Enabled() bool {
	return s.on
}

// Enable starts horizontal surface detection. It is a no-op when already
// enabled. ctx only guards the request: the stream lives until Disable or
// until the space closes. A start failure leaves scanning disabled and
// returns a *SessionError.
func (s *ScanSession) Enable(ctx context.Context) error {
	if s.on {
		return nil
	}
	if s.detector == nil {
		return s.failed(ErrNoDetector)
	}
	if err := ctx.Err(); err != nil {
		return s.failed(err)
	}
	streamCtx, cancel := context.WithCancel(s.base)
	stream, err := s.detector.Start(streamCtx, AlignHorizontal)
	if err != nil {
		cancel()
		return s.failed(err)
	}
	s.stream = stream
	s.cancel = cancel
	s.on = true

	s.log.Info().Msg("surface detection started")
	s.emit(SpaceEvent{Type: EventScanStarted})
	return nil
}

func (s *ScanSession) failed(cause error) error {
	err := &SessionError{Err: cause}
	s.log.Error().Err(err).Msg("surface detection failed")
	s.emit(SpaceEvent{Type: EventScanFailed, Err: err})
	return err
}

// Disable stops detection and discards every plane immediately.
func (s *ScanSession) Disable() {
	if !s.on {
		return
	}
	s.on = false
	s.stream = nil
	s.cancel()
	s.cancel = nil
	s.detector.Stop()
	s.planes.Clear()
	s.log.Info().Msg("surface detection stopped")
	s.emit(SpaceEvent{Type: EventScanStopped})
}

// drain applies at most maxDrain pending updates without blocking. A closed
// stream ends the session.
func (s *ScanSession) drain() int {
	stream := s.stream
	if stream == nil {
		return 0
	}

	n := 0
	for n < s.maxDrain {
		select {
		case ev, ok := <-stream:
			if !ok {
				s.log.Warn().Msg("surface detection stream closed")
				s.Disable()
				return n
			}
			s.planes.OnPlaneEvent(ev)
			n++
		default:
			return n
		}
	}
	return n
}
