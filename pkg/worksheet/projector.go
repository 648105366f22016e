package worksheet

import (
	"errors"
	"sync"

	"github.com/overtrack/overtrack/internal/event_bus"
	"github.com/overtrack/overtrack/internal/utils"
	"github.com/overtrack/overtrack/pkg/tracker"
	log "github.com/sirupsen/logrus"
)

var ErrNotReady = errors.New("worksheet has not received any state yet")

// Projector keeps the latest tracker state it was told about and renders worksheets
// from it. It must subscribe before the tracker service is created to see the load.
type Projector struct {
	mu          sync.RWMutex
	state       *tracker.State
	clock       utils.Clock
	unsubscribe func()
}

func NewProjector(eventBus *event_bus.EventBus, clock utils.Clock) *Projector {
	p := &Projector{clock: clock}
	p.unsubscribe = event_bus.SubscribeTyped(eventBus, event_bus.StateChanged, p.onStateChanged)
	return p
}

func (p *Projector) onStateChanged(e event_bus.EventT[tracker.StateChanged]) error {
	if e.Data.State == nil {
		return errors.New("state change without state")
	}
	p.mu.Lock()
	p.state = e.Data.State
	p.mu.Unlock()
	log.Debugf("Worksheet refreshed after %s", e.Data.Operation)
	return nil
}

func (p *Projector) Worksheet() (Worksheet, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state == nil {
		return Worksheet{}, ErrNotReady
	}
	return Build(p.state, utils.Today(p.clock)), nil
}

// WorksheetAt renders the week offset weeks away from today without moving the active week.
func (p *Projector) WorksheetAt(offset int) (Worksheet, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state == nil {
		return Worksheet{}, ErrNotReady
	}
	return BuildAt(p.state, utils.Today(p.clock), offset), nil
}

func (p *Projector) Close() {
	p.unsubscribe()
}
