package sim

import "strings"

// dispatcher is Simulation's own tick/end listener registry: a typename
// is either bare ("tick") or namespaced ("tick.render"), and registering
// under a namespaced typename replaces only that namespace's listener,
// leaving others on the same bare event untouched. This is the
// on(typenames, listener) contract, kept separate from the
// broadcast-to-many-clients concern internal/dispatch (the WebSocket hub)
// owns instead.
type dispatcher struct {
	listeners map[EventKind]map[string]func(*Simulation)
}

func newDispatcher() *dispatcher {
	return &dispatcher{listeners: make(map[EventKind]map[string]func(*Simulation))}
}

func (d *dispatcher) on(typenames string, listener func(*Simulation)) {
	for _, t := range strings.Fields(strings.ReplaceAll(typenames, ",", " ")) {
		kind, ns := splitTypename(t)
		if _, ok := d.listeners[kind]; !ok {
			d.listeners[kind] = make(map[string]func(*Simulation))
		}
		if listener == nil {
			delete(d.listeners[kind], ns)
			continue
		}
		d.listeners[kind][ns] = listener
	}
}

func (d *dispatcher) call(kind EventKind, s *Simulation) {
	for _, listener := range d.listeners[kind] {
		listener(s)
	}
}

func splitTypename(t string) (kind EventKind, namespace string) {
	if i := strings.IndexByte(t, '.'); i >= 0 {
		return EventKind(t[:i]), t[i+1:]
	}
	return EventKind(t), ""
}
