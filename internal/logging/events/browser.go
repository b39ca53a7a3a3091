package events

import "github.com/atomicstack/collectionview/internal/logging"

type FilterTracer struct{}

type BackendTracer struct{}

var (
	Filter  = FilterTracer{}
	Backend = BackendTracer{}
)

func (FilterTracer) Changed(query string, matches int) {
	logging.Trace("filter.changed", map[string]interface{}{"query": query, "matches": matches})
}

func (FilterTracer) Cleared() {
	logging.Trace("filter.clear", nil)
}

func (BackendTracer) Refresh(sessions, windows int) {
	logging.Trace("backend.refresh", map[string]interface{}{"sessions": sessions, "windows": windows})
}

func (BackendTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("backend.error", map[string]interface{}{"error": err.Error()})
}
