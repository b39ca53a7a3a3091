package events

import "github.com/atomicstack/collectionview/internal/logging"

type CollectionTracer struct{}

type RelayTracer struct{}

var (
	Collection = CollectionTracer{}
	Relay      = RelayTracer{}
)

func (CollectionTracer) Background(changed bool) {
	if !changed {
		return
	}
	logging.Trace("collection.background", nil)
}

func (CollectionTracer) Apply(summary string, animated bool) {
	logging.Trace("collection.apply", map[string]interface{}{"changes": summary, "animated": animated})
}

func (CollectionTracer) Reconcile(deselected, selected, stale int) {
	logging.Trace("collection.reconcile", map[string]interface{}{
		"deselected": deselected,
		"selected":   selected,
		"stale":      stale,
	})
}

func (CollectionTracer) Dismantle() {
	logging.Trace("collection.dismantle", nil)
}

func (RelayTracer) Select(path string, resolved bool) {
	logging.Trace("relay.select", map[string]interface{}{"path": path, "resolved": resolved})
}

func (RelayTracer) Deselect(path string, resolved bool) {
	logging.Trace("relay.deselect", map[string]interface{}{"path": path, "resolved": resolved})
}
