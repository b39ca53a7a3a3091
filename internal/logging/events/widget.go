package events

import "github.com/atomicstack/collectionview/internal/logging"

type WidgetTracer struct{}

type MenuTracer struct{}

var (
	Widget = WidgetTracer{}
	Menu   = MenuTracer{}
)

func (WidgetTracer) Apply(grid int64, summary string, animated bool) {
	logging.Trace("widget.apply", map[string]interface{}{"grid": grid, "changes": summary, "animated": animated})
}

func (WidgetTracer) Cursor(grid int64, path string) {
	logging.Trace("widget.cursor", map[string]interface{}{"grid": grid, "path": path})
}

func (WidgetTracer) Select(grid int64, path string, selected bool) {
	logging.Trace("widget.select", map[string]interface{}{"grid": grid, "path": path, "selected": selected})
}

func (WidgetTracer) Display(grid int64, appeared, ended int) {
	if appeared == 0 && ended == 0 {
		return
	}
	logging.Trace("widget.display", map[string]interface{}{"grid": grid, "appeared": appeared, "ended": ended})
}

func (WidgetTracer) Prefetch(grid int64, prefetch, cancel int) {
	if prefetch == 0 && cancel == 0 {
		return
	}
	logging.Trace("widget.prefetch", map[string]interface{}{"grid": grid, "prefetch": prefetch, "cancel": cancel})
}

func (MenuTracer) Open(grid int64, id string, paths int) {
	logging.Trace("menu.open", map[string]interface{}{"grid": grid, "menu": id, "paths": paths})
}

func (MenuTracer) Perform(grid int64, id, action string) {
	logging.Trace("menu.perform", map[string]interface{}{"grid": grid, "menu": id, "action": action})
}

func (MenuTracer) Close(grid int64, id string) {
	logging.Trace("menu.close", map[string]interface{}{"grid": grid, "menu": id})
}
