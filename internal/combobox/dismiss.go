package combobox

import tea "github.com/charmbracelet/bubbletea"

// PointerSource delivers terminal mouse events to subscribers.
// Subscribe returns the function that removes the subscription.
type PointerSource interface {
	Subscribe(handler func(tea.MouseMsg)) (unsubscribe func())
}

// DismissalWatcher closes the list when the pointer goes down outside the
// input and the dropdown. It only holds a subscription while active.
type DismissalWatcher struct {
	source      PointerSource
	regions     func() []Region
	onClose     func()
	unsubscribe func()
}

// NewDismissalWatcher creates an inactive watcher. regions returns the
// areas that count as "inside"; a nil source disables the watcher.
func NewDismissalWatcher(source PointerSource, regions func() []Region, onClose func()) *DismissalWatcher {
	return &DismissalWatcher{
		source:  source,
		regions: regions,
		onClose: onClose,
	}
}

// Attached reports whether the watcher currently holds a subscription
func (w *DismissalWatcher) Attached() bool {
	return w.unsubscribe != nil
}

// SetActive attaches or detaches the pointer subscription
func (w *DismissalWatcher) SetActive(active bool) {
	if w.source == nil {
		return
	}
	switch {
	case active && w.unsubscribe == nil:
		w.unsubscribe = w.source.Subscribe(w.handle)
	case !active && w.unsubscribe != nil:
		unsubscribe := w.unsubscribe
		w.unsubscribe = nil
		unsubscribe()
	}
}

// Close detaches the watcher for good
func (w *DismissalWatcher) Close() {
	w.SetActive(false)
}

func (w *DismissalWatcher) handle(msg tea.MouseMsg) {
	if w.unsubscribe == nil || !isPointerDown(msg) {
		return
	}
	if w.regions != nil {
		for _, r := range w.regions() {
			if r.Contains(msg.X, msg.Y) {
				return
			}
		}
	}
	if w.onClose != nil {
		w.onClose()
	}
}

func isPointerDown(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress && !tea.MouseEvent(msg).IsWheel()
}
