package gatt

import (
	"errors"
	"sync"
)

type notifier struct {
	char   *Characteristic
	donemu sync.RWMutex
	done   bool
}

func newNotifier(c *Characteristic) *notifier {
	return &notifier{char: c}
}

func (n *notifier) Write(data []byte) (int, error) {
	if n.Done() {
		return 0, errors.New("central stopped notifications")
	}
	if err := n.char.setValue(data); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (n *notifier) Done() bool {
	n.donemu.RLock()
	done := n.done
	n.donemu.RUnlock()
	return done
}

func (n *notifier) stop() {
	n.donemu.Lock()
	n.done = true
	n.donemu.Unlock()
}
