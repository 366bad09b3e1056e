package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages a browser renders before it is
// replaced by a fresh one.
const DefaultMaxPages = 75

// browser owns a headless Chrome process. The process is launched on first
// use and relaunched after maxPages pages, since Chrome's memory baseline
// keeps growing even when every page is closed.
type browser struct {
	maxPages int

	mu       sync.Mutex
	current  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	closed   bool
}

// acquire returns the browser to open the next page in, launching or
// relaunching it as needed. Each call counts as one page.
func (b *browser) acquire() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("browser closed")
	}

	if b.current != nil && b.pages >= b.maxPages {
		// A failed relaunch keeps the old process.
		if err := b.relaunch(); err == nil {
			b.pages = 0
		}
	}
	if b.current == nil {
		if err := b.launch(); err != nil {
			return nil, err
		}
	}

	b.pages++
	return b.current, nil
}

// close shuts the browser down. Later calls to acquire fail.
func (b *browser) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	return b.shutdown(b.current, b.launcher)
}

// launch starts Chrome with flags that keep background pages responsive.
// Must be called with mu held.
func (b *browser) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	r := rod.New().ControlURL(u)
	if err := r.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	b.current, b.launcher = r, l
	return nil
}

// relaunch replaces the running browser. Must be called with mu held.
func (b *browser) relaunch() error {
	old, oldLauncher := b.current, b.launcher
	if err := b.launch(); err != nil {
		return err
	}
	return b.shutdown(old, oldLauncher)
}

func (b *browser) shutdown(r *rod.Browser, l *launcher.Launcher) error {
	var err error
	if r != nil {
		err = r.Close()
	}
	if l != nil {
		l.Kill()
	}
	if r == b.current {
		b.current, b.launcher = nil, nil
	}
	return err
}
