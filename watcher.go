package propframe

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

// FrameWatchConfig configures a FrameWatcher.
type FrameWatchConfig struct {
	// Params locates and filters the frame documents to watch.
	Params FrameDirParams

	// RescanSchedule is an optional cron spec (e.g. "@every 1m") for
	// periodic full rescans, covering filesystems where change
	// notifications are unreliable. Empty disables the rescan.
	RescanSchedule string

	// Logger receives reload diagnostics. Optional.
	Logger Logger

	// Subject receives a frames.reloaded CloudEvent per successful
	// reload. Optional.
	Subject Subject

	// OnReload is called with the new frame set after each successful
	// reload. Optional. Called from the watcher goroutine.
	OnReload func(frames map[string]*Frame)
}

// FrameWatcher keeps a directory of frame documents loaded, rebuilding
// the frame set when files change. A failed reload keeps the last
// good frame set. Frame chains handed out by Frames remain valid
// immutable snapshots across reloads; only the set itself is swapped.
type FrameWatcher struct {
	cfg      FrameWatchConfig
	watcher  *fsnotify.Watcher
	cron     *cron.Cron
	mu       sync.RWMutex
	frames   map[string]*Frame
	started  bool
	done     chan struct{}
	stopOnce sync.Once
}

// NewFrameWatcher performs the initial load and returns a watcher
// ready to Start. The initial load must succeed; there is no last
// good frame set to fall back to yet.
func NewFrameWatcher(cfg FrameWatchConfig) (*FrameWatcher, error) {
	frames, err := LoadFrames(cfg.Logger, cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("initial frame load failed: %w", err)
	}

	return &FrameWatcher{
		cfg:    cfg,
		frames: frames,
		done:   make(chan struct{}),
	}, nil
}

// Frames returns a snapshot of the current frame set keyed by name.
func (fw *FrameWatcher) Frames() map[string]*Frame {
	fw.mu.RLock()
	defer fw.mu.RUnlock()

	snapshot := make(map[string]*Frame, len(fw.frames))
	for name, frame := range fw.frames {
		snapshot[name] = frame
	}
	return snapshot
}

// Frame returns the named frame from the current set.
func (fw *FrameWatcher) Frame(name string) (*Frame, bool) {
	fw.mu.RLock()
	defer fw.mu.RUnlock()

	frame, ok := fw.frames[name]
	return frame, ok
}

// Start begins watching the frame directory. The watch loop runs
// until Stop is called or the context is cancelled.
func (fw *FrameWatcher) Start(ctx context.Context) error {
	if fw.started {
		return ErrWatcherAlreadyStarted
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	if err = watcher.Add(fw.cfg.Params.Dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch frame directory: %w", err)
	}
	fw.watcher = watcher

	if fw.cfg.RescanSchedule != "" {
		fw.cron = cron.New()
		if _, err = fw.cron.AddFunc(fw.cfg.RescanSchedule, fw.reload); err != nil {
			watcher.Close()
			return fmt.Errorf("invalid rescan schedule %q: %w", fw.cfg.RescanSchedule, err)
		}
		fw.cron.Start()
	}

	fw.started = true
	go fw.watch(ctx)

	if fw.cfg.Logger != nil {
		fw.cfg.Logger.Info("Frame watcher started",
			"dir", fw.cfg.Params.Dir, "rescan", fw.cfg.RescanSchedule)
	}
	return nil
}

// Stop ends the watch loop and releases the filesystem watcher.
// Idempotent.
func (fw *FrameWatcher) Stop() {
	fw.stopOnce.Do(func() {
		close(fw.done)
		if fw.cron != nil {
			fw.cron.Stop()
		}
		if fw.watcher != nil {
			fw.watcher.Close()
		}
	})
}

func (fw *FrameWatcher) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			fw.Stop()
			return
		case <-fw.done:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if fw.relevant(event) {
				fw.reload()
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			if fw.cfg.Logger != nil {
				fw.cfg.Logger.Error("Frame watcher error", "error", err)
			}
		}
	}
}

// relevant filters watcher noise: only content-changing operations on
// files that would be loaded trigger a rebuild.
func (fw *FrameWatcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	if fw.cfg.Params.NameRegex == nil {
		return true
	}
	return fw.cfg.Params.NameRegex.MatchString(filepath.Base(event.Name))
}

func (fw *FrameWatcher) reload() {
	frames, err := LoadFrames(fw.cfg.Logger, fw.cfg.Params)
	if err != nil {
		if fw.cfg.Logger != nil {
			fw.cfg.Logger.Error("Frame reload failed, keeping last good frame set", "error", err)
		}
		return
	}

	fw.mu.Lock()
	fw.frames = frames
	fw.mu.Unlock()

	if fw.cfg.Logger != nil {
		fw.cfg.Logger.Info("Frames reloaded", "count", len(frames))
	}

	if fw.cfg.Subject != nil {
		event := NewCloudEvent(EventTypeFramesReloaded, "framewatcher", map[string]any{
			"count": len(frames),
		}, nil)
		if err := fw.cfg.Subject.NotifyObservers(context.Background(), event); err != nil && fw.cfg.Logger != nil {
			fw.cfg.Logger.Debug("Failed to emit event", "eventType", EventTypeFramesReloaded, "error", err)
		}
	}

	if fw.cfg.OnReload != nil {
		fw.cfg.OnReload(frames)
	}
}
