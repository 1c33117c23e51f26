package capture

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// galleryExts are the file extensions offered from the gallery folder.
var galleryExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true, ".pdf": true,
}

// IsGalleryFile reports whether name looks like an importable document.
func IsGalleryFile(name string) bool {
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	return galleryExts[strings.ToLower(filepath.Ext(name))]
}

// GalleryFile is a document that appeared in the gallery folder.
type GalleryFile struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// GalleryWatcher watches a folder (typically a phone photo sync target) and
// reports documents once they have stopped changing.
type GalleryWatcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	settle    time.Duration

	// path -> last time a write was seen
	pending   map[string]time.Time
	pendingMu sync.Mutex

	files  chan GalleryFile
	errors chan error

	done chan struct{}
	wg   sync.WaitGroup
}

// NewGalleryWatcher creates a watcher for dir. A file is reported after it has
// seen no writes for settle.
func NewGalleryWatcher(dir string, settle time.Duration) (*GalleryWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if settle <= 0 {
		settle = time.Second
	}

	return &GalleryWatcher{
		fsWatcher: fsWatcher,
		dir:       dir,
		settle:    settle,
		pending:   make(map[string]time.Time),
		files:     make(chan GalleryFile, 32),
		errors:    make(chan error, 4),
		done:      make(chan struct{}),
	}, nil
}

// Files returns the channel of settled documents.
func (w *GalleryWatcher) Files() <-chan GalleryFile {
	return w.files
}

// Errors returns the channel of watch errors.
func (w *GalleryWatcher) Errors() <-chan error {
	return w.errors
}

// Start begins watching. Files already present are not reported.
func (w *GalleryWatcher) Start() error {
	absDir, err := filepath.Abs(w.dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return err
	}
	if err := w.fsWatcher.Add(absDir); err != nil {
		return err
	}
	w.dir = absDir

	w.wg.Add(2)
	go w.eventLoop()
	go w.settleLoop()
	return nil
}

// Stop shuts the watcher down and closes its channels.
func (w *GalleryWatcher) Stop() error {
	close(w.done)
	w.wg.Wait()
	close(w.files)
	close(w.errors)
	return w.fsWatcher.Close()
}

// List returns the importable documents currently in the folder, newest first.
func (w *GalleryWatcher) List() ([]GalleryFile, error) {
	return ListGallery(w.dir)
}

// ListGallery returns the importable documents in dir, newest first.
func ListGallery(dir string) ([]GalleryFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []GalleryFile
	for _, e := range entries {
		if e.IsDir() || !IsGalleryFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, GalleryFile{Path: filepath.Join(dir, e.Name()), Size: info.Size(), ModTime: info.ModTime()})
	}

	slices.SortFunc(out, func(a, b GalleryFile) int {
		return b.ModTime.Compare(a.ModTime)
	})
	return out, nil
}

func (w *GalleryWatcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !IsGalleryFile(event.Name) {
				continue
			}

			w.pendingMu.Lock()
			w.pending[event.Name] = time.Now()
			w.pendingMu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *GalleryWatcher) settleLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.settle / 4)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case now := <-ticker.C:
			w.flushSettled(now)
		}
	}
}

func (w *GalleryWatcher) flushSettled(now time.Time) {
	w.pendingMu.Lock()
	var ready []string
	for path, seen := range w.pending {
		if now.Sub(seen) >= w.settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.pendingMu.Unlock()

	for _, path := range ready {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		select {
		case w.files <- GalleryFile{Path: path, Size: info.Size(), ModTime: info.ModTime()}:
		case <-w.done:
			return
		}
	}
}
