package indexer

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"go.etcd.io/bbolt"
)

var defaultSkipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"var":          true,
	"cache":        true,
	".git":         true,
	".idea":        true,
	".vscode":      true,
}

var fileHashBucket = []byte("file_hashes")

const watcherDebounce = 200 * time.Millisecond

// FileScanner walks the project for PHP files, skips unchanged ones via a
// content-hash store and fans parsed trees out to the registered indexers.
type FileScanner struct {
	projectRoot string
	db          *bbolt.DB
	indexers    []Indexer
	watcher     *fsnotify.Watcher
	watcherCtx  context.Context
	cancel      context.CancelFunc
	watcherWg   sync.WaitGroup
	onUpdate    func()
}

// NewFileScanner creates a new file scanner backed by a bbolt hash store at
// dbPath.
func NewFileScanner(projectRoot string, dbPath string) (*FileScanner, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{
		Timeout:      time.Second,
		NoSync:       true,
		FreelistType: bbolt.FreelistMapType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(fileHashBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &FileScanner{
		projectRoot: projectRoot,
		db:          db,
		watcherCtx:  ctx,
		cancel:      cancel,
	}, nil
}

func (fs *FileScanner) AddIndexer(indexer Indexer) {
	fs.indexers = append(fs.indexers, indexer)
}

func (fs *FileScanner) SetOnUpdate(onUpdate func()) {
	fs.onUpdate = onUpdate
}

// IndexAll walks the project tree and indexes every scannable file that
// changed since the last run.
func (fs *FileScanner) IndexAll(ctx context.Context) error {
	var files []string

	err := filepath.Walk(fs.projectRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}

		if info.IsDir() {
			if defaultSkipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if slices.Contains(scannedFileTypes, ext) && !strings.HasSuffix(path, ".phar.php") {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk project directory: %w", err)
	}

	startTime := time.Now()

	if err := fs.IndexFiles(ctx, files); err != nil {
		return fmt.Errorf("failed to index files: %w", err)
	}

	log.Printf("Indexed %d files in %s", len(files), time.Since(startTime))

	return nil
}

// IndexFiles parses the given files in parallel and feeds them to the
// indexers. Files whose content hash is unchanged are skipped.
func (fs *FileScanner) IndexFiles(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}

	workerCount := runtime.NumCPU()
	if workerCount > 8 {
		workerCount = 8
	}

	fileChan := make(chan string, len(files))
	for _, path := range files {
		if !fs.isSkippedPath(path) {
			fileChan <- path
		}
	}
	close(fileChan)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			parsers := CreateTreesitterParsers()
			defer CloseTreesitterParsers(parsers)

			for path := range fileChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				if err := fs.indexFile(parsers, path); err != nil {
					log.Printf("Error indexing %s: %v", path, err)
				}
			}
		}()
	}

	wg.Wait()

	if fs.onUpdate != nil {
		fs.onUpdate()
	}

	return nil
}

func (fs *FileScanner) indexFile(parsers map[string]*tree_sitter.Parser, path string) error {
	needsIndexing, content, hash, err := fs.fileNeedsIndexing(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if !needsIndexing {
		return nil
	}

	parser, ok := parsers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return fmt.Errorf("failed to parse %s", path)
	}
	defer tree.Close()

	for _, indexer := range fs.indexers {
		if err := indexer.Index(path, tree.RootNode(), content); err != nil {
			return fmt.Errorf("indexer %s failed: %w", indexer.ID(), err)
		}
	}

	return fs.storeFileHash(path, hash)
}

// RemoveFiles drops the given files from all indexers and the hash store.
func (fs *FileScanner) RemoveFiles(ctx context.Context, paths []string) error {
	for _, indexer := range fs.indexers {
		if err := indexer.RemovedFiles(paths); err != nil {
			return err
		}
	}

	err := fs.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(fileHashBucket)
		for _, path := range paths {
			if err := bucket.Delete([]byte(path)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if fs.onUpdate != nil {
		fs.onUpdate()
	}

	return nil
}

// ClearHashes drops all stored content hashes, forcing the next IndexAll to
// reprocess every file.
func (fs *FileScanner) ClearHashes() error {
	err := fs.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(fileHashBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(fileHashBucket)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear hashes: %w", err)
	}

	for _, indexer := range fs.indexers {
		if err := indexer.Clear(); err != nil {
			return err
		}
	}

	return nil
}

// StartWatcher watches the project tree and reindexes changed files after a
// short debounce.
func (fs *FileScanner) StartWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	fs.watcher = watcher
	fs.watcherWg.Add(1)

	go func() {
		defer fs.watcherWg.Done()
		defer func() { _ = watcher.Close() }()

		pendingAdds := make(map[string]bool)
		pendingRemoves := make(map[string]bool)
		debounceTimer := time.NewTimer(time.Hour)
		debounceTimer.Stop()

		processChanges := func() {
			if len(pendingAdds) > 0 {
				files := make([]string, 0, len(pendingAdds))
				for file := range pendingAdds {
					files = append(files, file)
				}
				pendingAdds = make(map[string]bool)

				if err := fs.IndexFiles(fs.watcherCtx, files); err != nil {
					log.Printf("Error indexing files: %v", err)
				}
			}

			if len(pendingRemoves) > 0 {
				files := make([]string, 0, len(pendingRemoves))
				for file := range pendingRemoves {
					files = append(files, file)
				}
				pendingRemoves = make(map[string]bool)

				if err := fs.RemoveFiles(fs.watcherCtx, files); err != nil {
					log.Printf("Error removing files: %v", err)
				}
			}
		}

		resetDebounce := func() {
			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(watcherDebounce)
		}

		for {
			select {
			case <-fs.watcherCtx.Done():
				processChanges()
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if fs.isSkippedPath(event.Name) {
					continue
				}

				info, err := os.Stat(event.Name)
				if err != nil {
					if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && fs.isScannedFile(event.Name) {
						pendingRemoves[event.Name] = true
						delete(pendingAdds, event.Name)
						resetDebounce()
					}
					continue
				}

				if info.IsDir() {
					if event.Op&fsnotify.Create != 0 {
						if err := fs.addDirectoryToWatcher(event.Name); err != nil {
							log.Printf("Error adding directory to watcher: %v", err)
						}
					}
					continue
				}

				if !fs.isScannedFile(event.Name) {
					continue
				}

				if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					pendingAdds[event.Name] = true
					delete(pendingRemoves, event.Name)
					resetDebounce()
				} else if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					pendingRemoves[event.Name] = true
					delete(pendingAdds, event.Name)
					resetDebounce()
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("File watcher error: %v", err)

			case <-debounceTimer.C:
				processChanges()
			}
		}
	}()

	return fs.addDirectoryToWatcher(fs.projectRoot)
}

// StopWatcher stops the file watcher and waits for it to drain.
func (fs *FileScanner) StopWatcher() {
	if fs.watcher != nil {
		fs.cancel()
		fs.watcherWg.Wait()
		fs.watcher = nil
	}
}

// Close stops the watcher and closes the hash store and all indexers.
func (fs *FileScanner) Close() error {
	fs.StopWatcher()

	if fs.db != nil {
		if err := fs.db.Close(); err != nil {
			return err
		}
	}

	for _, indexer := range fs.indexers {
		if err := indexer.Close(); err != nil {
			return err
		}
	}

	return nil
}

func (fs *FileScanner) addDirectoryToWatcher(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if defaultSkipDirs[info.Name()] && path != fs.projectRoot {
			return filepath.SkipDir
		}

		if err := fs.watcher.Add(path); err != nil {
			log.Printf("Error watching directory %s: %v", path, err)
		}
		return nil
	})
}

func (fs *FileScanner) isSkippedPath(path string) bool {
	relPath, err := filepath.Rel(fs.projectRoot, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(relPath, string(os.PathSeparator)) {
		if defaultSkipDirs[part] {
			return true
		}
	}
	return false
}

func (fs *FileScanner) isScannedFile(path string) bool {
	return slices.Contains(scannedFileTypes, strings.ToLower(filepath.Ext(path)))
}

// fileNeedsIndexing reads a file and compares its content hash against the
// stored one. The content is returned so callers parse it only once.
func (fs *FileScanner) fileNeedsIndexing(path string) (bool, []byte, uint64, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, nil, 0, err
	}

	hash := xxhash.Sum64(content)

	var unchanged bool
	err = fs.db.View(func(tx *bbolt.Tx) error {
		stored := tx.Bucket(fileHashBucket).Get([]byte(path))
		unchanged = len(stored) == 8 && binary.LittleEndian.Uint64(stored) == hash
		return nil
	})
	if err != nil {
		unchanged = false
	}

	return !unchanged, content, hash, nil
}

func (fs *FileScanner) storeFileHash(path string, hash uint64) error {
	return fs.db.Update(func(tx *bbolt.Tx) error {
		hashBytes := make([]byte, 8)
		binary.LittleEndian.PutUint64(hashBytes, hash)
		return tx.Bucket(fileHashBucket).Put([]byte(path), hashBytes)
	})
}
