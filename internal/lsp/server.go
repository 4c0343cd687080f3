package lsp

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/vix-4800/php-typehints-vsc/internal/indexer"
	"github.com/vix-4800/php-typehints-vsc/internal/lsp/protocol"
	"github.com/vix-4800/php-typehints-vsc/internal/settings"
)

const hintCacheSize = 64

// Server represents the LSP server
type Server struct {
	rootPath        string
	conn            *jsonrpc2.Conn
	hintProviders   []InlayHintProvider
	hoverProviders  []HoverProvider
	documentManager *DocumentManager
	hints           *hintCache
	settings        *settings.Manager
	FileScanner     *indexer.FileScanner
}

// NewServer creates a new LSP server
func NewServer(filescanner *indexer.FileScanner, settingsManager *settings.Manager) *Server {
	return &Server{
		documentManager: NewDocumentManager(),
		hints:           newHintCache(hintCacheSize),
		settings:        settingsManager,
		FileScanner:     filescanner,
	}
}

// RegisterInlayHintProvider registers an inlay hint provider with the server
func (s *Server) RegisterInlayHintProvider(provider InlayHintProvider) {
	s.hintProviders = append(s.hintProviders, provider)
}

// RegisterHoverProvider registers a hover provider with the server
func (s *Server) RegisterHoverProvider(provider HoverProvider) {
	s.hoverProviders = append(s.hoverProviders, provider)
}

func (s *Server) DocumentManager() *DocumentManager {
	return s.documentManager
}

// indexAll builds or updates the index. If forceReindex is true, the
// existing index is cleared before rebuilding.
func (s *Server) indexAll(ctx context.Context, forceReindex bool) error {
	startTime := time.Now()

	if s.conn != nil {
		if err := s.conn.Notify(ctx, "phpTypehints/indexingStarted", map[string]interface{}{
			"message": "Indexing started",
		}); err != nil {
			return err
		}
	}

	if forceReindex {
		if err := s.FileScanner.ClearHashes(); err != nil {
			return err
		}
		s.hints.clear()
	}

	if err := s.FileScanner.IndexAll(ctx); err != nil {
		return err
	}

	if s.conn != nil {
		if err := s.conn.Notify(ctx, "phpTypehints/indexingCompleted", map[string]interface{}{
			"message":       "Indexing completed",
			"timeInSeconds": time.Since(startTime).Seconds(),
		}); err != nil {
			return err
		}
	}

	return nil
}

// CloseAll closes the document manager and the file scanner.
func (s *Server) CloseAll() error {
	if s.documentManager != nil {
		s.documentManager.Close()
	}

	if s.FileScanner != nil {
		return s.FileScanner.Close()
	}

	return nil
}

func (s *Server) Start(in io.Reader, out io.Writer) error {
	stream := jsonrpc2.NewBufferedStream(rwc{in, out}, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(context.Background(), stream, jsonrpc2.HandlerWithError(s.handle))
	s.conn = conn

	// Wait for the connection to close
	<-conn.DisconnectNotify()
	return nil
}

// rwc combines a reader and writer into a single ReadWriteCloser
type rwc struct {
	io.Reader
	io.Writer
}

// Close implements io.Closer
func (rwc) Close() error {
	return nil
}

// handle processes incoming JSON-RPC requests and notifications
func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	if req.Method == "exit" {
		log.Println("Received exit notification, exiting")
		if err := conn.Close(); err != nil {
			log.Printf("error closing connection: %v", err)
		}
		return nil, nil
	}

	switch req.Method {
	case "initialize":
		var params protocol.InitializeParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeParseError, Message: err.Error()}
		}
		return s.initialize(&params), nil

	case "initialized":
		// Build the index when the client is initialized
		go func() {
			if err := s.indexAll(ctx, false); err != nil {
				log.Printf("Error indexing: %v", err)
			}
		}()
		return nil, nil

	case "textDocument/didOpen":
		var params struct {
			TextDocument struct {
				URI     string `json:"uri"`
				Text    string `json:"text"`
				Version int    `json:"version"`
			} `json:"textDocument"`
		}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		s.documentManager.OpenDocument(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
		return nil, nil

	case "textDocument/didChange":
		var params struct {
			TextDocument struct {
				URI     string `json:"uri"`
				Version int    `json:"version"`
			} `json:"textDocument"`
			ContentChanges []struct {
				Text string `json:"text"`
			} `json:"contentChanges"`
		}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		if len(params.ContentChanges) > 0 {
			s.documentManager.UpdateDocument(params.TextDocument.URI, params.ContentChanges[0].Text, params.TextDocument.Version)
		}
		return nil, nil

	case "textDocument/didClose":
		var params struct {
			TextDocument struct {
				URI string `json:"uri"`
			} `json:"textDocument"`
		}
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		s.documentManager.CloseDocument(params.TextDocument.URI)
		s.hints.invalidate(params.TextDocument.URI)
		return nil, nil

	case "textDocument/inlayHint":
		var params protocol.InlayHintParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.inlayHint(ctx, &params), nil

	case "textDocument/hover":
		var params protocol.HoverParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}
		return s.hover(ctx, &params), nil

	case "workspace/didChangeWatchedFiles":
		var params protocol.DidChangeWatchedFilesParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, err
		}

		var changed, deleted []string
		for _, change := range params.Changes {
			path := uriToPath(change.URI)
			switch protocol.FileChangeType(change.Type) {
			case protocol.FileCreated, protocol.FileChanged:
				changed = append(changed, path)
			case protocol.FileDeleted:
				deleted = append(deleted, path)
			}
		}

		if len(changed) > 0 {
			if err := s.FileScanner.IndexFiles(ctx, changed); err != nil {
				log.Printf("Error indexing changed files: %v", err)
			}
		}
		if len(deleted) > 0 {
			if err := s.FileScanner.RemoveFiles(ctx, deleted); err != nil {
				log.Printf("Error removing deleted files: %v", err)
			}
		}
		return nil, nil

	case "phpTypehints/toggle":
		enabled, err := s.settings.ToggleEnabled()
		if err != nil {
			return nil, err
		}
		s.hints.clear()
		return map[string]interface{}{
			"enabled": enabled,
		}, nil

	case "phpTypehints/forceReindex":
		go func() {
			if err := s.indexAll(ctx, true); err != nil {
				log.Printf("Error force reindexing: %v", err)
			}
		}()
		return map[string]interface{}{
			"message": "Force reindexing started",
		}, nil

	case "shutdown":
		if err := s.CloseAll(); err != nil {
			log.Printf("Error closing resources: %v", err)
		}

		log.Println("Received shutdown request, waiting for exit notification")
		return nil, nil

	default:
		// Notifications without a handler are silently ignored
		if req.ID == (jsonrpc2.ID{}) {
			return nil, nil
		}
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "Method not implemented: " + req.Method}
	}
}

// initialize handles the LSP initialize request
func (s *Server) initialize(params *protocol.InitializeParams) interface{} {
	s.extractRootPath(params)

	return map[string]interface{}{
		"capabilities": map[string]interface{}{
			"textDocumentSync": map[string]interface{}{
				"openClose": true,
				"change":    1, // Full sync
			},
			"inlayHintProvider": true,
			"hoverProvider":     true,
		},
	}
}

// inlayHint handles textDocument/inlayHint requests
func (s *Server) inlayHint(ctx context.Context, params *protocol.InlayHintParams) []protocol.InlayHint {
	if !s.settings.Get().Enabled {
		return []protocol.InlayHint{}
	}

	doc, ok := s.documentManager.GetDocument(params.TextDocument.URI)
	if !ok || doc.Tree == nil {
		return []protocol.InlayHint{}
	}

	if cached, ok := s.hints.get(doc.URI, doc.Version); ok {
		return filterHintsToRange(cached, params.Range)
	}

	params.DocumentContent = doc.Text
	params.Root = doc.Tree.RootNode()

	var hints []protocol.InlayHint
	for _, provider := range s.hintProviders {
		hints = append(hints, provider.GetInlayHints(ctx, params)...)
	}
	if hints == nil {
		hints = []protocol.InlayHint{}
	}

	s.hints.put(doc.URI, doc.Version, hints)

	return filterHintsToRange(hints, params.Range)
}

// hover handles textDocument/hover requests
func (s *Server) hover(ctx context.Context, params *protocol.HoverParams) *protocol.Hover {
	if !s.settings.Get().HoverTypes {
		return nil
	}

	node, doc, ok := s.documentManager.GetNodeAtPosition(params.TextDocument.URI, params.Position.Line, params.Position.Character)
	if !ok {
		return nil
	}

	params.Node = node
	params.DocumentContent = doc.Text

	for _, provider := range s.hoverProviders {
		if hover := provider.GetHover(ctx, params); hover != nil {
			return hover
		}
	}

	return nil
}

func filterHintsToRange(hints []protocol.InlayHint, r protocol.Range) []protocol.InlayHint {
	filtered := make([]protocol.InlayHint, 0, len(hints))
	for _, hint := range hints {
		if positionInRange(hint.Position, r) {
			filtered = append(filtered, hint)
		}
	}
	return filtered
}

func positionInRange(pos protocol.Position, r protocol.Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character > r.End.Character {
		return false
	}
	return true
}

// extractRootPath extracts the root path from the initialize params
func (s *Server) extractRootPath(params *protocol.InitializeParams) {
	if params.RootPath != "" {
		s.rootPath = params.RootPath
		return
	}

	if params.RootURI != "" {
		s.rootPath = uriToPath(params.RootURI)
		return
	}

	if len(params.WorkspaceFolders) > 0 {
		s.rootPath = uriToPath(params.WorkspaceFolders[0].URI)
		return
	}

	s.rootPath, _ = os.Getwd()
}

func uriToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
