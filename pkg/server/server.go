package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/spelldict/internal/utils"
	"github.com/bastiangx/spelldict/pkg/bdic"
	"github.com/bastiangx/spelldict/pkg/catalog"
	"github.com/bastiangx/spelldict/pkg/config"
	"github.com/bastiangx/spelldict/pkg/custom"
	"github.com/bastiangx/spelldict/pkg/engine"
	"github.com/bastiangx/spelldict/pkg/wordlist"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Options wires the server to its collaborators. Engine is optional; when
// set, checking is suspended while dictionaries are rewritten.
type Options struct {
	Catalog    *catalog.Catalog
	Builder    *custom.Builder
	Config     *config.Config
	ConfigPath string
	Engine     engine.Engine
	Version    string
}

// Server handles msgpack IPC over a reader/writer pair.
type Server struct {
	opts Options
	dec  *msgpack.Decoder
	enc  *msgpack.Encoder
	w    *bufio.Writer

	requestCount int
}

// NewServer creates a server on stdin/stdout.
func NewServer(opts Options) *Server {
	return NewServerIO(opts, os.Stdin, os.Stdout)
}

// NewServerIO creates a server on r and w.
func NewServerIO(opts Options, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		opts: opts,
		dec:  msgpack.NewDecoder(bufio.NewReader(r)),
		enc:  msgpack.NewEncoder(bw),
		w:    bw,
	}
}

// Start sends the ready message and serves requests until the input ends.
func (s *Server) Start() error {
	log.Debug("Starting server")
	if err := s.send(Response{Status: StatusReady, Version: s.opts.Version}); err != nil {
		return err
	}

	for {
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			log.Errorf("Reading request: %v", err)
			return err
		}
		s.requestCount++

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			log.Debugf("Undecodable request: %v", err)
			if err := s.send(Response{Status: StatusError, Code: CodeBadRequest, Error: "Invalid msgpack request"}); err != nil {
				return err
			}
			continue
		}

		start := time.Now()
		resp := s.handleRequest(req)
		log.Debugf("Handled %s (%s) in %v: %s", req.Action, req.ID, time.Since(start), resp.Status)
		if err := s.send(resp); err != nil {
			return err
		}
	}
}

func (s *Server) send(resp Response) error {
	if err := s.enc.Encode(&resp); err != nil {
		log.Errorf("Encoding response: %v", err)
		return err
	}
	return s.w.Flush()
}

// handleRequest dispatches req by action.
func (s *Server) handleRequest(req Request) Response {
	var resp Response
	var err error

	switch req.Action {
	case ActionList:
		resp, err = s.handleList()
	case ActionEnable, ActionDisable:
		resp, err = s.handleState(req)
	case ActionLabel:
		resp, err = s.handleLabel(req)
	case ActionAddWord:
		resp, err = s.handleAddWord(req)
	case ActionBuild:
		resp, err = s.handleBuild(req)
	case ActionDelete:
		resp, err = s.handleDelete()
	case ActionWords:
		resp, err = s.handleWords()
	case ActionInspect:
		resp, err = s.handleInspect(req)
	case ActionSeed:
		resp, err = s.handleSeed()
	default:
		err = badRequest("Unknown action: %q", req.Action)
	}

	if err != nil {
		resp = errorResponse(err)
	} else {
		resp.Status = StatusOK
	}
	resp.ID = req.ID
	return resp
}

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// errorResponse maps err to a response code. Storage errors carry a hint the
// host can show as is.
func errorResponse(err error) Response {
	resp := Response{Status: StatusError, Error: err.Error(), Code: CodeInternal}
	var re *requestError
	var se *catalog.StorageError
	var fe *bdic.FormatError
	switch {
	case errors.As(err, &re):
		resp.Code = CodeBadRequest
	case errors.Is(err, wordlist.ErrInvalidCharacter):
		resp.Code = CodeInvalidCharacter
	case errors.Is(err, bdic.ErrMalformedAffix):
		resp.Code = CodeMalformedAffix
	case errors.As(err, &se):
		resp.Code = CodeStorage
		resp.Hint = se.Hint()
	case errors.Is(err, catalog.ErrUnknownDictionary):
		resp.Code = CodeUnknown
	case errors.As(err, &fe):
		resp.Code = CodeBadDictionary
	}
	return resp
}

func (s *Server) requireCatalog() error {
	if s.opts.Catalog == nil {
		return badRequest("No dictionary catalog configured")
	}
	return nil
}

func (s *Server) requireBuilder() error {
	if s.opts.Builder == nil {
		return badRequest("No custom dictionary configured")
	}
	return nil
}

func (s *Server) listing() Response {
	entries := s.opts.Catalog.Entries()
	out := make([]DictEntry, len(entries))
	for i, e := range entries {
		out[i] = DictEntry{Name: e.Name, File: e.File, Enabled: e.Enabled, Label: e.Label}
	}
	return Response{Entries: out, Enabled: s.opts.Catalog.Enabled()}
}

func (s *Server) handleList() (Response, error) {
	if err := s.requireCatalog(); err != nil {
		return Response{}, err
	}
	if err := s.opts.Catalog.Refresh(); err != nil {
		return Response{}, err
	}
	return s.listing(), nil
}

func (s *Server) handleState(req Request) (Response, error) {
	if err := s.requireCatalog(); err != nil {
		return Response{}, err
	}
	names := req.Names
	if req.Name != "" {
		names = append(names, req.Name)
	}
	if len(names) == 0 {
		return Response{}, badRequest("Missing 'names' parameter")
	}
	if !s.opts.Catalog.Loaded() {
		if err := s.opts.Catalog.Load(); err != nil {
			return Response{}, err
		}
	}

	err := s.suspend(func() error {
		if req.Action == ActionEnable {
			return s.opts.Catalog.Enable(names...)
		}
		return s.opts.Catalog.Disable(names...)
	})
	if err != nil {
		return Response{}, err
	}
	return s.listing(), nil
}

func (s *Server) handleLabel(req Request) (Response, error) {
	file := req.File
	if file == "" {
		file = req.Name
	}
	if file == "" {
		return Response{}, badRequest("Missing 'file' parameter")
	}
	return Response{Label: catalog.LabelFor(file)}, nil
}

func (s *Server) handleAddWord(req Request) (Response, error) {
	if err := s.requireBuilder(); err != nil {
		return Response{}, err
	}
	if req.Word == "" {
		return Response{}, badRequest("Missing 'word' parameter")
	}
	var res *custom.BuildResult
	err := s.suspend(func() error {
		var err error
		res, err = s.opts.Builder.AddWord(req.Word)
		return err
	})
	if err != nil {
		return Response{}, err
	}
	return buildResponse(res), nil
}

func (s *Server) handleBuild(req Request) (Response, error) {
	if err := s.requireBuilder(); err != nil {
		return Response{}, err
	}
	// An absent list is a client mistake; emptying goes through delete.
	if len(req.Words) == 0 {
		return Response{}, badRequest("Missing 'words' parameter")
	}
	var res *custom.BuildResult
	err := s.suspend(func() error {
		var err error
		res, err = s.opts.Builder.Build(req.Words)
		return err
	})
	if err != nil {
		return Response{}, err
	}
	return buildResponse(res), nil
}

func (s *Server) handleDelete() (Response, error) {
	if err := s.requireBuilder(); err != nil {
		return Response{}, err
	}
	var res *custom.BuildResult
	err := s.suspend(func() error {
		var err error
		res, err = s.opts.Builder.Delete()
		return err
	})
	if err != nil {
		return Response{}, err
	}
	return buildResponse(res), nil
}

func buildResponse(res *custom.BuildResult) Response {
	return Response{
		Words:   res.Words,
		Notice:  res.Notice,
		Deleted: res.Deleted,
		Written: res.Written,
	}
}

func (s *Server) handleWords() (Response, error) {
	if err := s.requireBuilder(); err != nil {
		return Response{}, err
	}
	words, err := s.opts.Builder.Words()
	if err != nil {
		return Response{}, err
	}
	return Response{Words: words}, nil
}

func (s *Server) handleInspect(req Request) (Response, error) {
	if err := s.requireCatalog(); err != nil {
		return Response{}, err
	}
	file := req.File
	if file == "" {
		if req.Name == "" {
			return Response{}, badRequest("Missing 'name' or 'file' parameter")
		}
		if !s.opts.Catalog.Loaded() {
			if err := s.opts.Catalog.Load(); err != nil {
				return Response{}, err
			}
		}
		e, ok := s.opts.Catalog.Lookup(req.Name)
		if !ok {
			return Response{}, fmt.Errorf("%w: %s", catalog.ErrUnknownDictionary, req.Name)
		}
		file = e.File
	}
	if filepath.Base(file) != file {
		return Response{}, badRequest("File must be a name inside the dictionary folder: %q", file)
	}

	data, err := s.opts.Catalog.Store().Read(file)
	if err != nil {
		return Response{}, err
	}
	d, err := bdic.Parse(data)
	if err != nil {
		return Response{}, err
	}
	return Response{Info: Describe(file, d, req.Prefix, req.Limit)}, nil
}

// Describe summarizes d. Words with prefix are listed up to limit; a zero
// limit lists none.
func Describe(file string, d *bdic.Dictionary, prefix string, limit int) *DictInfo {
	info := &DictInfo{
		File:         file,
		Version:      fmt.Sprintf("%d.%d", d.Header.Major, d.Header.Minor),
		Size:         d.Size,
		SizeLabel:    utils.FormatBytes(int64(d.Size)),
		WordCount:    d.Len(),
		AffixGroups:  len(d.Affix.Groups),
		AffixRules:   len(d.Affix.Rules),
		Replacements: len(d.Affix.Replacements),
	}
	if limit > 0 {
		words := d.WithPrefix(prefix)
		if len(words) > limit {
			words = words[:limit]
		}
		info.Words = words
	}
	return info
}

func (s *Server) handleSeed() (Response, error) {
	if err := s.requireCatalog(); err != nil {
		return Response{}, err
	}
	if s.opts.Config == nil {
		return Response{}, badRequest("No config loaded")
	}
	src := s.opts.Config.BundledDir()
	if src == "" {
		return Response{}, badRequest("No bundled dictionaries found")
	}

	var results []catalog.SeedResult
	err := s.suspend(func() error {
		var err error
		results, err = catalog.Seed(src, s.opts.Catalog.Store(), s.opts.Config.Installed)
		return err
	})
	if err != nil {
		return Response{}, err
	}

	items := make([]SeedItem, len(results))
	var installed []string
	for i, r := range results {
		items[i] = SeedItem{Name: r.Name, Status: string(r.Status)}
		if r.Err != nil {
			items[i].Error = r.Err.Error()
		}
		if r.Status == catalog.SeedInstalled {
			installed = append(installed, r.Name)
		}
	}
	if err := s.opts.Config.MarkInstalled(s.opts.ConfigPath, installed...); err != nil {
		log.Warnf("Failed to record installed dictionaries: %v", err)
	}
	log.Debugf("Seeded %d dictionaries; installed so far: %v", len(installed), s.opts.Config.InstalledNames())

	resp := s.listing()
	resp.Seed = items
	return resp, nil
}

// suspend runs fn with the engine paused, refreshing the catalog afterwards.
func (s *Server) suspend(fn func() error) error {
	if s.opts.Engine != nil {
		return engine.Suspend(s.opts.Engine, s.opts.Catalog, fn)
	}
	err := fn()
	if s.opts.Catalog != nil {
		if rerr := s.opts.Catalog.Refresh(); rerr != nil && err == nil {
			err = rerr
		}
	}
	return err
}
