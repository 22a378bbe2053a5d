// Package lintd serves Weft diagnostics over HTTP/3. Editors post a source
// text and receive the diagnostics the front end reports for it.
package lintd

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/quic-go/quic-go/http3"
	"golang.org/x/sync/singleflight"

	"github.com/weft-lang/weft/internal/compiler"
	"github.com/weft-lang/weft/internal/syntax"
)

// MaxSourceSize bounds the request body of /lint.
const MaxSourceSize = 1 << 20

// Request is the body of a /lint request.
type Request struct {
	Filename string `json:"filename"`
	Source   string `json:"source"`
	Edition  string `json:"edition,omitempty"` // empty selects the server's features
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Severity string `json:"severity"`
	Category string `json:"category"`
	Line     uint32 `json:"line"`
	Col      uint32 `json:"col"`
	Message  string `json:"message"`
}

// Response is the body of a /lint reply.
type Response struct {
	Filename    string       `json:"filename"`
	Success     bool         `json:"success"`
	Errors      int          `json:"errors"`
	Warnings    int          `json:"warnings"`
	Elided      int          `json:"elided,omitempty"`
	Symbols     int          `json:"symbols"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Server compiles posted sources. Identical requests in flight at the same
// time share one compilation.
type Server struct {
	opts   compiler.Options
	logger *log.Logger
	group  singleflight.Group
	count  atomic.Int64

	compile func(filename, text string, opts compiler.Options) (*compiler.Result, error)
}

// NewServer returns a Server compiling with opts. logger may be nil.
func NewServer(opts compiler.Options, logger *log.Logger) *Server {
	return &Server{opts: opts, logger: logger, compile: compileText}
}

func compileText(filename, text string, opts compiler.Options) (*compiler.Result, error) {
	c, err := compiler.NewContext(opts)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.Compile(filename, text), nil
}

// Compiles returns the number of compilations run so far.
func (s *Server) Compiles() int64 {
	return s.count.Load()
}

// Lint compiles req and converts the result.
func (s *Server) Lint(req Request) (*Response, error) {
	opts := s.opts
	if req.Edition != "" {
		f, err := syntax.FeaturesForEdition(req.Edition)
		if err != nil {
			return nil, err
		}
		opts.Features = f
	}

	v, err, _ := s.group.Do(requestKey(req.Filename, req.Source, opts.Features), func() (any, error) {
		s.count.Add(1)
		r, err := s.compile(req.Filename, req.Source, opts)
		if err != nil {
			return nil, err
		}
		return newResponse(r), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Response), nil
}

func requestKey(filename, text string, f syntax.Features) string {
	h := sha256.New()
	h.Write([]byte(f.String()))
	h.Write([]byte{0})
	h.Write([]byte(filename))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

func newResponse(r *compiler.Result) *Response {
	resp := &Response{
		Filename:    r.Filename,
		Success:     r.Success,
		Errors:      r.Errors,
		Warnings:    r.Warnings,
		Elided:      r.Elided,
		Symbols:     r.Analysis.SymbolsFound,
		Diagnostics: make([]Diagnostic, len(r.Diagnostics)),
	}
	for i, d := range r.Diagnostics {
		resp.Diagnostics[i] = Diagnostic{
			Severity: d.Severity.String(),
			Category: d.Category.String(),
			Line:     d.Pos.Line(),
			Col:      d.Pos.Col(),
			Message:  d.Msg,
		}
	}
	return resp
}

// Handler returns the HTTP handler: POST /lint and GET /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /lint", s.handleLint)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	return mux
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxSourceSize))
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Filename == "" {
		req.Filename = "input.wf"
	}

	resp, err := s.Lint(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if s.logger != nil {
		s.logger.Printf("lint %s: %d errors, %d warnings", req.Filename, resp.Errors, resp.Warnings)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil && s.logger != nil {
		s.logger.Printf("lint %s: write response: %v", req.Filename, err)
	}
}

// Serve serves HTTP/3 on pc until ctx is done.
func (s *Server) Serve(ctx context.Context, pc net.PacketConn, tlsConf *tls.Config) error {
	srv := &http3.Server{
		Handler:   s.Handler(),
		TLSConfig: http3.ConfigureTLSConfig(tlsConf),
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(pc) }()

	select {
	case <-ctx.Done():
		srv.Close()
		select {
		case <-errc:
		case <-time.After(time.Second):
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// ListenAndServe listens on the UDP address addr and serves HTTP/3 until
// ctx is done. If tlsConf is nil a self-signed certificate is generated.
func (s *Server) ListenAndServe(ctx context.Context, addr string, tlsConf *tls.Config) error {
	if tlsConf == nil {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			return err
		}
		if host == "" {
			host = "localhost"
		}
		if tlsConf, err = SelfSignedTLS([]string{host}); err != nil {
			return err
		}
	}
	pc, err := net.ListenPacket("udp", addr)
	if err != nil {
		return err
	}
	defer pc.Close()
	if s.logger != nil {
		s.logger.Printf("serving HTTP/3 on %s", pc.LocalAddr())
	}
	return s.Serve(ctx, pc, tlsConf)
}
