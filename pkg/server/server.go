package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the msgpack IPC for an index
type Server struct {
	dispatcher   *dispatcher
	decoder      *msgpack.Decoder
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	logger       *log.Logger
	requestCount int
}

// NewServer creates an IPC server on stdin/stdout
func NewServer(index suggest.Completer, cfg *config.Config) *Server {
	return NewServerWithIO(index, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates an IPC server reading requests from r and writing responses to w
func NewServerWithIO(index suggest.Completer, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	writer := bufio.NewWriter(w)
	return &Server{
		dispatcher: newDispatcher(index, cfg),
		decoder:    msgpack.NewDecoder(bufio.NewReader(r)),
		writer:     writer,
		encoder:    msgpack.NewEncoder(writer),
		logger:     logger.New("ipc"),
	}
}

// Start announces readiness and serves requests until the input ends.
// A request that cannot be decoded ends the loop, since the stream can no
// longer be trusted to be aligned on a message boundary.
func (s *Server) Start() error {
	s.logger.Debug("Starting IPC server")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed", "requests", s.requestCount)
				return nil
			}
			s.logger.Errorf("Decoding request: %v", err)
			_ = s.send(ErrorResponse{Error: "malformed request", Code: 400})
			return fmt.Errorf("decode request: %w", err)
		}
		if err := s.handleRequest(req); err != nil {
			return err
		}
	}
}

// handleRequest answers a single request; only write failures are returned
func (s *Server) handleRequest(req Request) error {
	s.requestCount++
	s.logger.Debug("Request", "id", req.ID, "op", req.Op)

	resp, err := s.dispatcher.handle(req)
	if err != nil {
		s.logger.Debugf("Request %s failed: %v", req.ID, err)
		return s.send(errorResponse(req.ID, err))
	}
	return s.send(resp)
}

// send encodes one response and flushes it
func (s *Server) send(v any) error {
	if err := s.encoder.Encode(v); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return fmt.Errorf("encode response: %w", err)
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
