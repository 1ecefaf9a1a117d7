package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/canopy-network/lphelper/controller"
	"github.com/canopy-network/lphelper/lib"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

const (
	colon = ":"

	SoftwareVersion = "0.1.0"
	ContentType     = "Content-Type"
	ApplicationJSON = "application/json; charset=utf-8"
)

// Server is the http json api in front of the controller
type Server struct {
	// node controller
	controller *controller.Controller

	// node configuration
	config lib.Config

	logger lib.LoggerI
}

// NewServer constructs and returns a new RPC server
func NewServer(controller *controller.Controller, config lib.Config, logger lib.LoggerI) *Server {
	return &Server{
		controller: controller,
		config:     config,
		logger:     logger,
	}
}

// Start() serves the RPC until ctx is done or the listener fails
// CONTRACT: blocks; run it in its own goroutine
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              colon + s.config.RPCPort,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.timeout(),
	}
	// shut the listener down with the context
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), s.timeout())
		defer cancel()
		if err := server.Shutdown(shutdown); err != nil {
			s.logger.Errorf("RPC shutdown failed with err: %s", err.Error())
		}
	}()
	s.logger.Infof("Starting RPC server at 0.0.0.0:%s", s.config.RPCPort)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler() is the router wrapped with the CORS policy and the request timeout
func (s *Server) Handler() http.Handler {
	// Create CORS policy
	cor := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS", "POST"},
	})
	return cor.Handler(http.TimeoutHandler(createRouter(s), s.timeout(), lib.ErrServerTimeout().Error()))
}

func (s *Server) timeout() time.Duration {
	if s.config.TimeoutS <= 0 {
		return time.Duration(lib.DefaultRPCConfig().TimeoutS) * time.Second
	}
	return time.Duration(s.config.TimeoutS) * time.Second
}

// submitTx submits a transaction to the controller and writes http response
// a transaction that was applied and failed is still answered with its result
func (s *Server) submitTx(w http.ResponseWriter, tx *lib.Transaction) {
	result, err := s.controller.SendTx(tx)
	if result == nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	write(w, result, http.StatusOK)
}

// unmarshal reads request body and unmarshals it into ptr
func (s *Server) unmarshal(w http.ResponseWriter, r *http.Request, ptr interface{}) bool {
	limit := s.config.MaxRequestBytes
	if limit <= 0 {
		limit = lib.DefaultRPCConfig().MaxRequestBytes
	}
	bz, err := io.ReadAll(io.LimitReader(r.Body, limit))
	if err != nil {
		write(w, lib.ErrReadBody(err), http.StatusBadRequest)
		return false
	}
	defer func() { _ = r.Body.Close() }()
	if err = json.Unmarshal(bz, ptr); err != nil {
		write(w, lib.ErrJSONUnmarshal(err), http.StatusBadRequest)
		return false
	}
	return true
}

// write marshaled payload to w
func write(w http.ResponseWriter, payload interface{}, code int) {
	w.Header().Set(ContentType, ApplicationJSON)
	w.WriteHeader(code)

	// Marshal and indent the payload
	bz, _ := json.MarshalIndent(payload, "", "  ")
	_, _ = w.Write(bz)
}

// logHandler is a middleware that logs incoming RPC calls at debug level
type logHandler struct {
	path string
	h    httprouter.Handle
	log  lib.LoggerI
}

func (h logHandler) Handle(resp http.ResponseWriter, req *http.Request, p httprouter.Params) {
	h.log.Debugf("%s %s", req.Method, h.path)
	h.h(resp, req, p)
}
