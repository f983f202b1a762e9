package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/jsuvanto/pyrl/internal/engine"
	"github.com/jsuvanto/pyrl/internal/network"
	"github.com/jsuvanto/pyrl/pkg/logger"
	"github.com/jsuvanto/pyrl/pkg/utils"
)

type Server struct {
	Instance *engine.Instance
	Hub      *network.Broadcaster
	Addr     string

	httpServer *http.Server
}

func New(inst *engine.Instance, hub *network.Broadcaster, addr string) *Server {
	return &Server{
		Instance: inst,
		Hub:      hub,
		Addr:     addr,
	}
}

// Handler собирает все роуты. Отдельно от Run, чтобы тесты могли поднять httptest.Server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))

	debugHandler := NewDebugHandler(s.Instance)
	debugHandler.RegisterRoutes(mux)

	// Profiling
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

// Run запускает HTTP сервер и блокируется до Shutdown
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Log.Infof("🛡️  Debug server running on %s", s.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown закрывает подписчиков и останавливает HTTP сервер
func (s *Server) Shutdown(ctx context.Context) error {
	s.Hub.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS подписывает клиента на поток событий ходов
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("Upgrade error:", err)
		return
	}

	id := "ws-" + utils.GenerateID()
	client := NewClient(s.Hub, conn, id)
	logger.Log.WithField("subscriber", id).Info("Client subscribed to turn stream")

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
