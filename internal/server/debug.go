package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jsuvanto/pyrl/internal/domain"
	"github.com/jsuvanto/pyrl/internal/engine"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Instance *engine.Instance
}

func NewDebugHandler(inst *engine.Instance) *DebugHandler {
	return &DebugHandler{Instance: inst}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/queue", h.handleTurnQueue)
	mux.HandleFunc("/debug/actors", h.handleDumpActors)
	mux.HandleFunc("/debug/fov", h.handleFOV)
}

// /debug/queue - очередь ходов в порядке извлечения
func (h *DebugHandler) handleTurnQueue(w http.ResponseWriter, r *http.Request) {
	type QueueView struct {
		Round int               `json:"round"`
		Items []engine.TurnItem `json:"items"`
	}
	writeJSON(w, QueueView{
		Round: h.Instance.Round(),
		Items: h.Instance.QueueSnapshot(),
	})
}

// /debug/actors - дамп всех живых акторов (включая энергию)
func (h *DebugHandler) handleDumpActors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Instance.Actors())
}

// /debug/fov?actor=hero - поле зрения актора.
// Для игрока отдаем то, что видел на последнем ходу, для остальных считаем сейчас.
func (h *DebugHandler) handleFOV(w http.ResponseWriter, r *http.Request) {
	id := domain.ActorID(r.URL.Query().Get("actor"))
	if id == "" {
		http.Error(w, "actor parameter is required", http.StatusBadRequest)
		return
	}

	type FOVView struct {
		Actor  domain.ActorID `json:"actor"`
		Cached bool           `json:"cached"`
		Cells  []domain.Coord `json:"cells"`
	}

	if cells, ok := h.Instance.Vision(id); ok {
		writeJSON(w, FOVView{Actor: id, Cached: true, Cells: cells})
		return
	}

	cells, err := h.Instance.LookFrom(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrUnknownActor) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, FOVView{Actor: id, Cells: cells})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil, возвращаем пустой массив [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
