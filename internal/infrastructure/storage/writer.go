package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jsuvanto/pyrl/internal/domain"
)

const (
	MagicHeader string = `PRTL` // 4 байта
	Version1    uint32 = 1
)

// TraceFileHeader — точное представление заголовка файла в памяти.
// binary.Write пишет его целиком: только массивы и числа.
type TraceFileHeader struct {
	Magic      [4]byte // 4 байта
	Version    uint32  // 4 байта
	Seed       int64   // 8 байт
	Timestamp  int64   // 8 байт
	Rounds     int32   // 4 байта
	EventCount int32   // 4 байта
}

// EventHeader — фиксированная часть записи хода. За ней идут ID актора и цели.
type EventHeader struct {
	Round     int32
	Turn      int32
	Action    uint8
	Killed    uint8
	ActorLen  uint8
	TargetLen uint8
	FromRow   int32
	FromCol   int32
	ToRow     int32
	ToCol     int32
	Damage    int32
	Visible   int32
	NextKey   float64
}

// TraceSession - журнал ходов одного прогона
type TraceSession struct {
	Seed      int64
	Timestamp int64
	Rounds    int
	Events    []domain.TurnEvent
}

// Recorder копит события ходов. Record подходит как engine.Observer.
type Recorder struct {
	mu      sync.Mutex
	session TraceSession
}

func NewRecorder(seed, timestamp int64) *Recorder {
	return &Recorder{session: TraceSession{Seed: seed, Timestamp: timestamp}}
}

func (r *Recorder) Record(ev domain.TurnEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session.Events = append(r.session.Events, ev)
	if ev.Round > r.session.Rounds {
		r.session.Rounds = ev.Round
	}
}

// Session возвращает копию накопленного журнала
func (r *Recorder) Session() TraceSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.session
	s.Events = append([]domain.TurnEvent(nil), r.session.Events...)
	return s
}

// Save пишет журнал в файл, создавая каталог при необходимости
func (r *Recorder) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create trace dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	session := r.Session()
	w := bufio.NewWriter(f)
	if err := WriteTrace(w, &session); err != nil {
		return fmt.Errorf("write trace %s: %w", path, err)
	}
	return w.Flush()
}

// WriteTrace сериализует журнал в бинарный формат PRTL
func WriteTrace(w io.Writer, s *TraceSession) error {
	// 1. Глобальный заголовок
	header := TraceFileHeader{
		Version:    Version1,
		Seed:       s.Seed,
		Timestamp:  s.Timestamp,
		Rounds:     int32(s.Rounds),
		EventCount: int32(len(s.Events)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. События
	for _, ev := range s.Events {
		actor := []byte(ev.Actor)
		target := []byte(ev.Target)
		if len(actor) > 255 || len(target) > 255 {
			return fmt.Errorf("actor id too long: %q/%q", ev.Actor, ev.Target)
		}

		eh := EventHeader{
			Round:     int32(ev.Round),
			Turn:      int32(ev.Turn),
			Action:    uint8(ev.Action),
			ActorLen:  uint8(len(actor)),
			TargetLen: uint8(len(target)),
			FromRow:   int32(ev.From.Row),
			FromCol:   int32(ev.From.Col),
			ToRow:     int32(ev.To.Row),
			ToCol:     int32(ev.To.Col),
			Damage:    int32(ev.Damage),
			Visible:   int32(ev.Visible),
			NextKey:   ev.NextKey,
		}
		if ev.Killed {
			eh.Killed = 1
		}

		if err := binary.Write(w, binary.LittleEndian, &eh); err != nil {
			return err
		}
		if _, err := w.Write(actor); err != nil {
			return err
		}
		if len(target) > 0 {
			if _, err := w.Write(target); err != nil {
				return err
			}
		}
	}

	return nil
}
