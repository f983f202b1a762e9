package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jsuvanto/pyrl/internal/domain"
)

var ErrInvalidTrace = errors.New("invalid trace file")

// Заголовку не доверяем: больше этого заранее не резервируем, дальше растет append
const maxPreallocEvents = 1024

// Load читает журнал ходов из файла
func Load(path string) (*TraceSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadTrace(bufio.NewReader(f))
}

func ReadTrace(r io.Reader) (*TraceSession, error) {
	// 1. Заголовок целиком
	var header TraceFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidTrace, header.Magic[:])
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalidTrace, header.Version, Version1)
	}
	if header.EventCount < 0 {
		return nil, fmt.Errorf("%w: negative event count", ErrInvalidTrace)
	}

	session := &TraceSession{
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
		Rounds:    int(header.Rounds),
		Events:    make([]domain.TurnEvent, 0, min(int(header.EventCount), maxPreallocEvents)),
	}

	// 2. События
	for i := 0; i < int(header.EventCount); i++ {
		var eh EventHeader
		if err := binary.Read(r, binary.LittleEndian, &eh); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, unexpectedEOF(err))
		}

		actor := make([]byte, eh.ActorLen)
		if _, err := io.ReadFull(r, actor); err != nil {
			return nil, fmt.Errorf("event %d actor: %w", i, unexpectedEOF(err))
		}
		target := make([]byte, eh.TargetLen)
		if _, err := io.ReadFull(r, target); err != nil {
			return nil, fmt.Errorf("event %d target: %w", i, unexpectedEOF(err))
		}

		session.Events = append(session.Events, domain.TurnEvent{
			Round:   int(eh.Round),
			Turn:    int(eh.Turn),
			Actor:   domain.ActorID(actor),
			Action:  domain.ActionType(eh.Action),
			From:    domain.At(int(eh.FromRow), int(eh.FromCol)),
			To:      domain.At(int(eh.ToRow), int(eh.ToCol)),
			Target:  domain.ActorID(target),
			Damage:  int(eh.Damage),
			Killed:  eh.Killed != 0,
			NextKey: eh.NextKey,
			Visible: int(eh.Visible),
		})
	}

	return session, nil
}

// unexpectedEOF: заголовок обещал больше событий, чем есть в файле
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
