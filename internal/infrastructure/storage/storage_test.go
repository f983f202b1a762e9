package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/jsuvanto/pyrl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_SaveLoad(t *testing.T) {
	rec := NewRecorder(42, 1700000000)
	rec.Record(domain.TurnEvent{Round: 1, Turn: 1, Actor: "hero", Action: domain.ActionMove,
		From: domain.At(1, 1), To: domain.At(1, 2), NextKey: 900, Visible: 31})
	rec.Record(domain.TurnEvent{Round: 2, Turn: 2, Actor: "orc", Action: domain.ActionAttack,
		From: domain.At(1, 3), To: domain.At(1, 3), Target: "hero", Damage: 3, Killed: true, NextKey: 1412.5})

	path := filepath.Join(t.TempDir(), "traces", "run.prtl")
	require.NoError(t, rec.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, 2, got.Rounds)
	assert.Equal(t, rec.Session().Events, got.Events)
}

func TestReadTrace_Errors(t *testing.T) {
	_, err := ReadTrace(bytes.NewReader([]byte("PR")))
	assert.Error(t, err, "truncated header")

	var buf bytes.Buffer
	require.NoError(t, WriteTrace(&buf, &TraceSession{}))
	raw := buf.Bytes()
	raw[0] = 'X'
	_, err = ReadTrace(bytes.NewReader(raw))
	assert.True(t, errors.Is(err, ErrInvalidTrace))

	buf.Reset()
	require.NoError(t, WriteTrace(&buf, &TraceSession{Events: []domain.TurnEvent{{Actor: "a"}}}))
	_, err = ReadTrace(bytes.NewReader(buf.Bytes()[:buf.Len()-1]))
	assert.Error(t, err, "truncated event")
}

func TestReadTrace_HugeEventCountWithoutEvents(t *testing.T) {
	header := TraceFileHeader{Version: Version1, EventCount: 1 << 30}
	copy(header.Magic[:], MagicHeader)

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, &header))

	session, err := ReadTrace(bytes.NewReader(buf.Bytes()))
	require.Error(t, err)
	assert.Nil(t, session)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF), "got %v", err)
}

func TestWriteTrace_LongID(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	var buf bytes.Buffer
	err := WriteTrace(&buf, &TraceSession{Events: []domain.TurnEvent{{Actor: domain.ActorID(long)}}})
	assert.Error(t, err)
}
