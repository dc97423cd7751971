package vm

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/bfk/op"
)

// recordingObserver records all events for testing.
type recordingObserver struct {
	steps    []StepEvent
	halts    []HaltEvent
	stopAt   int
	stopping bool
}

func (o *recordingObserver) OnStep(event StepEvent) bool {
	o.steps = append(o.steps, event)
	if o.stopping && len(o.steps) >= o.stopAt {
		return false
	}
	return true
}

func (o *recordingObserver) OnHalt(event HaltEvent) {
	o.halts = append(o.halts, event)
}

func TestObserverSeesEveryStep(t *testing.T) {
	obs := &recordingObserver{}
	machine, _, err := run(t, "++>-", WithObserver(obs))
	require.Nil(t, err)
	require.Len(t, obs.steps, 4)
	require.Equal(t, machine.Steps(), int64(len(obs.steps)))

	first := obs.steps[0]
	require.Equal(t, 0, first.PC)
	require.Equal(t, op.Increment, first.Opcode)
	require.Equal(t, "INCREMENT", first.OpcodeName)
	require.Equal(t, 2, first.Operand)
	require.Equal(t, uint8(0), first.Cell)

	third := obs.steps[2]
	require.Equal(t, op.Decrement, third.Opcode)
	require.Equal(t, DefaultTapeSize/2+1, third.Pointer)

	require.Equal(t, op.EndOfProgram, obs.steps[3].Opcode)
	require.Empty(t, obs.halts)
}

func TestObserverCanHalt(t *testing.T) {
	obs := &recordingObserver{stopping: true, stopAt: 3}
	machine := New(compile(t, "+[]"), WithObserver(obs))
	err := machine.Run(context.Background())
	require.ErrorIs(t, err, ErrHaltedByObserver)
	require.Len(t, obs.steps, 3)
	require.Equal(t, int64(2), machine.Steps())
}

func TestObserverOnHalt(t *testing.T) {
	obs := &recordingObserver{}
	_, _, err := run(t, "<<", WithTapeSize(2), WithObserver(obs))
	require.NotNil(t, err)
	require.Len(t, obs.halts, 1)
	halt := obs.halts[0]
	require.Equal(t, 0, halt.PC)
	require.Equal(t, op.MoveLeft, halt.Opcode)
	require.Equal(t, 2, halt.ExitCode)
	require.Equal(t, MsgMoveLeftOutOfBounds, halt.Message)
}

func TestCountingObserver(t *testing.T) {
	obs := NewCountingObserver()
	_, out, err := run(t, "++>+++++[<+>-]<.", WithObserver(obs))
	require.Nil(t, err)
	require.Equal(t, []byte{7}, out)
	require.Equal(t, int64(1), obs.Counts[op.JumpIfZero])
	require.Equal(t, int64(5), obs.Counts[op.JumpIfNotZero])
	require.Equal(t, int64(5), obs.Counts[op.Decrement])
	require.Equal(t, int64(1), obs.Counts[op.Write])
	require.Equal(t, int64(1), obs.Counts[op.EndOfProgram])
}

func TestLogObserver(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.TraceLevel)
	_, _, err := run(t, ">", WithTapeSize(2), WithObserver(NewLogObserver(logger)))
	require.NotNil(t, err)
	require.Contains(t, logs.String(), `"op":"MOVE_RIGHT"`)
	require.Contains(t, logs.String(), `"level":"warn"`)
	require.Contains(t, logs.String(), `"exit_code":1`)
}

func TestNoOpObserver(t *testing.T) {
	_, out, err := run(t, "+.", WithObserver(NoOpObserver{}))
	require.Nil(t, err)
	require.Equal(t, []byte{1}, out)
}

func TestObservers(t *testing.T) {
	first := NewCountingObserver()
	second := &recordingObserver{stopping: true, stopAt: 2}
	machine := New(compile(t, "+>+"), WithObserver(Observers(first, nil, second)))
	err := machine.Run(context.Background())
	require.ErrorIs(t, err, ErrHaltedByObserver)
	require.Equal(t, int64(1), first.Counts[op.Increment])
	require.Equal(t, int64(1), first.Counts[op.MoveRight])
	require.Len(t, second.steps, 2)

	single := NewCountingObserver()
	require.Equal(t, Observer(single), Observers(nil, single))
}
