package eventlog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hallwayhq/agenthub/logging"
)

func TestLog_RecordAndQuery(t *testing.T) {
	l := New(logging.Nop())

	l.Record(Entry{Stage: StageRequestReceived, RunID: "r1", AgentID: "concierge"})
	l.Record(Entry{Stage: StageToolCalled, RunID: "r1", Tool: "book_room"})
	l.Record(Entry{Stage: StageCompleted, RunID: "r2"})

	all := l.Entries()
	assert.Len(t, all, 3)
	assert.False(t, all[0].Timestamp.IsZero())

	r1 := l.ByRun("r1")
	assert.Len(t, r1, 2)
	assert.Equal(t, StageRequestReceived, r1[0].Stage)
	assert.Equal(t, StageToolCalled, r1[1].Stage)
}

func TestLog_CapacityBound(t *testing.T) {
	l := New(logging.Nop(), func(o *Options) { o.Capacity = 5 })

	for i := 0; i < 12; i++ {
		l.Record(Entry{Stage: StageToolCalled, RunID: fmt.Sprintf("r%d", i)})
	}

	entries := l.Entries()
	assert.Len(t, entries, 5)
	assert.Equal(t, "r7", entries[0].RunID)
	assert.Equal(t, "r11", entries[4].RunID)
}

func TestLog_EntriesCopyIsolated(t *testing.T) {
	l := New(logging.Nop())
	l.Record(Entry{Stage: StageCompleted, RunID: "r1"})

	entries := l.Entries()
	entries[0].RunID = "mutated"
	assert.Equal(t, "r1", l.Entries()[0].RunID)
}
