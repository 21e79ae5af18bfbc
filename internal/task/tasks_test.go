package task

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaTasks(t *testing.T) {
	fix, err := NewFixateMediaTask("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	require.NoError(t, err)
	assert.Equal(t, TypeFixateMedia, fix.Type())
	assert.JSONEq(t, `{"media_id":"aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"}`, string(fix.Payload()))

	del, err := NewDeleteMediaTask("abc")
	require.NoError(t, err)
	assert.Equal(t, TypeDeleteMedia, del.Type())

	p, err := ParseMediaPayload(del)
	require.NoError(t, err)
	assert.Equal(t, "abc", p.MediaID)
}

func TestParseMediaPayload_Invalid(t *testing.T) {
	_, err := ParseMediaPayload(asynq.NewTask(TypeFixateMedia, []byte("nope")))
	assert.Error(t, err)
}

func TestNewReclaimOrphansTask(t *testing.T) {
	tk := NewReclaimOrphansTask()
	assert.Equal(t, TypeReclaimOrphans, tk.Type())
	assert.Empty(t, tk.Payload())
}
