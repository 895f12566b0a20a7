package amqp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchMirrorMessageRoundTrip(t *testing.T) {
	msg := NewBatchMirrorMessage("batch-42", 7)
	assert.False(t, msg.Timestamp.IsZero())

	body, err := msg.ToJSON()
	require.NoError(t, err)

	decoded, err := BatchMirrorMessageFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, "batch-42", decoded.BatchID)
	assert.Equal(t, 7, decoded.RowCount)
}

func TestBatchMirrorMessageFromInvalidJSON(t *testing.T) {
	_, err := BatchMirrorMessageFromJSON([]byte("not json"))
	require.Error(t, err)
}
