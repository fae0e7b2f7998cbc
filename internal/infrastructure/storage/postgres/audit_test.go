package postgres

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditSnapshotCompression(t *testing.T) {
	s, err := NewAuditService(nil, 64)
	require.NoError(t, err)

	t.Run("small snapshots stay plain", func(t *testing.T) {
		e := AuditEntry{Snapshot: json.RawMessage(`{"number":"BD-2026-00001"}`)}
		s.deflate(&e)

		assert.Equal(t, CompressionNone, e.CompressionAlgo)
		assert.Nil(t, e.SnapshotCompressed)
		assert.JSONEq(t, `{"number":"BD-2026-00001"}`, string(e.Snapshot))
	})

	t.Run("large snapshots round trip through zstd", func(t *testing.T) {
		body := `{"items":"` + strings.Repeat("12KG;", 200) + `"}`
		e := AuditEntry{Snapshot: json.RawMessage(body)}
		s.deflate(&e)

		require.Equal(t, CompressionZstd, e.CompressionAlgo)
		assert.Nil(t, e.Snapshot)
		assert.Less(t, len(e.SnapshotCompressed), len(body))

		require.NoError(t, s.inflate(&e))
		assert.Equal(t, body, string(e.Snapshot))
		assert.Nil(t, e.SnapshotCompressed)
	})
}
