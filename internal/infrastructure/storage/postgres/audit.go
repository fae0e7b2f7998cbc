package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "github.com/medtraie/Gaztesto-sub001/internal/core/context"
	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
)

// AuditAction represents the type of audited operation.
type AuditAction string

const (
	AuditActionCommit AuditAction = "commit"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the snapshot size above which snapshots are stored zstd-compressed.
const DefaultCompressThreshold = 4 * 1024

// AuditEntry is one row of sys_audit: a JSON snapshot of an entity at a point in time.
type AuditEntry struct {
	ID                 id.ID           `db:"id" json:"id"`
	EntityType         string          `db:"entity_type" json:"entityType"`
	EntityID           id.ID           `db:"entity_id" json:"entityId"`
	Action             AuditAction     `db:"action" json:"action"`
	UserID             string          `db:"user_id" json:"userId"`
	RequestID          string          `db:"request_id" json:"requestId,omitempty"`
	Snapshot           json.RawMessage `db:"snapshot" json:"snapshot"`
	SnapshotCompressed []byte          `db:"snapshot_compressed" json:"-"`
	CompressionAlgo    CompressionAlgo `db:"compression_algo" json:"compressionAlgo"`
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`
}

// AuditService writes entity snapshots. Writes join the transaction in ctx, so a
// snapshot exists exactly when the settlement it describes does.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditService creates a new audit service.
func NewAuditService(txManager *TxManager, compressThreshold int) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	if compressThreshold <= 0 {
		compressThreshold = DefaultCompressThreshold
	}
	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: compressThreshold,
	}, nil
}

// Log records an audit entry.
func (s *AuditService) Log(ctx context.Context, entry AuditEntry) error {
	if entry.UserID == "" {
		entry.UserID = appctx.GetUserID(ctx)
	}
	if entry.RequestID == "" {
		entry.RequestID = appctx.GetRequestID(ctx)
	}
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	s.deflate(&entry)

	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO sys_audit (
			id, entity_type, entity_id, action, user_id, request_id,
			snapshot, snapshot_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		entry.ID, entry.EntityType, entry.EntityID, entry.Action, entry.UserID, entry.RequestID,
		entry.Snapshot, entry.SnapshotCompressed, entry.CompressionAlgo, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Snapshot marshals v and logs it for the entity.
func (s *AuditService) Snapshot(ctx context.Context, entityType string, entityID id.ID, action AuditAction, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.Log(ctx, AuditEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Snapshot:   body,
	})
}

// History returns the audit entries of an entity, newest first, decompressed.
func (s *AuditService) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, `
		SELECT id, entity_type, entity_id, action, user_id, request_id,
			   snapshot, snapshot_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.UserID, &e.RequestID,
			&e.Snapshot, &e.SnapshotCompressed, &e.CompressionAlgo, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if err := s.inflate(&e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *AuditService) deflate(e *AuditEntry) {
	e.CompressionAlgo = CompressionNone
	if len(e.Snapshot) > s.compressThreshold {
		e.SnapshotCompressed = s.encoder.EncodeAll(e.Snapshot, nil)
		e.Snapshot = nil
		e.CompressionAlgo = CompressionZstd
	}
}

func (s *AuditService) inflate(e *AuditEntry) error {
	if e.CompressionAlgo != CompressionZstd || len(e.SnapshotCompressed) == 0 {
		return nil
	}
	raw, err := s.decoder.DecodeAll(e.SnapshotCompressed, nil)
	if err != nil {
		return fmt.Errorf("decompress snapshot: %w", err)
	}
	e.Snapshot = raw
	e.SnapshotCompressed = nil
	return nil
}
