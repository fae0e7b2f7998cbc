package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
	appctx "github.com/medtraie/Gaztesto-sub001/internal/core/context"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres"
)

const HeaderIdempotencyKey = "X-Idempotency-Key"
const maxIdempotencyBodyBytes = 1 << 20 // 1 MiB

const (
	ctxIdempotencyKey   = "idempotency_key"
	ctxIdempotencyStore = "idempotency_store"
)

// IdempotencyStore is the key store behind the middleware.
type IdempotencyStore interface {
	AcquireKey(ctx context.Context, key, userID, operation, requestHash string) (*postgres.IdempotencyReplay, error)
	CompleteKey(ctx context.Context, key string, statusCode int, contentType string, response any) error
	FailKey(ctx context.Context, key string, statusCode int, contentType string, response any) error
	Release(ctx context.Context, key string) error
}

// Idempotency middleware replays the stored response of a request whose
// X-Idempotency-Key was already seen. Requests without the header pass through.
func Idempotency(store IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}

		limited := io.LimitReader(c.Request.Body, maxIdempotencyBodyBytes+1)
		body, _ := io.ReadAll(limited)
		if len(body) > maxIdempotencyBodyBytes {
			appErr := apperror.NewValidation("request body too large for idempotency")
			appErr.HTTPStatus = http.StatusRequestEntityTooLarge
			_ = c.Error(appErr.WithDetail("max_bytes", maxIdempotencyBodyBytes))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		hash := sha256.Sum256(body)
		requestHash := hex.EncodeToString(hash[:])

		operation := c.Request.Method + " " + c.FullPath()
		userID := appctx.GetUserID(c.Request.Context())

		replay, err := store.AcquireKey(c.Request.Context(), key, userID, operation, requestHash)
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				_ = c.Error(appErr)
			} else {
				_ = c.Error(apperror.NewInternal(err).WithDetail("component", "idempotency"))
			}
			c.Abort()
			return
		}

		if replay != nil {
			c.Header("Idempotent-Replay", "true")
			c.Data(replay.StatusCode, replay.ContentType, replay.Body)
			c.Abort()
			return
		}

		c.Set(ctxIdempotencyKey, key)
		c.Set(ctxIdempotencyStore, store)

		c.Next()
	}
}

func idempotencyFrom(c *gin.Context) (string, IdempotencyStore, bool) {
	key, ok := c.Get(ctxIdempotencyKey)
	if !ok {
		return "", nil, false
	}
	store, ok := c.Get(ctxIdempotencyStore)
	if !ok {
		return "", nil, false
	}
	s, ok := store.(IdempotencyStore)
	if !ok || s == nil {
		return "", nil, false
	}
	return key.(string), s, true
}

// CompleteIdempotency stores a successful response for replay (best-effort).
func CompleteIdempotency(c *gin.Context, statusCode int, contentType string, response any) {
	if key, store, ok := idempotencyFrom(c); ok {
		_ = store.CompleteKey(c.Request.Context(), key, statusCode, contentType, response)
	}
}

// failIdempotency stores a client error response for replay. Server errors,
// a failed commit included, release the key so the same request can be retried.
func failIdempotency(c *gin.Context, code string, statusCode int, body any) {
	key, store, ok := idempotencyFrom(c)
	if !ok {
		return
	}
	if code == apperror.CodeCommitFailed || statusCode >= http.StatusInternalServerError {
		_ = store.Release(c.Request.Context(), key)
		return
	}
	_ = store.FailKey(c.Request.Context(), key, statusCode, "application/json", body)
}
