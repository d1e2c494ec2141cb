package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/bakesync/internal/crypto"
	"github.com/iudanet/bakesync/internal/server/storage"
	"github.com/iudanet/bakesync/pkg/api"
)

// DefaultMaxBodySize ограничивает размер документа (16 MiB)
const DefaultMaxBodySize int64 = 16 << 20

//go:generate moq -out storage_mock.go . DocumentStorage

// DocumentStorage определяет интерфейс хранилища документов
type DocumentStorage interface {
	GetDocument(ctx context.Context, accountID string) (*storage.Document, error)
	PutDocument(ctx context.Context, doc *storage.Document, expectedETag string) (*storage.Document, error)
}

// SnapshotHandler serves the account snapshot document with conditional
// writes. The body is opaque to the server (plain JSON or an encrypted
// envelope).
type SnapshotHandler struct {
	logger      *slog.Logger
	storage     DocumentStorage
	maxBodySize int64
}

// NewSnapshotHandler creates a new snapshot handler. maxBodySize <= 0 means
// DefaultMaxBodySize.
func NewSnapshotHandler(logger *slog.Logger, storage DocumentStorage, maxBodySize int64) *SnapshotHandler {
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}
	return &SnapshotHandler{
		logger:      logger,
		storage:     storage,
		maxBodySize: maxBodySize,
	}
}

// HandleSnapshot обрабатывает GET и PUT /api/v1/snapshot
func (h *SnapshotHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	// account id установлен AuthMiddleware
	accountID, ok := GetAccountID(r.Context())
	if !ok {
		h.logger.Error("Account ID not found in context")
		sendError(w, h.logger, "missing account", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, accountID)
	case http.MethodPut:
		h.put(w, r, accountID)
	default:
		w.Header().Set("Allow", "GET, PUT")
		sendError(w, h.logger, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SnapshotHandler) get(w http.ResponseWriter, r *http.Request, accountID string) {
	doc, err := h.storage.GetDocument(r.Context(), accountID)
	if errors.Is(err, storage.ErrDocumentNotFound) {
		sendError(w, h.logger, "no snapshot yet", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("Failed to get document", "account_id", accountID, "error", err)
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	setDocumentHeaders(w, doc)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		h.logger.Warn("Failed to write document", "account_id", accountID, "error", err)
	}
}

func (h *SnapshotHandler) put(w http.ResponseWriter, r *http.Request, accountID string) {
	ctx := r.Context()

	ifMatch := r.Header.Get("If-Match")
	ifNoneMatch := r.Header.Get("If-None-Match")
	switch {
	case ifMatch == "" && ifNoneMatch == "":
		// безусловная запись затерла бы чужие изменения
		sendError(w, h.logger, "If-Match or If-None-Match: * is required", http.StatusPreconditionRequired)
		return
	case ifMatch != "" && ifNoneMatch != "":
		sendError(w, h.logger, "If-Match and If-None-Match are mutually exclusive", http.StatusBadRequest)
		return
	case ifNoneMatch != "" && ifNoneMatch != "*":
		sendError(w, h.logger, "only If-None-Match: * is supported", http.StatusBadRequest)
		return
	}

	var version int64
	if v := r.Header.Get(api.HeaderVersion); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil || parsed < 0 {
			sendError(w, h.logger, "invalid "+api.HeaderVersion, http.StatusBadRequest)
			return
		}
		version = parsed
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, h.logger, "snapshot too large", http.StatusRequestEntityTooLarge)
			return
		}
		sendError(w, h.logger, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 || !json.Valid(body) {
		sendError(w, h.logger, "snapshot must be a JSON document", http.StatusBadRequest)
		return
	}

	expected := ifMatch
	if ifMatch == "*" {
		// "*" - любая существующая версия
		current, err := h.storage.GetDocument(ctx, accountID)
		if errors.Is(err, storage.ErrDocumentNotFound) {
			sendError(w, h.logger, "no snapshot to replace", http.StatusPreconditionFailed)
			return
		}
		if err != nil {
			h.logger.Error("Failed to get document", "account_id", accountID, "error", err)
			sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
			return
		}
		expected = current.ETag
	}

	saved, err := h.storage.PutDocument(ctx, &storage.Document{
		AccountID:       accountID,
		Body:            body,
		ETag:            crypto.ETag(body),
		SnapshotVersion: version,
	}, expected)
	if errors.Is(err, storage.ErrPreconditionFailed) {
		h.logger.Info("Snapshot write rejected", "account_id", accountID, "if_match", ifMatch, "if_none_match", ifNoneMatch)
		sendError(w, h.logger, "snapshot version mismatch", http.StatusPreconditionFailed)
		return
	}
	if err != nil {
		h.logger.Error("Failed to put document", "account_id", accountID, "error", err)
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Snapshot stored",
		"account_id", accountID,
		"revision", saved.Revision,
		"snapshot_version", saved.SnapshotVersion,
		"bytes", len(body))

	status := http.StatusOK
	if expected == "" {
		status = http.StatusCreated
	}
	setDocumentHeaders(w, saved)
	sendJSON(w, h.logger, api.PutSnapshotResponse{
		ETag:            saved.ETag,
		Revision:        saved.Revision,
		SnapshotVersion: saved.SnapshotVersion,
	}, status)
}

func setDocumentHeaders(w http.ResponseWriter, doc *storage.Document) {
	w.Header().Set("ETag", doc.ETag)
	w.Header().Set(api.HeaderVersion, strconv.FormatInt(doc.SnapshotVersion, 10))
	w.Header().Set("Cache-Control", "no-store")
	if !doc.UpdatedAt.IsZero() {
		w.Header().Set("Last-Modified", doc.UpdatedAt.UTC().Format(http.TimeFormat))
	}
}

// sendJSON отправляет JSON ответ
func sendJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func sendError(w http.ResponseWriter, logger *slog.Logger, message string, statusCode int) {
	sendJSON(w, logger, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}
