package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"deedflow/internal/platform/metrics"
	"deedflow/internal/platform/middleware"
	"deedflow/internal/transaction"
	"deedflow/internal/transport/http/shared"
	"deedflow/pkg/domain"
	dErrors "deedflow/pkg/domain-errors"
)

// Service defines the orchestrator operations the transport needs.
type Service interface {
	Initiate(ctx context.Context, property transaction.Property, seller, buyer transaction.Party) (*transaction.Transaction, error)
	OpenEscrow(ctx context.Context, txID, actor string) (*transaction.Transaction, error)
	UploadDocument(ctx context.Context, txID string, kind domain.DocumentKind, uploader, note string) (*transaction.Transaction, error)
	VerifyDocument(ctx context.Context, txID, documentID, verifier string) (*transaction.Transaction, error)
	ProcessPayment(ctx context.Context, txID string, amount int64, payer string, method domain.PaymentMethod, reference string) (*transaction.Transaction, error)
	ConfirmPayment(ctx context.Context, txID, paymentID, confirmer string) (*transaction.Transaction, error)
	CompleteOwnershipTransfer(ctx context.Context, txID, notary string) (*transaction.Transaction, error)
	Cancel(ctx context.Context, txID, actor, reason string) (*transaction.Transaction, error)
	RaiseDispute(ctx context.Context, txID, actor, reason string) (*transaction.Transaction, error)
	ResolveDispute(ctx context.Context, txID, actor, resolution string) (*transaction.Transaction, error)
	Get(ctx context.Context, txID string) (*transaction.Transaction, error)
	AuditLog(ctx context.Context, txID string) ([]transaction.AuditEvent, error)
	List(ctx context.Context) ([]*transaction.Transaction, error)
}

// Handler is the thin HTTP layer over the orchestrator. It parses, delegates,
// and translates errors; no business rules live here.
type Handler struct {
	service      Service
	logger       *slog.Logger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(service Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the transaction routes. Reads are open; mutations require a
// bearer token.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.LatencyMiddleware(h.metrics))

	router.Get("/v1/transactions", h.handleList)
	router.Get("/v1/transactions/{id}", h.handleGet)
	router.Get("/v1/transactions/{id}/audit", h.handleAuditLog)

	router.Group(func(mutating chi.Router) {
		if h.jwtValidator != nil {
			mutating.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		}
		mutating.Post("/v1/transactions", h.handleInitiate)
		mutating.Post("/v1/transactions/{id}/escrow", h.handleOpenEscrow)
		mutating.Post("/v1/transactions/{id}/documents", h.handleUploadDocument)
		mutating.Post("/v1/transactions/{id}/documents/{docID}/verify", h.handleVerifyDocument)
		mutating.Post("/v1/transactions/{id}/payments", h.handleProcessPayment)
		mutating.Post("/v1/transactions/{id}/payments/{payID}/confirm", h.handleConfirmPayment)
		mutating.Post("/v1/transactions/{id}/complete", h.handleComplete)
		mutating.Post("/v1/transactions/{id}/cancel", h.handleCancel)
		mutating.Post("/v1/transactions/{id}/dispute", h.handleRaiseDispute)
		mutating.Post("/v1/transactions/{id}/dispute/resolve", h.handleResolveDispute)
	})

	r.Mount("/", router)
}

func (h *Handler) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req InitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	tx, err := h.service.Initiate(r.Context(),
		transaction.Property{ID: req.Property.ID, Address: req.Property.Address, Price: req.Property.Price},
		transaction.Party{ID: req.Seller.ID, Name: req.Seller.Name},
		transaction.Party{ID: req.Buyer.ID, Name: req.Buyer.Name},
	)
	if err != nil {
		h.writeServiceError(w, r, "initiate", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, tx)
}

func (h *Handler) handleOpenEscrow(w http.ResponseWriter, r *http.Request) {
	var req ActorRequest
	if err := decodeOptional(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	tx, err := h.service.OpenEscrow(r.Context(), chi.URLParam(r, "id"), h.actor(r, req.Actor))
	if err != nil {
		h.writeServiceError(w, r, "open escrow", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, tx)
}

func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	var req UploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	kind, err := domain.ParseDocumentKind(req.Kind)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	tx, err := h.service.UploadDocument(r.Context(), chi.URLParam(r, "id"), kind, h.actor(r, req.Uploader), req.Note)
	if err != nil {
		h.writeServiceError(w, r, "upload document", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, tx)
}

func (h *Handler) handleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	var req VerifyDocumentRequest
	if err := decodeOptional(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	tx, err := h.service.VerifyDocument(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "docID"), h.actor(r, req.Verifier))
	if err != nil {
		h.writeServiceError(w, r, "verify document", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, tx)
}

func (h *Handler) handleProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	method, err := domain.ParsePaymentMethod(req.Method)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	tx, err := h.service.ProcessPayment(r.Context(), chi.URLParam(r, "id"), req.Amount, h.actor(r, req.Payer), method, req.Reference)
	if err != nil {
		h.writeServiceError(w, r, "process payment", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, tx)
}

func (h *Handler) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPaymentRequest
	if err := decodeOptional(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	tx, err := h.service.ConfirmPayment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "payID"), h.actor(r, req.Confirmer))
	if err != nil {
		h.writeServiceError(w, r, "confirm payment", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, tx)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req ActorRequest
	if err := decodeOptional(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	tx, err := h.service.CompleteOwnershipTransfer(r.Context(), chi.URLParam(r, "id"), h.actor(r, req.Actor))
	if err != nil {
		h.writeServiceError(w, r, "complete ownership transfer", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, tx)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	var req ReasonRequest
	if err := decodeOptional(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	tx, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"), h.actor(r, req.Actor), req.Reason)
	if err != nil {
		h.writeServiceError(w, r, "cancel", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, tx)
}

func (h *Handler) handleRaiseDispute(w http.ResponseWriter, r *http.Request) {
	var req ReasonRequest
	if err := decodeOptional(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	tx, err := h.service.RaiseDispute(r.Context(), chi.URLParam(r, "id"), h.actor(r, req.Actor), req.Reason)
	if err != nil {
		h.writeServiceError(w, r, "raise dispute", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, tx)
}

func (h *Handler) handleResolveDispute(w http.ResponseWriter, r *http.Request) {
	var req ReasonRequest
	if err := decodeOptional(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	tx, err := h.service.ResolveDispute(r.Context(), chi.URLParam(r, "id"), h.actor(r, req.Actor), req.Reason)
	if err != nil {
		h.writeServiceError(w, r, "resolve dispute", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, tx)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	tx, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "get", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, tx)
}

func (h *Handler) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.AuditLog(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, "audit log", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	txs, err := h.service.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "list", err)
		return
	}
	summaries := make([]map[string]any, 0, len(txs))
	for _, tx := range txs {
		summaries = append(summaries, map[string]any{
			"id":          tx.ID,
			"phase":       tx.Phase,
			"property_id": tx.Property.ID,
			"price":       tx.Property.Price,
			"created_at":  tx.CreatedAt,
			"updated_at":  tx.UpdatedAt,
		})
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"transactions": summaries})
}

// actor prefers the explicit request field, falling back to the token
// subject set by the auth middleware.
func (h *Handler) actor(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return middleware.GetActorID(r.Context())
}

// decodeOptional decodes a body that may legitimately be absent.
func decodeOptional(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid request body")
	}
	return nil
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal:
		h.logger.ErrorContext(ctx, "operation failed",
			"operation", op,
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
	default:
		h.logger.WarnContext(ctx, "operation rejected",
			"operation", op,
			"error", err.Error(),
			"request_id", middleware.GetRequestID(ctx),
		)
	}
	shared.WriteError(w, err)
}
