package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/domain"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/return_order"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/http/v1/dto"
	"github.com/medtraie/Gaztesto-sub001/internal/infrastructure/storage/postgres"
	"github.com/medtraie/Gaztesto-sub001/pkg/logger"
)

// ReturnOrderService is the settlement engine as seen by HTTP.
type ReturnOrderService interface {
	NewDraft(ctx context.Context, supplyOrderID id.ID) (*return_order.Draft, error)
	Preview(ctx context.Context, d *return_order.Draft) (*return_order.Preview, error)
	Commit(ctx context.Context, d *return_order.Draft) (*return_order.CommitResult, error)
	GetByID(ctx context.Context, settlementID id.ID) (*return_order.Settlement, error)
	GetDetails(ctx context.Context, settlementID id.ID) (*return_order.Details, error)
	List(ctx context.Context, filter return_order.ListFilter) (domain.ListResult[*return_order.Settlement], error)
}

// AuditHistory reads audit snapshots.
type AuditHistory interface {
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]postgres.AuditEntry, error)
}

const detailsHistoryLimit = 10

// ReturnOrderHandler handles the return-order ("Bon d'Entrée") endpoints.
// Drafts are not stored server-side: every call carries the full figures and
// is replayed onto a fresh draft of the supply order.
type ReturnOrderHandler struct {
	*BaseHandler
	service ReturnOrderService
	audit   AuditHistory
}

// NewReturnOrderHandler creates a new return order handler. audit may be nil.
func NewReturnOrderHandler(base *BaseHandler, service ReturnOrderService, audit AuditHistory) *ReturnOrderHandler {
	return &ReturnOrderHandler{BaseHandler: base, service: service, audit: audit}
}

// RegisterRoutes mounts the handler on rg.
func (h *ReturnOrderHandler) RegisterRoutes(rg *gin.RouterGroup, commit ...gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("/drafts", h.NewDraft)
	rg.POST("/validate", h.Validate)
	rg.POST("/preview", h.Preview)
	rg.POST("", append(commit, h.Commit)...)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/details", h.GetDetails)
}

// NewDraft handles POST /return-orders/drafts.
func (h *ReturnOrderHandler) NewDraft(c *gin.Context) {
	var req dto.CreateDraftRequest
	if !h.BindJSON(c, &req) {
		return
	}
	soID, err := req.SupplyOrder()
	if err != nil {
		h.Error(c, err)
		return
	}

	d, err := h.service.NewDraft(c.Request.Context(), soID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d)
}

// Validate handles POST /return-orders/validate: the coherence check only.
func (h *ReturnOrderHandler) Validate(c *gin.Context) {
	p, ok := h.preview(c)
	if !ok {
		return
	}
	h.OK(c, dto.NewValidationResponse(p.Discrepancies))
}

// Preview handles POST /return-orders/preview.
func (h *ReturnOrderHandler) Preview(c *gin.Context) {
	p, ok := h.preview(c)
	if !ok {
		return
	}
	if p.Discrepancies == nil {
		p.Discrepancies = []return_order.Discrepancy{}
	}
	h.OK(c, p)
}

func (h *ReturnOrderHandler) preview(c *gin.Context) (*return_order.Preview, bool) {
	d, ok := h.draftFromRequest(c)
	if !ok {
		return nil, false
	}
	p, err := h.service.Preview(c.Request.Context(), d)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	return p, true
}

// Commit handles POST /return-orders.
func (h *ReturnOrderHandler) Commit(c *gin.Context) {
	d, ok := h.draftFromRequest(c)
	if !ok {
		return
	}

	res, err := h.service.Commit(c.Request.Context(), d)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromCommitResult(res))
}

// Get handles GET /return-orders/:id.
func (h *ReturnOrderHandler) Get(c *gin.Context) {
	settlementID, ok := h.ParamID(c)
	if !ok {
		return
	}
	s, err := h.service.GetByID(c.Request.Context(), settlementID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSettlement(s))
}

// GetDetails handles GET /return-orders/:id/details.
func (h *ReturnOrderHandler) GetDetails(c *gin.Context) {
	ctx := c.Request.Context()
	settlementID, ok := h.ParamID(c)
	if !ok {
		return
	}
	details, err := h.service.GetDetails(ctx, settlementID)
	if err != nil {
		h.Error(c, err)
		return
	}

	var history []postgres.AuditEntry
	if h.audit != nil {
		history, err = h.audit.History(ctx, return_order.DocumentType, settlementID, detailsHistoryLimit)
		if err != nil {
			logger.Warn(ctx, "audit history unavailable", "settlement_id", settlementID, "error", err)
		}
	}

	h.OK(c, dto.FromDetails(details, history))
}

// List handles GET /return-orders.
func (h *ReturnOrderHandler) List(c *gin.Context) {
	var q dto.ListSettlementsQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSettlementList(res))
}

func (h *ReturnOrderHandler) draftFromRequest(c *gin.Context) (*return_order.Draft, bool) {
	ctx := c.Request.Context()

	var req dto.ReturnOrderRequest
	if !h.BindJSON(c, &req) {
		return nil, false
	}
	soID, err := req.SupplyOrder()
	if err != nil {
		h.Error(c, err)
		return nil, false
	}

	d, err := h.service.NewDraft(ctx, soID)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	if err := req.ApplyTo(d); err != nil {
		h.Error(c, err)
		return nil, false
	}
	return d, true
}
