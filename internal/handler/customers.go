package handler

import (
	"net/http"

	"stoktakip/internal/dto"
	"stoktakip/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomersHandler struct {
	svc    service.CustomerService
	ledger service.CustomerLedger
}

func NewCustomersHandler(svc service.CustomerService, ledger service.CustomerLedger) *CustomersHandler {
	return &CustomersHandler{svc: svc, ledger: ledger}
}

func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CustomersHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) Update(c *gin.Context) {
	var req dto.UpdateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ApplyTransaction posts a ledger entry against the customer in the path.
func (h *CustomersHandler) ApplyTransaction(c *gin.Context) {
	var req dto.ApplyTransactionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.CustomerID = c.Param("id")
	resp, err := h.ledger.ApplyTransaction(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CustomersHandler) ListTransactions(c *gin.Context) {
	resp, err := h.ledger.ListTransactions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
