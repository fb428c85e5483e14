package handler

import (
	"net/http"

	"stoktakip/internal/dto"
	"stoktakip/internal/service"

	"github.com/gin-gonic/gin"
)

type PhonesHandler struct{ svc service.PhoneService }

func NewPhonesHandler(svc service.PhoneService) *PhonesHandler { return &PhonesHandler{svc: svc} }

func (h *PhonesHandler) Create(c *gin.Context) {
	var req dto.CreatePhoneRequest
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

func (h *PhonesHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PhonesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PhonesHandler) Update(c *gin.Context) {
	var req dto.UpdatePhoneRequest
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

func (h *PhonesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sell flips the device to sold and records the per-device sale.
func (h *PhonesHandler) Sell(c *gin.Context) {
	var req dto.SellPhoneRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Sell(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PhonesHandler) ListSales(c *gin.Context) {
	resp, err := h.svc.ListSales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteSale removes a device sale record and returns the device to stock.
func (h *PhonesHandler) DeleteSale(c *gin.Context) {
	if err := h.svc.DeleteSale(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
