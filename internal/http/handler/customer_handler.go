package handler

import (
	"net/http"
	"time"

	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/advcompro/garage-dashboard/internal/store"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	store  *store.Store
	now    func() time.Time
	logger *zap.Logger
}

func NewCustomerHandler(s *store.Store, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		store:  s,
		now:    time.Now,
		logger: logger,
	}
}

func (h *CustomerHandler) listResponse() domain.CustomerListResponse {
	customers, active := h.store.CustomerTable()
	rows := make([]domain.CustomerDTO, len(customers))
	for i := range customers {
		rows[i] = domain.ToCustomerDTO(&customers[i], i)
	}
	return domain.CustomerListResponse{
		Data:          rows,
		Total:         len(rows),
		ActiveRepairs: active,
	}
}

// List godoc
// @Summary List customers
// @Description Returns the customer table in store order with the active repair count
// @Tags Customers
// @Produce json
// @Success 200 {object} domain.CustomerListResponse
// @Failure 401 {object} domain.APIError
// @Security SessionToken
// @Router /customers [get]
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.listResponse())
}

// GetByID godoc
// @Summary Get customer
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} domain.CustomerDTO
// @Failure 404 {object} domain.APIError
// @Security SessionToken
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	customers := h.store.Customers()
	for i := range customers {
		if customers[i].ID == id {
			respondJSON(w, http.StatusOK, domain.ToCustomerDTO(&customers[i], i))
			return
		}
	}
	respondWithError(w, http.StatusNotFound, "Customer not found")
}

// Refresh godoc
// @Summary Reload customers from the Gateway
// @Description Replaces the table with the Gateway's list. On failure the table is unchanged.
// @Tags Customers
// @Produce json
// @Success 200 {object} domain.CustomerListResponse
// @Failure 502 {object} domain.APIError
// @Failure 504 {object} domain.APIError
// @Security SessionToken
// @Router /customers/refresh [post]
func (h *CustomerHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.store.LoadCustomers(r.Context()); err != nil {
		respondError(w, r, h.logger, err, "Failed to load customers")
		return
	}
	respondJSON(w, http.StatusOK, h.listResponse())
}

// Create godoc
// @Summary Register a customer and car
// @Description Submits the form to the Gateway and appends the stored record
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer body domain.CreateCustomerRequest true "Customer form"
// @Success 201 {object} domain.CustomerDTO
// @Failure 400 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security SessionToken
// @Router /customers [post]
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCustomerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	added, err := h.store.AddCustomer(r.Context(), req.ToCustomer(h.now()))
	if err != nil {
		respondError(w, r, h.logger, err, "Failed to add customer")
		return
	}

	respondJSON(w, http.StatusCreated, domain.ToCustomerDTO(&added, h.positionOf(added.ID)))
}

// ReplaceAll godoc
// @Summary Replace the customer table
// @Description Swaps the whole table without calling the Gateway. An empty list clears it.
// @Tags Customers
// @Accept json
// @Produce json
// @Param customers body domain.ReplaceCustomersRequest true "New table"
// @Success 200 {object} domain.CustomerListResponse
// @Failure 400 {object} domain.APIError
// @Security SessionToken
// @Router /customers [put]
func (h *CustomerHandler) ReplaceAll(w http.ResponseWriter, r *http.Request) {
	var req domain.ReplaceCustomersRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	now := h.now()
	customers := make([]domain.Customer, len(req.Customers))
	for i := range req.Customers {
		customers[i] = req.Customers[i].ToCustomer(now)
	}
	h.store.ReplaceAll(customers)

	respondJSON(w, http.StatusOK, h.listResponse())
}

// Delete godoc
// @Summary Delete a customer
// @Description Deletes at the Gateway first. Unknown or locally assigned IDs are rejected before any Gateway call.
// @Tags Customers
// @Param id path int true "Customer ID"
// @Success 204
// @Failure 409 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security SessionToken
// @Router /customers/{id} [delete]
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.DeleteCustomer(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err, "Failed to delete customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Toggle godoc
// @Summary Toggle a customer's checked flag
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} domain.CustomerDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security SessionToken
// @Router /customers/{id}/toggle [post]
func (h *CustomerHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.store.ToggleChecked(id)
	if err != nil {
		respondError(w, r, h.logger, err, "Failed to toggle customer")
		return
	}
	respondJSON(w, http.StatusOK, domain.ToCustomerDTO(&c, h.positionOf(c.ID)))
}

// ToggleAt godoc
// @Summary Toggle the checked flag by table position
// @Tags Customers
// @Produce json
// @Param position path int true "Zero-based table position"
// @Success 200 {object} domain.CustomerDTO
// @Failure 404 {object} domain.APIError
// @Security SessionToken
// @Router /customers/at/{position}/toggle [post]
func (h *CustomerHandler) ToggleAt(w http.ResponseWriter, r *http.Request) {
	position, err := int64Param(r, "position")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.store.ToggleCheckedAt(int(position))
	if err != nil {
		respondError(w, r, h.logger, err, "Failed to toggle customer")
		return
	}
	respondJSON(w, http.StatusOK, domain.ToCustomerDTO(&c, int(position)))
}

func (h *CustomerHandler) positionOf(id int64) int {
	for i, c := range h.store.Customers() {
		if c.ID == id {
			return i
		}
	}
	return -1
}
