package handler

import (
	"net/http"

	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/advcompro/garage-dashboard/internal/store"
	"go.uber.org/zap"
)

type MechanicHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewMechanicHandler(s *store.Store, logger *zap.Logger) *MechanicHandler {
	return &MechanicHandler{store: s, logger: logger}
}

func (h *MechanicHandler) rows() []domain.MechanicDTO {
	mechanics := h.store.Mechanics()
	rows := make([]domain.MechanicDTO, len(mechanics))
	for i := range mechanics {
		rows[i] = domain.ToMechanicDTO(&mechanics[i])
	}
	return rows
}

// List godoc
// @Summary List mechanics
// @Tags Mechanics
// @Produce json
// @Success 200 {array} domain.MechanicDTO
// @Security SessionToken
// @Router /mechanics [get]
func (h *MechanicHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.rows())
}

// Refresh godoc
// @Summary Reload mechanics from the Gateway
// @Tags Mechanics
// @Produce json
// @Success 200 {array} domain.MechanicDTO
// @Failure 502 {object} domain.APIError
// @Security SessionToken
// @Router /mechanics/refresh [post]
func (h *MechanicHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.store.LoadMechanics(r.Context()); err != nil {
		respondError(w, r, h.logger, err, "Failed to load mechanics")
		return
	}
	respondJSON(w, http.StatusOK, h.rows())
}

// Create godoc
// @Summary Add a mechanic
// @Tags Mechanics
// @Accept json
// @Produce json
// @Param mechanic body domain.CreateMechanicRequest true "Mechanic"
// @Success 201 {object} domain.MechanicDTO
// @Failure 400 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security SessionToken
// @Router /mechanics [post]
func (h *MechanicHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMechanicRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	m, err := h.store.AddMechanic(r.Context(), req.ToMechanic())
	if err != nil {
		respondError(w, r, h.logger, err, "Failed to add mechanic")
		return
	}
	respondJSON(w, http.StatusCreated, domain.ToMechanicDTO(&m))
}

// Delete godoc
// @Summary Delete a mechanic
// @Tags Mechanics
// @Param id path int true "Mechanic ID"
// @Success 204
// @Failure 422 {object} domain.APIError
// @Failure 502 {object} domain.APIError
// @Security SessionToken
// @Router /mechanics/{id} [delete]
func (h *MechanicHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.DeleteMechanic(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err, "Failed to delete mechanic")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
