package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/quests/internal/criteria"
	"github.com/dukerupert/quests/internal/query"
	"github.com/dukerupert/quests/internal/service"
	"github.com/dukerupert/quests/internal/websocket"
)

const applicantEntity = "applicant"

type ApplicantHandler struct {
	applicants *service.ApplicantService
	queries    *service.ApplicantQueryService
	limits     query.PageLimits
	hub        Broadcaster
	logger     *slog.Logger
}

func NewApplicantHandler(as *service.ApplicantService, aq *service.ApplicantQueryService, limits query.PageLimits, hub Broadcaster, logger *slog.Logger) *ApplicantHandler {
	return &ApplicantHandler{applicants: as, queries: aq, limits: limits, hub: hub, logger: logger}
}

func (h *ApplicantHandler) broadcast(action string, id int64) {
	if h.hub != nil {
		h.hub.Broadcast(websocket.NewEvent(applicantEntity, action, id))
	}
}

// List handles GET /api/applicants?questId.equals=3&sort=discordHandle.
func (h *ApplicantHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := criteria.ParseApplicant(q)
	if err != nil {
		writeError(w, h.logger, applicantEntity, err)
		return
	}
	p, err := query.ParsePageable(q, query.ApplicantSortable, h.limits)
	if err != nil {
		writeError(w, h.logger, applicantEntity, err)
		return
	}

	var opts []service.FindOption
	if eagerLoad(r) {
		opts = append(opts, service.WithRelations())
	}
	page, err := h.queries.FindPageByCriteria(r.Context(), c, p, opts...)
	if err != nil {
		writeError(w, h.logger, applicantEntity, err)
		return
	}
	writePage(w, page)
}

func (h *ApplicantHandler) Count(w http.ResponseWriter, r *http.Request) {
	c, err := criteria.ParseApplicant(r.URL.Query())
	if err != nil {
		writeError(w, h.logger, applicantEntity, err)
		return
	}
	n, err := h.queries.CountByCriteria(r.Context(), c)
	if err != nil {
		writeError(w, h.logger, applicantEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *ApplicantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, applicantEntity)
	if !ok {
		return
	}
	dto, err := h.applicants.FindOne(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, applicantEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *ApplicantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto service.ApplicantDTO
	if !decode(w, r, applicantEntity, &dto) {
		return
	}
	created, err := h.applicants.Create(r.Context(), dto)
	if err != nil {
		writeError(w, h.logger, applicantEntity, err)
		return
	}

	h.broadcast("created", *created.ID)

	w.Header().Set("Location", r.URL.Path+"/"+formatID(*created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (h *ApplicantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, applicantEntity)
	if !ok {
		return
	}
	var dto service.ApplicantDTO
	if !decode(w, r, applicantEntity, &dto) {
		return
	}
	updated, err := h.applicants.Update(r.Context(), id, dto)
	if err != nil {
		writeError(w, h.logger, applicantEntity, err)
		return
	}

	h.broadcast("updated", id)

	writeJSON(w, http.StatusOK, updated)
}

func (h *ApplicantHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, applicantEntity)
	if !ok {
		return
	}
	var dto service.ApplicantDTO
	if !decode(w, r, applicantEntity, &dto) {
		return
	}
	updated, err := h.applicants.PartialUpdate(r.Context(), id, dto)
	if err != nil {
		writeError(w, h.logger, applicantEntity, err)
		return
	}

	h.broadcast("updated", id)

	writeJSON(w, http.StatusOK, updated)
}

func (h *ApplicantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, applicantEntity)
	if !ok {
		return
	}
	if err := h.applicants.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, applicantEntity, err)
		return
	}

	h.broadcast("deleted", id)

	w.WriteHeader(http.StatusNoContent)
}
