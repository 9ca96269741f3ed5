package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/quests/internal/criteria"
	"github.com/dukerupert/quests/internal/query"
	"github.com/dukerupert/quests/internal/service"
	"github.com/dukerupert/quests/internal/websocket"
)

const questEntity = "quest"

type QuestHandler struct {
	quests  *service.QuestService
	queries *service.QuestQueryService
	limits  query.PageLimits
	hub     Broadcaster
	logger  *slog.Logger
}

func NewQuestHandler(qs *service.QuestService, qq *service.QuestQueryService, limits query.PageLimits, hub Broadcaster, logger *slog.Logger) *QuestHandler {
	return &QuestHandler{quests: qs, queries: qq, limits: limits, hub: hub, logger: logger}
}

func (h *QuestHandler) broadcast(action string, id int64) {
	if h.hub != nil {
		h.hub.Broadcast(websocket.NewEvent(questEntity, action, id))
	}
}

// List handles GET /api/quests?title.contains=x&page=0&size=20&sort=title,desc.
func (h *QuestHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := criteria.ParseQuest(q)
	if err != nil {
		writeError(w, h.logger, questEntity, err)
		return
	}
	p, err := query.ParsePageable(q, query.QuestSortable, h.limits)
	if err != nil {
		writeError(w, h.logger, questEntity, err)
		return
	}

	var opts []service.FindOption
	if eagerLoad(r) {
		opts = append(opts, service.WithRelations())
	}
	page, err := h.queries.FindPageByCriteria(r.Context(), c, p, opts...)
	if err != nil {
		writeError(w, h.logger, questEntity, err)
		return
	}
	writePage(w, page)
}

func (h *QuestHandler) Count(w http.ResponseWriter, r *http.Request) {
	c, err := criteria.ParseQuest(r.URL.Query())
	if err != nil {
		writeError(w, h.logger, questEntity, err)
		return
	}
	n, err := h.queries.CountByCriteria(r.Context(), c)
	if err != nil {
		writeError(w, h.logger, questEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *QuestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, questEntity)
	if !ok {
		return
	}
	dto, err := h.quests.FindOne(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, questEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *QuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto service.QuestDTO
	if !decode(w, r, questEntity, &dto) {
		return
	}
	created, err := h.quests.Create(r.Context(), dto)
	if err != nil {
		writeError(w, h.logger, questEntity, err)
		return
	}

	h.broadcast("created", *created.ID)

	w.Header().Set("Location", r.URL.Path+"/"+formatID(*created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (h *QuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, questEntity)
	if !ok {
		return
	}
	var dto service.QuestDTO
	if !decode(w, r, questEntity, &dto) {
		return
	}
	updated, err := h.quests.Update(r.Context(), id, dto)
	if err != nil {
		writeError(w, h.logger, questEntity, err)
		return
	}

	h.broadcast("updated", id)

	writeJSON(w, http.StatusOK, updated)
}

func (h *QuestHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, questEntity)
	if !ok {
		return
	}
	var dto service.QuestDTO
	if !decode(w, r, questEntity, &dto) {
		return
	}
	updated, err := h.quests.PartialUpdate(r.Context(), id, dto)
	if err != nil {
		writeError(w, h.logger, questEntity, err)
		return
	}

	h.broadcast("updated", id)

	writeJSON(w, http.StatusOK, updated)
}

func (h *QuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, questEntity)
	if !ok {
		return
	}
	if err := h.quests.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, questEntity, err)
		return
	}

	h.broadcast("deleted", id)

	w.WriteHeader(http.StatusNoContent)
}
