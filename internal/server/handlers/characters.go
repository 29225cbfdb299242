package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hptracker/backend/internal/characters"
	"github.com/hptracker/backend/internal/server/resp"
)

type CharacterHandler struct {
	logger *zap.Logger
	svc    *characters.Service
}

func NewCharacterHandler(logger *zap.Logger, svc *characters.Service) *CharacterHandler {
	return &CharacterHandler{logger: logger, svc: svc}
}

// GET /api/characters
func (h *CharacterHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.internal(c, "list characters failed", err)
		return
	}
	resp.JSON(c, http.StatusOK, list)
}

// POST /api/characters
func (h *CharacterHandler) Create(c *gin.Context) {
	var req characters.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, resp.MsgInvalidPayload)
		return
	}
	ch, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		var verr *characters.ValidationError
		if errors.As(err, &verr) {
			resp.Error(c, http.StatusBadRequest, verr.Message)
			return
		}
		h.internal(c, "create character failed", err)
		return
	}
	resp.JSON(c, http.StatusCreated, ch)
}

// updateCharacterReq keeps raw values: any field that does not coerce is dropped.
type updateCharacterReq struct {
	Name      characters.Value `json:"name"`
	MaxHP     characters.Value `json:"maxHP"`
	CurrentHP characters.Value `json:"currentHP"`
	HPDelta   characters.Value `json:"hpDelta"`
}

func (r updateCharacterReq) patch() characters.Patch {
	return characters.Patch{
		Name:      r.Name.StringPtr(),
		MaxHP:     r.MaxHP.IntPtr(),
		CurrentHP: r.CurrentHP.IntPtr(),
		HPDelta:   r.HPDelta.IntPtr(),
	}
}

// PUT /api/characters/:id
func (h *CharacterHandler) Update(c *gin.Context) {
	var req updateCharacterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Error(c, http.StatusBadRequest, resp.MsgInvalidPayload)
		return
	}
	ch, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		if errors.Is(err, characters.ErrNotFound) {
			resp.Error(c, http.StatusNotFound, resp.MsgNotFound)
			return
		}
		h.internal(c, "update character failed", err)
		return
	}
	resp.JSON(c, http.StatusOK, ch)
}

// DELETE /api/characters/:id
func (h *CharacterHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, characters.ErrNotFound) {
			resp.Error(c, http.StatusNotFound, resp.MsgNotFound)
			return
		}
		h.internal(c, "delete character failed", err)
		return
	}
	resp.Message(c, http.StatusOK, resp.MsgDeleted)
}

func (h *CharacterHandler) internal(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err), zap.String("id", c.Param("id")))
	_ = c.Error(err)
	resp.Error(c, http.StatusInternalServerError, resp.MsgInternal)
}
