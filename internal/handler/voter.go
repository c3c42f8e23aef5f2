package handler

import (
	"errors"
	"net/http"

	"github.com/Vk9769/voting-backend/internal/models"
	"github.com/Vk9769/voting-backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// VoterHandler serves the public voter-facing lookups.
type VoterHandler struct {
	DB *gorm.DB
}

func NewVoterHandler(db *gorm.DB) *VoterHandler {
	return &VoterHandler{DB: db}
}

// GetStatus returns the most recent vote status for a voter.
func (h *VoterHandler) GetStatus(c *gin.Context) {
	voterID := c.Param("voter_id")

	var vote models.Vote
	err := h.DB.Where("voter_id = ?", voterID).
		Order("updated_at DESC").
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Success(c, util.Response{"status": "not_voted"})
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "status lookup failed")
		return
	}

	status := "not_voted"
	if vote.Voted {
		status = "voted"
	}
	util.Success(c, util.Response{
		"status":    status,
		"timestamp": vote.UpdatedAt,
	})
}

type verifyVoterReq struct {
	GovIDHash string `json:"gov_id_hash" binding:"required"`
}

// VerifyVoter resolves a voter by the SHA-256 digest of their government
// ID. Only names are disclosed.
func (h *VoterHandler) VerifyVoter(c *gin.Context) {
	var req verifyVoterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "gov_id_hash is required")
		return
	}

	var user models.User
	err := h.DB.Select("id, first_name, last_name").
		Where("gov_id_hash = ?", req.GovIDHash).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "voter not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "verification failed")
		}
		return
	}

	util.Success(c, util.Response{
		"id":         user.ID,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}
