package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Vk9769/voting-backend/internal/assignment"
	"github.com/Vk9769/voting-backend/internal/booth"
	"github.com/Vk9769/voting-backend/internal/middleware"
	"github.com/Vk9769/voting-backend/internal/models"
	"github.com/Vk9769/voting-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// AdminHandler serves booth management, assignments, dashboard counters
// and reports.
type AdminHandler struct {
	DB          *gorm.DB
	Booths      *booth.Service
	Assignments *assignment.Manager
}

func NewAdminHandler(db *gorm.DB, booths *booth.Service, assignments *assignment.Manager) *AdminHandler {
	return &AdminHandler{DB: db, Booths: booths, Assignments: assignments}
}

// Dashboard returns aggregate counters for the admin overview.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	var totalUsers, totalBooths, totalVotes int64
	if err := h.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "dashboard query failed")
		return
	}
	if err := h.DB.Model(&models.Booth{}).Count(&totalBooths).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "dashboard query failed")
		return
	}
	if err := h.DB.Model(&models.Vote{}).Where("voted = ?", true).Count(&totalVotes).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "dashboard query failed")
		return
	}

	var totalAgents int64
	if err := h.DB.Table("user_roles").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", "agent").
		Count(&totalAgents).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "dashboard query failed")
		return
	}

	util.Success(c, util.Response{
		"total_users":  totalUsers,
		"total_booths": totalBooths,
		"total_votes":  totalVotes,
		"total_agents": totalAgents,
	})
}

// ---------- booth management ----------

type createBoothReq struct {
	Name         string   `json:"name" binding:"required"`
	Lat          *float64 `json:"lat" binding:"required"`
	Lng          *float64 `json:"lng" binding:"required"`
	RadiusMeters *float64 `json:"radius_meters"`
	State        string   `json:"state"`
	District     string   `json:"district"`
	Constituency string   `json:"constituency"`
	PartNumber   string   `json:"part_number"`
}

func (h *AdminHandler) CreateBooth(c *gin.Context) {
	var req createBoothReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "name and center coordinates are required")
		return
	}
	if err := util.ValidateLatitude(*req.Lat); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err := util.ValidateLongitude(*req.Lng); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if req.RadiusMeters != nil {
		if err := util.ValidateRadius(*req.RadiusMeters); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
	}

	b, err := h.Booths.Create(booth.CreateInput{
		Name:         req.Name,
		Lat:          *req.Lat,
		Lng:          *req.Lng,
		RadiusMeters: req.RadiusMeters,
		State:        req.State,
		District:     req.District,
		Constituency: req.Constituency,
		PartNumber:   req.PartNumber,
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create booth failed")
		return
	}

	util.Success(c, util.Response{"booth": b})
}

type editBoothReq struct {
	Name         *string  `json:"name"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	RadiusMeters *float64 `json:"radius_meters"`
	State        *string  `json:"state"`
	District     *string  `json:"district"`
	Constituency *string  `json:"constituency"`
	PartNumber   *string  `json:"part_number"`
}

// EditBooth applies a partial update: omitted fields keep their prior
// values.
func (h *AdminHandler) EditBooth(c *gin.Context) {
	id, err := boothIDParam(c)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid booth id")
		return
	}

	var req editBoothReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if req.Lat != nil {
		if err := util.ValidateLatitude(*req.Lat); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
	}
	if req.Lng != nil {
		if err := util.ValidateLongitude(*req.Lng); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
	}
	if req.RadiusMeters != nil {
		if err := util.ValidateRadius(*req.RadiusMeters); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
	}

	b, err := h.Booths.Update(id, booth.UpdateInput{
		Name:         req.Name,
		Lat:          req.Lat,
		Lng:          req.Lng,
		RadiusMeters: req.RadiusMeters,
		State:        req.State,
		District:     req.District,
		Constituency: req.Constituency,
		PartNumber:   req.PartNumber,
	})
	if err != nil {
		if errors.Is(err, booth.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "booth not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update booth failed")
		}
		return
	}

	util.Success(c, util.Response{"booth": b})
}

func (h *AdminHandler) DeleteBooth(c *gin.Context) {
	id, err := boothIDParam(c)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid booth id")
		return
	}

	if err := h.Booths.Delete(id); err != nil {
		if errors.Is(err, booth.ErrNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "booth not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "delete booth failed")
		}
		return
	}

	util.Success(c, util.Response{"message": "booth deleted"})
}

func (h *AdminHandler) GetBooths(c *gin.Context) {
	booths, err := h.Booths.List()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "list booths failed")
		return
	}
	util.Success(c, util.Response{"booths": booths})
}

// ---------- assignments ----------

type assignAgentReq struct {
	AgentID string `json:"agent_id" binding:"required"`
	BoothID uint   `json:"booth_id" binding:"required"`
}

func (h *AdminHandler) AssignAgentToBooth(c *gin.Context) {
	var req assignAgentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "agent_id and booth_id are required")
		return
	}

	if err := h.Assignments.AssignAgent(req.AgentID, req.BoothID); err != nil {
		writeAssignmentError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "agent assigned to booth"})
}

type assignVoterReq struct {
	VoterID string `json:"voter_id" binding:"required"`
	BoothID uint   `json:"booth_id" binding:"required"`
}

func (h *AdminHandler) AssignVoterToBooth(c *gin.Context) {
	var req assignVoterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "voter_id and booth_id are required")
		return
	}

	if err := h.Assignments.AssignVoter(req.VoterID, req.BoothID); err != nil {
		writeAssignmentError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "voter assigned to booth"})
}

func (h *AdminHandler) GetBoothAssignments(c *gin.Context) {
	listing, err := h.Assignments.List()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "list assignments failed")
		return
	}
	util.Success(c, util.Response{
		"agent_assignments": listing.Agents,
		"voter_assignments": listing.Voters,
	})
}

func writeAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assignment.ErrPrincipalNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "principal not found")
	case errors.Is(err, assignment.ErrBoothNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "booth not found")
	case errors.Is(err, assignment.ErrRoleMismatch):
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "principal does not hold the required role")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "assignment failed")
	}
}

// ---------- agents & reports ----------

type agentRow struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Status    string `json:"status"`
}

func (h *AdminHandler) GetAgents(c *gin.Context) {
	var agents []agentRow
	err := h.DB.Table("users").
		Select("users.id, users.first_name, users.last_name, users.email, users.status").
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", "agent").
		Order("users.first_name ASC").
		Scan(&agents).Error
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "list agents failed")
		return
	}
	util.Success(c, util.Response{"agents": agents})
}

// GetReports streams an XLSX workbook with one sheet of agent assignments
// and one of voter assignments.
func (h *AdminHandler) GetReports(c *gin.Context) {
	listing, err := h.Assignments.List()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "report query failed")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const agentSheet = "Agent Assignments"
	f.SetSheetName("Sheet1", agentSheet)
	_ = f.SetSheetRow(agentSheet, "A1", &[]string{"Agent ID", "Agent", "Booth ID", "Booth"})
	for i, a := range listing.Agents {
		cell := fmt.Sprintf("A%d", i+2)
		_ = f.SetSheetRow(agentSheet, cell, &[]interface{}{a.AgentID, a.AgentName, a.BoothID, a.BoothName})
	}

	const voterSheet = "Voter Assignments"
	_, _ = f.NewSheet(voterSheet)
	_ = f.SetSheetRow(voterSheet, "A1", &[]string{"Voter ID", "Voter", "Booth ID", "Booth"})
	for i, v := range listing.Voters {
		cell := fmt.Sprintf("A%d", i+2)
		_ = f.SetSheetRow(voterSheet, cell, &[]interface{}{v.VoterID, v.VoterName, v.BoothID, v.BoothName})
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"assignments_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "write report failed")
		return
	}
}

// ---------- flags ----------

type flagReq struct {
	BoothID *uint   `json:"booth_id"`
	AgentID *string `json:"agent_id"`
	Reason  string  `json:"reason" binding:"required"`
}

func (h *AdminHandler) FlagActivity(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing token")
		return
	}

	var req flagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "reason is required")
		return
	}

	flag := models.ActivityFlag{
		BoothID:   req.BoothID,
		AgentID:   req.AgentID,
		Reason:    req.Reason,
		FlaggedBy: user.ID,
	}
	if err := h.DB.Create(&flag).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "flag activity failed")
		return
	}

	util.Success(c, util.Response{"message": "activity flagged", "flag_id": flag.ID})
}

func boothIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("booth_id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
