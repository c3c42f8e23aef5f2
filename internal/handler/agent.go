package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vk9769/voting-backend/internal/assignment"
	"github.com/Vk9769/voting-backend/internal/booth"
	"github.com/Vk9769/voting-backend/internal/middleware"
	"github.com/Vk9769/voting-backend/internal/models"
	"github.com/Vk9769/voting-backend/internal/presence"
	"github.com/Vk9769/voting-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgentHandler serves principal provisioning and the field-agent routes.
type AgentHandler struct {
	DB          *gorm.DB
	Booths      *booth.Service
	Assignments *assignment.Manager
	Tracker     *presence.Tracker
	BcryptCost  int
	UploadDir   string
}

func NewAgentHandler(db *gorm.DB, booths *booth.Service, assignments *assignment.Manager,
	tracker *presence.Tracker, bcryptCost int, uploadDir string) *AgentHandler {
	return &AgentHandler{
		DB:          db,
		Booths:      booths,
		Assignments: assignments,
		Tracker:     tracker,
		BcryptCost:  bcryptCost,
		UploadDir:   uploadDir,
	}
}

// ---------- provisioning ----------

type addAgentReq struct {
	FirstName string `form:"firstName" json:"firstName" binding:"required"`
	LastName  string `form:"lastName" json:"lastName"`
	Email     string `form:"email" json:"email" binding:"required"`
	Password  string `form:"password" json:"password" binding:"required"`
	Phone     string `form:"phone" json:"phone"`
	VoterID   string `form:"voterId" json:"voterId"`
	IDType    string `form:"idType" json:"idType"`
	IDNumber  string `form:"idNumber" json:"idNumber"`
	Role      string `form:"role" json:"role" binding:"required"`
	Gender    string `form:"gender" json:"gender"`
	DOB       string `form:"dob" json:"dob"`
	Address   string `form:"address" json:"address"`
	BoothID   *uint  `form:"boothId" json:"boothId"`
}

// AddAgent provisions a new principal. The provisioning gate has already
// decided authority; this handler owns uniqueness checks and persistence.
// Duplicate email, phone or government ID is a conflict.
func (h *AgentHandler) AddAgent(c *gin.Context) {
	var req addAgentReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing required fields")
		return
	}

	roleName := strings.ToLower(req.Role)
	var role models.Role
	if err := h.DB.Where("name = ?", roleName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
				fmt.Sprintf("role %q not found", roleName))
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "role lookup failed")
		}
		return
	}

	// Agents must arrive with a booth binding; other roles may omit it.
	if (roleName == "agent" || roleName == "super_agent") && req.BoothID == nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "boothId is required for agents")
		return
	}

	if conflict, msg := h.findDuplicate(&req); conflict {
		util.Error(c, http.StatusConflict, util.CodeConflict, msg)
		return
	}

	hash, err := util.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "password hashing failed")
		return
	}

	photoPath, err := h.savePhoto(c)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "photo upload failed")
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		ProfilePhoto: photoPath,
		GovIDType:    req.IDType,
		Gender:       req.Gender,
		DateOfBirth:  req.DOB,
		Address:      req.Address,
		Status:       models.StatusActive,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}
	if req.VoterID != "" {
		user.VoterID = &req.VoterID
	}
	if req.IDNumber != "" {
		user.GovIDNumber = &req.IDNumber
		hashID := util.HashSecondaryID(req.IDNumber)
		user.GovIDHash = &hashID
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error; err != nil {
			return err
		}
		if req.BoothID != nil && (roleName == "agent" || roleName == "super_agent") {
			return tx.Create(&models.AgentBooth{AgentID: user.ID, BoothID: *req.BoothID}).Error
		}
		return nil
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create principal failed")
		return
	}

	util.Success(c, util.Response{
		"message": fmt.Sprintf("%s created successfully", roleName),
		"user_id": user.ID,
	})
}

func (h *AgentHandler) findDuplicate(req *addAgentReq) (bool, string) {
	var count int64
	h.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return true, "email already exists"
	}
	if req.Phone != "" {
		h.DB.Model(&models.User{}).Where("phone = ?", req.Phone).Count(&count)
		if count > 0 {
			return true, "phone already exists"
		}
	}
	if req.IDType != "" && req.IDNumber != "" {
		h.DB.Model(&models.User{}).
			Where("gov_id_type = ? AND gov_id_number = ?", req.IDType, req.IDNumber).
			Count(&count)
		if count > 0 {
			return true, "government ID already exists"
		}
	}
	return false, ""
}

// savePhoto stores an optional multipart profile photo and returns its
// relative path. Blob storage proper is outside this backend; local disk
// is the thin glue.
func (h *AgentHandler) savePhoto(c *gin.Context) (string, error) {
	file, err := c.FormFile("profilePhoto")
	if err != nil {
		return "", nil // no photo attached
	}
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", err
	}
	filename := uuid.NewString() + "-" + filepath.Base(file.Filename)
	dst := filepath.Join(h.UploadDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return "/uploads/" + filename, nil
}

// ---------- field-agent routes ----------

// GetAssignedBooths lists the booths the agent serves.
func (h *AgentHandler) GetAssignedBooths(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing token")
		return
	}

	var booths []models.Booth
	err := h.DB.Table("booths").
		Joins("JOIN agent_booths ON agent_booths.booth_id = booths.id").
		Where("agent_booths.agent_id = ?", user.ID).
		Order("booths.name ASC").
		Find(&booths).Error
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "list booths failed")
		return
	}

	util.Success(c, util.Response{"booths": booths})
}

type postLocationReq struct {
	Lat             *float64 `json:"lat" binding:"required"`
	Lng             *float64 `json:"lng" binding:"required"`
	Accuracy        float64  `json:"accuracy"`
	DeviceSignature string   `json:"device_signature"`
}

// PostLocation records a tracking ping from the agent's device and fans it
// out to live observers. The response reports whether the ping falls
// inside any booth geofence.
func (h *AgentHandler) PostLocation(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing token")
		return
	}

	var req postLocationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "lat and lng are required")
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
	if err := util.ValidateAccuracy(req.Accuracy); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	err := h.Tracker.RecordAndBroadcast(presence.Ping{
		AgentID:           user.ID,
		Lat:               *req.Lat,
		Lng:               *req.Lng,
		Accuracy:          req.Accuracy,
		DeviceFingerprint: req.DeviceSignature,
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "record location failed")
		return
	}

	resp := util.Response{"message": "location recorded successfully"}
	if b, err := h.Booths.AssignableBooth(*req.Lat, *req.Lng); err == nil && b != nil {
		resp["within_geofence"] = true
		resp["booth_id"] = b.ID
	} else if err == nil {
		resp["within_geofence"] = false
	}
	util.Success(c, resp)
}

type markVoteReq struct {
	VoterID string `json:"voter_id" binding:"required"`
}

// MarkVote records that a voter has voted, verified by this agent.
func (h *AgentHandler) MarkVote(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing token")
		return
	}

	var req markVoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "voter_id is required")
		return
	}

	vote := models.Vote{VoterID: req.VoterID, Voted: true, VerifiedBy: user.ID}
	err := h.DB.Where(models.Vote{VoterID: req.VoterID}).
		Assign(models.Vote{Voted: true, VerifiedBy: user.ID}).
		FirstOrCreate(&vote).Error
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "mark vote failed")
		return
	}

	util.Success(c, util.Response{"message": "vote marked successfully"})
}

// GetTasks lists the agent's assigned tasks.
func (h *AgentHandler) GetTasks(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing token")
		return
	}

	var tasks []models.Task
	if err := h.DB.Where("agent_id = ?", user.ID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "list tasks failed")
		return
	}

	util.Success(c, util.Response{"tasks": tasks})
}
