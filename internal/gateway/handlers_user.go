package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/DriveLinkRental/DriveLinkRental/internal/common/auth"
	"github.com/DriveLinkRental/DriveLinkRental/internal/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type registerUserRequest struct {
	FName       string `json:"fname"`
	LName       string `json:"lname"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	LicNum      string `json:"lic_num"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
}

func (g *Gateway) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.FName = strings.TrimSpace(req.FName)
	req.LName = strings.TrimSpace(req.LName)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.LicNum = strings.TrimSpace(req.LicNum)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)

	if req.FName == "" || req.LName == "" || req.Email == "" || req.Password == "" ||
		req.LicNum == "" || req.PhoneNumber == "" {
		writeError(w, http.StatusBadRequest, "Missing required registration fields.")
		return
	}

	exists, err := g.users.EmailExists(r.Context(), req.Email)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "Email already registered.")
		return
	}

	salt, err := user.GenerateSaltHex()
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	hash, err := user.HashPassword(req.Password, salt)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}

	u := &user.User{
		ID:           uuid.NewString(),
		FName:        req.FName,
		LName:        req.LName,
		Email:        req.Email,
		LicNum:       req.LicNum,
		PhoneNumber:  req.PhoneNumber,
		Gender:       strings.TrimSpace(req.Gender),
		PasswordHash: hash,
		PasswordSalt: salt,
	}
	if err := g.users.Create(r.Context(), u); err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"user_id": u.ID})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (g *Gateway) loginUser(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	u, err := g.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		g.writeDomainError(w, err)
		return
	}
	if !user.VerifyPassword(req.Password, u.PasswordSalt, u.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	token, expiresAt, err := auth.GenerateAccessToken(g.cfg.Auth, u.ID, u.Email, g.cfg.Auth.TokenTTL())
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_at": expiresAt,
		"user": map[string]string{
			"user_id": u.ID,
			"fname":   u.FName,
			"lname":   u.LName,
			"email":   u.Email,
		},
	})
}

// getUserData 个人主页聚合：资料 + 预约列表 + 支付方式。
func (g *Gateway) getUserData(w http.ResponseWriter, r *http.Request) {
	ai, ok := g.requireUser(w, r)
	if !ok {
		return
	}

	u, err := g.users.FindByID(r.Context(), ai.UserID)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	rows, err := g.bookings.ListByUser(r.Context(), ai.UserID)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	cards, err := g.payments.ListCards(r.Context(), ai.UserID)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]string{
			"user_id":      u.ID,
			"fname":        u.FName,
			"lname":        u.LName,
			"email":        u.Email,
			"lic_num":      u.LicNum,
			"phone_number": u.PhoneNumber,
			"gender":       u.Gender,
		},
		"bookings": rows,
		"cards":    cards,
	})
}

// updateUserInfo 资料部分更新，仅允许名单内字段（phone_number / lic_num）。
func (g *Gateway) updateUserInfo(w http.ResponseWriter, r *http.Request) {
	ai, ok := g.requireUser(w, r)
	if !ok {
		return
	}

	var fields map[string]string
	if err := decodeBody(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	affected, err := g.users.UpdateProfile(r.Context(), ai.UserID, fields)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": affected})
}

func (g *Gateway) deleteUser(w http.ResponseWriter, r *http.Request) {
	ai, ok := g.requireUser(w, r)
	if !ok {
		return
	}
	if err := g.users.Delete(r.Context(), ai.UserID); err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted."})
}
