package server

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"upi-balance-go/internal/models"
	"upi-balance-go/internal/store"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const depositAcceptedMessage = "Deposit request submitted successfully"

var (
	optionalDataURI   = regexp.MustCompile(`(?i)^data:[a-z0-9.+/-]+;base64,`)
	allowedProofTypes = []string{"image/png", "image/jpeg"}
)

func (s *Server) requestDeposit(c *gin.Context) {
	var input models.DepositRequest
	if !s.bindJSON(c, &input) {
		return
	}

	if s.cfg.AdminUpiId != "" && !strings.EqualFold(input.AdminUpiId, s.cfg.AdminUpiId) {
		abortWithMessage(c, http.StatusBadRequest, fmt.Sprintf("Deposits must be sent to %s", s.cfg.AdminUpiId))
		return
	}

	images := make([]store.ProofImageParams, 0, len(input.ProofImages))
	for _, img := range input.ProofImages {
		decoded, err := decodeProofImage(img)
		if err != nil {
			abortWithMessage(c, http.StatusBadRequest, err.Error())
			return
		}
		images = append(images, decoded)
	}

	record, err := s.store.CreateDeposit(c.Request.Context(), store.CreateDepositParams{
		UserId:       c.GetString(ctxUserID),
		Amount:       input.Amount,
		UpiRefNumber: input.UpiRefNumber,
		AdminUpiId:   input.AdminUpiId,
		UserUpiId:    input.UpiId,
		ProofImages:  images,
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.DepositResponse{
		Success:     true,
		Message:     depositAcceptedMessage,
		Transaction: s.depositTransaction(record),
	})
}

// decodeProofImage accepts raw base64 or a data URI and sniffs the real content type
func decodeProofImage(img models.ProofImage) (store.ProofImageParams, error) {
	payload := optionalDataURI.ReplaceAllString(strings.TrimSpace(img.Base64Data), "")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return store.ProofImageParams{}, fmt.Errorf("proof image %s is not valid base64", img.FileName)
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedProofTypes...) {
		zap.L().Info("Rejected proof image",
			zap.String("file_name", img.FileName),
			zap.String("detected_type", mt.String()))
		return store.ProofImageParams{}, fmt.Errorf("proof image %s must be a PNG or JPEG", img.FileName)
	}

	return store.ProofImageParams{FileName: img.FileName, ContentType: mt.String(), Data: data}, nil
}

// getProofImage serves image bytes to the depositor or an admin
func (s *Server) getProofImage(c *gin.Context) {
	ctx := c.Request.Context()

	image, err := s.store.GetProofImage(ctx, c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}

	if c.GetString(ctxRole) != models.RoleAdmin {
		deposit, err := s.store.GetDeposit(ctx, image.DepositId)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		if deposit.UserId != c.GetString(ctxUserID) {
			abortWithMessage(c, http.StatusNotFound, "Proof image not found")
			return
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", image.FileName))
	c.Data(http.StatusOK, image.ContentType, image.Data)
}
