package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zone-app/api-go/apperrors"
	"github.com/zone-app/api-go/config"
	"github.com/zone-app/api-go/utils"
)

// UploadController hands out presigned PUT URLs for zone images against
// S3-compatible storage (Cloudflare R2). The resulting file URL goes into
// the zone's imageUrl field by the client.
type UploadController struct {
	R2Client *s3.Client
	R2Config *config.R2Config
}

type ZoneImageRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

func NewUploadController() *UploadController {
	r2Config := config.GetR2Config()

	r2Client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2Config.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			r2Config.AccessKeyID,
			r2Config.SecretAccessKey,
			"",
		),
		Region: r2Config.Region,
	})

	return &UploadController{
		R2Client: r2Client,
		R2Config: r2Config,
	}
}

// GetZoneImageURL issues a presigned upload URL for a zone image.
func (uc *UploadController) GetZoneImageURL(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.Error(apperrors.NewUnauthorized("User not found in context"))
		return
	}

	var req ZoneImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	if !isValidImageType(req.ContentType) {
		c.Error(apperrors.NewValidation("Invalid image content type"))
		return
	}
	if req.FileSize > 10*1024*1024 {
		c.Error(apperrors.NewValidation("Image exceeds the 10MB limit"))
		return
	}

	key := uc.generateImageKey(user.UserID, req.FileName)

	presignedURL, err := uc.createPresignedURL(c, key, req.ContentType)
	if err != nil {
		c.Error(apperrors.NewInternal("Failed to create upload URL").WithCause(err))
		return
	}

	respond(c, http.StatusOK, PresignedURLResponse{
		UploadURL: presignedURL,
		FileURL:   fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, key),
		Key:       key,
		ExpiresIn: 3600,
	})
}

// DeleteZoneImage removes an uploaded zone image the user owns.
func (uc *UploadController) DeleteZoneImage(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.Error(apperrors.NewUnauthorized("User not found in context"))
		return
	}

	key := c.Param("key")
	if key == "" {
		c.Error(apperrors.NewValidation("File key is required"))
		return
	}

	if !uc.verifyImageOwnership(key, user.UserID) {
		c.Error(apperrors.NewForbidden("You do not own this file"))
		return
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(uc.R2Config.BucketName),
		Key:    aws.String(key),
	}
	if _, err := uc.R2Client.DeleteObject(c.Request.Context(), input); err != nil {
		c.Error(apperrors.NewInternal("Failed to delete file").WithCause(err))
		return
	}

	respondMessage(c, "File deleted successfully")
}

func isValidImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/webp", "image/heic":
		return true
	}
	return false
}

// Key format: zones/{userID}/{timestamp}_{uuid}{ext}. Ownership checks parse
// the user id back out of the key.
func (uc *UploadController) generateImageKey(userID uint, fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("zones/%d/%d_%s%s", userID, time.Now().Unix(), uuid.New().String(), ext)
}

func (uc *UploadController) verifyImageOwnership(key string, userID uint) bool {
	parts := strings.Split(key, "/")
	if len(parts) < 3 || parts[0] != "zones" {
		return false
	}
	return parts[1] == fmt.Sprintf("%d", userID)
}

func (uc *UploadController) createPresignedURL(c *gin.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(uc.R2Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	presigner := s3.NewPresignClient(uc.R2Client)
	req, err := presigner.PresignPutObject(c.Request.Context(), input, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
