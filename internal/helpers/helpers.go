package helpers

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"golang.org/x/crypto/bcrypt"

	"github.com/joshua-takyi/devconnector/internal/models"
)

const AvatarFolder = "avatars"

var ErrUploadNotConfigured = errors.New("image upload is not configured")

func StringTrim(s string) string {
	return strings.TrimSpace(s)
}

// GravatarURL returns the 200px, pg rated gravatar for email, falling back
// to the mystery-man image.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(StringTrim(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(sum[:]))
}

type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (h *PasswordHasher) CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CloudinaryUploader uploads an https URL or image data URI and returns the
// hosted URL. Local paths are refused.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary, folder string) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld, folder: folder}
}

func (u *CloudinaryUploader) UploadImage(ctx context.Context, image string) (string, error) {
	if err := models.ValidateImageSource(image); err != nil {
		return "", err
	}
	if u == nil || u.cld == nil {
		return "", ErrUploadNotConfigured
	}
	res, err := u.cld.Upload.Upload(ctx, image, uploader.UploadParams{
		Folder: u.folder,
		Tags:   []string{"devconnector"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("failed to upload image: empty url in response")
	}
	return res.SecureURL, nil
}
