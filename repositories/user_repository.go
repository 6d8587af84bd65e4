package repositories

import (
	"github.com/zone-app/api-go/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByGoogleIDOrEmail(googleID, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.Where("google_id = ? OR email = ?", googleID, email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Save(user *models.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) CreateRefreshToken(token *models.RefreshToken) error {
	return r.DB.Create(token).Error
}

func (r *UserRepository) FindRefreshToken(token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	if err := r.DB.Where("token = ?", token).First(&refreshToken).Error; err != nil {
		return nil, err
	}
	return &refreshToken, nil
}

func (r *UserRepository) SaveRefreshToken(token *models.RefreshToken) error {
	return r.DB.Save(token).Error
}

// DeleteRefreshToken removes the token row. Deleting an unknown token is not
// an error.
func (r *UserRepository) DeleteRefreshToken(token string) error {
	return r.DB.Where("token = ?", token).Delete(&models.RefreshToken{}).Error
}
