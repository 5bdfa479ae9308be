// internal/database/admin_repository.go
package database

import (
	"context"
	"time"

	"feedback-hub/internal/models"
	"feedback-hub/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminDocument represents the MongoDB schema for an admin account.
type AdminDocument struct {
	ID          string    `bson:"_id"` // username
	Email       string    `bson:"email"`
	PhoneNumber string    `bson:"phonenumber"`
	Role        string    `bson:"role"`
	APIKeyHash  string    `bson:"apikeyhash"`
	CreatedAt   time.Time `bson:"createdat"`
}

func adminToDocument(admin *models.Admin) *AdminDocument {
	return &AdminDocument{
		ID:          admin.Username,
		Email:       admin.Email,
		PhoneNumber: admin.PhoneNumber,
		Role:        string(admin.Role),
		APIKeyHash:  admin.APIKeyHash,
		CreatedAt:   admin.CreatedAt,
	}
}

func documentToAdmin(doc *AdminDocument) *models.Admin {
	return &models.Admin{
		Username:    doc.ID,
		Email:       doc.Email,
		PhoneNumber: doc.PhoneNumber,
		Role:        models.ParseAdminRole(doc.Role),
		APIKeyHash:  doc.APIKeyHash,
		CreatedAt:   doc.CreatedAt,
	}
}

// SaveAdmin creates or updates an admin account.
func (m *MongoDB) SaveAdmin(ctx context.Context, admin *models.Admin) error {
	doc := adminToDocument(admin)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": admin.Username}
	update := bson.M{"$set": doc}

	_, err := m.Admins.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetAdmin retrieves an admin by username.
func (m *MongoDB) GetAdmin(ctx context.Context, username string) (*models.Admin, error) {
	return m.findAdmin(ctx, bson.M{"_id": username}, username)
}

// GetAdminByEmail retrieves an admin by email.
func (m *MongoDB) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return m.findAdmin(ctx, bson.M{"email": email}, email)
}

// GetAdminByPhone retrieves an admin by phone number.
func (m *MongoDB) GetAdminByPhone(ctx context.Context, phone string) (*models.Admin, error) {
	return m.findAdmin(ctx, bson.M{"phonenumber": phone}, phone)
}

func (m *MongoDB) findAdmin(ctx context.Context, filter bson.M, key string) (*models.Admin, error) {
	var doc AdminDocument

	err := m.Admins.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Admin", key)
	}
	if err != nil {
		return nil, err
	}

	return documentToAdmin(&doc), nil
}

// DeleteAdmin removes an admin account.
func (m *MongoDB) DeleteAdmin(ctx context.Context, username string) error {
	result, err := m.Admins.DeleteOne(ctx, bson.M{"_id": username})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Admin", username)
	}
	return nil
}

// CountAdminsByRole counts admins holding the given role.
func (m *MongoDB) CountAdminsByRole(ctx context.Context, role models.AdminRole) (int, error) {
	count, err := m.Admins.CountDocuments(ctx, bson.M{"role": string(role)})
	return int(count), err
}
