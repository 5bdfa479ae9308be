package actors

import (
	stdctx "context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"feedback-hub/internal/database"
	"feedback-hub/internal/models"
	"feedback-hub/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"golang.org/x/crypto/bcrypt"
)

// Message types for admin account operations
type (
	CreateAdminMsg struct {
		Username    string           `json:"username"`
		Email       string           `json:"email"`
		PhoneNumber string           `json:"phoneNumber"`
		Role        string           `json:"role"`
		ActorRole   models.AdminRole `json:"-"` // role of the admin issuing the request
	}

	RemoveAdminMsg struct {
		Username  string           `json:"username"`
		ActorRole models.AdminRole `json:"-"`
	}

	AuthenticateAdminMsg struct {
		Username string `json:"username"`
		APIKey   string `json:"apiKey"`
	}

	GetAdminMsg struct {
		Username string `json:"username"`
	}
)

// CreatedAdminResponse carries the clear API key back to the caller. This is
// the only time the key leaves the system; only its bcrypt hash is stored.
type CreatedAdminResponse struct {
	Admin  *models.Admin `json:"admin"`
	APIKey string        `json:"apiKey"`
}

// AdminActor manages moderation accounts: creation, removal and API key
// authentication.
type AdminActor struct {
	db      database.DBAdapter
	metrics *utils.MetricsCollector
}

func NewAdminActor(db database.DBAdapter, metrics *utils.MetricsCollector) actor.Actor {
	return &AdminActor{
		db:      db,
		metrics: metrics,
	}
}

func (a *AdminActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("AdminActor started")

	case *CreateAdminMsg:
		a.handleCreateAdmin(context, msg)

	case *RemoveAdminMsg:
		a.handleRemoveAdmin(context, msg)

	case *AuthenticateAdminMsg:
		a.handleAuthenticate(context, msg)

	case *GetAdminMsg:
		a.handleGetAdmin(context, msg)

	default:
		log.Printf("AdminActor: Unknown message type %T", msg)
	}
}

func (a *AdminActor) handleCreateAdmin(context actor.Context, msg *CreateAdminMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.ActorRole != models.RoleSuperAdmin {
		context.Respond(utils.NewForbiddenError("only a superAdmin may create admins"))
		return
	}

	if msg.Username == "" || msg.Email == "" || msg.PhoneNumber == "" {
		context.Respond(utils.NewValidationError("username, email and phoneNumber are required"))
		return
	}

	// Username, email and phone number must each be unique across admins.
	if err := a.checkUnique(ctx, msg); err != nil {
		context.Respond(err)
		return
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to generate API key", err))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to hash API key", err))
		return
	}

	newAdmin := &models.Admin{
		Username:    msg.Username,
		Email:       msg.Email,
		PhoneNumber: msg.PhoneNumber,
		Role:        models.ParseAdminRole(msg.Role),
		APIKeyHash:  string(hash),
		CreatedAt:   time.Now(),
	}

	if err := a.db.SaveAdmin(ctx, newAdmin); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save admin", err))
		return
	}

	a.metrics.AddOperationLatency("create_admin", time.Since(startTime))
	context.Respond(&CreatedAdminResponse{Admin: newAdmin, APIKey: apiKey})
}

func (a *AdminActor) checkUnique(ctx stdctx.Context, msg *CreateAdminMsg) *utils.AppError {
	checks := []struct {
		lookup func() (*models.Admin, error)
		field  string
	}{
		{func() (*models.Admin, error) { return a.db.GetAdmin(ctx, msg.Username) }, "username"},
		{func() (*models.Admin, error) { return a.db.GetAdminByEmail(ctx, msg.Email) }, "email"},
		{func() (*models.Admin, error) { return a.db.GetAdminByPhone(ctx, msg.PhoneNumber) }, "phone number"},
	}

	for _, check := range checks {
		_, err := check.lookup()
		if err == nil {
			return utils.NewAppError(utils.ErrAdminExists,
				fmt.Sprintf("an admin with this %s already exists", check.field), nil)
		}
		if !utils.IsErrorCode(err, utils.ErrNotFound) {
			return utils.NewAppError(utils.ErrDatabase, "Failed to check admin uniqueness", err)
		}
	}
	return nil
}

func (a *AdminActor) handleRemoveAdmin(context actor.Context, msg *RemoveAdminMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.ActorRole != models.RoleSuperAdmin {
		context.Respond(utils.NewForbiddenError("only a superAdmin may remove admins"))
		return
	}

	target, err := a.db.GetAdmin(ctx, msg.Username)
	if err != nil {
		context.Respond(err)
		return
	}

	// The system must always retain at least one superAdmin.
	if target.Role == models.RoleSuperAdmin {
		count, err := a.db.CountAdminsByRole(ctx, models.RoleSuperAdmin)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to count superAdmins", err))
			return
		}
		if count <= 1 {
			context.Respond(utils.NewForbiddenError("cannot remove the last superAdmin"))
			return
		}
	}

	if err := a.db.DeleteAdmin(ctx, msg.Username); err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete admin", err))
		return
	}

	a.metrics.AddOperationLatency("remove_admin", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "Admin removed"})
}

func (a *AdminActor) handleAuthenticate(context actor.Context, msg *AuthenticateAdminMsg) {
	ctx := stdctx.Background()

	admin, err := a.db.GetAdmin(ctx, msg.Username)
	if err != nil {
		// Same error for unknown username and wrong key, so callers cannot
		// probe for valid usernames.
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "invalid admin credentials", nil))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.APIKeyHash), []byte(msg.APIKey)); err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "invalid admin credentials", nil))
		return
	}

	context.Respond(admin)
}

func (a *AdminActor) handleGetAdmin(context actor.Context, msg *GetAdminMsg) {
	admin, err := a.db.GetAdmin(stdctx.Background(), msg.Username)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(admin)
}

// generateAPIKey returns 32 random bytes as URL-safe base64.
func generateAPIKey() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}
