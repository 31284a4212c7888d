package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"labcrm/backend"
	"labcrm/models"
	"labcrm/utils"
)

// ErrSessionNotFound means the session id is unknown or already wiped.
var ErrSessionNotFound = errors.New("session not found or expired")

// Service owns the console's login lifecycle: OTP handshake against the
// backend, Redis-held sessions keyed by opaque ids, and the single wipe path
// every 401 funnels through.
type Service interface {
	// SendOTP asks the backend to text a one-time code to the mobile number.
	SendOTP(ctx context.Context, mobile string) error
	// VerifyOTP exchanges mobile+code for backend tokens and opens a session.
	VerifyOTP(ctx context.Context, mobile, otp string) (*models.Session, error)
	// Get resolves a session id to its stored state.
	Get(ctx context.Context, id string) (*models.Session, error)
	// Invalidate wipes a session. Explicit logout and backend 401s both land
	// here; there is no other teardown path.
	Invalidate(ctx context.Context, id string) error
}

// DefaultService is the Redis-backed session Service.
type DefaultService struct {
	Client *backend.Client
	Store  *redis.Client
	Logger *zap.Logger
}

// NewService wires the session service over the backend client and the
// session Redis instance.
func NewService(client *backend.Client, store *redis.Client, logger *zap.Logger) *DefaultService {
	return &DefaultService{Client: client, Store: store, Logger: logger}
}

func (s *DefaultService) SendOTP(ctx context.Context, mobile string) error {
	body := map[string]interface{}{"mobile": mobile}
	if err := s.Client.Post(ctx, "", "/auth/send-otp/", body, nil); err != nil {
		return err
	}
	s.Logger.Info("otp requested", zap.String("mobile", utils.MaskMobile(mobile)))
	return nil
}

func (s *DefaultService) VerifyOTP(ctx context.Context, mobile, otp string) (*models.Session, error) {
	body := map[string]interface{}{"mobile": mobile, "otp": otp}
	var result struct {
		User    models.StaffUser `json:"user"`
		Access  string           `json:"access"`
		Refresh string           `json:"refresh"`
	}
	if err := s.Client.Post(ctx, "", "/auth/verify-otp/", body, &result); err != nil {
		return nil, err
	}

	sess := &models.Session{
		ID:        uuid.NewString(),
		User:      result.User,
		Access:    result.Access,
		Refresh:   result.Refresh,
		CreatedAt: time.Now(),
	}
	if err := s.save(ctx, sess, utils.AccessTokenTTL(result.Access)); err != nil {
		return nil, err
	}
	s.Logger.Info("session opened",
		zap.String("sessionID", sess.ID),
		zap.Int64("userID", sess.User.ID),
		zap.String("role", sess.User.RoleName()))
	return sess, nil
}

func (s *DefaultService) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.Store.Get(ctx, utils.SessionPrefix+id).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *DefaultService) Invalidate(ctx context.Context, id string) error {
	if err := s.Store.Del(ctx, utils.SessionPrefix+id).Err(); err != nil {
		return fmt.Errorf("wipe session: %w", err)
	}
	s.Logger.Info("session wiped", zap.String("sessionID", id))
	return nil
}

func (s *DefaultService) save(ctx context.Context, sess *models.Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.Store.Set(ctx, utils.SessionPrefix+sess.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}
