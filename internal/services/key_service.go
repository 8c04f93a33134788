package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/EGS-Tourist-Guide/event-service/internal/models"
)

// KeyService issues and validates API keys. Only the hash of a key is
// ever stored; the plaintext is shown to the client exactly once at
// issuance.
type KeyService struct {
	keys   models.KeyRepo
	secret string
}

func NewKeyService(keys models.KeyRepo, secret string) *KeyService {
	return &KeyService{
		keys:   keys,
		secret: secret,
	}
}

// HashKey derives the stored identity from a client-supplied key.
func (ks *KeyService) HashKey(key string) string {
	sum := sha256.Sum256([]byte(key + ks.secret))
	return hex.EncodeToString(sum[:])
}

// GenerateKey creates a new active key for the app and returns the
// plaintext. The store receives only the hash.
func (ks *KeyService) GenerateKey(ctx context.Context, appID string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate key material: %v", err)
	}
	plaintext := hex.EncodeToString(raw)

	err := ks.keys.CreateKey(ctx, &models.ApiKey{
		ID:        ks.HashKey(plaintext),
		AppID:     appID,
		Active:    true,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return "", localInternal(err)
	}
	return plaintext, nil
}

// ValidateKey reports whether the plaintext key maps to an active
// stored key.
func (ks *KeyService) ValidateKey(ctx context.Context, key string) (bool, error) {
	stored, err := ks.keys.GetKeyByID(ctx, ks.HashKey(key))
	if err != nil {
		return false, localInternal(err)
	}
	return stored != nil && stored.Active, nil
}

// RevokeKey deactivates the key; the record is kept for audit. Reports
// whether the key existed.
func (ks *KeyService) RevokeKey(ctx context.Context, key string) (bool, error) {
	found, err := ks.keys.SetKeyActive(ctx, ks.HashKey(key), false)
	if err != nil {
		return false, localInternal(err)
	}
	return found, nil
}
