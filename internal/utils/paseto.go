package utils

import (
	"encoding/hex"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

const (
	tokenAudience = "aeos365-hrm"
	tokenIssuer   = "aeos365-identity"
)

// PasetoMaker verarbeitet lokale PASETO-Operationen der Version 4 (symmetrisch).
// Tokens werden vom Identity-Dienst der Suite ausgestellt; dieses Modul prüft sie nur.
type PasetoMaker struct {
	symmetricKey paseto.V4SymmetricKey
}

// NewPasetoMaker creates instance with existing key
func NewPasetoMaker(keyHex string) (*PasetoMaker, error) {
	key, err := paseto.V4SymmetricKeyFromHex(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid symmetric key: %w", err)
	}

	return &PasetoMaker{
		symmetricKey: key,
	}, nil
}

// GenerateSymmetricKey generiert einen neuen symmetrischen V4-Schlüssel. Wird verwendet, wenn kein hexKey vorhanden ist.
func GenerateSymmetricKey() string {
	key := paseto.NewV4SymmetricKey()
	return hex.EncodeToString(key.ExportBytes())
}

// CreateToken erstellt ein lokales V4 Token (encrypted)
func (m *PasetoMaker) CreateToken(actorID, email, role, sessionID string, duration time.Duration) (string, error) {
	token := paseto.NewToken()

	now := time.Now()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(duration))
	token.SetAudience(tokenAudience)
	token.SetIssuer(tokenIssuer)
	token.SetSubject(actorID)
	token.SetJti(sessionID)

	token.SetString("email", email)
	token.SetString("role", role)

	return token.V4Encrypt(m.symmetricKey, nil), nil
}

type PayloadPaseto struct {
	ActorID   string
	Email     string
	Role      string
	JTI       string
	ExpiresAt time.Time
}

// VerifyToken decrypts und überprüft das lokale V4 Token.
func (m *PasetoMaker) VerifyToken(tokenString string) (*PayloadPaseto, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(time.Now()))

	parsed, err := parser.ParseV4Local(m.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("token decryption/verification failed: %w", err)
	}

	subject, err := parsed.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	payload := &PayloadPaseto{ActorID: subject}
	payload.Email, _ = parsed.GetString("email")
	payload.Role, _ = parsed.GetString("role")
	payload.JTI, _ = parsed.GetJti()
	payload.ExpiresAt, _ = parsed.GetExpiration()

	return payload, nil
}
