package auth

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"salachat/module/chat/model"
)

// Options 控制签名与TTL等参数。
type Options struct {
	Secret []byte        // HMAC 密钥（生产用ENV/KMS）
	Alg    string        // HS256/HS384/HS512（默认 HS256）
	TTL    time.Duration // 令牌有效期（默认 2h）
}

func DefaultOptions(secret []byte) Options {
	return Options{Secret: secret, Alg: "HS256", TTL: 2 * time.Hour}
}

type identityClaims struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	jwtlib.RegisteredClaims
}

// JWT implements Verifier for HMAC-signed tokens carrying the identity in
// {sub, name, color}.
type JWT struct {
	opts Options
}

func NewJWT(opts Options) *JWT {
	if opts.TTL <= 0 {
		opts.TTL = 2 * time.Hour
	}
	return &JWT{opts: opts}
}

func (j *JWT) Verify(token string) (model.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return model.Identity{}, errors.New("empty token")
	}
	if _, err := signingMethod(j.opts.Alg); err != nil {
		return model.Identity{}, err
	}

	var claims identityClaims
	parsed, err := jwtlib.ParseWithClaims(token, &claims, func(t *jwtlib.Token) (interface{}, error) {
		// 仅允许 HMAC 家族
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected alg: %v", t.Header["alg"])
		}
		return j.opts.Secret, nil
	})
	if err != nil {
		return model.Identity{}, errors.Wrap(err, "parse token")
	}
	if !parsed.Valid || claims.Subject == "" {
		return model.Identity{}, errors.New("invalid token")
	}
	return model.Identity{ID: claims.Subject, Name: claims.Name, Color: claims.Color}, nil
}

// Sign issues a token for the given identity. The service itself never calls
// this; it exists for local tooling and tests.
func (j *JWT) Sign(id model.Identity) (string, error) {
	method, err := signingMethod(j.opts.Alg)
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := identityClaims{
		Name:  id.Name,
		Color: id.Color,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			NotBefore: jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(j.opts.TTL)),
		},
	}
	return jwtlib.NewWithClaims(method, claims).SignedString(j.opts.Secret)
}

func signingMethod(alg string) (jwtlib.SigningMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(alg)) {
	case "", "HS256":
		return jwtlib.SigningMethodHS256, nil
	case "HS384":
		return jwtlib.SigningMethodHS384, nil
	case "HS512":
		return jwtlib.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported alg: %s (use HS256/HS384/HS512)", alg)
	}
}
