package staff

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	request "eduverify/pkg/platform/middleware/request"
	"eduverify/pkg/requestcontext"
)

// Departments recognized in staff token claims. Accounts validates payments;
// Examination decides verification outcomes.
const (
	DepartmentAccounts    = "accounts"
	DepartmentExamination = "examination"
)

// Claims carried by a staff session token.
type Claims struct {
	Department string `json:"department"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates staff session tokens. There is no real
// credential check behind issuance; the token only carries which department
// desk the staff member is operating.
type TokenIssuer struct {
	signingKey []byte
	ttl        time.Duration
}

func NewTokenIssuer(signingKey string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{signingKey: []byte(signingKey), ttl: ttl}
}

// Issue creates a signed token for the given department.
func (i *TokenIssuer) Issue(department string, now time.Time) (string, error) {
	if department != DepartmentAccounts && department != DepartmentExamination {
		return "", fmt.Errorf("unknown department: %s", department)
	}
	claims := Claims{
		Department: department,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.signingKey)
}

// Validate parses and verifies a token string, returning its claims.
func (i *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse staff token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid staff token")
	}
	return claims, nil
}

// RequireDepartment enforces a Bearer staff token carrying the given
// department claim and injects the department into the request context.
func RequireDepartment(issuer *TokenIssuer, department string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "missing staff token", "request_id", requestID)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "staff token required")
				return
			}

			claims, err := issuer.Validate(token)
			if err != nil {
				logger.WarnContext(ctx, "invalid staff token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid staff token")
				return
			}

			if claims.Department != department {
				logger.WarnContext(ctx, "staff department mismatch",
					"have", claims.Department,
					"want", department,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "wrong department")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithDepartment(ctx, claims.Department)))
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":%q,"error_description":%q}`, errCode, errDesc))
}
