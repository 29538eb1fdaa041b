package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/transport"
	"github.com/frahmantamala/childcare-management/pkg/logger"
)

type TokenVerifier interface {
	VerifyAccessToken(tokenString string) (int64, error)
}

// OptionalBearer validates an Authorization bearer token when one is sent. A valid
// token must belong to the body userId; without a body userId the token subject
// becomes the actor. Requests without a token pass through unchanged.
// Must run after Actor.
func OptionalBearer(verifier TokenVerifier, lg *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(lg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := transport.BearerToken(r)
			if token == "" {
				base.HandleError(w, r, internal.ErrInvalidToken)
				return
			}

			tokenUser, err := verifier.VerifyAccessToken(token)
			if err != nil {
				base.HandleError(w, r, err)
				return
			}

			actorID := internal.ActorIDFromContext(r.Context())
			if actorID != 0 && actorID != tokenUser {
				lg.Warn("bearer token does not match acting user", "token_user", tokenUser, "actor_id", actorID)
				base.HandleError(w, r, internal.ErrIdentityMismatch)
				return
			}

			ctx := r.Context()
			if actorID == 0 {
				ctx = internal.ContextWithActorID(ctx, tokenUser)
				ctx = logger.With(ctx, "actorID", tokenUser)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
