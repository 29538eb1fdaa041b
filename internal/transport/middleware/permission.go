package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/transport"
)

type PermissionChecker interface {
	Check(ctx context.Context, userID int64, tableName string) (bool, error)
}

// RequirePermission gates mutating requests on a grant for the table named by
// tableFunc. Reads pass through.
func RequirePermission(checker PermissionChecker, lg *slog.Logger, tableFunc func(*http.Request) string) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(lg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsMutation(r) {
				next.ServeHTTP(w, r)
				return
			}

			userID := internal.ActorIDFromContext(r.Context())
			table := tableFunc(r)

			allowed, err := checker.Check(r.Context(), userID, table)
			if err != nil {
				base.HandleError(w, r, err)
				return
			}
			if !allowed {
				lg.Warn("access denied: no grant for table",
					"user_id", userID,
					"table", table,
					"method", r.Method,
					"path", r.URL.Path)
				base.HandleError(w, r, internal.ErrAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireTable is RequirePermission on a fixed table name.
func RequireTable(checker PermissionChecker, lg *slog.Logger, table string) func(http.Handler) http.Handler {
	return RequirePermission(checker, lg, func(*http.Request) string { return table })
}
