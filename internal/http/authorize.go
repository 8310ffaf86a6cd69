package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// authorizeUser resolves the {userId} path parameter and checks it against
// the authenticated token. It writes the error response itself and returns
// ok=false when the caller should stop.
func authorizeUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	rawID := chi.URLParam(r, "userId")

	userID, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Enter a valid userId.")
		return primitive.NilObjectID, false
	}

	authenticated := getUserIDFromContext(r.Context())
	if authenticated == "" {
		respondError(w, http.StatusUnauthorized, "Token required.")
		return primitive.NilObjectID, false
	}
	if authenticated != rawID {
		respondError(w, http.StatusForbidden, "User not authorized to access this resource.")
		return primitive.NilObjectID, false
	}

	return userID, true
}
