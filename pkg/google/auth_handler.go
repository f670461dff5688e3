package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rbbydotdev/someday/internal/config"
	"github.com/rbbydotdev/someday/internal/rest"
	"github.com/rbbydotdev/someday/pkg/owner"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

type googleAuthRedirect struct {
	RedirectUrl string `json:"redirectUrl"`
}

// GoogleAuth manages the OAuth token of the calendar account this
// installation books against. There is exactly one connected account,
// stored in the singleton google_auth row.
type GoogleAuth struct {
	db          *pgxpool.Pool
	oauthConfig *oauth2.Config
}

func NewGoogleAuth(db *pgxpool.Pool, cfg config.Application) *GoogleAuth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Google.ClientId,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     googleoauth.Endpoint,
		RedirectURL:  cfg.Host + "/api/integrations/google/auth/callback",
		Scopes:       []string{calendar.CalendarEventsScope, calendar.CalendarReadonlyScope},
	}

	return &GoogleAuth{db: db, oauthConfig: oauthConfig}
}

func (g *GoogleAuth) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !owner.IsOwner(r.Context()) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	stateNonce := uuid.New().String()
	finalUrl := r.URL.Query().Get("finalUrl")

	// Replace any previous token; reconnecting invalidates the old one.
	_, err := g.db.Exec(r.Context(),
		`INSERT INTO google_auth (id, nonce, access_token, refresh_token, expiry)
		 VALUES (1, $1, NULL, NULL, NULL)
		 ON CONFLICT (id) DO UPDATE SET nonce = EXCLUDED.nonce,
		     access_token = NULL, refresh_token = NULL, expiry = NULL`,
		stateNonce)
	if err != nil {
		log.Errorf("failed to store Google auth nonce: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Failed to handle Google authentication",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	log.Tracef("Redirecting to Google auth URL with nonce: %s", stateNonce)
	u := g.oauthConfig.AuthCodeURL(finalUrl+"|"+stateNonce, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	w.WriteHeader(http.StatusOK)
	encodeErr := json.NewEncoder(w).Encode(googleAuthRedirect{
		RedirectUrl: u,
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}

func (g *GoogleAuth) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	code := r.FormValue("code")
	state := r.FormValue("state")

	parts := strings.SplitN(state, "|", 2)
	if len(parts) != 2 {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}
	finalUrl := parts[0]
	nonce := parts[1]

	token, err := g.oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		err := fmt.Errorf("unable to exchange code for token: %v", err)
		log.Error(err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}

	tag, err := g.db.Exec(r.Context(),
		"UPDATE google_auth SET access_token = $1, refresh_token = $2, expiry = $3 WHERE nonce = $4",
		token.AccessToken, token.RefreshToken, token.Expiry.Unix(), nonce)
	if err != nil || tag.RowsAffected() == 0 {
		log.Errorf("unable to store Google auth token for nonce: %v", err)
		http.Redirect(w, r, finalUrl+"?success=false", http.StatusFound)
		return
	}
	log.Debug("Successfully stored Google auth token for nonce: ", nonce)
	http.Redirect(w, r, finalUrl+"?success=true", http.StatusFound)
}

func (g *GoogleAuth) OAuthLogout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !owner.IsOwner(r.Context()) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	_, err := g.db.Exec(r.Context(), "DELETE FROM google_auth WHERE id = 1")
	if err != nil {
		log.Errorf("failed to delete Google auth row: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Failed to handle Google authentication",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *GoogleAuth) getToken(ctx context.Context) (*oauth2.Token, error) {
	var token oauth2.Token
	var accessToken, refreshToken *string
	var expiryTimestamp *int64
	err := g.db.QueryRow(ctx, "SELECT access_token, refresh_token, expiry FROM google_auth WHERE id = 1").
		Scan(&accessToken, &refreshToken, &expiryTimestamp)
	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to retrieve Google auth token: %v", err)
	}
	if accessToken == nil {
		// Login started but the callback never completed.
		return nil, nil
	}

	token.AccessToken = *accessToken
	if refreshToken != nil {
		token.RefreshToken = *refreshToken
	}
	if expiryTimestamp != nil {
		token.Expiry = time.Unix(*expiryTimestamp, 0)
	}
	return &token, nil
}

func (g *GoogleAuth) getClient(ctx context.Context) (*http.Client, error) {
	token, err := g.getToken(ctx)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	if token == nil {
		return nil, nil
	}
	return g.oauthConfig.Client(context.Background(), token), nil
}
