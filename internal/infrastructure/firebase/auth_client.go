package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"

	appauth "sheworks/internal/infrastructure/auth"
)

// FirebaseAuthClient verifies Firebase ID tokens. The participant kind is
// carried in the "kind" custom claim.
type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (*appauth.Identity, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, appauth.ErrInvalidToken
	}

	kind, _ := result.Claims["kind"].(string)
	return &appauth.Identity{UID: result.UID, Kind: kind}, nil
}

// IssueToken returns a custom token; clients exchange it for an ID token.
func (f *FirebaseAuthClient) IssueToken(ctx context.Context, uid, kind string) (string, error) {
	return f.client.CustomTokenWithClaims(ctx, uid, map[string]interface{}{"kind": kind})
}
