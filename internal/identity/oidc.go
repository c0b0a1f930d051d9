package identity

import (
	"context"
	"io"

	"github.com/htwg-in-schneider/frontend-cooked/pkg/sdk"
)

// DeviceCodeLogin returns a LoginFunc running the OIDC device authorization flow.
func DeviceCodeLogin(issuer, clientID string, out io.Writer, openBrowser bool) LoginFunc {
	return func(ctx context.Context) (*sdk.Credentials, error) {
		return sdk.LoginWithDeviceCode(ctx, issuer, clientID, sdk.DeviceFlowOptions{
			Out:         out,
			OpenBrowser: openBrowser,
		})
	}
}

// ServiceAccountLogin returns a LoginFunc using the client credentials grant.
func ServiceAccountLogin(issuer, clientID, clientSecret string) LoginFunc {
	return func(ctx context.Context) (*sdk.Credentials, error) {
		return sdk.LoginWithServiceAccount(ctx, issuer, clientID, clientSecret)
	}
}

// OIDCRefresh returns a RefreshFunc against the issuer's token endpoint.
func OIDCRefresh(issuer, clientID string) RefreshFunc {
	return func(ctx context.Context, refreshToken string) (*sdk.Credentials, error) {
		return sdk.RefreshToken(ctx, issuer, clientID, refreshToken)
	}
}
