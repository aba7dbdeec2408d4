/*
Package authsdk provides a client SDK for the precinct authentication service.

# SDKClient vs Session

The package is organized around two main types:

  - SDKClient: unauthenticated operations (login, register, forgot-password,
    health probes) and the entry point for creating authenticated sessions
  - Session: authenticated operations carrying a bearer token pair, with
    proactive refresh before the access token lapses

Create an SDKClient to talk to public endpoints and sign in:

	client := authsdk.NewSDKClient("https://auth.example.com")

	health, err := client.GetLiveness(ctx)

	session, err := client.AuthenticateWithPassword(ctx, email, password)

Use the Session for everything behind the authentication gate:

	users, err := session.ListUsers(ctx)

	pair, err := session.UpdateProfile(ctx, authsdk.UpdateProfileRequest{Name: "Morgan"})

	err = session.Logout(ctx)

# Token Refresh

The service only accepts a refresh while the access token is still valid, so
the Session refreshes ahead of expiry (30 second buffer) rather than after.
A Session left idle past its access-token lifetime cannot be revived; sign in
again with AuthenticateWithPassword.

# Error Handling

Failed requests return an *APIError carrying the HTTP status code and the
service's Message body:

	if apiErr, ok := err.(*authsdk.APIError); ok {
		fmt.Println(apiErr.StatusCode, apiErr.Message)
	}

# Thread Safety

Sessions are safe for concurrent use. Token state is guarded by a read/write
lock, so multiple goroutines can share one Session.
*/
package authsdk
