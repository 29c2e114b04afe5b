// Package cfclient is the entry point for building a capi.Client.
//
// New normalizes the API endpoint, validates the configuration and, when the
// credentials need UAA, reads the token endpoint from /v2/info:
//
//	cli, err := cfclient.New(ctx, &capi.Config{
//	  APIEndpoint:  "api.example.com",
//	  ClientID:     "ops",
//	  ClientSecret: os.Getenv("CF_CLIENT_SECRET"),
//	})
//	if err != nil { return err }
//
//	info, err := cli.GetInfo(ctx)
//
// SkipTLSVerify is refused unless CFAPI_DEV_MODE is "true" or "1".
package cfclient
