// Package capi defines the request and response types, resource client
// interfaces and shared helpers for the Cloud Foundry control plane: the v2
// and v3 Cloud Controller APIs and the loggregator log endpoints.
//
// # Getting a client
//
// The cfclient package builds a concrete Client from a Config:
//
//	cli, err := cfclient.New(ctx, &capi.Config{
//	  APIEndpoint: "https://api.example.com",
//	  Username:    "admin",
//	  Password:    "secret",
//	})
//	if err != nil { return err }
//
//	spaces, err := cli.Spaces().List(ctx, capi.ListSpacesRequest{Names: []string{"dev"}})
//
// # Requests
//
// Every operation takes a request value that validates itself before
// anything is sent. An invalid request fails with *RequestValidationError
// and makes no network call.
//
// # Pagination
//
// Paginate turns a list operation into a lazy iter.Seq2 of pages:
//
//	pages := capi.Paginate(ctx, func(page int) capi.ListSpacesRequest {
//	  return capi.ListSpacesRequest{PaginatedRequest: capi.PaginatedRequest{}.WithPage(page)}
//	}, cli.Spaces().List)
//
//	for page, err := range pages {
//	  if err != nil { return err }
//	  _ = page.Resources
//	}
//
// # Errors
//
// Non-2xx responses surface as *CloudFoundryError, normalized from either the
// v2 or the v3 error envelope. Transport and decode failures surface as
// *ClientError. IsNotFound, IsUnauthorized, IsForbidden and IsClientError
// branch on the common cases.
//
// # Observing requests
//
// Listeners registered on Client.Listeners receive a RequestEvent after
// every exchange. LoggingListener, MetricsCollector and NATSListener are
// provided.
package capi
