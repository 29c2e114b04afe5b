package constants

import "errors"

// Configuration errors.
var (
	ErrNoAPIEndpoint     = errors.New("no API endpoint configured, use --api or 'cfapi login'")
	ErrNotAuthenticated  = errors.New("not authenticated, use 'cfapi login' first")
	ErrSSLOnlyInDev      = errors.New("skipSSL is only allowed in development environments (set CFAPI_DEV_MODE=true)")
	ErrNoUAAInAPIInfo    = errors.New("no token endpoint found in API info")
	ErrAPIRequestFailed  = errors.New("API info request failed")
	ErrUnsupportedOutput = errors.New("unsupported output format")
)

// Command errors.
var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrSpaceNotFound        = errors.New("space not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrRulesFileRequired    = errors.New("--rules file is required")
	ErrNoOrganizationTarget = errors.New("no organization targeted, use 'cfapi target -o ORG'")
	ErrNoSpaceTarget        = errors.New("no space targeted, use 'cfapi target -s SPACE'")
	ErrProcessNotFound      = errors.New("process not found")
	ErrUnknownRole          = errors.New("unknown role, expected manager, developer or auditor")
	ErrSecurityGroupMissing = errors.New("security group not found")
	ErrInvalidEnvVar        = errors.New("invalid environment variable, expected KEY=VALUE")
)
