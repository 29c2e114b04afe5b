package commands_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/cfapi/cmd/cfapi/commands"
	"github.com/fivetwenty-io/cfapi/internal/constants"
	"github.com/fivetwenty-io/cfapi/pkg/loggregator"
)

func TestRootCommand_Structure(t *testing.T) {
	root := commands.NewRootCommand("dev", "none", "unknown")

	assert.Equal(t, "cfapi", root.Use)

	for _, name := range []string{
		"version", "login", "logout", "target", "config", "info", "orgs", "spaces",
		"apps", "processes", "packages", "security-groups", "services", "logs",
	} {
		assert.NotNil(t, findSubcommand(root, name), name)
	}

	for _, flag := range []string{"config", "api", "token", "output", "verbose", "skip-ssl-validation", "events-nats-url", "events-subject"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}

	apps := findSubcommand(root, "apps")
	for _, name := range []string{"list", "get", "create", "delete", "start", "stop", "restart", "env", "droplets", "upload-bits"} {
		assert.NotNil(t, findSubcommand(apps, name), "apps "+name)
	}

	logs := findSubcommand(root, "logs")
	assert.NotNil(t, logs.Flags().Lookup("recent"))
	assert.NotNil(t, logs.Flags().Lookup("skip-malformed"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, nil, "version", "-o", "json")
	require.NoError(t, err)

	var info commands.VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123", info.Commit)
	assert.NotEmpty(t, info.GoVersion)

	out, err = execute(t, nil, "version", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "version: 1.2.3")

	out, err = execute(t, nil, "version")
	require.NoError(t, err)
	assert.True(t, containsAll(out, "VERSION", "1.2.3", "abc123"), out)
}

func TestRender_UnsupportedFormat(t *testing.T) {
	_, err := execute(t, nil, "version", "-o", "xml")
	require.ErrorIs(t, err, constants.ErrUnsupportedOutput)
}

func TestConfigShow_RedactsTokens(t *testing.T) {
	path := writeConfig(t, map[string]interface{}{
		"api":           "https://api.example.com",
		"token":         "secret-token",
		"refresh_token": "secret-refresh",
		"organization":  "my-org",
	})

	out, err := execute(t, nil, "config", "show", "--config", path, "-o", "json")
	require.NoError(t, err)
	assert.NotContains(t, out, "secret-token")
	assert.NotContains(t, out, "secret-refresh")
	assert.Contains(t, out, "[REDACTED]")
	assert.Contains(t, out, "my-org")

	out, err = execute(t, nil, "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(out))
}

func TestCommands_RequireLogin(t *testing.T) {
	_, err := execute(t, nil, "orgs", "list", "--config", writeConfig(t, map[string]interface{}{}))
	require.ErrorIs(t, err, constants.ErrNoAPIEndpoint)

	path := writeConfig(t, map[string]interface{}{"api": "https://api.example.com"})

	_, err = execute(t, nil, "orgs", "list", "--config", path)
	require.ErrorIs(t, err, constants.ErrNotAuthenticated)
}

func TestCommands_TokenFromEnvironment(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.handle(http.MethodGet, "/v2/organizations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bearer env-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"total_results":0,"total_pages":0,"resources":[]}`))
	})

	t.Setenv("CFAPI_TOKEN", "env-token")

	path := writeConfig(t, map[string]interface{}{"api": cc.URL})

	out, err := execute(t, nil, "orgs", "list", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No organizations found")
}

func TestOrgsList_Pagination(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.handle(http.MethodGet, "/v2/organizations", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(`{"total_results":2,"total_pages":2,"prev_url":"/v2/organizations?page=1",
				"resources":[{"metadata":{"guid":"org-2"},"entity":{"name":"org-two","status":"active"}}]}`))

			return
		}

		_, _ = w.Write([]byte(`{"total_results":2,"total_pages":2,"next_url":"/v2/organizations?page=2",
			"resources":[{"metadata":{"guid":"org-1","created_at":"2026-01-02T00:00:00Z"},"entity":{"name":"org-one","status":"active"}}]}`))
	})

	path := writeConfig(t, map[string]interface{}{"api": cc.URL, "token": "access"})

	out, err := execute(t, nil, "orgs", "list", "--config", path)
	require.NoError(t, err)
	assert.True(t, containsAll(out, "org-one", "org-1", "Showing page 1 of 2"), out)
	assert.NotContains(t, out, "org-two")
	assert.Equal(t, []string{"GET /v2/organizations?page=1&results-per-page=50"}, cc.seen())

	out, err = execute(t, nil, "orgs", "list", "--all", "--config", path, "-o", "json")
	require.NoError(t, err)
	assert.True(t, containsAll(out, "org-one", "org-two"), out)
	assert.NotContains(t, out, "Showing page")
	assert.Equal(t, "GET /v2/organizations?page=2&results-per-page=50", cc.seen()[2])
}

func TestServicesList_TargetedSpace(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.handle(http.MethodGet, "/v2/service_instances", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "space_guid IN space-1", r.URL.Query().Get("q"))
		assert.Equal(t, "true", r.URL.Query().Get("return_user_provided_service_instances"))
		_, _ = w.Write([]byte(`{"total_results":1,"total_pages":1,"resources":[{"metadata":{"guid":"si-1"},
			"entity":{"name":"my-db","type":"managed_service_instance","tags":["sql"],
			"last_operation":{"type":"create","state":"succeeded"}}}]}`))
	})

	path := writeConfig(t, map[string]interface{}{
		"api": cc.URL, "token": "access", "organization_guid": "org-1", "space_guid": "space-1",
	})

	out, err := execute(t, nil, "services", "list", "--user-provided", "--config", path)
	require.NoError(t, err)
	assert.True(t, containsAll(out, "my-db", "si-1", "create succeeded", "sql"), out)
}

func TestSpacesSummary_MultipleSpaces(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.handle(http.MethodGet, "/v2/organizations/org-1/spaces", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Query().Get("q"), "name IN ")
		_, _ = w.Write([]byte(`{"total_results":1,"total_pages":1,
			"resources":[{"metadata":{"guid":"` + name + `-guid"},"entity":{"name":"` + name + `"}}]}`))
	})
	cc.json(http.MethodGet, "/v2/spaces/dev-guid/summary", http.StatusOK,
		`{"guid":"dev-guid","name":"dev","apps":[{"name":"web","state":"STARTED","instances":2,"running_instances":2}],"services":[]}`)
	cc.json(http.MethodGet, "/v2/spaces/prod-guid/summary", http.StatusOK,
		`{"guid":"prod-guid","name":"prod","apps":[],"services":[{"name":"db","bound_app_count":1}]}`)

	path := writeConfig(t, map[string]interface{}{"api": cc.URL, "token": "access", "organization_guid": "org-1"})

	out, err := execute(t, nil, "spaces", "summary", "dev", "prod", "--config", path, "-o", "json")
	require.NoError(t, err)

	var summaries []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &summaries), out)
	require.Len(t, summaries, 2)
	assert.Equal(t, "dev", summaries[0]["name"])
	assert.Equal(t, "prod", summaries[1]["name"])
}

func TestSpacesSummary_FailureNamesSpace(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.json(http.MethodGet, "/v2/spaces/target-guid/summary", http.StatusNotFound,
		`{"code":40004,"description":"The app space could not be found: target-guid","error_code":"CF-SpaceNotFound"}`)

	path := writeConfig(t, map[string]interface{}{"api": cc.URL, "token": "access", "space_guid": "target-guid"})

	_, err := execute(t, nil, "spaces", "summary", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get space summary")
}

func TestTarget_ResolvesOrganizationAndSpace(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.handle(http.MethodGet, "/v2/organizations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "name IN my-org", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"total_results":1,"total_pages":1,
			"resources":[{"metadata":{"guid":"org-1"},"entity":{"name":"my-org","status":"active"}}]}`))
	})
	cc.handle(http.MethodGet, "/v2/organizations/org-1/spaces", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "name IN dev", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"total_results":1,"total_pages":1,
			"resources":[{"metadata":{"guid":"space-1"},"entity":{"name":"dev","organization_guid":"org-1"}}]}`))
	})

	path := writeConfig(t, map[string]interface{}{"api": cc.URL, "token": "access", "space": "old", "space_guid": "old-guid"})

	out, err := execute(t, nil, "target", "-o", "my-org", "-s", "dev", "--config", path)
	require.NoError(t, err)
	assert.True(t, containsAll(out, "my-org", "dev"), out)

	config := readConfig(t, path)
	assert.Equal(t, "org-1", config.OrganizationGUID)
	assert.Equal(t, "space-1", config.SpaceGUID)
	assert.Equal(t, "access", config.Token)
}

func TestTarget_SpaceNotFound(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.json(http.MethodGet, "/v2/organizations/org-1/spaces", http.StatusOK, `{"total_results":0,"total_pages":0,"resources":[]}`)

	path := writeConfig(t, map[string]interface{}{
		"api": cc.URL, "token": "access", "organization": "my-org", "organization_guid": "org-1",
	})

	_, err := execute(t, nil, "target", "-s", "missing", "--config", path)
	require.ErrorIs(t, err, constants.ErrSpaceNotFound)
}

func targetedConfig(t *testing.T, api string) string {
	t.Helper()

	return writeConfig(t, map[string]interface{}{
		"api":               api,
		"token":             "access",
		"logging_endpoint":  strings.Replace(api, "http://", "ws://", 1),
		"organization":      "my-org",
		"organization_guid": "org-1",
		"space":             "dev",
		"space_guid":        "space-1",
	})
}

const appListBody = `{"pagination":{"total_results":1,"total_pages":1},
	"resources":[{"guid":"app-1","name":"my-app","state":"STOPPED","lifecycle":{"type":"buildpack","data":{}}}]}`

func TestAppsStart(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.handle(http.MethodGet, "/v3/apps", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "my-app", r.URL.Query().Get("names"))
		assert.Equal(t, "space-1", r.URL.Query().Get("space_guids"))
		_, _ = w.Write([]byte(appListBody))
	})
	cc.json(http.MethodPost, "/v3/apps/app-1/actions/start", http.StatusOK,
		`{"guid":"app-1","name":"my-app","state":"STARTED","lifecycle":{"type":"buildpack","data":{}}}`)

	out, err := execute(t, nil, "apps", "start", "my-app", "--config", targetedConfig(t, cc.URL))
	require.NoError(t, err)
	assert.Contains(t, out, "Application my-app is STARTED")
}

func TestAppsStart_NotFound(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.json(http.MethodGet, "/v3/apps", http.StatusOK, `{"pagination":{"total_results":0,"total_pages":1},"resources":[]}`)

	_, err := execute(t, nil, "apps", "start", "ghost", "--config", targetedConfig(t, cc.URL))
	require.ErrorIs(t, err, constants.ErrApplicationNotFound)
}

func TestAppsCreate_RejectsBadEnvironment(t *testing.T) {
	_, err := execute(t, nil, "apps", "create", "my-app", "-e", "NOVALUE", "--config", targetedConfig(t, "http://127.0.0.1:1"))
	require.ErrorIs(t, err, constants.ErrInvalidEnvVar)
}

func TestProcessesScale(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.json(http.MethodGet, "/v3/apps", http.StatusOK, appListBody)
	cc.handle(http.MethodGet, "/v3/processes", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "web", r.URL.Query().Get("types"))
		assert.Equal(t, "app-1", r.URL.Query().Get("app_guids"))
		_, _ = w.Write([]byte(`{"pagination":{"total_results":1,"total_pages":1},
			"resources":[{"guid":"proc-1","type":"web","instances":1,"memory_in_mb":256,"disk_in_mb":1024}]}`))
	})
	cc.handle(http.MethodPost, "/v3/processes/proc-1/actions/scale", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			return
		}

		assert.Equal(t, map[string]int{"instances": 3}, body)
		_, _ = w.Write([]byte(`{"guid":"proc-1","type":"web","instances":3,"memory_in_mb":256,"disk_in_mb":1024}`))
	})

	out, err := execute(t, nil, "processes", "scale", "my-app", "-i", "3", "--config", targetedConfig(t, cc.URL))
	require.NoError(t, err)
	assert.Contains(t, out, "3 instances")
}

func TestSecurityGroupsCreate(t *testing.T) {
	_, err := execute(t, nil, "security-groups", "create", "public", "--config", targetedConfig(t, "http://127.0.0.1:1"))
	require.ErrorIs(t, err, constants.ErrRulesFileRequired)

	cc := newFakeCloudController(t)
	cc.handle(http.MethodPost, "/v2/security_groups", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
			Rules []struct {
				Protocol string `json:"protocol"`
			} `json:"rules"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			return
		}

		assert.Equal(t, "public", body.Name)
		assert.Len(t, body.Rules, 1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"metadata":{"guid":"sg-1"},"entity":{"name":"public","rules":[{"protocol":"tcp","destination":"0.0.0.0/0"}]}}`))
	})

	rules := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(rules, []byte(`[{"protocol":"tcp","destination":"0.0.0.0/0","ports":"443"}]`), 0o600))

	out, err := execute(t, nil, "security-groups", "create", "public", "--rules", rules, "--config", targetedConfig(t, cc.URL))
	require.NoError(t, err)
	assert.Contains(t, out, "Created security group public (sg-1) with 1 rules")
}

func TestLogsRecent(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.json(http.MethodGet, "/v3/apps", http.StatusOK, appListBody)
	cc.handle(http.MethodGet, "/recent", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "app-1", r.URL.Query().Get("app"))

		var body bytes.Buffer

		mw := multipart.NewWriter(&body)
		if !assert.NoError(t, mw.SetBoundary("recent-boundary")) {
			return
		}

		for i, text := range []string{"second line", "first line"} {
			part, err := mw.CreatePart(textproto.MIMEHeader{})
			if !assert.NoError(t, err) {
				return
			}

			_, _ = part.Write(loggregator.Marshal(&loggregator.LogMessage{
				Message:       []byte(text),
				MessageType:   loggregator.MessageTypeOut,
				Timestamp:     time.Unix(100-int64(i), 0),
				ApplicationID: "app-1",
				SourceID:      "0",
				SourceName:    "APP/PROC/WEB",
			}))
		}

		_ = mw.Close()

		w.Header().Set("Content-Type", "multipart/x-protobuf; boundary=recent-boundary")
		_, _ = w.Write(body.Bytes())
	})

	out, err := execute(t, nil, "logs", "my-app", "--recent", "--config", targetedConfig(t, cc.URL))
	require.NoError(t, err)

	first := strings.Index(out, "first line")
	second := strings.Index(out, "second line")
	require.GreaterOrEqual(t, first, 0, out)
	assert.Less(t, first, second)
	assert.Contains(t, out, "[APP/PROC/WEB/0]")
}

func TestLogin_ClientCredentials(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.handle(http.MethodGet, "/v2/info", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"test-cf","api_version":"2.250.0","token_endpoint":"` + cc.URL +
			`","logging_endpoint":"wss://doppler.example.com:443"}`))
	})
	cc.handle(http.MethodPost, "/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseForm()) {
			return
		}

		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))

		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "ops", user)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"client-token","token_type":"bearer","expires_in":3600}`))
	})

	path := writeConfig(t, map[string]interface{}{"space": "stale", "space_guid": "stale-guid"})

	out, err := execute(t, nil, "login", "-a", cc.URL, "--client-id", "ops", "--client-secret", "s3cret", "--config", path)
	require.NoError(t, err)
	assert.True(t, containsAll(out, "OK", "2.250.0", "ops"), out)

	config := readConfig(t, path)
	assert.Equal(t, cc.URL, config.API)
	assert.Equal(t, cc.URL+"/oauth/token", config.TokenURL)
	assert.Equal(t, "wss://doppler.example.com:443", config.LoggingEndpoint)
	assert.Equal(t, "client-token", config.Token)
	require.NotNil(t, config.TokenExpiresAt)
	assert.True(t, config.TokenExpiresAt.After(time.Now()))
	assert.Empty(t, config.SpaceGUID)
}

func TestLogin_PromptsForPassword(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.handle(http.MethodGet, "/v2/info", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"test-cf","authorization_endpoint":"` + cc.URL + `"}`))
	})
	cc.handle(http.MethodPost, "/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseForm()) {
			return
		}

		assert.Equal(t, "password", r.Form.Get("grant_type"))
		assert.Equal(t, "admin", r.Form.Get("username"))
		assert.Equal(t, "hunter2", r.Form.Get("password"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"user-token","refresh_token":"user-refresh","token_type":"bearer","expires_in":3600}`))
	})

	path := writeConfig(t, map[string]interface{}{"api": cc.URL})

	out, err := execute(t, strings.NewReader("admin\nhunter2\n"), "login", "--config", path)
	require.NoError(t, err)
	assert.True(t, containsAll(out, "Username: ", "Password: ", "OK"), out)

	config := readConfig(t, path)
	assert.Equal(t, "user-token", config.Token)
	assert.Equal(t, "user-refresh", config.RefreshToken)
	assert.Equal(t, "admin", config.Username)

	out, err = execute(t, nil, "logout", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	config = readConfig(t, path)
	assert.Empty(t, config.Token)
	assert.Empty(t, config.RefreshToken)
	assert.Equal(t, cc.URL, config.API)
}

func TestClient_PersistsRefreshedToken(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.handle(http.MethodPost, "/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseForm()) {
			return
		}

		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.Form.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh-token","refresh_token":"new-refresh","token_type":"bearer","expires_in":3600}`))
	})
	cc.handle(http.MethodGet, "/v2/organizations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bearer fresh-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"total_results":0,"total_pages":0,"resources":[]}`))
	})

	path := writeConfig(t, map[string]interface{}{
		"api":              cc.URL,
		"token_url":        cc.URL + "/oauth/token",
		"token":            "expired-token",
		"refresh_token":    "old-refresh",
		"token_expires_at": time.Now().Add(-time.Hour),
	})

	_, err := execute(t, nil, "orgs", "list", "--config", path)
	require.NoError(t, err)

	config := readConfig(t, path)
	assert.Equal(t, "fresh-token", config.Token)
	assert.Equal(t, "new-refresh", config.RefreshToken)
}

func TestClient_RefreshSkipsSSLValidation(t *testing.T) {
	cc := newTLSFakeCloudController(t)
	cc.handle(http.MethodPost, "/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tls-token","refresh_token":"tls-refresh","token_type":"bearer","expires_in":3600}`))
	})
	cc.handle(http.MethodGet, "/v2/organizations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bearer tls-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"total_results":0,"total_pages":0,"resources":[]}`))
	})

	t.Setenv("CFAPI_DEV_MODE", "true")

	path := writeConfig(t, map[string]interface{}{
		"api":                 cc.URL,
		"token_url":           cc.URL + "/oauth/token",
		"token":               "expired-token",
		"refresh_token":       "old-refresh",
		"token_expires_at":    time.Now().Add(-time.Hour),
		"skip_ssl_validation": true,
	})

	out, err := execute(t, nil, "orgs", "list", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No organizations found")
	assert.Equal(t, "tls-token", readConfig(t, path).Token)
}

func TestInfo_WithoutLogin(t *testing.T) {
	cc := newFakeCloudController(t)
	cc.handle(http.MethodGet, "/v2/info", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"name":"test-cf","api_version":"2.250.0","token_endpoint":"https://uaa.example.com"}`))
	})

	out, err := execute(t, nil, "info", "--api", cc.URL, "--config", writeConfig(t, map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, containsAll(out, "test-cf", "2.250.0", "https://uaa.example.com"), out)
}
