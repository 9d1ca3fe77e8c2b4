package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	auth   string
	body   string
}

func newAPI(t *testing.T, status int, response string) (*httptest.Server, *recordedRequest) {
	t.Helper()

	seen := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*seen = recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			body:   string(body),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}

	if got := truncate("Nguyễn Văn An", 8); got != "Nguyễ..." {
		t.Fatalf("expected rune-safe truncation, got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}); err != nil {
		t.Fatalf("printJSON failed: %v", err)
	}

	expected := "{\n  \"a\": 1\n}\n"
	if buf.String() != expected {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}
}

func TestSessionOpen(t *testing.T) {
	srv, seen := newAPI(t, http.StatusCreated, `{"success":true,"data":{
		"token":"jwt-abc","expires_at":"2024-05-01T22:00:00Z","identity":"0xhanoi",
		"permission":{"role":"regional_admin","locationScope":"hanoi"}}}`)

	out, err := execute(t, "--url", srv.URL, "session", "open", "0xHANOI")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if seen.method != http.MethodPost || seen.path != "/api/v1/sessions" {
		t.Fatalf("unexpected request %s %s", seen.method, seen.path)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(seen.body), &body); err != nil || body["wallet_address"] != "0xHANOI" {
		t.Fatalf("unexpected request body %q", seen.body)
	}
	if !strings.Contains(out, "Token:    jwt-abc") || !strings.Contains(out, "regional_admin (hanoi)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestMePermissionSendsToken(t *testing.T) {
	srv, seen := newAPI(t, http.StatusOK, `{"success":true,"data":{"role":"viewer","locationScope":"all"}}`)

	out, err := execute(t, "--url", srv.URL, "--token", "jwt-abc", "me", "permission")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if seen.path != "/api/v1/me/permission" || seen.auth != "Bearer jwt-abc" {
		t.Fatalf("unexpected request %s auth=%q", seen.path, seen.auth)
	}
	if !strings.Contains(out, `"role": "viewer"`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRecordsList(t *testing.T) {
	srv, seen := newAPI(t, http.StatusOK, `{"success":true,"data":{
		"items":[{"id":"lic-001","status":"active","city":"Hà Nội","licenseNumber":"010123456789","holderName":"Nguyễn Văn An"},
		         {"id":"lic-008","status":"expired","city":null,"licenseNumber":"000123456796","holderName":"Hoàng Văn Nam"}],
		"pagination":{"page":1,"limit":10,"total":2,"totalPages":1}}}`)

	out, err := execute(t, "--url", srv.URL, "records", "list", "licenses",
		"--limit", "10", "--sort-by", "expiryDate", "--sort-order", "desc", "--search", "van", "--filter", "status=active")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if seen.path != "/api/v1/licenses" {
		t.Fatalf("unexpected path %s", seen.path)
	}
	for _, want := range []string{"limit=10", "sortBy=expiryDate", "sortOrder=desc", "search=van", "status=active"} {
		if !strings.Contains(seen.query, want) {
			t.Fatalf("expected query to contain %s, got %s", want, seen.query)
		}
	}
	for _, want := range []string{"lic-001", "Hà Nội", "010123456789", "lic-008", "page 1/1, 2 total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestRecordsListRejectsBadInput(t *testing.T) {
	if _, err := execute(t, "records", "list", "accounts"); err == nil {
		t.Fatalf("expected unknown entity to fail")
	}
	if _, err := execute(t, "records", "list", "licenses", "--filter", "status"); err == nil {
		t.Fatalf("expected malformed filter to fail")
	}
}

func TestRecordsStatsReportsAPIError(t *testing.T) {
	srv, _ := newAPI(t, http.StatusForbidden, `{"success":false,"error":{"code":"ACCESS_DENIED","message":"access denied"}}`)

	_, err := execute(t, "--url", srv.URL, "records", "stats", "violations")
	if err == nil || !strings.Contains(err.Error(), "ACCESS_DENIED") {
		t.Fatalf("expected ACCESS_DENIED error, got %v", err)
	}
}

func TestRecordsGet(t *testing.T) {
	srv, seen := newAPI(t, http.StatusOK, `{"success":true,"data":{"id":"veh-001","plateNumber":"29A-123.45"}}`)

	out, err := execute(t, "--url", srv.URL, "records", "get", "vehicles", "veh-001")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if seen.path != "/api/v1/vehicles/veh-001" {
		t.Fatalf("unexpected path %s", seen.path)
	}
	if !strings.Contains(out, "29A-123.45") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestAuditList(t *testing.T) {
	srv, seen := newAPI(t, http.StatusOK, `{"success":true,"data":[
		{"id":"a1","identity":"0x1111111111111111111111111111111111111111","action":"licenses.update",
		 "resourceId":"lic-001","status":"success","createdAt":"2024-05-01T10:00:00Z"}]}`)

	out, err := execute(t, "--url", srv.URL, "audit", "list", "--resource", "licenses", "--limit", "5")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if seen.path != "/api/v1/audit-logs" || !strings.Contains(seen.query, "resourceType=licenses") {
		t.Fatalf("unexpected request %s?%s", seen.path, seen.query)
	}
	if !strings.Contains(out, "licenses.update") || !strings.Contains(out, "0x111111111...") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
