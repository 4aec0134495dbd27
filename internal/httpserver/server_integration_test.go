package httpserver_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"finitefield.org/portfolio/internal/content"
	"finitefield.org/portfolio/internal/testutil"
)

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func fetch(t *testing.T, client *http.Client, target string) (*http.Response, []byte) {
	t.Helper()
	resp, err := client.Get(target)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func submit(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(target, form)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func csrfToken(t *testing.T, doc *goquery.Document) string {
	t.Helper()
	token := doc.Find(`input[name="csrf_token"]`).First().AttrOr("value", "")
	require.NotEmpty(t, token, "page should carry a csrf token")
	return token
}

func signIn(t *testing.T, client *http.Client, baseURL, adminPath string) string {
	t.Helper()
	resp, body := fetch(t, client, baseURL+adminPath+"/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := csrfToken(t, testutil.ParseHTML(t, body))

	login := submit(t, client, baseURL+adminPath+"/login", url.Values{
		"csrf_token": {token},
		"password":   {testutil.TestPassword},
	})
	require.Equal(t, http.StatusSeeOther, login.StatusCode)
	require.Equal(t, adminPath, login.Header.Get("Location"))
	return token
}

func TestHealthzAndStaticAssets(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)

	resp, body := fetch(t, http.DefaultClient, ts.URL+"/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "ok")

	for _, asset := range []string{"/public/static/css/site.css", "/public/static/css/admin.css", "/public/static/js/site.js"} {
		resp, _ := fetch(t, http.DefaultClient, ts.URL+asset)
		require.Equal(t, http.StatusOK, resp.StatusCode, asset)
	}
}

func TestAdminRedirectsWithoutSession(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	resp, _ := fetch(t, newClient(t), ts.URL+"/admin")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin/login?next=%2Fadmin", resp.Header.Get("Location"))
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestLoginRequiresCSRFToken(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := newClient(t)
	fetch(t, client, ts.URL+"/admin/login")

	resp := submit(t, client, ts.URL+"/admin/login", url.Values{"password": {testutil.TestPassword}})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLoginPageShowsEnvironment(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.WithEnvironment("Staging"))
	resp, body := fetch(t, newClient(t), ts.URL+"/admin/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := testutil.ParseHTML(t, body)
	require.Equal(t, "Staging", doc.Find(".env-badge").Text())
	require.Equal(t, "Sign in · Portfolio admin", doc.Find("title").Text())
}

func TestAdminSaveRefreshesPublicSite(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := newClient(t)

	resp, body := fetch(t, client, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 0, testutil.ParseHTML(t, body).Find("#work").Length())

	token := signIn(t, client, ts.URL, "/admin")
	created := submit(t, client, ts.URL+"/admin/videos", url.Values{
		"csrf_token": {token},
		"url":        {"https://vimeo.com/76979871"},
		"title":      {"Festival recap"},
	})
	require.Equal(t, http.StatusSeeOther, created.StatusCode)

	resp, body = fetch(t, client, ts.URL+"/admin/videos")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := testutil.ParseHTML(t, body)
	require.Contains(t, list.Find(".flash-warning").Text(), "Saved locally")

	resp, body = fetch(t, client, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	home := testutil.ParseHTML(t, body)
	item := home.Find(`.work-item[data-video="76979871"]`)
	require.Equal(t, 1, item.Length())
	require.Contains(t, item.Text(), "Festival recap")
	require.Contains(t, testutil.Texts(home, ".nav-link"), "Work")

	resp, body = fetch(t, client, ts.URL+"/api/content")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc content.Document
	require.NoError(t, json.Unmarshal(body, &doc))
	require.Len(t, doc.Videos, 1)
}

func TestContactSubmissionReachesAdmin(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t)
	client := newClient(t)

	sent := submit(t, client, ts.URL+"/contact", url.Values{
		"name":    {"Priya"},
		"phone":   {"9876543210"},
		"message": {"Can you cut a wedding film?"},
	})
	require.Equal(t, http.StatusSeeOther, sent.StatusCode)
	require.Equal(t, "/?sent=1#contact", sent.Header.Get("Location"))

	signIn(t, client, ts.URL, "/admin")
	resp, body := fetch(t, client, ts.URL+"/admin/submissions")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := testutil.ParseHTML(t, body)
	require.Equal(t, []string{"Priya"}, testutil.Texts(doc, ".submission-name"))
	require.Equal(t, "1", strings.TrimSpace(doc.Find(".new-count").Text()))
}

func TestCustomBasePath(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.WithBasePath("studio/"))
	client := newClient(t)
	signIn(t, client, ts.URL, "/studio")

	resp, body := fetch(t, client, ts.URL+"/studio/services")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/studio/services/new", testutil.ParseHTML(t, body).Find(`a.btn[href$="/new"]`).AttrOr("href", ""))

	notFound, _ := fetch(t, client, ts.URL+"/admin")
	require.Equal(t, http.StatusNotFound, notFound.StatusCode)
}

func TestCustomLoginPath(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.WithLoginPath("/admin/signin"))
	client := newClient(t)

	resp, _ := fetch(t, client, ts.URL+"/admin/videos")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin/signin?next=%2Fadmin%2Fvideos", resp.Header.Get("Location"))

	resp, body := fetch(t, client, ts.URL+"/admin/signin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := testutil.ParseHTML(t, body)
	require.Equal(t, "/admin/signin", page.Find("#loginForm").AttrOr("action", ""))
	token := csrfToken(t, page)

	login := submit(t, client, ts.URL+"/admin/signin", url.Values{
		"csrf_token": {token},
		"password":   {testutil.TestPassword},
	})
	require.Equal(t, http.StatusSeeOther, login.StatusCode)

	logout := submit(t, client, ts.URL+"/admin/logout", url.Values{"csrf_token": {token}})
	require.Equal(t, http.StatusSeeOther, logout.StatusCode)
	require.Equal(t, "/admin/signin", logout.Header.Get("Location"))
}

func TestLoginDisabledWithoutPassword(t *testing.T) {
	t.Parallel()

	ts := testutil.NewServer(t, testutil.WithPassword(""))
	client := newClient(t)
	resp, body := fetch(t, client, ts.URL+"/admin/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := testutil.ParseHTML(t, body)
	require.Equal(t, 1, doc.Find(".notice-warning").Length())

	login := submit(t, client, ts.URL+"/admin/login", url.Values{
		"csrf_token": {csrfToken(t, doc)},
		"password":   {""},
	})
	require.Equal(t, http.StatusUnauthorized, login.StatusCode)
}
