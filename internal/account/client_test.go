package account

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/mhf-auth/internal/errs"
	"github.com/and161185/mhf-auth/internal/model"
)

const loginBody = `{
  "currentTs": 1700000000,
  "expiryTs": 1700086400,
  "entranceCount": 3,
  "notices": [{"flags": 1, "data": "maintenance"}, {"flags": 0, "data": "welcome"}],
  "user": {"tokenId": 42, "token": "0123456789abcdef", "rights": 14},
  "characters": [
    {"id": 100, "name": "Hunter", "isFemale": true, "weapon": 3, "hr": 999, "gr": 50, "lastLogin": 1699990000}
  ],
  "mezFes": {"id": 7, "start": 1, "end": 2, "soloTickets": 5, "groupTickets": 1, "stalls": ["Pachinko"]},
  "patchServer": "http://patch.example"
}`

type recorded struct {
	method string
	path   string
	body   map[string]string
	header http.Header
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var m map[string]string
		_ = json.Unmarshal(raw, &m)
		calls = append(calls, recorded{method: r.Method, path: r.URL.Path, body: m, header: r.Header.Clone()})
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestClient_Login_OK(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, loginBody)
	c := New(srv.URL)

	b, err := c.Login(context.Background(), model.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	require.Len(t, *calls, 1)
	got := (*calls)[0]
	require.Equal(t, http.MethodPost, got.method)
	require.Equal(t, "/login", got.path)
	require.Equal(t, map[string]string{"username": "alice", "password": "pw"}, got.body)
	require.Equal(t, "application/json", got.header.Get("Content-Type"))

	_, err = uuid.FromString(got.header.Get(RequestIDHeader))
	require.NoError(t, err, "request id must be a uuid")

	require.Equal(t, uint32(42), b.User.TokenID)
	require.Equal(t, "0123456789abcdef", b.User.Token)
	require.Equal(t, uint32(3), b.EntranceCount)
	require.Equal(t, []model.Notice{{Flags: 1, Data: "maintenance"}, {Flags: 0, Data: "welcome"}}, b.Notices)
	require.Equal(t, []uint32{100}, b.CharacterIDs())
	require.True(t, b.Characters[0].IsFemale)
	require.Equal(t, []string{"Pachinko"}, b.MezFes.Stalls)
}

func TestClient_Register_UsesRegisterPath(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, loginBody)
	c := New(srv.URL + "/")

	_, err := c.Register(context.Background(), model.Credentials{Username: "bob", Password: "x"})
	require.NoError(t, err)
	require.Equal(t, "/register", (*calls)[0].path)
}

func TestClient_Login_NonSuccess(t *testing.T) {
	srv, calls := newServer(t, http.StatusUnauthorized, "bad password")
	c := New(srv.URL)

	_, err := c.Login(context.Background(), model.Credentials{Username: "a", Password: "b"})
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrAuthenticationFailed)
	require.ErrorIs(t, err, errs.ErrServer)
	require.NotErrorIs(t, err, errs.ErrCharacterCreationFailed)

	var se *errs.StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusUnauthorized, se.Code)
	require.Equal(t, "bad password", se.Body)
	require.Contains(t, err.Error(), "bad password")
	require.Len(t, *calls, 1, "no retries")
}

func TestClient_Login_Malformed(t *testing.T) {
	const (
		user   = `{"tokenId":1,"token":"0123456789abcdef","rights":0}`
		char   = `{"id":1,"name":"x","isFemale":false,"weapon":0,"hr":1,"gr":0,"lastLogin":0}`
		mezFes = `{"id":1,"start":0,"end":0,"soloTickets":0,"groupTickets":0,"stalls":[]}`
	)
	bundle := func(n, u, cs, mf string) string {
		return `{"currentTs":1,"expiryTs":1,"entranceCount":1,"notices":` + n +
			`,"user":` + u + `,"characters":` + cs + `,"mezFes":` + mf + `,"patchServer":""}`
	}

	// sanity: the building blocks form a valid response
	srv, _ := newServer(t, http.StatusOK, bundle(`[]`, user, `[`+char+`]`, mezFes))
	_, err := New(srv.URL).Login(context.Background(), model.Credentials{})
	require.NoError(t, err)

	cases := map[string]string{
		"not json":           "<html>oops</html>",
		"wrong type":         `{"currentTs": "yesterday"}`,
		"missing user":       `{"currentTs":1,"expiryTs":1,"entranceCount":1,"notices":[],"characters":[],"mezFes":` + mezFes + `,"patchServer":""}`,
		"null notices":       bundle(`null`, user, `[]`, mezFes),
		"array at root":      `[]`,
		"empty user":         bundle(`[]`, `{}`, `[]`, mezFes),
		"user without token": bundle(`[]`, `{"tokenId":1,"rights":0}`, `[]`, mezFes),
		"null token":         bundle(`[]`, `{"tokenId":1,"token":null,"rights":0}`, `[]`, mezFes),
		"empty notice":       bundle(`[{}]`, user, `[]`, mezFes),
		"character no id":    bundle(`[]`, user, `[{"name":"x","isFemale":false,"weapon":0,"hr":1,"gr":0,"lastLogin":0}]`, mezFes),
		"null character":     bundle(`[]`, user, `[null]`, mezFes),
		"null stalls":        bundle(`[]`, user, `[]`, `{"id":1,"start":0,"end":0,"soloTickets":0,"groupTickets":0,"stalls":null}`),
		"empty mezFes":       bundle(`[]`, user, `[]`, `{}`),
		"miscased token":     bundle(`[]`, `{"tokenId":1,"token":"0123456789abcdef","Token":"zzzzzzzzzzzzzzzz","rights":0}`, `[]`, mezFes),
		"miscased id":        bundle(`[]`, user, `[{"ID":5,"id":1,"name":"x","isFemale":false,"weapon":0,"hr":1,"gr":0,"lastLogin":0}]`, mezFes),
		"miscased root key":  `{"CurrentTs":9,"currentTs":1,"expiryTs":1,"entranceCount":1,"notices":[],"user":` + user + `,"characters":[],"mezFes":` + mezFes + `,"patchServer":""}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := newServer(t, http.StatusOK, body)
			_, err := New(srv.URL).Login(context.Background(), model.Credentials{})
			require.ErrorIs(t, err, errs.ErrMalformedResponse)
		})
	}
}

func TestClient_Login_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Login(context.Background(), model.Credentials{Username: "a"})
	require.ErrorIs(t, err, errs.ErrNetwork)
	require.Contains(t, err.Error(), url+"/login")
}

func TestClient_CreateCharacter(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK,
		`{"id": 7, "name": "Newbie", "isFemale": false, "weapon": 0, "hr": 1, "gr": 0, "lastLogin": 0}`)
	c := New(srv.URL)

	ch, err := c.CreateCharacter(context.Background(), "0123456789abcdef")
	require.NoError(t, err)
	require.Equal(t, "/character/create", (*calls)[0].path)
	require.Equal(t, map[string]string{"token": "0123456789abcdef"}, (*calls)[0].body)
	require.Equal(t, uint32(7), ch.ID)
	require.Equal(t, "Newbie", ch.Name)
	require.True(t, ch.NeverLoggedIn())
}

func TestClient_CreateCharacter_Failures(t *testing.T) {
	srv, _ := newServer(t, http.StatusInternalServerError, "db down")
	_, err := New(srv.URL).CreateCharacter(context.Background(), "t")
	require.ErrorIs(t, err, errs.ErrCharacterCreationFailed)
	require.NotErrorIs(t, err, errs.ErrAuthenticationFailed)
	require.Contains(t, err.Error(), "db down")

	malformed := map[string]string{
		"partial":     `{"id": 1}`,
		"null name":   `{"id":1,"name":null,"isFemale":false,"weapon":0,"hr":1,"gr":0,"lastLogin":0}`,
		"miscased id": `{"ID":7,"name":"x","isFemale":false,"weapon":0,"hr":1,"gr":0,"lastLogin":0}`,
		"null body":   `null`,
	}
	for name, body := range malformed {
		t.Run(name, func(t *testing.T) {
			srv, _ := newServer(t, http.StatusOK, body)
			_, err := New(srv.URL).CreateCharacter(context.Background(), "t")
			require.ErrorIs(t, err, errs.ErrMalformedResponse)
			require.NotErrorIs(t, err, errs.ErrServer)
		})
	}
}

func TestClient_WithHTTPClient_WrapsTransport(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, loginBody)
	var seen string
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.Header.Get(RequestIDHeader)
		return http.DefaultTransport.RoundTrip(r)
	})}

	_, err := New(srv.URL, WithHTTPClient(hc)).Login(context.Background(), model.Credentials{})
	require.NoError(t, err)
	require.NotEmpty(t, seen)
	require.Equal(t, seen, (*calls)[0].header.Get(RequestIDHeader))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
