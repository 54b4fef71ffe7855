package experience_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hapsoo-labs/brewgate/experience"
	"github.com/hapsoo-labs/brewgate/gateway"
	"github.com/hapsoo-labs/brewgate/session/storefakes"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	baseURL string
}

func (c testConfig) GetBaseURL() string               { return c.baseURL }
func (c testConfig) GetRequestTimeout() time.Duration { return 2 * time.Second }

func newClient(t *testing.T, handler http.HandlerFunc) *experience.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gw, err := gateway.New(testConfig{baseURL: server.URL}, storefakes.NewFakeStore())
	require.NoError(t, err)
	return experience.New(gw)
}

func testForm() experience.Form {
	return experience.Form{
		Name:        "Brewery tour",
		Place:       "Main hall",
		Detail:      "Tasting of five brews",
		OriginPrice: 25000,
		TimeUnit:    90,
		MaxCount:    12,
	}
}

func TestRegisterSendsFormAndCoverImage(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/brewery-priv/joy-add", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		require.Equal(t, "Brewery tour", r.FormValue("name"))
		require.Equal(t, "25000", r.FormValue("origin_price"))
		require.Equal(t, "90", r.FormValue("time_unit"))
		require.Equal(t, "12", r.FormValue("max_count"))

		_, header, err := r.FormFile("image")
		require.NoError(t, err)
		require.Equal(t, "cover.jpg", header.Filename)

		_, _ = w.Write([]byte(`{"status":200,"message":"experience registered"}`))
	})

	message, err := client.Register(context.Background(), testForm(),
		gateway.FormFile{Name: "cover.jpg", Reader: strings.NewReader("jpg")})
	require.NoError(t, err)
	require.Equal(t, "experience registered", message)
}

func TestUpdateWithoutImageKeepsCurrentOne(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/brewery-priv/joy-update", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		require.Equal(t, "17", r.FormValue("joy_id"))
		_, _, err := r.FormFile("image")
		require.Error(t, err) // no image part sent

		_, _ = w.Write([]byte(`{"status":200,"message":"experience updated"}`))
	})

	message, err := client.Update(context.Background(), 17, testForm(), nil)
	require.NoError(t, err)
	require.Equal(t, "experience updated", message)
}

func TestDeleteAndRestorePaths(t *testing.T) {
	var gotMethod, gotPath string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		_, _ = w.Write([]byte(`{"status":200,"message":"done"}`))
	})

	_, err := client.Delete(context.Background(), 17)
	require.NoError(t, err)
	require.Equal(t, http.MethodDelete, gotMethod)
	require.Equal(t, "/api/brewery-priv/joy/17", gotPath)

	_, err = client.Restore(context.Background(), 17)
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/api/brewery-priv/joy-restore/17", gotPath)
}
