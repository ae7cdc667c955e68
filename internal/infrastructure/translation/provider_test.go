package translation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestProviderCode(t *testing.T) {
	assert.Equal(t, "zh-CN", ProviderCode("zh"))
	assert.Equal(t, "zh-TW", ProviderCode("ZH-TW"))
	assert.Equal(t, "fr", ProviderCode(" fr "))
	assert.Equal(t, "xx", ProviderCode("xx"))
}

func TestMyMemoryProviderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Hello", r.URL.Query().Get("q"))
		assert.Equal(t, "en|fr", r.URL.Query().Get("langpair"))
		assert.Equal(t, "ops@example.com", r.URL.Query().Get("de"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"responseData":{"translatedText":"Bonjour"},"responseStatus":200}`))
	}))
	defer srv.Close()

	p := NewMyMemoryProvider("ops@example.com").WithBaseURL(srv.URL)
	out, err := p.Translate(context.Background(), "Hello", "en", "fr")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)
}

func TestMyMemoryProviderQuotaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseData":{"translatedText":"MYMEMORY WARNING"},"responseStatus":"429","responseDetails":"quota"}`))
	}))
	defer srv.Close()

	p := NewMyMemoryProvider("").WithBaseURL(srv.URL)
	_, err := p.Translate(context.Background(), "Hello", "en", "fr")
	assert.Error(t, err)
}

func TestMyMemoryProviderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewMyMemoryProvider("").WithBaseURL(srv.URL)
	_, err := p.Translate(context.Background(), "Hello", "en", "fr")
	assert.Error(t, err)
}

func TestGoogleProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "de", r.URL.Query().Get("target"))
		assert.Equal(t, "en", r.URL.Query().Get("source"))
		assert.Equal(t, "text", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"translations":[{"translatedText":"Guten Tag & willkommen, schreib &lt; statt <"}]}}`))
	}))
	defer srv.Close()

	p, err := NewGoogleProvider(context.Background(), "",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	out, err := p.Translate(context.Background(), "Good day & welcome, write &lt; not <", "en", "de")
	require.NoError(t, err)
	assert.Equal(t, "Guten Tag & willkommen, schreib &lt; statt <", out)
}
