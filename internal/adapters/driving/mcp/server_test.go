package mcp

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil chat service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{}, "1.0.0")
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingChatService)
	})

	t.Run("chat only creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Chat: &mockChatService{}}, "")
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("all ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Chat:      &mockChatService{},
			Documents: &mockDocumentService{},
		}, "1.0.0")
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingChatService)
	assert.NoError(t, (&Ports{Chat: &mockChatService{}}).Validate())
}

func TestServer_HandlerRejectsMalformedRequest(t *testing.T) {
	server, err := NewServer(&Ports{Chat: &mockChatService{}}, "1.0.0")
	require.NoError(t, err)

	srv := httptest.NewServer(server.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(`not json`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.GreaterOrEqual(t, resp.StatusCode, 400)
}

func TestServer_RunHTTPStopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Chat: &mockChatService{}}, "1.0.0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, server.RunHTTP(ctx, "127.0.0.1:0"))
}

func TestServer_RunHTTPAddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	server, err := NewServer(&Ports{Chat: &mockChatService{}}, "1.0.0")
	require.NoError(t, err)

	assert.Error(t, server.RunHTTP(context.Background(), ln.Addr().String()))
}
