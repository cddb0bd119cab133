package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Lixing-Zhang/wataburguer/backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator returns canned results
type stubGenerator struct {
	text string
	err  error
	got  string
}

func (s *stubGenerator) Generate(ctx context.Context, productName string) (string, error) {
	s.got = productName
	return s.text, s.err
}

// blockingGenerator waits for its context to end
type blockingGenerator struct{}

func (blockingGenerator) Generate(ctx context.Context, productName string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestAssistant_Describe(t *testing.T) {
	log := logger.New("error")

	tests := []struct {
		name      string
		generator Generator
		want      string
	}{
		{"generated text", &stubGenerator{text: "  Jugosa y ahumada.  "}, "Jugosa y ahumada."},
		{"generator error", &stubGenerator{err: errors.New("quota exceeded")}, FallbackDescription},
		{"empty text", &stubGenerator{text: "   "}, EmptyTextFallback},
		{"no generator", nil, FallbackDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(tt.generator, 0, log)
			assert.Equal(t, tt.want, a.Describe(context.Background(), "Wata-Beast"))
		})
	}
}

func TestAssistant_PassesProductName(t *testing.T) {
	gen := &stubGenerator{text: "ok"}
	New(gen, 0, logger.New("error")).Describe(context.Background(), "Truffle Wata-Fries")
	assert.Equal(t, "Truffle Wata-Fries", gen.got)
}

func TestAssistant_Timeout(t *testing.T) {
	a := New(blockingGenerator{}, 20*time.Millisecond, logger.New("error"))

	start := time.Now()
	got := a.Describe(context.Background(), "Wata-Beast")
	assert.Equal(t, FallbackDescription, got)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestAssistant_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := New(blockingGenerator{}, 0, logger.New("error")).Describe(ctx, "Wata-Beast")
	assert.Equal(t, FallbackDescription, got)
}

func TestClient_Describe(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				var req DescriptionRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(DescriptionResponse{Text: "Crujiente: " + req.ProductName})
			},
			want: "Crujiente: Wata-Fries",
		},
		{
			name: "server error with json body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(DescriptionResponse{Error: "Error interno en la generación"})
			},
			want: EmptyTextFallback,
		},
		{
			name: "non json body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("<html>bad gateway</html>"))
			},
			want: FallbackDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(srv.URL, srv.Client(), logger.New("error"))
			assert.Equal(t, tt.want, c.Describe(context.Background(), "Wata-Fries"))
		})
	}
}

func TestClient_SendsJSONPost(t *testing.T) {
	var method, contentType string
	var body DescriptionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(DescriptionResponse{Text: "ok"})
	}))
	defer srv.Close()

	NewClient(srv.URL, nil, logger.New("error")).Describe(context.Background(), "Wata-Shake")

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "Wata-Shake", body.ProductName)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil, logger.New("error"))
	assert.Equal(t, FallbackDescription, c.Describe(context.Background(), "Wata-Beast"))
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	gen, err := NewGeminiGenerator(context.Background(), "", "gemini-3-flash-preview", "Wataburguer")
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, gen)
}

func TestPrompt(t *testing.T) {
	p := Prompt("Wataburguer", "Wata-Beast Special")
	assert.Contains(t, p, `"Wataburguer"`)
	assert.Contains(t, p, `"Wata-Beast Special"`)
	assert.Contains(t, p, "80 caracteres")
}

func TestPrompt_NameIsNotEscaped(t *testing.T) {
	p := Prompt("Wataburguer", `La "Bestia" \ doble`)
	assert.Contains(t, p, `un plato llamado "La "Bestia" \ doble".`)
	assert.NotContains(t, p, `\"`)
}
